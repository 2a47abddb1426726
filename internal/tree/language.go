package tree

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed languages.yaml
var languagesYAML []byte

// LanguageFallback is returned for names whose extension is not in the table.
const LanguageFallback = "plaintext"

var (
	langOnce    sync.Once
	langByToken map[string]string
)

// LanguageForName maps a file name to a language tag. Whole-name entries
// ("makefile", "dockerfile") win over extension entries; unknown names
// resolve to LanguageFallback. The built-in table is the embedded
// languages.yaml; if LANGUAGE_MAP_PATH names a readable YAML file its
// entries are merged on top, best effort.
func LanguageForName(name string) string {
	table := languageTable()

	base := strings.ToLower(strings.TrimSpace(filepath.Base(name)))
	if lang, ok := table[base]; ok {
		return lang
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(base)), ".")
	if ext == "" {
		return LanguageFallback
	}
	if lang, ok := table[ext]; ok {
		return lang
	}
	return LanguageFallback
}

func languageTable() map[string]string {
	langOnce.Do(func() {
		langByToken = map[string]string{}
		if err := yaml.Unmarshal(languagesYAML, &langByToken); err != nil {
			langByToken = map[string]string{"txt": LanguageFallback}
		}

		path := strings.TrimSpace(os.Getenv("LANGUAGE_MAP_PATH"))
		if path == "" {
			return
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return
		}
		extra := map[string]string{}
		if err := yaml.Unmarshal(raw, &extra); err != nil {
			return
		}
		for token, lang := range extra {
			langByToken[strings.ToLower(strings.TrimSpace(token))] = lang
		}
	})
	return langByToken
}
