package db

import (
	"fmt"

	types "github.com/filecanvas/filecanvas-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.Project{},
		&types.FileSystemNode{},
	)
}

// EnsureNodeIndexes creates the indexes AutoMigrate cannot express. The
// partial unique index backs the sibling-name rule for concurrent writers;
// uniqueness among same-named roots (parent_id NULL) is enforced in the
// service layer since NULLs never collide in a unique index.
func EnsureNodeIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_file_system_node_sibling_name
		ON file_system_node(project_id, parent_id, name)
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_file_system_node_sibling_name: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_file_system_node_project_created
		ON file_system_node(project_id, created_at);
	`).Error; err != nil {
		return fmt.Errorf("create idx_file_system_node_project_created: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_file_system_node_project_parent
		ON file_system_node(project_id, parent_id);
	`).Error; err != nil {
		return fmt.Errorf("create idx_file_system_node_project_parent: %w", err)
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureNodeIndexes(s.db); err != nil {
		s.log.Error("Node index migration failed", "error", err)
		return err
	}
	return nil
}
