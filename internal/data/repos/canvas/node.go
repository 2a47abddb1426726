package canvas

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/filecanvas/filecanvas-backend/internal/domain"
	"github.com/filecanvas/filecanvas-backend/internal/platform/dbctx"
	"github.com/filecanvas/filecanvas-backend/internal/platform/logger"
)

type NodeRepo interface {
	Create(dbc dbctx.Context, rows []*types.FileSystemNode) ([]*types.FileSystemNode, error)

	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.FileSystemNode, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.FileSystemNode, error)

	ListByProject(dbc dbctx.Context, projectID uuid.UUID) ([]*types.FileSystemNode, error)
	ListChildren(dbc dbctx.Context, projectID uuid.UUID, parentID *uuid.UUID) ([]*types.FileSystemNode, error)
	FindSibling(dbc dbctx.Context, projectID uuid.UUID, parentID *uuid.UUID, name string) (*types.FileSystemNode, error)
	Search(dbc dbctx.Context, query string, projectID *uuid.UUID, limit int) ([]*types.FileSystemNode, error)

	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error

	SoftDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
	SoftDeleteByProject(dbc dbctx.Context, projectID uuid.UUID) error
	FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
	FullDeleteByProject(dbc dbctx.Context, projectID uuid.UUID) error

	CountAll(dbc dbctx.Context) (int64, error)
	CountByProject(dbc dbctx.Context, projectID uuid.UUID) (int64, error)
	CountByKind(dbc dbctx.Context, kind string) (int64, error)
	SumFileSizes(dbc dbctx.Context) (int64, error)
}

type nodeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNodeRepo(db *gorm.DB, baseLog *logger.Logger) NodeRepo {
	return &nodeRepo{db: db, log: baseLog.With("repo", "NodeRepo")}
}

func (r *nodeRepo) Create(dbc dbctx.Context, rows []*types.FileSystemNode) ([]*types.FileSystemNode, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.FileSystemNode{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *nodeRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.FileSystemNode, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.FileSystemNode
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *nodeRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.FileSystemNode, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *nodeRepo) ListByProject(dbc dbctx.Context, projectID uuid.UUID) ([]*types.FileSystemNode, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.FileSystemNode
	if projectID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *nodeRepo) ListChildren(dbc dbctx.Context, projectID uuid.UUID, parentID *uuid.UUID) ([]*types.FileSystemNode, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.FileSystemNode
	if projectID == uuid.Nil {
		return out, nil
	}
	q := t.WithContext(dbc.Ctx).Where("project_id = ?", projectID)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *nodeRepo) FindSibling(dbc dbctx.Context, projectID uuid.UUID, parentID *uuid.UUID, name string) (*types.FileSystemNode, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if projectID == uuid.Nil || name == "" {
		return nil, nil
	}
	q := t.WithContext(dbc.Ctx).Where("project_id = ? AND name = ?", projectID, name)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	var out []*types.FileSystemNode
	if err := q.Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

// Search matches node names and file content case-insensitively by
// substring. LIKE wildcards in the query are escaped so they match
// literally; the explicit ESCAPE clause keeps the statement portable across
// postgres and sqlite.
func (r *nodeRepo) Search(dbc dbctx.Context, query string, projectID *uuid.UUID, limit int) ([]*types.FileSystemNode, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.FileSystemNode
	query = strings.TrimSpace(query)
	if query == "" {
		return out, nil
	}
	pattern := "%" + escapeLike(query) + "%"
	q := t.WithContext(dbc.Ctx).
		Where(`(LOWER(name) LIKE LOWER(?) ESCAPE '\' OR LOWER(content) LIKE LOWER(?) ESCAPE '\')`, pattern, pattern)
	if projectID != nil {
		q = q.Where("project_id = ?", *projectID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *nodeRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.FileSystemNode{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *nodeRepo) SoftDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Where("id IN ?", ids).Delete(&types.FileSystemNode{}).Error
}

func (r *nodeRepo) SoftDeleteByProject(dbc dbctx.Context, projectID uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if projectID == uuid.Nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Where("project_id = ?", projectID).
		Delete(&types.FileSystemNode{}).Error
}

func (r *nodeRepo) FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Unscoped().Where("id IN ?", ids).Delete(&types.FileSystemNode{}).Error
}

func (r *nodeRepo) FullDeleteByProject(dbc dbctx.Context, projectID uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if projectID == uuid.Nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Unscoped().
		Where("project_id = ?", projectID).
		Delete(&types.FileSystemNode{}).Error
}

func (r *nodeRepo) CountAll(dbc dbctx.Context) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(dbc.Ctx).Model(&types.FileSystemNode{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *nodeRepo) CountByProject(dbc dbctx.Context, projectID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if projectID == uuid.Nil {
		return 0, nil
	}
	var n int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.FileSystemNode{}).
		Where("project_id = ?", projectID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *nodeRepo) CountByKind(dbc dbctx.Context, kind string) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if kind == "" {
		return 0, nil
	}
	var n int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.FileSystemNode{}).
		Where("kind = ?", kind).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *nodeRepo) SumFileSizes(dbc dbctx.Context) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var total int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.FileSystemNode{}).
		Where("kind = ?", types.NodeKindFile).
		Select("COALESCE(SUM(size_bytes), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
