package services

import (
	"gorm.io/gorm"

	"github.com/filecanvas/filecanvas-backend/internal/platform/dbctx"
)

// inTx runs fn inside the caller's transaction when dbc already carries one,
// otherwise it opens a transaction on db. Callers that need post-commit work
// (notifications) must gate it on dbc.Tx == nil: when the caller owns the
// transaction, commit has not happened yet by the time fn returns.
func inTx(db *gorm.DB, dbc dbctx.Context, fn func(dbc dbctx.Context) error) error {
	if dbc.Tx != nil {
		return fn(dbc)
	}
	return db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbc.WithTx(tx))
	})
}
