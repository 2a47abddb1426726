package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/filecanvas/filecanvas-backend/internal/platform/apierr"
)

// classifyStorageErr maps raw storage failures onto the API error taxonomy.
// Errors that already carry a status and code pass through unchanged, so a
// service can return apierr values from inside a transaction callback and
// still classify everything else at the boundary.
func classifyStorageErr(err error) error {
	if err == nil {
		return nil
	}
	if ae, ok := apierr.From(err); ok {
		return ae
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		code := strings.TrimSpace(pgErr.Code)
		switch {
		case code == "23505":
			return apierr.New(http.StatusConflict, "duplicate_node_name", err)
		case strings.HasPrefix(code, "08"), code == "53300", code == "57P01":
			return apierr.New(http.StatusServiceUnavailable, "storage_unavailable", err)
		}
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apierr.New(http.StatusNotFound, "node_not_found", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apierr.New(http.StatusServiceUnavailable, "storage_unavailable", err)
	}

	// Driver-agnostic fallback: sqlite reports constraint and availability
	// faults as plain error strings.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint"), strings.Contains(msg, "duplicate key"):
		return apierr.New(http.StatusConflict, "duplicate_node_name", err)
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "database is locked"):
		return apierr.New(http.StatusServiceUnavailable, "storage_unavailable", err)
	}
	return apierr.New(http.StatusInternalServerError, "internal_error", err)
}
