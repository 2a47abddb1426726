package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project is a canvas workspace. Its nodes live in file_system_node and
// reference it by ProjectID; Settings is an opaque client blob
// (theme/layout/autosave) the server stores without interpreting.
type Project struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Name        string `gorm:"type:text;not null;index" json:"name"`
	Description string `gorm:"type:text;not null;default:''" json:"description"`
	Owner       string `gorm:"type:text;not null;default:''" json:"owner"`

	IsActive bool           `gorm:"not null;default:true;index" json:"is_active"`
	Settings datatypes.JSON `gorm:"type:jsonb" json:"settings,omitempty"`

	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Project) TableName() string { return "project" }
