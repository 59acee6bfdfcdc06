package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ModuleModel: akar hierarki konten (Module → SubMateri → PoinDetail → Media).
type ModuleModel struct {
	ModuleID              uuid.UUID      `gorm:"column:module_id;type:uuid;default:gen_random_uuid();primaryKey" json:"module_id"`
	ModuleTitle           string         `gorm:"column:module_title;type:varchar(255);not null" json:"module_title"`
	ModuleSlug            string         `gorm:"column:module_slug;type:varchar(160);unique;not null" json:"module_slug"`
	ModuleDescription     string         `gorm:"column:module_description;type:text" json:"module_description"`
	ModulePublished       bool           `gorm:"column:module_published;not null;default:false" json:"module_published"`
	ModuleDurationMinutes int            `gorm:"column:module_duration_minutes;default:0" json:"module_duration_minutes"`
	ModuleTotalLessons    int            `gorm:"column:module_total_lessons;default:0" json:"module_total_lessons"`
	ModuleMeta            datatypes.JSON `gorm:"column:module_meta" json:"module_meta,omitempty"`

	ModuleCreatedAt time.Time `gorm:"column:module_created_at;autoCreateTime" json:"module_created_at"`
	ModuleUpdatedAt time.Time `gorm:"column:module_updated_at;autoUpdateTime" json:"module_updated_at"`
}

func (m *ModuleModel) BeforeCreate(tx *gorm.DB) error {
	if m.ModuleID == uuid.Nil {
		m.ModuleID = uuid.New()
	}
	return nil
}

func (ModuleModel) TableName() string {
	return "modules"
}
