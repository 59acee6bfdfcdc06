package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubMateriModel: unit terurut dalam satu module.
// order_index menentukan urutan gating akses.
type SubMateriModel struct {
	SubMateriID         uuid.UUID `gorm:"column:sub_materi_id;type:uuid;default:gen_random_uuid();primaryKey" json:"sub_materi_id"`
	SubMateriModuleID   uuid.UUID `gorm:"column:sub_materi_module_id;type:uuid;not null;index" json:"sub_materi_module_id"`
	SubMateriTitle      string    `gorm:"column:sub_materi_title;type:varchar(255);not null" json:"sub_materi_title"`
	SubMateriContent    string    `gorm:"column:sub_materi_content;type:text" json:"sub_materi_content"`
	SubMateriOrderIndex int       `gorm:"column:sub_materi_order_index;not null;default:0" json:"sub_materi_order_index"`
	SubMateriPublished  bool      `gorm:"column:sub_materi_published;not null;default:false" json:"sub_materi_published"`

	SubMateriCreatedAt time.Time `gorm:"column:sub_materi_created_at;autoCreateTime" json:"sub_materi_created_at"`
	SubMateriUpdatedAt time.Time `gorm:"column:sub_materi_updated_at;autoUpdateTime" json:"sub_materi_updated_at"`
}

func (m *SubMateriModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubMateriID == uuid.Nil {
		m.SubMateriID = uuid.New()
	}
	return nil
}

func (SubMateriModel) TableName() string {
	return "sub_materis"
}
