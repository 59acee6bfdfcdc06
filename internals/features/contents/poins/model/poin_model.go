package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PoinDetailModel: unit konten terkecil, satuan pelacakan penyelesaian.
type PoinDetailModel struct {
	PoinID              uuid.UUID `gorm:"column:poin_id;type:uuid;default:gen_random_uuid();primaryKey" json:"poin_id"`
	PoinSubMateriID     uuid.UUID `gorm:"column:poin_sub_materi_id;type:uuid;not null;index" json:"poin_sub_materi_id"`
	PoinTitle           string    `gorm:"column:poin_title;type:varchar(255);not null" json:"poin_title"`
	PoinContentHTML     string    `gorm:"column:poin_content_html;type:text" json:"poin_content_html"`
	PoinOrderIndex      int       `gorm:"column:poin_order_index;not null;default:0" json:"poin_order_index"`
	PoinDurationMinutes int       `gorm:"column:poin_duration_minutes;default:0" json:"poin_duration_minutes"`

	PoinCreatedAt time.Time `gorm:"column:poin_created_at;autoCreateTime" json:"poin_created_at"`
	PoinUpdatedAt time.Time `gorm:"column:poin_updated_at;autoUpdateTime" json:"poin_updated_at"`
}

func (m *PoinDetailModel) BeforeCreate(tx *gorm.DB) error {
	if m.PoinID == uuid.Nil {
		m.PoinID = uuid.New()
	}
	return nil
}

func (PoinDetailModel) TableName() string {
	return "poin_details"
}
