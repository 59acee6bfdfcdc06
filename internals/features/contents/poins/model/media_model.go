package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MediaModel: pointer + metadata ke objek di object storage.
// Menghapus row DB tidak menjamin objeknya ikut terhapus (best-effort).
type MediaModel struct {
	MediaID               uuid.UUID `gorm:"column:media_id;type:uuid;default:gen_random_uuid();primaryKey" json:"media_id"`
	MediaPoinID           uuid.UUID `gorm:"column:media_poin_id;type:uuid;not null;index" json:"media_poin_id"`
	MediaType             string    `gorm:"column:media_type;type:varchar(20);not null" json:"media_type"`
	MediaURL              string    `gorm:"column:media_url;type:text;not null" json:"media_url"`
	MediaCaption          string    `gorm:"column:media_caption;type:text" json:"media_caption"`
	MediaOrderIndex       int       `gorm:"column:media_order_index;not null;default:0" json:"media_order_index"`
	MediaOriginalFilename string    `gorm:"column:media_original_filename;type:varchar(255)" json:"media_original_filename"`
	MediaMimeType         string    `gorm:"column:media_mime_type;type:varchar(100)" json:"media_mime_type"`
	MediaFileSize         int64     `gorm:"column:media_file_size;default:0" json:"media_file_size"`

	MediaCreatedAt time.Time `gorm:"column:media_created_at;autoCreateTime" json:"media_created_at"`
	MediaUpdatedAt time.Time `gorm:"column:media_updated_at;autoUpdateTime" json:"media_updated_at"`
}

func (m *MediaModel) BeforeCreate(tx *gorm.DB) error {
	if m.MediaID == uuid.Nil {
		m.MediaID = uuid.New()
	}
	return nil
}

func (MediaModel) TableName() string {
	return "poin_media"
}
