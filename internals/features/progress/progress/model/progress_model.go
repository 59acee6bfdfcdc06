package model

import (
	"time"

	"github.com/google/uuid"
)

// Tiga granularitas ledger penyelesaian per user.
// Satu skema kanonik per granularitas; key natural (user_id, content_id).

type UserPoinProgressModel struct {
	UserPoinProgressID uint      `gorm:"column:user_poin_progress_id;primaryKey" json:"user_poin_progress_id"`
	UserID             uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_user_poin" json:"user_id"`
	PoinID             uuid.UUID `gorm:"column:poin_id;type:uuid;not null;uniqueIndex:uq_user_poin" json:"poin_id"`

	// Identitas konten di-assert oleh caller, tidak diverifikasi ulang
	// terhadap hierarki (trust boundary yang disengaja).
	SubMateriID uuid.UUID `gorm:"column:sub_materi_id;type:uuid;not null;index" json:"sub_materi_id"`
	ModuleID    uuid.UUID `gorm:"column:module_id;type:uuid;not null;index" json:"module_id"`

	IsCompleted bool       `gorm:"column:is_completed;not null;default:false" json:"is_completed"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UserPoinProgressModel) TableName() string {
	return "user_poin_progress"
}

type UserSubMateriProgressModel struct {
	UserSubMateriProgressID uint      `gorm:"column:user_sub_materi_progress_id;primaryKey" json:"user_sub_materi_progress_id"`
	UserID                  uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_user_sub_materi" json:"user_id"`
	SubMateriID             uuid.UUID `gorm:"column:sub_materi_id;type:uuid;not null;uniqueIndex:uq_user_sub_materi" json:"sub_materi_id"`
	ModuleID                uuid.UUID `gorm:"column:module_id;type:uuid;not null;index" json:"module_id"`

	IsCompleted        bool       `gorm:"column:is_completed;not null;default:false" json:"is_completed"`
	ProgressPercentage float64    `gorm:"column:progress_percentage;not null;default:0" json:"progress_percentage"`
	CompletedAt        *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UserSubMateriProgressModel) TableName() string {
	return "user_sub_materi_progress"
}

type UserModuleProgressModel struct {
	UserModuleProgressID uint      `gorm:"column:user_module_progress_id;primaryKey" json:"user_module_progress_id"`
	UserID               uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_user_module" json:"user_id"`
	ModuleID             uuid.UUID `gorm:"column:module_id;type:uuid;not null;uniqueIndex:uq_user_module" json:"module_id"`

	// progress_percentage & is_completed TIDAK dihitung server-side pada
	// rollup; nilainya datang dari caller kalau dikirim. Server hanya
	// memelihara completed_sub_materi_count dan updated_at.
	IsCompleted            bool    `gorm:"column:is_completed;not null;default:false" json:"is_completed"`
	ProgressPercentage     float64 `gorm:"column:progress_percentage;not null;default:0" json:"progress_percentage"`
	CompletedSubMateriCount int    `gorm:"column:completed_sub_materi_count;not null;default:0" json:"completed_sub_materi_count"`

	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UserModuleProgressModel) TableName() string {
	return "user_module_progress"
}
