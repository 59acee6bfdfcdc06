package dto

import (
	"time"

	"posyandu_backend/internals/features/contents/sub_materis/model"
)

// ============================
// Response DTO
// ============================

type SubMateriDTO struct {
	SubMateriID         string    `json:"sub_materi_id"`
	SubMateriModuleID   string    `json:"sub_materi_module_id"`
	SubMateriTitle      string    `json:"sub_materi_title"`
	SubMateriContent    string    `json:"sub_materi_content"`
	SubMateriOrderIndex int       `json:"sub_materi_order_index"`
	SubMateriPublished  bool      `json:"sub_materi_published"`
	SubMateriCreatedAt  time.Time `json:"sub_materi_created_at"`
	SubMateriUpdatedAt  time.Time `json:"sub_materi_updated_at"`
}

// ============================
// Create & Update Request DTO
// ============================

type CreateSubMateriRequest struct {
	SubMateriModuleID   string `json:"sub_materi_module_id" validate:"required,uuid"`
	SubMateriTitle      string `json:"sub_materi_title" validate:"required,min=3,max=255"`
	SubMateriContent    string `json:"sub_materi_content"`
	SubMateriOrderIndex int    `json:"sub_materi_order_index" validate:"gte=0"`
	SubMateriPublished  bool   `json:"sub_materi_published"`
}

type UpdateSubMateriRequest struct {
	SubMateriTitle      string  `json:"sub_materi_title" validate:"omitempty,min=3,max=255"`
	SubMateriContent    *string `json:"sub_materi_content"`
	SubMateriOrderIndex *int    `json:"sub_materi_order_index" validate:"omitempty,gte=0"`
	SubMateriPublished  *bool   `json:"sub_materi_published"`
}

// ============================
// Converter
// ============================

func ToSubMateriDTO(m model.SubMateriModel) SubMateriDTO {
	return SubMateriDTO{
		SubMateriID:         m.SubMateriID.String(),
		SubMateriModuleID:   m.SubMateriModuleID.String(),
		SubMateriTitle:      m.SubMateriTitle,
		SubMateriContent:    m.SubMateriContent,
		SubMateriOrderIndex: m.SubMateriOrderIndex,
		SubMateriPublished:  m.SubMateriPublished,
		SubMateriCreatedAt:  m.SubMateriCreatedAt,
		SubMateriUpdatedAt:  m.SubMateriUpdatedAt,
	}
}
