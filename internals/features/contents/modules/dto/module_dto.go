package dto

import (
	"time"

	"gorm.io/datatypes"

	"posyandu_backend/internals/features/contents/modules/model"
	subMateriModel "posyandu_backend/internals/features/contents/sub_materis/model"
)

// ============================
// Response DTO
// ============================

type ModuleDTO struct {
	ModuleID              string         `json:"module_id"`
	ModuleTitle           string         `json:"module_title"`
	ModuleSlug            string         `json:"module_slug"`
	ModuleDescription     string         `json:"module_description"`
	ModulePublished       bool           `json:"module_published"`
	ModuleDurationMinutes int            `json:"module_duration_minutes"`
	ModuleTotalLessons    int            `json:"module_total_lessons"`
	ModuleMeta            datatypes.JSON `json:"module_meta,omitempty"`
	ModuleCreatedAt       time.Time      `json:"module_created_at"`
	ModuleUpdatedAt       time.Time      `json:"module_updated_at"`
}

type SubMateriSummaryDTO struct {
	SubMateriID         string `json:"sub_materi_id"`
	SubMateriTitle      string `json:"sub_materi_title"`
	SubMateriOrderIndex int    `json:"sub_materi_order_index"`
	SubMateriPublished  bool   `json:"sub_materi_published"`
}

type ModuleDetailDTO struct {
	ModuleDTO
	SubMateris []SubMateriSummaryDTO `json:"sub_materis"`
}

// ============================
// Create & Update Request DTO
// ============================

type CreateModuleRequest struct {
	ModuleTitle           string         `json:"module_title" validate:"required,min=3,max=255"`
	ModuleDescription     string         `json:"module_description"`
	ModulePublished       bool           `json:"module_published"`
	ModuleDurationMinutes int            `json:"module_duration_minutes" validate:"gte=0"`
	ModuleTotalLessons    int            `json:"module_total_lessons" validate:"gte=0"`
	ModuleMeta            datatypes.JSON `json:"module_meta"`
}

type UpdateModuleRequest struct {
	ModuleTitle           string         `json:"module_title" validate:"omitempty,min=3,max=255"`
	ModuleDescription     *string        `json:"module_description"`
	ModulePublished       *bool          `json:"module_published"`
	ModuleDurationMinutes *int           `json:"module_duration_minutes" validate:"omitempty,gte=0"`
	ModuleTotalLessons    *int           `json:"module_total_lessons" validate:"omitempty,gte=0"`
	ModuleMeta            datatypes.JSON `json:"module_meta"`
}

// ============================
// Converter
// ============================

func ToModuleDTO(m model.ModuleModel) ModuleDTO {
	return ModuleDTO{
		ModuleID:              m.ModuleID.String(),
		ModuleTitle:           m.ModuleTitle,
		ModuleSlug:            m.ModuleSlug,
		ModuleDescription:     m.ModuleDescription,
		ModulePublished:       m.ModulePublished,
		ModuleDurationMinutes: m.ModuleDurationMinutes,
		ModuleTotalLessons:    m.ModuleTotalLessons,
		ModuleMeta:            m.ModuleMeta,
		ModuleCreatedAt:       m.ModuleCreatedAt,
		ModuleUpdatedAt:       m.ModuleUpdatedAt,
	}
}

func ToModuleDTOs(ms []model.ModuleModel) []ModuleDTO {
	out := make([]ModuleDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToModuleDTO(m))
	}
	return out
}

func ToSubMateriSummaryDTOs(ms []subMateriModel.SubMateriModel) []SubMateriSummaryDTO {
	out := make([]SubMateriSummaryDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, SubMateriSummaryDTO{
			SubMateriID:         m.SubMateriID.String(),
			SubMateriTitle:      m.SubMateriTitle,
			SubMateriOrderIndex: m.SubMateriOrderIndex,
			SubMateriPublished:  m.SubMateriPublished,
		})
	}
	return out
}
