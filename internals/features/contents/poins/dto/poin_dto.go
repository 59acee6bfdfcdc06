package dto

import (
	"time"

	"posyandu_backend/internals/features/contents/poins/model"
)

type PoinDTO struct {
	PoinID              string    `json:"poin_id"`
	PoinSubMateriID     string    `json:"poin_sub_materi_id"`
	PoinTitle           string    `json:"poin_title"`
	PoinContentHTML     string    `json:"poin_content_html"`
	PoinOrderIndex      int       `json:"poin_order_index"`
	PoinDurationMinutes int       `json:"poin_duration_minutes"`
	PoinCreatedAt       time.Time `json:"poin_created_at"`
	PoinUpdatedAt       time.Time `json:"poin_updated_at"`
}

type MediaDTO struct {
	MediaID               string `json:"media_id"`
	MediaPoinID           string `json:"media_poin_id"`
	MediaType             string `json:"media_type"`
	MediaURL              string `json:"media_url"`
	MediaCaption          string `json:"media_caption"`
	MediaOrderIndex       int    `json:"media_order_index"`
	MediaOriginalFilename string `json:"media_original_filename"`
	MediaMimeType         string `json:"media_mime_type"`
	MediaFileSize         int64  `json:"media_file_size"`
}

// PoinWithMediaDTO menempelkan media terurut + marker progres caller (opsional).
type PoinWithMediaDTO struct {
	PoinDTO
	Media       []MediaDTO `json:"media"`
	IsCompleted *bool      `json:"is_completed,omitempty"`
}

type CreatePoinRequest struct {
	PoinSubMateriID     string `json:"poin_sub_materi_id" validate:"required,uuid"`
	PoinTitle           string `json:"poin_title" validate:"required,min=3,max=255"`
	PoinContentHTML     string `json:"poin_content_html"`
	PoinOrderIndex      int    `json:"poin_order_index" validate:"gte=0"`
	PoinDurationMinutes int    `json:"poin_duration_minutes" validate:"gte=0"`
}

type UpdatePoinRequest struct {
	PoinTitle           string  `json:"poin_title" validate:"omitempty,min=3,max=255"`
	PoinContentHTML     *string `json:"poin_content_html"`
	PoinOrderIndex      *int    `json:"poin_order_index" validate:"omitempty,gte=0"`
	PoinDurationMinutes *int    `json:"poin_duration_minutes" validate:"omitempty,gte=0"`
}

// Hasil fan-out upload media: tiap file sukses/gagal sendiri-sendiri.
type UploadedMediaResult struct {
	Filename string   `json:"filename"`
	Media    MediaDTO `json:"media"`
}

type FailedMediaResult struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

type MediaUploadSummary struct {
	Uploaded []UploadedMediaResult `json:"uploaded"`
	Failed   []FailedMediaResult   `json:"failed"`
}

func ToPoinDTO(m model.PoinDetailModel) PoinDTO {
	return PoinDTO{
		PoinID:              m.PoinID.String(),
		PoinSubMateriID:     m.PoinSubMateriID.String(),
		PoinTitle:           m.PoinTitle,
		PoinContentHTML:     m.PoinContentHTML,
		PoinOrderIndex:      m.PoinOrderIndex,
		PoinDurationMinutes: m.PoinDurationMinutes,
		PoinCreatedAt:       m.PoinCreatedAt,
		PoinUpdatedAt:       m.PoinUpdatedAt,
	}
}

func ToMediaDTO(m model.MediaModel) MediaDTO {
	return MediaDTO{
		MediaID:               m.MediaID.String(),
		MediaPoinID:           m.MediaPoinID.String(),
		MediaType:             m.MediaType,
		MediaURL:              m.MediaURL,
		MediaCaption:          m.MediaCaption,
		MediaOrderIndex:       m.MediaOrderIndex,
		MediaOriginalFilename: m.MediaOriginalFilename,
		MediaMimeType:         m.MediaMimeType,
		MediaFileSize:         m.MediaFileSize,
	}
}

func ToMediaDTOs(ms []model.MediaModel) []MediaDTO {
	out := make([]MediaDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToMediaDTO(m))
	}
	return out
}
