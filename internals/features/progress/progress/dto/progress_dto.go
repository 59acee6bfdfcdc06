package dto

// ============================
// Request DTO
// ============================

type CompletePoinRequest struct {
	ModuleID string `json:"module_id" validate:"required,uuid"`
}

type CompleteSubMateriRequest struct {
	ModuleID string `json:"module_id" validate:"required,uuid"`

	// Rollup module dihitung frontend, server hanya menyimpannya kalau dikirim.
	ModuleProgressPercentage *float64 `json:"module_progress_percentage" validate:"omitempty,gte=0,lte=100"`
	ModuleIsCompleted        *bool    `json:"module_is_completed"`
}
