package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	subMateriModel "posyandu_backend/internals/features/contents/sub_materis/model"
	"posyandu_backend/internals/features/progress/progress/model"
)

// ErrSubMateriNotFound: target tidak ada ATAU belum dipublish — keduanya 404,
// bukan keputusan gating.
var ErrSubMateriNotFound = errors.New("sub materi tidak ditemukan")

/* ==========================
   Progress Ledger
========================== */

type CompletePoinResult struct {
	Record           model.UserPoinProgressModel
	AlreadyCompleted bool
}

// CompletePoin upsert penyelesaian poin, idempotent pada (user_id, poin_id).
// poin/sub_materi/module ID di-assert caller, tidak diverifikasi ke hierarki.
func CompletePoin(db *gorm.DB, userID, moduleID, subMateriID, poinID uuid.UUID) (CompletePoinResult, error) {
	now := time.Now()
	rec := model.UserPoinProgressModel{
		UserID:      userID,
		PoinID:      poinID,
		SubMateriID: subMateriID,
		ModuleID:    moduleID,
		IsCompleted: true,
		CompletedAt: &now,
	}

	// Insert-or-skip pada natural key: aman terhadap double-tap paralel.
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "poin_id"}},
		DoNothing: true,
	}).Create(&rec)
	if res.Error != nil {
		return CompletePoinResult{}, res.Error
	}

	if res.RowsAffected == 0 {
		// Sudah ada: kembalikan record existing apa adanya.
		var existing model.UserPoinProgressModel
		if err := db.Where("user_id = ? AND poin_id = ?", userID, poinID).
			First(&existing).Error; err != nil {
			return CompletePoinResult{}, err
		}
		return CompletePoinResult{Record: existing, AlreadyCompleted: true}, nil
	}

	return CompletePoinResult{Record: rec}, nil
}

// RollupInput membawa nilai rollup yang dihitung caller (opsional).
// Server tidak menghitung progress_percentage/is_completed level module
// karena tidak tahu total sub-materi otoritatif dari sisi caller.
type RollupInput struct {
	ProgressPercentage *float64
	IsCompleted        *bool
}

// CompleteSubMateri upsert penyelesaian sub-materi (percentage=100), lalu
// sentuh rollup module. Dua langkah ini TIDAK atomic: crash di antaranya
// meninggalkan rollup basi sampai write berikutnya.
func CompleteSubMateri(db *gorm.DB, userID, moduleID, subMateriID uuid.UUID, rollup RollupInput) (model.UserSubMateriProgressModel, error) {
	return completeSubMateriWith(db, userID, moduleID, subMateriID, true, 100, rollup)
}

// RecordSubMateriOutcome dipakai jalur quiz: is_completed mengikuti kelulusan,
// percentage mengikuti skor saat tidak lulus.
func RecordSubMateriOutcome(db *gorm.DB, userID, moduleID, subMateriID uuid.UUID, isCompleted bool, percentage float64, rollup RollupInput) (model.UserSubMateriProgressModel, error) {
	return completeSubMateriWith(db, userID, moduleID, subMateriID, isCompleted, percentage, rollup)
}

func completeSubMateriWith(db *gorm.DB, userID, moduleID, subMateriID uuid.UUID, isCompleted bool, percentage float64, rollup RollupInput) (model.UserSubMateriProgressModel, error) {
	now := time.Now()
	rec := model.UserSubMateriProgressModel{
		UserID:             userID,
		SubMateriID:        subMateriID,
		ModuleID:           moduleID,
		IsCompleted:        isCompleted,
		ProgressPercentage: percentage,
	}
	assign := map[string]interface{}{
		"is_completed":        isCompleted,
		"progress_percentage": percentage,
		"module_id":           moduleID,
		"updated_at":          now,
	}
	if isCompleted {
		rec.CompletedAt = &now
		assign["completed_at"] = now
	}

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "sub_materi_id"}},
		DoUpdates: clause.Assignments(assign),
	}).Create(&rec).Error; err != nil {
		return model.UserSubMateriProgressModel{}, err
	}

	if err := RecomputeModuleRollup(db, userID, moduleID, rollup); err != nil {
		return model.UserSubMateriProgressModel{}, err
	}

	var saved model.UserSubMateriProgressModel
	if err := db.Where("user_id = ? AND sub_materi_id = ?", userID, subMateriID).
		First(&saved).Error; err != nil {
		return model.UserSubMateriProgressModel{}, err
	}
	return saved, nil
}

// RecomputeModuleRollup hitung ulang jumlah sub-materi selesai dan sentuh
// updated_at. Read-then-write tanpa version check: last-write-wins kalau user
// submit bersamaan dari dua device (kelemahan yang diterima).
func RecomputeModuleRollup(db *gorm.DB, userID, moduleID uuid.UUID, rollup RollupInput) error {
	var completedCount int64
	if err := db.Model(&model.UserSubMateriProgressModel{}).
		Where("user_id = ? AND module_id = ? AND is_completed = ?", userID, moduleID, true).
		Count(&completedCount).Error; err != nil {
		return err
	}

	now := time.Now()
	rec := model.UserModuleProgressModel{
		UserID:                  userID,
		ModuleID:                moduleID,
		CompletedSubMateriCount: int(completedCount),
	}
	assign := map[string]interface{}{
		"completed_sub_materi_count": int(completedCount),
		"updated_at":                 now,
	}
	// Hanya nilai kiriman caller yang masuk; server tidak menghitungnya.
	if rollup.ProgressPercentage != nil {
		rec.ProgressPercentage = *rollup.ProgressPercentage
		assign["progress_percentage"] = *rollup.ProgressPercentage
	}
	if rollup.IsCompleted != nil {
		rec.IsCompleted = *rollup.IsCompleted
		assign["is_completed"] = *rollup.IsCompleted
		if *rollup.IsCompleted {
			rec.CompletedAt = &now
			assign["completed_at"] = now
		}
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "module_id"}},
		DoUpdates: clause.Assignments(assign),
	}).Create(&rec).Error
}

// ModuleProgressDetail: rollup module (zero state kalau belum ada) + rincian.
type ModuleProgressDetail struct {
	Module     model.UserModuleProgressModel     `json:"module"`
	SubMateris []model.UserSubMateriProgressModel `json:"sub_materis"`
	Poins      []model.UserPoinProgressModel      `json:"poins"`
}

func GetModuleProgress(db *gorm.DB, userID, moduleID uuid.UUID) (ModuleProgressDetail, error) {
	detail := ModuleProgressDetail{
		Module: model.UserModuleProgressModel{
			UserID:   userID,
			ModuleID: moduleID,
		},
	}

	err := db.Where("user_id = ? AND module_id = ?", userID, moduleID).
		First(&detail.Module).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return detail, err
	}

	if err := db.Where("user_id = ? AND module_id = ?", userID, moduleID).
		Order("updated_at DESC").
		Find(&detail.SubMateris).Error; err != nil {
		return detail, err
	}

	if err := db.Where("user_id = ? AND module_id = ?", userID, moduleID).
		Order("updated_at DESC").
		Find(&detail.Poins).Error; err != nil {
		return detail, err
	}

	return detail, nil
}

func GetUserModulesProgress(db *gorm.DB, userID uuid.UUID) ([]model.UserModuleProgressModel, error) {
	var rows []model.UserModuleProgressModel
	err := db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&rows).Error
	return rows, err
}

/* ==========================
   Access Gate
========================== */

type AccessDecision struct {
	CanAccess bool   `json:"can_access"`
	Reason    string `json:"reason,omitempty"`
}

// CanAccessSubMateri: unlock berurutan ketat — semua sibling published dengan
// order_index lebih kecil harus selesai. Sibling dengan order_index sama
// dianggap tidak berurutan satu sama lain.
func CanAccessSubMateri(db *gorm.DB, userID, subMateriID uuid.UUID) (AccessDecision, error) {
	var target subMateriModel.SubMateriModel
	if err := db.First(&target, "sub_materi_id = ?", subMateriID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AccessDecision{}, ErrSubMateriNotFound
		}
		return AccessDecision{}, err
	}
	if !target.SubMateriPublished {
		return AccessDecision{}, ErrSubMateriNotFound
	}

	var priorIDs []uuid.UUID
	if err := db.Model(&subMateriModel.SubMateriModel{}).
		Where("sub_materi_module_id = ? AND sub_materi_published = ? AND sub_materi_order_index < ?",
			target.SubMateriModuleID, true, target.SubMateriOrderIndex).
		Pluck("sub_materi_id", &priorIDs).Error; err != nil {
		return AccessDecision{}, err
	}

	if len(priorIDs) == 0 {
		return AccessDecision{CanAccess: true}, nil
	}

	var completed int64
	if err := db.Model(&model.UserSubMateriProgressModel{}).
		Where("user_id = ? AND is_completed = ? AND sub_materi_id IN ?", userID, true, priorIDs).
		Count(&completed).Error; err != nil {
		return AccessDecision{}, err
	}

	remaining := int64(len(priorIDs)) - completed
	if remaining > 0 {
		return AccessDecision{
			CanAccess: false,
			Reason:    fmt.Sprintf("Selesaikan %d materi sebelumnya terlebih dahulu", remaining),
		}, nil
	}
	return AccessDecision{CanAccess: true}, nil
}
