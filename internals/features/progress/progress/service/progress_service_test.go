package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	subMateriModel "posyandu_backend/internals/features/contents/sub_materis/model"
	"posyandu_backend/internals/features/progress/progress/model"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.UserPoinProgressModel{},
		&model.UserSubMateriProgressModel{},
		&model.UserModuleProgressModel{},
	))

	// sub_materis dibuat manual: sqlite tidak mengenal gen_random_uuid()
	require.NoError(t, db.Exec(`
		CREATE TABLE sub_materis (
			sub_materi_id TEXT PRIMARY KEY,
			sub_materi_module_id TEXT NOT NULL,
			sub_materi_title TEXT NOT NULL,
			sub_materi_content TEXT,
			sub_materi_order_index INTEGER NOT NULL DEFAULT 0,
			sub_materi_published BOOLEAN NOT NULL DEFAULT false,
			sub_materi_created_at DATETIME,
			sub_materi_updated_at DATETIME
		)`).Error)

	return db
}

func seedSubMateri(t *testing.T, db *gorm.DB, moduleID uuid.UUID, orderIndex int, published bool) subMateriModel.SubMateriModel {
	t.Helper()
	sm := subMateriModel.SubMateriModel{
		SubMateriID:         uuid.New(),
		SubMateriModuleID:   moduleID,
		SubMateriTitle:      "Materi",
		SubMateriOrderIndex: orderIndex,
		SubMateriPublished:  published,
	}
	require.NoError(t, db.Create(&sm).Error)
	return sm
}

func TestCompletePoinIdempotent(t *testing.T) {
	db := setupDB(t)
	userID := uuid.New()
	moduleID := uuid.New()
	subMateriID := uuid.New()
	poinID := uuid.New()

	first, err := CompletePoin(db, userID, moduleID, subMateriID, poinID)
	require.NoError(t, err)
	assert.False(t, first.AlreadyCompleted)
	assert.True(t, first.Record.IsCompleted)
	require.NotNil(t, first.Record.CompletedAt)

	second, err := CompletePoin(db, userID, moduleID, subMateriID, poinID)
	require.NoError(t, err)
	assert.True(t, second.AlreadyCompleted)
	assert.Equal(t, first.Record.UserPoinProgressID, second.Record.UserPoinProgressID)

	var total int64
	require.NoError(t, db.Model(&model.UserPoinProgressModel{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)
}

func TestCompletePoinSeparateUsers(t *testing.T) {
	db := setupDB(t)
	moduleID := uuid.New()
	subMateriID := uuid.New()
	poinID := uuid.New()

	_, err := CompletePoin(db, uuid.New(), moduleID, subMateriID, poinID)
	require.NoError(t, err)
	res, err := CompletePoin(db, uuid.New(), moduleID, subMateriID, poinID)
	require.NoError(t, err)
	assert.False(t, res.AlreadyCompleted)

	var total int64
	require.NoError(t, db.Model(&model.UserPoinProgressModel{}).Count(&total).Error)
	assert.Equal(t, int64(2), total)
}

func TestCompleteSubMateriUpdatesRollupCount(t *testing.T) {
	db := setupDB(t)
	userID := uuid.New()
	moduleID := uuid.New()

	_, err := CompleteSubMateri(db, userID, moduleID, uuid.New(), RollupInput{})
	require.NoError(t, err)
	rec, err := CompleteSubMateri(db, userID, moduleID, uuid.New(), RollupInput{})
	require.NoError(t, err)

	assert.True(t, rec.IsCompleted)
	assert.Equal(t, float64(100), rec.ProgressPercentage)
	require.NotNil(t, rec.CompletedAt)

	var mod model.UserModuleProgressModel
	require.NoError(t, db.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&mod).Error)
	assert.Equal(t, 2, mod.CompletedSubMateriCount)

	// rollup level module tidak dihitung server-side
	assert.False(t, mod.IsCompleted)
	assert.Equal(t, float64(0), mod.ProgressPercentage)
}

func TestRollupAppliesCallerSuppliedValues(t *testing.T) {
	db := setupDB(t)
	userID := uuid.New()
	moduleID := uuid.New()

	pct := 66.7
	done := false
	_, err := CompleteSubMateri(db, userID, moduleID, uuid.New(), RollupInput{
		ProgressPercentage: &pct,
		IsCompleted:        &done,
	})
	require.NoError(t, err)

	var mod model.UserModuleProgressModel
	require.NoError(t, db.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&mod).Error)
	assert.InDelta(t, 66.7, mod.ProgressPercentage, 0.001)
	assert.False(t, mod.IsCompleted)

	pct = 100
	done = true
	_, err = CompleteSubMateri(db, userID, moduleID, uuid.New(), RollupInput{
		ProgressPercentage: &pct,
		IsCompleted:        &done,
	})
	require.NoError(t, err)

	require.NoError(t, db.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&mod).Error)
	assert.Equal(t, float64(100), mod.ProgressPercentage)
	assert.True(t, mod.IsCompleted)
	assert.NotNil(t, mod.CompletedAt)
	assert.Equal(t, 2, mod.CompletedSubMateriCount)
}

func TestRecordSubMateriOutcomeNotPassed(t *testing.T) {
	db := setupDB(t)
	userID := uuid.New()
	moduleID := uuid.New()
	subMateriID := uuid.New()

	rec, err := RecordSubMateriOutcome(db, userID, moduleID, subMateriID, false, 40, RollupInput{})
	require.NoError(t, err)
	assert.False(t, rec.IsCompleted)
	assert.Equal(t, float64(40), rec.ProgressPercentage)
	assert.Nil(t, rec.CompletedAt)

	var mod model.UserModuleProgressModel
	require.NoError(t, db.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&mod).Error)
	assert.Equal(t, 0, mod.CompletedSubMateriCount)
}

func TestRecordOutcomeOverwritesPrevious(t *testing.T) {
	db := setupDB(t)
	userID := uuid.New()
	moduleID := uuid.New()
	subMateriID := uuid.New()

	_, err := RecordSubMateriOutcome(db, userID, moduleID, subMateriID, false, 40, RollupInput{})
	require.NoError(t, err)
	rec, err := RecordSubMateriOutcome(db, userID, moduleID, subMateriID, true, 100, RollupInput{})
	require.NoError(t, err)

	assert.True(t, rec.IsCompleted)
	assert.Equal(t, float64(100), rec.ProgressPercentage)

	var total int64
	require.NoError(t, db.Model(&model.UserSubMateriProgressModel{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)
}

func TestGetModuleProgressZeroState(t *testing.T) {
	db := setupDB(t)
	userID := uuid.New()
	moduleID := uuid.New()

	detail, err := GetModuleProgress(db, userID, moduleID)
	require.NoError(t, err)
	assert.Equal(t, userID, detail.Module.UserID)
	assert.Equal(t, moduleID, detail.Module.ModuleID)
	assert.False(t, detail.Module.IsCompleted)
	assert.Equal(t, 0, detail.Module.CompletedSubMateriCount)
	assert.Empty(t, detail.SubMateris)
	assert.Empty(t, detail.Poins)
}

func TestGetModuleProgressDetail(t *testing.T) {
	db := setupDB(t)
	userID := uuid.New()
	moduleID := uuid.New()
	subMateriID := uuid.New()

	_, err := CompletePoin(db, userID, moduleID, subMateriID, uuid.New())
	require.NoError(t, err)
	_, err = CompleteSubMateri(db, userID, moduleID, subMateriID, RollupInput{})
	require.NoError(t, err)

	detail, err := GetModuleProgress(db, userID, moduleID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Module.CompletedSubMateriCount)
	assert.Len(t, detail.SubMateris, 1)
	assert.Len(t, detail.Poins, 1)
}

func TestCanAccessFirstSubMateri(t *testing.T) {
	db := setupDB(t)
	moduleID := uuid.New()
	first := seedSubMateri(t, db, moduleID, 0, true)

	decision, err := CanAccessSubMateri(db, uuid.New(), first.SubMateriID)
	require.NoError(t, err)
	assert.True(t, decision.CanAccess)
	assert.Empty(t, decision.Reason)
}

func TestCanAccessBlockedUntilPriorComplete(t *testing.T) {
	db := setupDB(t)
	userID := uuid.New()
	moduleID := uuid.New()
	s0 := seedSubMateri(t, db, moduleID, 0, true)
	s1 := seedSubMateri(t, db, moduleID, 1, true)
	s2 := seedSubMateri(t, db, moduleID, 2, true)

	decision, err := CanAccessSubMateri(db, userID, s2.SubMateriID)
	require.NoError(t, err)
	assert.False(t, decision.CanAccess)
	assert.Equal(t, "Selesaikan 2 materi sebelumnya terlebih dahulu", decision.Reason)

	_, err = CompleteSubMateri(db, userID, moduleID, s0.SubMateriID, RollupInput{})
	require.NoError(t, err)

	decision, err = CanAccessSubMateri(db, userID, s2.SubMateriID)
	require.NoError(t, err)
	assert.False(t, decision.CanAccess)
	assert.Equal(t, "Selesaikan 1 materi sebelumnya terlebih dahulu", decision.Reason)

	// s1 sendiri sudah terbuka setelah s0 selesai
	decision, err = CanAccessSubMateri(db, userID, s1.SubMateriID)
	require.NoError(t, err)
	assert.True(t, decision.CanAccess)

	_, err = CompleteSubMateri(db, userID, moduleID, s1.SubMateriID, RollupInput{})
	require.NoError(t, err)

	decision, err = CanAccessSubMateri(db, userID, s2.SubMateriID)
	require.NoError(t, err)
	assert.True(t, decision.CanAccess)
}

func TestCanAccessIgnoresUnpublishedSiblings(t *testing.T) {
	db := setupDB(t)
	moduleID := uuid.New()
	seedSubMateri(t, db, moduleID, 0, false) // draft: tidak ikut gating
	target := seedSubMateri(t, db, moduleID, 1, true)

	decision, err := CanAccessSubMateri(db, uuid.New(), target.SubMateriID)
	require.NoError(t, err)
	assert.True(t, decision.CanAccess)
}

func TestCanAccessUnpublishedTargetIsNotFound(t *testing.T) {
	db := setupDB(t)
	moduleID := uuid.New()
	target := seedSubMateri(t, db, moduleID, 0, false)

	_, err := CanAccessSubMateri(db, uuid.New(), target.SubMateriID)
	assert.ErrorIs(t, err, ErrSubMateriNotFound)
}

func TestCanAccessAbsentTargetIsNotFound(t *testing.T) {
	db := setupDB(t)

	_, err := CanAccessSubMateri(db, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrSubMateriNotFound)
}

func TestGetUserModulesProgressOrder(t *testing.T) {
	db := setupDB(t)
	userID := uuid.New()
	older := uuid.New()
	newer := uuid.New()

	_, err := CompleteSubMateri(db, userID, older, uuid.New(), RollupInput{})
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	_, err = CompleteSubMateri(db, userID, newer, uuid.New(), RollupInput{})
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	// sentuh module pertama lagi supaya jadi yang terbaru
	_, err = CompleteSubMateri(db, userID, older, uuid.New(), RollupInput{})
	require.NoError(t, err)

	rows, err := GetUserModulesProgress(db, userID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, older, rows[0].ModuleID)
	assert.Equal(t, newer, rows[1].ModuleID)
}
