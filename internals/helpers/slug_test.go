package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Gizi Seimbang untuk Balita", "gizi-seimbang-untuk-balita"},
		{"  Imunisasi   Dasar  ", "imunisasi-dasar"},
		{"ASI Eksklusif (0-6 Bulan)", "asi-eksklusif-0-6-bulan"},
		{"Modul #1: Pengantar!", "modul-1-pengantar"},
		{"---", "item"},
		{"", "item"},
		{"SUDAH-slug-rapi", "sudah-slug-rapi"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, GenerateSlug(tc.in), "input %q", tc.in)
	}
}

func TestEnsureUniqueSlug(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec(`CREATE TABLE modules (module_slug TEXT UNIQUE)`).Error)

	slug, err := EnsureUniqueSlug(db, "gizi-balita", "modules", "module_slug")
	require.NoError(t, err)
	assert.Equal(t, "gizi-balita", slug)

	require.NoError(t, db.Exec(`INSERT INTO modules (module_slug) VALUES ('gizi-balita')`).Error)

	slug, err = EnsureUniqueSlug(db, "gizi-balita", "modules", "module_slug")
	require.NoError(t, err)
	assert.Equal(t, "gizi-balita-2", slug)

	require.NoError(t, db.Exec(`INSERT INTO modules (module_slug) VALUES ('gizi-balita-2'), ('gizi-balita-7')`).Error)

	slug, err = EnsureUniqueSlug(db, "gizi-balita", "modules", "module_slug")
	require.NoError(t, err)
	assert.Equal(t, "gizi-balita-8", slug)
}
