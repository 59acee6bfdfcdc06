package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"posyandu_backend/internals/constants"
	database "posyandu_backend/internals/databases"
	"posyandu_backend/internals/features/contents/modules/model"
	subMateriModel "posyandu_backend/internals/features/contents/sub_materis/model"
	helper "posyandu_backend/internals/helpers"
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

	ddl := []string{
		`CREATE TABLE modules (
			module_id TEXT PRIMARY KEY,
			module_title TEXT NOT NULL,
			module_slug TEXT NOT NULL UNIQUE,
			module_description TEXT,
			module_published BOOLEAN NOT NULL DEFAULT false,
			module_duration_minutes INTEGER DEFAULT 0,
			module_total_lessons INTEGER DEFAULT 0,
			module_meta TEXT,
			module_created_at DATETIME,
			module_updated_at DATETIME
		)`,
		`CREATE TABLE sub_materis (
			sub_materi_id TEXT PRIMARY KEY,
			sub_materi_module_id TEXT NOT NULL,
			sub_materi_title TEXT NOT NULL,
			sub_materi_content TEXT,
			sub_materi_order_index INTEGER NOT NULL DEFAULT 0,
			sub_materi_published BOOLEAN NOT NULL DEFAULT false,
			sub_materi_created_at DATETIME,
			sub_materi_updated_at DATETIME
		)`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

func seedModule(t *testing.T, db *gorm.DB, title string, published bool) model.ModuleModel {
	t.Helper()
	m := model.ModuleModel{
		ModuleID:        uuid.New(),
		ModuleTitle:     title,
		ModuleSlug:      helper.GenerateSlug(title) + "-" + uuid.New().String()[:8],
		ModulePublished: published,
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func newModuleApp(db *gorm.DB, role string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if role != "" {
			c.Locals(helper.LocUserID, uuid.New().String())
			c.Locals(helper.LocUserRole, role)
		}
		return c.Next()
	})

	ctrl := NewModuleController(database.Handles{DB: db})
	app.Get("/modules", ctrl.GetAll)
	app.Get("/modules/:id", ctrl.GetByID)
	return app
}

func moduleTitles(t *testing.T, app *fiber.App, path string) []string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Modules []struct {
				ModuleTitle string `json:"module_title"`
			} `json:"modules"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	titles := make([]string, 0, len(body.Data.Modules))
	for _, m := range body.Data.Modules {
		titles = append(titles, m.ModuleTitle)
	}
	return titles
}

func TestListModulesHidesDraftsFromNonAdmin(t *testing.T) {
	db := setupDB(t)
	seedModule(t, db, "Gizi Balita", true)
	seedModule(t, db, "Draft Imunisasi", false)

	titles := moduleTitles(t, newModuleApp(db, ""), "/modules")
	assert.Equal(t, []string{"Gizi Balita"}, titles)

	titles = moduleTitles(t, newModuleApp(db, constants.RolePengguna), "/modules")
	assert.Equal(t, []string{"Gizi Balita"}, titles)
}

func TestListModulesAdminSeesDrafts(t *testing.T) {
	db := setupDB(t)
	seedModule(t, db, "Gizi Balita", true)
	seedModule(t, db, "Draft Imunisasi", false)

	titles := moduleTitles(t, newModuleApp(db, constants.RoleAdmin), "/modules")
	assert.ElementsMatch(t, []string{"Gizi Balita", "Draft Imunisasi"}, titles)
}

func TestGetModuleByIDFiltersDraftChildren(t *testing.T) {
	db := setupDB(t)
	m := seedModule(t, db, "Gizi Balita", true)

	for i, published := range []bool{true, false, true} {
		sm := subMateriModel.SubMateriModel{
			SubMateriID:         uuid.New(),
			SubMateriModuleID:   m.ModuleID,
			SubMateriTitle:      "Materi",
			SubMateriOrderIndex: i,
			SubMateriPublished:  published,
		}
		require.NoError(t, db.Create(&sm).Error)
	}

	req := httptest.NewRequest(http.MethodGet, "/modules/"+m.ModuleID.String(), nil)
	resp, err := newModuleApp(db, "").Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			SubMateris []struct {
				SubMateriOrderIndex int `json:"sub_materi_order_index"`
			} `json:"sub_materis"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data.SubMateris, 2)
	assert.Equal(t, 0, body.Data.SubMateris[0].SubMateriOrderIndex)
	assert.Equal(t, 2, body.Data.SubMateris[1].SubMateriOrderIndex)
}

func TestGetDraftModuleNotFoundForNonAdmin(t *testing.T) {
	db := setupDB(t)
	m := seedModule(t, db, "Draft Imunisasi", false)

	req := httptest.NewRequest(http.MethodGet, "/modules/"+m.ModuleID.String(), nil)
	resp, err := newModuleApp(db, "").Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = newModuleApp(db, constants.RoleAdmin).Test(
		httptest.NewRequest(http.MethodGet, "/modules/"+m.ModuleID.String(), nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
