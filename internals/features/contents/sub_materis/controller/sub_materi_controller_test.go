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
	"posyandu_backend/internals/features/contents/sub_materis/model"
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
		`CREATE TABLE poin_details (
			poin_id TEXT PRIMARY KEY,
			poin_sub_materi_id TEXT NOT NULL,
			poin_title TEXT NOT NULL,
			poin_content_html TEXT,
			poin_order_index INTEGER NOT NULL DEFAULT 0,
			poin_duration_minutes INTEGER DEFAULT 0,
			poin_created_at DATETIME,
			poin_updated_at DATETIME
		)`,
		`CREATE TABLE poin_media (
			media_id TEXT PRIMARY KEY,
			media_poin_id TEXT NOT NULL,
			media_type TEXT NOT NULL,
			media_url TEXT NOT NULL,
			media_caption TEXT,
			media_order_index INTEGER NOT NULL DEFAULT 0,
			media_original_filename TEXT,
			media_mime_type TEXT,
			media_file_size INTEGER DEFAULT 0,
			media_created_at DATETIME,
			media_updated_at DATETIME
		)`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

// newTestApp memasang route GET /materials/:id dengan role tiruan di locals.
func newTestApp(db *gorm.DB, role string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if role != "" {
			c.Locals(helper.LocUserID, uuid.New().String())
			c.Locals(helper.LocUserRole, role)
		}
		return c.Next()
	})

	ctrl := NewSubMateriController(database.Handles{DB: db})
	app.Get("/materials/:id", ctrl.GetByID)
	return app
}

type envelope struct {
	Error   bool            `json:"error"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, app *fiber.App, path string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func seedSubMateri(t *testing.T, db *gorm.DB, published bool) model.SubMateriModel {
	t.Helper()
	sm := model.SubMateriModel{
		SubMateriID:        uuid.New(),
		SubMateriModuleID:  uuid.New(),
		SubMateriTitle:     "Materi",
		SubMateriPublished: published,
	}
	require.NoError(t, db.Create(&sm).Error)
	return sm
}

func TestGetByIDPublished(t *testing.T) {
	db := setupDB(t)
	sm := seedSubMateri(t, db, true)
	app := newTestApp(db, "")

	status, body := doRequest(t, app, "/materials/"+sm.SubMateriID.String())
	assert.Equal(t, http.StatusOK, status)
	assert.False(t, body.Error)
	assert.Equal(t, helper.CodeOK, body.Code)
}

func TestGetByIDUnpublishedAnonymous(t *testing.T) {
	db := setupDB(t)
	sm := seedSubMateri(t, db, false)
	app := newTestApp(db, "")

	status, body := doRequest(t, app, "/materials/"+sm.SubMateriID.String())
	assert.Equal(t, http.StatusForbidden, status)
	assert.True(t, body.Error)
	assert.Equal(t, helper.CodeForbidden, body.Code)
}

func TestGetByIDUnpublishedPengguna(t *testing.T) {
	db := setupDB(t)
	sm := seedSubMateri(t, db, false)
	app := newTestApp(db, constants.RolePengguna)

	status, _ := doRequest(t, app, "/materials/"+sm.SubMateriID.String())
	assert.Equal(t, http.StatusForbidden, status)
}

func TestGetByIDUnpublishedAdminSeesDraft(t *testing.T) {
	db := setupDB(t)
	sm := seedSubMateri(t, db, false)
	app := newTestApp(db, constants.RoleAdmin)

	status, body := doRequest(t, app, "/materials/"+sm.SubMateriID.String())
	assert.Equal(t, http.StatusOK, status)
	assert.False(t, body.Error)
}

func TestGetByIDNotFound(t *testing.T) {
	db := setupDB(t)
	app := newTestApp(db, "")

	status, body := doRequest(t, app, "/materials/"+uuid.New().String())
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "SUB_MATERI_NOT_FOUND", body.Code)
}

func TestGetByIDIncludesOrderedPoins(t *testing.T) {
	db := setupDB(t)
	sm := seedSubMateri(t, db, true)

	for _, idx := range []int{2, 0, 1} {
		require.NoError(t, db.Exec(
			`INSERT INTO poin_details (poin_id, poin_sub_materi_id, poin_title, poin_order_index) VALUES (?, ?, ?, ?)`,
			uuid.New().String(), sm.SubMateriID.String(), "Poin", idx,
		).Error)
	}

	app := newTestApp(db, "")
	status, body := doRequest(t, app, "/materials/"+sm.SubMateriID.String())
	require.Equal(t, http.StatusOK, status)

	var data struct {
		Poins []struct {
			Poin struct {
				PoinOrderIndex int `json:"poin_order_index"`
			} `json:"poin"`
		} `json:"poins"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	require.Len(t, data.Poins, 3)
	for i, p := range data.Poins {
		assert.Equal(t, i, p.Poin.PoinOrderIndex)
	}
}
