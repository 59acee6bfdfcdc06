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
	"posyandu_backend/internals/features/users/user/model"
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

	require.NoError(t, db.Exec(`
		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			user_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			phone TEXT UNIQUE,
			password TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'pengguna',
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at DATETIME,
			updated_at DATETIME
		)`).Error)

	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, role string) model.UserModel {
	t.Helper()
	u := model.UserModel{
		ID:       uuid.New(),
		UserName: name,
		Email:    name + "@example.com",
		Password: "hashed",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func newListApp(db *gorm.DB, callerID uuid.UUID, callerRole string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(helper.LocUserID, callerID.String())
		c.Locals(helper.LocUserRole, callerRole)
		return c.Next()
	})

	ctrl := NewAdminUserController(database.Handles{DB: db})
	app.Get("/admin/users", ctrl.GetAll)
	return app
}

func listUsers(t *testing.T, app *fiber.App) []string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Users []struct {
				UserName string `json:"user_name"`
			} `json:"users"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	names := make([]string, 0, len(body.Data.Users))
	for _, u := range body.Data.Users {
		names = append(names, u.UserName)
	}
	return names
}

func TestSuperadminSeesAdminAndPenggunaMinusSelf(t *testing.T) {
	db := setupDB(t)
	caller := seedUser(t, db, "super-satu", constants.RoleSuperadmin)
	seedUser(t, db, "super-dua", constants.RoleSuperadmin)
	seedUser(t, db, "admin-satu", constants.RoleAdmin)
	seedUser(t, db, "warga-satu", constants.RolePengguna)

	names := listUsers(t, newListApp(db, caller.ID, constants.RoleSuperadmin))

	assert.ElementsMatch(t, []string{"admin-satu", "warga-satu"}, names)
	assert.NotContains(t, names, "super-satu")
	assert.NotContains(t, names, "super-dua")
}

func TestAdminSeesOnlyPengguna(t *testing.T) {
	db := setupDB(t)
	caller := seedUser(t, db, "admin-satu", constants.RoleAdmin)
	seedUser(t, db, "admin-dua", constants.RoleAdmin)
	seedUser(t, db, "super-satu", constants.RoleSuperadmin)
	seedUser(t, db, "warga-satu", constants.RolePengguna)
	seedUser(t, db, "warga-dua", constants.RolePengguna)

	names := listUsers(t, newListApp(db, caller.ID, constants.RoleAdmin))

	assert.ElementsMatch(t, []string{"warga-satu", "warga-dua"}, names)
}

func TestListSearchFilter(t *testing.T) {
	db := setupDB(t)
	caller := seedUser(t, db, "admin-satu", constants.RoleAdmin)
	seedUser(t, db, "Budi Santoso", constants.RolePengguna)
	seedUser(t, db, "Siti Aminah", constants.RolePengguna)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(helper.LocUserID, caller.ID.String())
		c.Locals(helper.LocUserRole, constants.RoleAdmin)
		return c.Next()
	})
	ctrl := NewAdminUserController(database.Handles{DB: db})
	app.Get("/admin/users", ctrl.GetAll)

	req := httptest.NewRequest(http.MethodGet, "/admin/users?search=budi", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Users []struct {
				UserName string `json:"user_name"`
			} `json:"users"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data.Users, 1)
	assert.Equal(t, "Budi Santoso", body.Data.Users[0].UserName)
}
