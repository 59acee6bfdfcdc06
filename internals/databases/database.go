package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"posyandu_backend/internals/configs"
)

// Handles membungkus dua tier koneksi DB:
//   - DB    : koneksi standar untuk semua request (ownership difilter eksplisit per user_id)
//   - Admin : koneksi privileged (opsional), hanya untuk recovery permission-denied
//     dan baca lintas-user oleh admin. Tidak pernah diekspos ke caller.
type Handles struct {
	DB    *gorm.DB
	Admin *gorm.DB
}

// HasAdmin true kalau handle privileged tersedia.
func (h Handles) HasAdmin() bool { return h.Admin != nil }

func Connect() Handles {
	log.Println("🔌 Koneksi ke PostgreSQL...")

	db := open(
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
	)
	log.Println("✅ DB connected.")

	h := Handles{DB: db}

	// Tier privileged opsional: tanpa ini, path recovery ownership degradasi (warn + lanjut).
	adminUser := os.Getenv("DB_ADMIN_USER")
	adminPass := os.Getenv("DB_ADMIN_PASSWORD")
	if adminUser != "" && adminPass != "" {
		h.Admin = open(adminUser, adminPass)
		log.Println("✅ DB admin handle connected.")
	} else {
		log.Println("⚠️ DB_ADMIN_USER/DB_ADMIN_PASSWORD tidak diset, recovery path berjalan tanpa handle privileged")
	}

	return h
}

func open(user, password string) *gorm.DB {
	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=posyandu&options=-c statement_timeout=3000",
		user,
		password,
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	return db
}

func TunePool(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUp(db *gorm.DB) {
	// jalankan ringan supaya koneksi/pool keisi & siap
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(db); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
