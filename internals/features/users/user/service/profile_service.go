package service

import (
	"errors"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"posyandu_backend/internals/features/users/user/model"
	"posyandu_backend/internals/helpers/dberr"
)

// EnsureProfile memastikan profil ada untuk user (lazy create).
// adminDB boleh nil; dipakai sebagai fallback satu kali saat tulis profil
// sendiri ditolak permission (RLS-style) — dilog sebagai warning.
func EnsureProfile(db *gorm.DB, adminDB *gorm.DB, user model.UserModel, fullName string) (*model.ProfileModel, error) {
	var existing model.ProfileModel
	err := db.First(&existing, "profile_id = ?", user.ID).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile := model.ProfileModel{
		ProfileID:       user.ID,
		ProfileFullName: fullName,
		ProfileEmail:    user.Email,
		ProfilePhone:    user.Phone,
		ProfileRole:     user.Role,
	}

	if err := insertProfile(db, &profile); err != nil {
		if dberr.IsPermissionDenied(err) && adminDB != nil {
			log.Printf("[WARN] profile insert ditolak permission, retry via handle privileged (user=%s)", user.ID)
			if err2 := insertProfile(adminDB, &profile); err2 != nil {
				return nil, err2
			}
			return &profile, nil
		}
		return nil, err
	}
	return &profile, nil
}

// insertProfile menulis row profil; kalau store melaporkan kolom role tidak
// ada (schema cache basi), insert diulang sekali tanpa kolom itu.
func insertProfile(db *gorm.DB, p *model.ProfileModel) error {
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}},
		DoNothing: true,
	}).Create(p).Error
	if err == nil {
		return nil
	}
	if dberr.IsMissingColumn(err) {
		log.Printf("[WARN] kolom profile_role tidak dikenali store, retry tanpa kolom role")
		return db.Omit("profile_role").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}},
			DoNothing: true,
		}).Create(p).Error
	}
	return err
}

// UpsertProfile menulis field profil yang bisa diubah user.
// Fallback privileged hanya untuk profil milik user sendiri.
func UpsertProfile(db *gorm.DB, adminDB *gorm.DB, p *model.ProfileModel) error {
	assign := map[string]interface{}{
		"profile_full_name": p.ProfileFullName,
		"profile_phone":     p.ProfilePhone,
		"profile_email":     p.ProfileEmail,
		"profile_address":   p.ProfileAddress,
	}
	if p.ProfilURL != nil {
		assign["profil_url"] = p.ProfilURL
	}

	write := func(h *gorm.DB) error {
		return h.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}},
			DoUpdates: clause.Assignments(assign),
		}).Create(p).Error
	}

	if err := write(db); err != nil {
		if dberr.IsPermissionDenied(err) && adminDB != nil {
			log.Printf("[WARN] profile upsert ditolak permission, retry via handle privileged (profile=%s)", p.ProfileID)
			return write(adminDB)
		}
		return err
	}
	return nil
}
