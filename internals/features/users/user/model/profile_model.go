package model

import (
	"time"

	"github.com/google/uuid"
)

// ProfileModel satu-satu dengan record identitas (profile_id = users.id).
// Dibuat lazy saat tulis profil pertama kalau trigger signup tidak membuatnya.
type ProfileModel struct {
	ProfileID       uuid.UUID `gorm:"column:profile_id;type:uuid;primaryKey" json:"profile_id"`
	ProfileFullName string    `gorm:"column:profile_full_name;size:100" json:"profile_full_name"`
	ProfilePhone    *string   `gorm:"column:profile_phone;size:20" json:"profile_phone,omitempty"`
	ProfileEmail    string    `gorm:"column:profile_email;size:255" json:"profile_email"`
	ProfileAddress  *string   `gorm:"column:profile_address;type:text" json:"profile_address,omitempty"`
	ProfileRole     string    `gorm:"column:profile_role;type:varchar(20);default:'pengguna'" json:"profile_role"`
	ProfilURL       *string   `gorm:"column:profil_url;type:text" json:"profil_url,omitempty"`

	ProfileCreatedAt time.Time `gorm:"column:profile_created_at;autoCreateTime" json:"profile_created_at"`
	ProfileUpdatedAt time.Time `gorm:"column:profile_updated_at;autoUpdateTime" json:"profile_updated_at"`
}

func (ProfileModel) TableName() string {
	return "profiles"
}
