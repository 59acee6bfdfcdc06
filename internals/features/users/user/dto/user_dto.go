package dto

import (
	"time"

	"posyandu_backend/internals/features/users/user/model"
)

// ============================
// Response DTO
// ============================

type UserDTO struct {
	ID        string    `json:"id"`
	UserName  string    `json:"user_name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type ProfileDTO struct {
	ProfileID string  `json:"profile_id"`
	FullName  string  `json:"full_name"`
	Phone     *string `json:"phone,omitempty"`
	Email     string  `json:"email"`
	Address   *string `json:"address,omitempty"`
	Role      string  `json:"role"`
	ProfilURL *string `json:"profil_url,omitempty"`
}

// ============================
// Request DTO
// ============================

type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"omitempty,min=8,max=20"`
	Email    string `json:"email" validate:"omitempty,email"`
	Address  string `json:"address" validate:"omitempty,max=500"`
}

type AdminCreateUserRequest struct {
	UserName string `json:"user_name" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,min=8,max=20"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=pengguna admin"`
}

type AdminUpdateUserRequest struct {
	UserName string `json:"user_name" validate:"omitempty,min=3,max=50"`
	Role     string `json:"role" validate:"omitempty,oneof=pengguna admin"`
	IsActive *bool  `json:"is_active"`
}

// ============================
// Converter
// ============================

func ToUserDTO(m model.UserModel) UserDTO {
	return UserDTO{
		ID:        m.ID.String(),
		UserName:  m.UserName,
		Email:     m.Email,
		Phone:     m.Phone,
		Role:      m.Role,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}

func ToUserDTOs(ms []model.UserModel) []UserDTO {
	out := make([]UserDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToUserDTO(m))
	}
	return out
}

func ToProfileDTO(m model.ProfileModel) ProfileDTO {
	return ProfileDTO{
		ProfileID: m.ProfileID.String(),
		FullName:  m.ProfileFullName,
		Phone:     m.ProfilePhone,
		Email:     m.ProfileEmail,
		Address:   m.ProfileAddress,
		Role:      m.ProfileRole,
		ProfilURL: m.ProfilURL,
	}
}
