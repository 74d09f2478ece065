package dto

import "github.com/google/uuid"

type LoginDTO struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponseDTO struct {
	Token string       `json:"token"`
	User  LoginUserDTO `json:"user"`
}

type LoginUserDTO struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
	RoleCode string    `json:"role_code"`
}
