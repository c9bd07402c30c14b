package dto

import "github.com/aarondl/null/v8"

type CreateUserDTO struct {
	Email       string                     `json:"email" validate:"required,email"`
	Fio         string                     `json:"fio" validate:"required"`
	Password    string                     `json:"password" validate:"required,min=8"`
	Role        string                     `json:"role" validate:"required,oneof=admin viewer custom"`
	Permissions map[string]map[string]bool `json:"permissions"`
}

type UpdateUserDTO struct {
	Email       null.String                `json:"email,omitempty"`
	Fio         null.String                `json:"fio,omitempty"`
	Password    null.String                `json:"password,omitempty"`
	Role        null.String                `json:"role,omitempty"`
	Permissions map[string]map[string]bool `json:"permissions,omitempty"`
}

type ChangeUserStatusDTO struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

type UserDTO struct {
	ID          uint64                     `json:"id"`
	Email       string                     `json:"email"`
	Fio         string                     `json:"fio"`
	Role        string                     `json:"role"`
	Status      string                     `json:"status"`
	Permissions map[string]map[string]bool `json:"permissions"`
	CreatedAt   string                     `json:"created_at"`
}

type ShortUserDTO struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Fio   string `json:"fio"`
}
