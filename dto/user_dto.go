package dto

import (
	"time"

	"booking-api/domain"

	"github.com/google/uuid"
)

// CreateUserRequest es lo que envía el frontend cuando alguien se registra
type CreateUserRequest struct {
	FirstName    string    `json:"first_name" binding:"required"`
	LastName     string    `json:"last_name" binding:"required"`
	EmailAddress string    `json:"email_address" binding:"required,email"`
	PhoneNumber  string    `json:"phone_number"`
	Password     string    `json:"password" binding:"required,min=6"`
	RoleID       uuid.UUID `json:"role_id"`
}

// UpdateUserRequest: si Password viene vacío no se cambia
type UpdateUserRequest struct {
	FirstName    string    `json:"first_name" binding:"required"`
	LastName     string    `json:"last_name" binding:"required"`
	EmailAddress string    `json:"email_address" binding:"required,email"`
	PhoneNumber  string    `json:"phone_number"`
	Password     string    `json:"password,omitempty" binding:"omitempty,min=6"`
	RoleID       uuid.UUID `json:"role_id"`
}

type LoginRequest struct {
	EmailAddress string `json:"email_address" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

// UserResponse es la vista pública del usuario, sin el hash de la contraseña
type UserResponse struct {
	ID                     uuid.UUID `json:"id"`
	FirstName              string    `json:"first_name"`
	LastName               string    `json:"last_name"`
	EmailAddress           string    `json:"email_address"`
	PhoneNumber            string    `json:"phone_number,omitempty"`
	RoleID                 uuid.UUID `json:"role_id"`
	IsEmailAddressVerified bool      `json:"is_email_address_verified"`
	CreatedTime            time.Time `json:"created_time"`
}

func (r CreateUserRequest) ToUser() *domain.User {
	return &domain.User{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		EmailAddress: r.EmailAddress,
		PhoneNumber:  r.PhoneNumber,
		Password:     r.Password,
		RoleID:       r.RoleID,
	}
}

func (r UpdateUserRequest) ToUser(id uuid.UUID) *domain.User {
	user := &domain.User{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		EmailAddress: r.EmailAddress,
		PhoneNumber:  r.PhoneNumber,
		Password:     r.Password,
		RoleID:       r.RoleID,
	}
	user.ID = id
	return user
}

func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:                     user.ID,
		FirstName:              user.FirstName,
		LastName:               user.LastName,
		EmailAddress:           user.EmailAddress,
		PhoneNumber:            user.PhoneNumber,
		RoleID:                 user.RoleID,
		IsEmailAddressVerified: user.IsEmailAddressVerified,
		CreatedTime:            user.CreatedTime,
	}
}

func NewUserResponses(users []*domain.User) []UserResponse {
	result := make([]UserResponse, len(users))
	for i, u := range users {
		result[i] = NewUserResponse(u)
	}
	return result
}
