package domain

import "github.com/google/uuid"

// RoleType define los tipos de rol que existen
type RoleType string

const (
	RoleTypeGuest RoleType = "guest" // Huésped
	RoleTypeHost  RoleType = "host"  // Anfitrión, publica listings
	RoleTypeAdmin RoleType = "admin" // Administrador
)

// IsValid indica si el tipo de rol es uno de los conocidos
func (t RoleType) IsValid() bool {
	switch t {
	case RoleTypeGuest, RoleTypeHost, RoleTypeAdmin:
		return true
	}
	return false
}

// Role representa un rol del sistema, el Type es único
type Role struct {
	Entity
	Type       RoleType `gorm:"type:varchar(20);not null" json:"type"`
	IsDisabled bool     `json:"is_disabled"`
}

func (Role) TableName() string {
	return "roles"
}

// User representa un usuario en el sistema
type User struct {
	Entity
	FirstName              string    `gorm:"size:64;not null" json:"first_name"`
	LastName               string    `gorm:"size:64;not null" json:"last_name"`
	EmailAddress           string    `gorm:"size:128;not null" json:"email_address"`
	PhoneNumber            string    `gorm:"size:32" json:"phone_number,omitempty"`
	PasswordHash           string    `gorm:"not null" json:"password_hash"` // Nunca se expone, la API responde con dto.UserResponse
	Password               string    `gorm:"-" json:"-"`                    // Solo en memoria, se hashea al guardar
	RoleID                 uuid.UUID `gorm:"size:36" json:"role_id"`
	IsEmailAddressVerified bool      `json:"is_email_address_verified"`
}

// TableName especifica el nombre de la tabla
func (User) TableName() string {
	return "users"
}

// FullName arma el nombre completo para los templates
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
