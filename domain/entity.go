package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity contiene los campos comunes a todas las entidades.
// El borrado es lógico: IsDeleted + DeletedTime.
type Entity struct {
	ID           uuid.UUID  `gorm:"primaryKey;size:36" json:"id"`
	CreatedTime  time.Time  `gorm:"not null" json:"created_time"`
	ModifiedTime *time.Time `json:"modified_time,omitempty"`
	IsDeleted    bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedTime  *time.Time `json:"deleted_time,omitempty"`
}

// Record lo implementan todas las entidades a través de Entity
type Record interface {
	Base() *Entity
}

// Base permite acceder a los campos comunes desde código genérico
func (e *Entity) Base() *Entity {
	return e
}

// MarkCreated asigna ID (si falta) y fecha de creación
func (e *Entity) MarkCreated(now time.Time) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedTime = now
	e.ModifiedTime = nil
	e.IsDeleted = false
	e.DeletedTime = nil
}

func (e *Entity) MarkModified(now time.Time) {
	e.ModifiedTime = &now
}

// MarkDeleted hace el borrado lógico
func (e *Entity) MarkDeleted(now time.Time) {
	e.IsDeleted = true
	e.DeletedTime = &now
}
