package domain

import (
	"time"

	"github.com/google/uuid"
)

// Reservation es una reserva de un huésped sobre un listing
type Reservation struct {
	Entity
	ListingID   uuid.UUID `gorm:"size:36;index" json:"listing_id"`
	GuestID     uuid.UUID `gorm:"size:36;index" json:"guest_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	GuestsCount int       `json:"guests_count"`
	TotalPrice  float64   `json:"total_price"`
}

func (Reservation) TableName() string {
	return "reservations"
}

// Overlaps indica si dos rangos [start, end) se pisan
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.StartDate.Before(end) && start.Before(r.EndDate)
}

// Nights cuenta las noches calendario (UTC) entre llegada y salida, mínimo una
func (r *Reservation) Nights() int {
	start := r.StartDate.UTC().Truncate(24 * time.Hour)
	end := r.EndDate.UTC().Truncate(24 * time.Hour)
	nights := int(end.Sub(start) / (24 * time.Hour))
	if nights < 1 {
		return 1
	}
	return nights
}

// Review es la reseña que deja un huésped luego de su estadía
type Review struct {
	Entity
	ReservationID uuid.UUID `gorm:"size:36;index" json:"reservation_id"`
	ListingID     uuid.UUID `gorm:"size:36;index" json:"listing_id"`
	AuthorID      uuid.UUID `gorm:"size:36" json:"author_id"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
}

func (Review) TableName() string {
	return "reviews"
}

// StorageFile es una referencia a un archivo guardado (imágenes de categorías, etc.)
type StorageFile struct {
	Entity
	FileName    string `gorm:"size:256;not null" json:"file_name"`
	Path        string `gorm:"size:512" json:"path"`
	ContentType string `gorm:"size:128" json:"content_type"`
	Size        int64  `json:"size"`
}

func (StorageFile) TableName() string {
	return "storage_files"
}
