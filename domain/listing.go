package domain

import (
	"time"

	"github.com/google/uuid"
)

// ListingStatus define el estado de publicación de un listing
type ListingStatus string

const (
	ListingStatusDraft     ListingStatus = "draft"
	ListingStatusPublished ListingStatus = "published"
	ListingStatusArchived  ListingStatus = "archived"
)

func (s ListingStatus) IsValid() bool {
	switch s {
	case ListingStatusDraft, ListingStatusPublished, ListingStatusArchived:
		return true
	}
	return false
}

// Money representa un monto con su moneda
type Money struct {
	Amount   float64 `gorm:"not null;default:0" json:"amount"`
	Currency string  `gorm:"size:3" json:"currency"`
}

// Listing representa una propiedad de alquiler tipo Airbnb, pertenece a un host
type Listing struct {
	Entity
	Title       string        `gorm:"size:256;not null" json:"title"`
	Description string        `json:"description"`
	Status      ListingStatus `gorm:"type:varchar(20);not null" json:"status"`
	HostID      uuid.UUID     `gorm:"size:36;index" json:"host_id"`
	City        string        `gorm:"size:128" json:"city"`
	Country     string        `gorm:"size:128" json:"country"`
	BuiltDate   *time.Time    `json:"built_date,omitempty"`
	Price       Money         `gorm:"embedded;embeddedPrefix:price_" json:"price"`
}

func (Listing) TableName() string {
	return "listings"
}

// ListingCategory agrupa listings (ej: "Beach", "Cabins"), tiene una imagen asociada
type ListingCategory struct {
	Entity
	Name              string    `gorm:"size:64;not null" json:"name"`
	IsSpecialCategory bool      `json:"is_special_category"`
	StorageFileID     uuid.UUID `gorm:"size:36" json:"storage_file_id"`
}

func (ListingCategory) TableName() string {
	return "listing_categories"
}

// ListingCategoryAssociation es la relación muchos a muchos entre listing y categoría
type ListingCategoryAssociation struct {
	Entity
	ListingID         uuid.UUID `gorm:"size:36;index" json:"listing_id"`
	ListingCategoryID uuid.UUID `gorm:"size:36;index" json:"listing_category_id"`
}

func (ListingCategoryAssociation) TableName() string {
	return "listing_category_associations"
}

// ListingFeature es una característica cuantificable (ej: "Bedrooms" 1..10)
// que aplica a un tipo de listing
type ListingFeature struct {
	Entity
	Name          string    `gorm:"size:128;not null" json:"name"`
	MinValue      int       `json:"min_value"`
	MaxValue      int       `json:"max_value"`
	ListingTypeID uuid.UUID `gorm:"size:36" json:"listing_type_id"`
}

func (ListingFeature) TableName() string {
	return "listing_features"
}

// ListingRules son las reglas de la casa de un listing.
// Los horarios se guardan en minutos desde medianoche.
type ListingRules struct {
	Entity
	ListingID       uuid.UUID `gorm:"size:36;index" json:"listing_id"`
	Guests          int       `json:"guests"`
	PetsAllowed     bool      `json:"pets_allowed"`
	EventsAllowed   bool      `json:"events_allowed"`
	SmokingAllowed  bool      `json:"smoking_allowed"`
	CheckInStart    *int      `json:"check_in_start,omitempty"`
	CheckInEnd      *int      `json:"check_in_end,omitempty"`
	CheckOut        *int      `json:"check_out,omitempty"`
	AdditionalRules *string   `json:"additional_rules,omitempty"`
}

func (ListingRules) TableName() string {
	return "listing_rules"
}

// ListingRating guarda la calificación agregada de un listing (una por listing)
type ListingRating struct {
	Entity
	ListingID    uuid.UUID `gorm:"size:36;index" json:"listing_id"`
	Rating       float64   `json:"rating"`
	ReviewsCount int       `json:"reviews_count"`
}

func (ListingRating) TableName() string {
	return "listing_ratings"
}

// ScenicView es una vista destacada (ej: "Ocean view")
type ScenicView struct {
	Entity
	Name string `gorm:"size:128;not null" json:"name"`
}

func (ScenicView) TableName() string {
	return "scenic_views"
}
