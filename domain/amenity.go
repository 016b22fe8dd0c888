package domain

import "github.com/google/uuid"

// AmenityCategory agrupa amenities (ej: "Kitchen", "Safety")
type AmenityCategory struct {
	Entity
	CategoryName string `gorm:"size:128;not null" json:"category_name"`
}

func (AmenityCategory) TableName() string {
	return "amenity_categories"
}

// Amenity es una comodidad ofrecida (ej: "Wifi"), pertenece a una categoría
type Amenity struct {
	Entity
	AmenityName string    `gorm:"size:128;not null" json:"amenity_name"`
	CategoryID  uuid.UUID `gorm:"size:36;index" json:"category_id"`
}

func (Amenity) TableName() string {
	return "amenities"
}

// ListingAmenities asocia un amenity con un listing
type ListingAmenities struct {
	Entity
	ListingID uuid.UUID `gorm:"size:36;index" json:"listing_id"`
	AmenityID uuid.UUID `gorm:"size:36;index" json:"amenity_id"`
}

func (ListingAmenities) TableName() string {
	return "listing_amenities"
}
