package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings agrupa las reglas de negocio configurables por entidad
type Settings struct {
	Listing      ListingSettings      `yaml:"listing"`
	ListingRules ListingRulesSettings `yaml:"listing_rules"`
	Reviews      ReviewSettings       `yaml:"reviews"`
	Reservations ReservationSettings  `yaml:"reservations"`
	EmailSender  EmailSenderSettings  `yaml:"email_sender"`
	Verification VerificationSettings `yaml:"verification"`
	Cache        CacheSettings        `yaml:"cache"`
}

type ListingSettings struct {
	MinTitleLength  int     `yaml:"min_title_length"`
	MaxTitleLength  int     `yaml:"max_title_length"`
	MinListingPrice float64 `yaml:"min_price"`
}

type ListingRulesSettings struct {
	GuestsMinCount            int `yaml:"guests_min_count"`
	MinCheckInDurationInHours int `yaml:"min_check_in_duration_hours"`
	FeatureMinValue           int `yaml:"feature_min_value"`
}

type ReviewSettings struct {
	MinCommentLength int `yaml:"min_comment_length"`
	MaxCommentLength int `yaml:"max_comment_length"`
}

type ReservationSettings struct {
	MaxStayDays int `yaml:"max_stay_days"`
}

// EmailSenderSettings configura el armado de emails a partir de templates
type EmailSenderSettings struct {
	CredentialAddress  string `yaml:"credential_address"`
	PlaceholderPattern string `yaml:"placeholder_pattern"`
	DateFormat         string `yaml:"date_format"`
	CompanyName        string `yaml:"company_name"`
}

type VerificationSettings struct {
	CodeLength        int `yaml:"code_length"`
	ExpirationMinutes int `yaml:"expiration_minutes"`
}

// CacheSettings define los TTL de los dos niveles de caché
type CacheSettings struct {
	MaxSize   int64         `yaml:"max_size"`
	LocalTTL  time.Duration `yaml:"local_ttl"`
	RemoteTTL time.Duration `yaml:"remote_ttl"`
}

// DefaultSettings retorna los valores usados cuando no hay archivo de settings
func DefaultSettings() Settings {
	return Settings{
		Listing: ListingSettings{
			MinTitleLength:  3,
			MaxTitleLength:  128,
			MinListingPrice: 1,
		},
		ListingRules: ListingRulesSettings{
			GuestsMinCount:            1,
			MinCheckInDurationInHours: 1,
			FeatureMinValue:           0,
		},
		Reviews: ReviewSettings{
			MinCommentLength: 0,
			MaxCommentLength: 1000,
		},
		Reservations: ReservationSettings{
			MaxStayDays: 90,
		},
		EmailSender: EmailSenderSettings{
			CredentialAddress:  "no-reply@booking.local",
			PlaceholderPattern: `\{\{[^{}]+\}\}`,
			DateFormat:         "02.01.2006",
			CompanyName:        "AirBnB",
		},
		Verification: VerificationSettings{
			CodeLength:        6,
			ExpirationMinutes: 15,
		},
		Cache: CacheSettings{
			MaxSize:   1000,
			LocalTTL:  5 * time.Minute,
			RemoteTTL: 15 * time.Minute,
		},
	}
}

// LoadSettings lee el archivo YAML de settings sobre los valores por defecto.
// Si el archivo no existe se usan solo los valores por defecto.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return &settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &settings, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Validate verifica que los settings sean coherentes entre sí
func (s Settings) Validate() error {
	if s.Listing.MinTitleLength < 0 || s.Listing.MaxTitleLength < s.Listing.MinTitleLength {
		return fmt.Errorf("invalid listing title length range %d..%d", s.Listing.MinTitleLength, s.Listing.MaxTitleLength)
	}
	if s.ListingRules.GuestsMinCount < 1 {
		return errors.New("listing_rules.guests_min_count must be at least 1")
	}
	if s.Reviews.MaxCommentLength < s.Reviews.MinCommentLength {
		return errors.New("reviews.max_comment_length must not be lower than min_comment_length")
	}
	if s.EmailSender.PlaceholderPattern == "" {
		return errors.New("email_sender.placeholder_pattern is required")
	}
	if s.Verification.CodeLength < 4 {
		return errors.New("verification.code_length must be at least 4")
	}
	return nil
}
