package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound  = errors.New("catalog entry not found")
	ErrSlugTaken = errors.New("slug already in use")
)

// Category groups services into logical sections of the site.
type Category struct {
	ID           int64     `json:"-"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description,omitempty"`
	IconClass    string    `json:"icon_class"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	ServiceCount int       `json:"service_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Service is one offering in the catalog. Images live behind external URLs
// rather than local storage.
type Service struct {
	ID               int64            `json:"-"`
	CategoryID       int64            `json:"-"`
	CategoryName     string           `json:"category_name"`
	CategorySlug     string           `json:"category_slug"`
	Title            string           `json:"title"`
	Slug             string           `json:"slug"`
	ShortDescription string           `json:"short_description"`
	FullDescription  string           `json:"full_description,omitempty"`
	ImageURL         string           `json:"image_url"`
	IconClass        string           `json:"icon_class"`
	PriceStartingAt  *decimal.Decimal `json:"price_starting_at,omitempty"`
	DeliveryTimeDays *int             `json:"delivery_time_days,omitempty"`
	Features         []string         `json:"features"`
	DisplayOrder     int              `json:"display_order"`
	IsFeatured       bool             `json:"is_featured"`
	IsActive         bool             `json:"is_active"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// PriceDisplay renders the starting price, or a call to action when the
// service is quoted per project.
func (s *Service) PriceDisplay() string {
	if s.PriceStartingAt == nil {
		return "Contact Us"
	}
	return "Starting at $" + s.PriceStartingAt.StringFixed(2)
}

// DeliveryDisplay renders the typical delivery window in humane units.
func (s *Service) DeliveryDisplay() string {
	if s.DeliveryTimeDays == nil {
		return "Custom timeline"
	}
	days := *s.DeliveryTimeDays
	switch {
	case days == 1:
		return "1 day"
	case days < 7:
		return fmt.Sprintf("%d days", days)
	case days < 30:
		weeks := days / 7
		if weeks == 1 {
			return "1 week"
		}
		return fmt.Sprintf("%d weeks", weeks)
	default:
		months := days / 30
		if months == 1 {
			return "1 month"
		}
		return fmt.Sprintf("%d months", months)
	}
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-friendly slug from a display name.
func Slugify(name string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
