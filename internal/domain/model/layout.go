package model

import (
	"strings"
	"time"

	apperrors "github.com/openlearn/lms-api/internal/errors"
)

// LayoutType tags the layout variants. Exactly one variant payload is
// populated per record; ParseLayoutType rejects anything else.
type LayoutType string

const (
	LayoutBanner     LayoutType = "banner"
	LayoutFAQ        LayoutType = "faq"
	LayoutCategories LayoutType = "categories"
)

// Valid reports whether the layout type is supported.
func (t LayoutType) Valid() bool {
	switch t {
	case LayoutBanner, LayoutFAQ, LayoutCategories:
		return true
	default:
		return false
	}
}

// ParseLayoutType normalizes a layout type string and reports whether it is supported.
func ParseLayoutType(value string) (LayoutType, bool) {
	t := LayoutType(strings.ToLower(strings.TrimSpace(value)))
	if t.Valid() {
		return t, true
	}
	return "", false
}

// Banner is the hero banner payload.
type Banner struct {
	ImageURL string `json:"image_url"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
}

// FAQItem is one FAQ entry.
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CategoryItem is one catalog category.
type CategoryItem struct {
	Title string `json:"title"`
}

// Layout is a singleton-per-type page fragment. The variant matching Type is
// populated; the other two are nil.
type Layout struct {
	ID         string         `json:"id"                   db:"id"`
	Type       LayoutType     `json:"type"                 db:"type"`
	Banner     *Banner        `json:"banner,omitempty"     db:"banner"`
	FAQ        []FAQItem      `json:"faq,omitempty"        db:"faq"`
	Categories []CategoryItem `json:"categories,omitempty" db:"categories"`
	CreatedAt  time.Time      `json:"created_at"           db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"           db:"updated_at"`
}

// UpsertLayoutRequest creates or replaces the layout of the given type.
type UpsertLayoutRequest struct {
	Type       string         `json:"type"`
	Banner     *Banner        `json:"banner,omitempty"`
	FAQ        []FAQItem      `json:"faq,omitempty"`
	Categories []CategoryItem `json:"categories,omitempty"`
}

// Validate checks that the request carries exactly the payload its type names.
func (r *UpsertLayoutRequest) Validate() error {
	t, ok := ParseLayoutType(r.Type)
	if !ok {
		return apperrors.ValidationField("type", "Unknown layout type")
	}

	switch t {
	case LayoutBanner:
		if r.Banner == nil {
			return apperrors.ValidationField("banner", "Banner payload is required")
		}
		if strings.TrimSpace(r.Banner.Title) == "" {
			return apperrors.ValidationField("banner", "Banner title is required")
		}
	case LayoutFAQ:
		if len(r.FAQ) == 0 {
			return apperrors.ValidationField("faq", "At least one FAQ item is required")
		}
		for _, item := range r.FAQ {
			if strings.TrimSpace(item.Question) == "" || strings.TrimSpace(item.Answer) == "" {
				return apperrors.ValidationField("faq", "FAQ items need both question and answer")
			}
		}
	case LayoutCategories:
		if len(r.Categories) == 0 {
			return apperrors.ValidationField("categories", "At least one category is required")
		}
		for _, item := range r.Categories {
			if strings.TrimSpace(item.Title) == "" {
				return apperrors.ValidationField("categories", "Category title is required")
			}
		}
	}
	return nil
}

// Layout builds the Layout record for this request. Call Validate first.
func (r *UpsertLayoutRequest) Layout() Layout {
	t, _ := ParseLayoutType(r.Type)
	out := Layout{Type: t}
	switch t {
	case LayoutBanner:
		out.Banner = r.Banner
	case LayoutFAQ:
		out.FAQ = r.FAQ
	case LayoutCategories:
		out.Categories = r.Categories
	}
	return out
}
