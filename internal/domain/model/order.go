package model

import (
	"encoding/json"
	"time"

	apperrors "github.com/openlearn/lms-api/internal/errors"
)

// Order records a course purchase. PaymentInfo is opaque gateway metadata;
// the API stores and echoes it without interpreting its shape.
type Order struct {
	ID          string          `json:"id"                     db:"id"`
	CourseID    string          `json:"course_id"              db:"course_id"`
	UserID      string          `json:"user_id"                db:"user_id"`
	PaymentInfo json.RawMessage `json:"payment_info,omitempty" db:"payment_info"`
	CreatedAt   time.Time       `json:"created_at"             db:"created_at"`
}

// CreateOrderRequest carries a purchase request.
type CreateOrderRequest struct {
	CourseID    string          `json:"course_id"`
	PaymentInfo json.RawMessage `json:"payment_info,omitempty"`
}

// Validate validates CreateOrderRequest.
func (r *CreateOrderRequest) Validate() error {
	if r.CourseID == "" {
		return apperrors.ValidationField("course_id", "Course is required")
	}
	return nil
}
