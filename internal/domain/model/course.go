package model

import (
	"strings"
	"time"

	apperrors "github.com/openlearn/lms-api/internal/errors"
)

// Course is the canonical course record. Sections, reviews, and their nested
// threads are stored as JSONB documents alongside the scalar columns.
type Course struct {
	ID             string    `json:"id"                        db:"id"`
	Name           string    `json:"name"                      db:"name"`
	Description    string    `json:"description"               db:"description"`
	Category       string    `json:"category,omitempty"        db:"category"`
	Price          float64   `json:"price"                     db:"price"`
	EstimatedPrice float64   `json:"estimated_price,omitempty" db:"estimated_price"`
	ThumbnailURL   string    `json:"thumbnail_url,omitempty"   db:"thumbnail_url"`
	Tags           string    `json:"tags,omitempty"            db:"tags"`
	Level          string    `json:"level,omitempty"           db:"level"`
	DemoURL        string    `json:"demo_url,omitempty"        db:"demo_url"`
	Benefits       []string  `json:"benefits"                  db:"benefits"`
	Prerequisites  []string  `json:"prerequisites"             db:"prerequisites"`
	Sections       []Section `json:"sections"                  db:"sections"`
	Reviews        []Review  `json:"reviews"                   db:"reviews"`
	Ratings        float64   `json:"ratings"                   db:"ratings"`
	Purchased      int       `json:"purchased"                 db:"purchased"`
	CreatedAt      time.Time `json:"created_at"                db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"                db:"updated_at"`
}

// Section is one unit of course content, including its question thread.
type Section struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	VideoURL    string     `json:"video_url,omitempty"`
	VideoLength int        `json:"video_length,omitempty"`
	Questions   []Question `json:"questions,omitempty"`
}

// Question is a purchaser question attached to a section.
type Question struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Text      string    `json:"text"`
	Answers   []Answer  `json:"answers,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Answer is a reply inside a question thread.
type Answer struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Review is a purchaser review; Replies holds admin responses.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	Replies   []Reply   `json:"replies,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Reply is an admin response to a review.
type Reply struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// CourseView is the sanitized single-course projection served to anyone,
// purchaser or not. It excludes video URLs and question threads; those are
// only visible through the purchaser content endpoint.
type CourseView struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Category       string        `json:"category,omitempty"`
	Price          float64       `json:"price"`
	EstimatedPrice float64       `json:"estimated_price,omitempty"`
	ThumbnailURL   string        `json:"thumbnail_url,omitempty"`
	Tags           string        `json:"tags,omitempty"`
	Level          string        `json:"level,omitempty"`
	DemoURL        string        `json:"demo_url,omitempty"`
	Benefits       []string      `json:"benefits"`
	Prerequisites  []string      `json:"prerequisites"`
	Sections       []SectionView `json:"sections"`
	Reviews        []Review      `json:"reviews"`
	Ratings        float64       `json:"ratings"`
	Purchased      int           `json:"purchased"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// SectionView is the sanitized section projection: outline only.
type SectionView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	VideoLength int    `json:"video_length,omitempty"`
}

// NewCourseView builds the sanitized projection of a course.
func NewCourseView(c *Course) CourseView {
	sections := make([]SectionView, 0, len(c.Sections))
	for _, s := range c.Sections {
		sections = append(sections, SectionView{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			VideoLength: s.VideoLength,
		})
	}
	return CourseView{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		Category:       c.Category,
		Price:          c.Price,
		EstimatedPrice: c.EstimatedPrice,
		ThumbnailURL:   c.ThumbnailURL,
		Tags:           c.Tags,
		Level:          c.Level,
		DemoURL:        c.DemoURL,
		Benefits:       c.Benefits,
		Prerequisites:  c.Prerequisites,
		Sections:       sections,
		Reviews:        c.Reviews,
		Ratings:        c.Ratings,
		Purchased:      c.Purchased,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// CreateCourseRequest carries a new course payload.
type CreateCourseRequest struct {
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Category       string    `json:"category,omitempty"`
	Price          float64   `json:"price"`
	EstimatedPrice float64   `json:"estimated_price,omitempty"`
	ThumbnailURL   string    `json:"thumbnail_url,omitempty"`
	Tags           string    `json:"tags,omitempty"`
	Level          string    `json:"level,omitempty"`
	DemoURL        string    `json:"demo_url,omitempty"`
	Benefits       []string  `json:"benefits,omitempty"`
	Prerequisites  []string  `json:"prerequisites,omitempty"`
	Sections       []Section `json:"sections,omitempty"`
}

// Validate validates CreateCourseRequest.
func (r *CreateCourseRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return apperrors.ValidationField("name", "Course name is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		return apperrors.ValidationField("description", "Course description is required")
	}
	if r.Price < 0 {
		return apperrors.ValidationField("price", "Price cannot be negative")
	}
	return nil
}

// UpdateCourseRequest carries a partial course update.
type UpdateCourseRequest struct {
	Name           *string    `json:"name,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Category       *string    `json:"category,omitempty"`
	Price          *float64   `json:"price,omitempty"`
	EstimatedPrice *float64   `json:"estimated_price,omitempty"`
	ThumbnailURL   *string    `json:"thumbnail_url,omitempty"`
	Tags           *string    `json:"tags,omitempty"`
	Level          *string    `json:"level,omitempty"`
	DemoURL        *string    `json:"demo_url,omitempty"`
	Benefits       *[]string  `json:"benefits,omitempty"`
	Prerequisites  *[]string  `json:"prerequisites,omitempty"`
	Sections       *[]Section `json:"sections,omitempty"`
}

// Validate validates UpdateCourseRequest.
func (r *UpdateCourseRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return apperrors.ValidationField("name", "Course name cannot be empty")
	}
	if r.Price != nil && *r.Price < 0 {
		return apperrors.ValidationField("price", "Price cannot be negative")
	}
	return nil
}

// AddQuestionRequest attaches a question to a course section.
type AddQuestionRequest struct {
	CourseID  string `json:"course_id"`
	SectionID string `json:"section_id"`
	Question  string `json:"question"`
}

// Validate validates AddQuestionRequest.
func (r *AddQuestionRequest) Validate() error {
	if r.CourseID == "" || r.SectionID == "" {
		return apperrors.Validation("Course and section are required")
	}
	if strings.TrimSpace(r.Question) == "" {
		return apperrors.ValidationField("question", "Question text is required")
	}
	return nil
}

// AddAnswerRequest attaches an answer to a question thread.
type AddAnswerRequest struct {
	CourseID   string `json:"course_id"`
	SectionID  string `json:"section_id"`
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

// Validate validates AddAnswerRequest.
func (r *AddAnswerRequest) Validate() error {
	if r.CourseID == "" || r.SectionID == "" || r.QuestionID == "" {
		return apperrors.Validation("Course, section and question are required")
	}
	if strings.TrimSpace(r.Answer) == "" {
		return apperrors.ValidationField("answer", "Answer text is required")
	}
	return nil
}

// AddReviewRequest attaches a review to a course.
type AddReviewRequest struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

// Validate validates AddReviewRequest.
func (r *AddReviewRequest) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return apperrors.ValidationField("rating", "Rating must be between 1 and 5")
	}
	if strings.TrimSpace(r.Comment) == "" {
		return apperrors.ValidationField("comment", "Review comment is required")
	}
	return nil
}

// AddReviewReplyRequest attaches an admin reply to a review.
type AddReviewReplyRequest struct {
	CourseID string `json:"course_id"`
	ReviewID string `json:"review_id"`
	Comment  string `json:"comment"`
}

// Validate validates AddReviewReplyRequest.
func (r *AddReviewReplyRequest) Validate() error {
	if r.CourseID == "" || r.ReviewID == "" {
		return apperrors.Validation("Course and review are required")
	}
	if strings.TrimSpace(r.Comment) == "" {
		return apperrors.ValidationField("comment", "Reply comment is required")
	}
	return nil
}
