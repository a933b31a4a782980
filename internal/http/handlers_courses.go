package httpx

import (
	"net/http"

	"github.com/openlearn/lms-api/internal/domain/model"
	apperrors "github.com/openlearn/lms-api/internal/errors"
	"github.com/openlearn/lms-api/internal/service"
)

// CourseHandlers provides HTTP handlers for the course catalog, purchased
// content, and the embedded question/review threads.
type CourseHandlers struct {
	Svc *service.CourseService
}

// Create handles POST /create-course (admin).
func (h *CourseHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCourseRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	course, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"course": course})
}

// Update handles PUT /edit-course/{id} (admin).
func (h *CourseHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		RenderError(w, r, apperrors.ValidationField("id", "Course id is required"))
		return
	}

	var req model.UpdateCourseRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	course, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"course": course})
}

// GetView handles GET /courses/{id}. Public: the projection excludes video
// URLs and question threads.
func (h *CourseHandlers) GetView(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		RenderError(w, r, apperrors.ValidationField("id", "Course id is required"))
		return
	}

	view, err := h.Svc.GetView(r.Context(), id)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"course": view})
}

// ListViews handles GET /courses. Public sanitized catalog.
func (h *CourseHandlers) ListViews(w http.ResponseWriter, r *http.Request) {
	views, err := h.Svc.ListViews(r.Context())
	if err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"courses": views})
}

// ListAll handles GET /all-courses (admin). Full records, uncached.
func (h *CourseHandlers) ListAll(w http.ResponseWriter, r *http.Request) {
	courses, err := h.Svc.List(r.Context())
	if err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"courses": courses})
}

// GetContent handles GET /course-content/{id}. Purchasers and admins only.
func (h *CourseHandlers) GetContent(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		RenderError(w, r, apperrors.Unauthenticated("Please log in to access this resource"))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		RenderError(w, r, apperrors.ValidationField("id", "Course id is required"))
		return
	}

	course, err := h.Svc.GetContent(r.Context(), identity, id)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"course": course})
}

// AddQuestion handles PUT /add-question.
func (h *CourseHandlers) AddQuestion(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		RenderError(w, r, apperrors.Unauthenticated("Please log in to access this resource"))
		return
	}

	var req model.AddQuestionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	course, err := h.Svc.AddQuestion(r.Context(), identity, req)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"course": course})
}

// AddAnswer handles PUT /add-answer.
func (h *CourseHandlers) AddAnswer(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		RenderError(w, r, apperrors.Unauthenticated("Please log in to access this resource"))
		return
	}

	var req model.AddAnswerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	course, err := h.Svc.AddAnswer(r.Context(), identity, req)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"course": course})
}

// AddReview handles PUT /add-review/{id}.
func (h *CourseHandlers) AddReview(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		RenderError(w, r, apperrors.Unauthenticated("Please log in to access this resource"))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		RenderError(w, r, apperrors.ValidationField("id", "Course id is required"))
		return
	}

	var req model.AddReviewRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	course, err := h.Svc.AddReview(r.Context(), identity, id, req)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"course": course})
}

// AddReviewReply handles PUT /add-review-reply (admin).
func (h *CourseHandlers) AddReviewReply(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		RenderError(w, r, apperrors.Unauthenticated("Please log in to access this resource"))
		return
	}

	var req model.AddReviewReplyRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	course, err := h.Svc.AddReviewReply(r.Context(), identity, req)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"course": course})
}

// Delete handles DELETE /courses/{id} (admin).
func (h *CourseHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		RenderError(w, r, apperrors.ValidationField("id", "Course id is required"))
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Course deleted successfully"})
}
