package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openlearn/lms-api/internal/core"
	"github.com/openlearn/lms-api/internal/data"
	domainauth "github.com/openlearn/lms-api/internal/domain/auth"
	"github.com/openlearn/lms-api/internal/domain/model"
	apperrors "github.com/openlearn/lms-api/internal/errors"
	"github.com/openlearn/lms-api/internal/ports"
)

const courseCatalogCacheKey = "courses:all"

func courseCacheKey(id string) string { return "course:" + id }

// CourseServiceOptions groups dependencies for CourseService.
type CourseServiceOptions struct {
	Courses       core.CourseRepository       // Required: course repository
	Cache         core.CacheRepository        // Required: read-through cache
	Users         core.UserRepository         // Optional: asker lookup for answer mail
	Notifications core.NotificationRepository // Optional: admin notification records
	Mailer        ports.Mailer                // Optional: outbound mail
	CacheTTL      time.Duration               // Optional: cached projection TTL (0 = no expiry)
	TimeProvider  data.TimeProvider           // Optional: timestamps for embedded documents
	Logger        *slog.Logger                // Optional: structured logger
}

// CourseService serves sanitized course projections through a read-through
// cache and orchestrates the embedded-document mutations (questions,
// answers, reviews, replies).
//
// Cache discipline is delete-on-write: every mutation writes the canonical
// store first, then deletes the per-course key and the catalog key. Reads
// degrade to the canonical store when the cache is unavailable.
type CourseService struct {
	courses       core.CourseRepository
	cache         core.CacheRepository
	users         core.UserRepository
	notifications core.NotificationRepository
	mailer        ports.Mailer
	cacheTTL      time.Duration
	time          data.TimeProvider
	logger        *slog.Logger
}

// NewCourseService constructs a new CourseService.
func NewCourseService(opts CourseServiceOptions) (*CourseService, error) {
	if opts.Courses == nil {
		return nil, errors.New("CourseRepository is required")
	}
	if opts.Cache == nil {
		return nil, errors.New("CacheRepository is required")
	}
	if opts.TimeProvider == nil {
		opts.TimeProvider = &data.RealTimeProvider{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &CourseService{
		courses:       opts.Courses,
		cache:         opts.Cache,
		users:         opts.Users,
		notifications: opts.Notifications,
		mailer:        opts.Mailer,
		cacheTTL:      opts.CacheTTL,
		time:          opts.TimeProvider,
		logger:        opts.Logger.With("component", "course_service"),
	}, nil
}

// Create persists a new course and invalidates the catalog projection.
func (s *CourseService) Create(ctx context.Context, req *model.CreateCourseRequest) (*model.Course, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	course, err := s.courses.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.invalidate(ctx, course.ID); err != nil {
		return nil, err
	}
	return course, nil
}

// Update applies a partial course update and invalidates both projections.
func (s *CourseService) Update(ctx context.Context, id string, req model.UpdateCourseRequest) (*model.Course, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	course, err := s.courses.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if err := s.invalidate(ctx, id); err != nil {
		return nil, err
	}
	return course, nil
}

// Delete removes a course and invalidates both projections.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	ok, err := s.courses.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound("Course not found")
	}
	return s.invalidate(ctx, id)
}

// GetView returns the sanitized single-course projection, cache first.
func (s *CourseService) GetView(ctx context.Context, id string) (model.CourseView, error) {
	key := courseCacheKey(id)

	if cached, err := s.cache.Get(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "course cache read failed", "key", key, "error", err)
	} else if cached != nil {
		var view model.CourseView
		if err := json.Unmarshal(cached, &view); err == nil {
			return view, nil
		}
		s.logger.WarnContext(ctx, "corrupt course cache entry", "key", key)
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return model.CourseView{}, err
	}

	view := model.NewCourseView(course)
	s.fillCache(ctx, key, view)
	return view, nil
}

// ListViews returns the sanitized catalog, cache first.
func (s *CourseService) ListViews(ctx context.Context) ([]model.CourseView, error) {
	if cached, err := s.cache.Get(ctx, courseCatalogCacheKey); err != nil {
		s.logger.WarnContext(ctx, "catalog cache read failed", "error", err)
	} else if cached != nil {
		var views []model.CourseView
		if err := json.Unmarshal(cached, &views); err == nil {
			return views, nil
		}
		s.logger.WarnContext(ctx, "corrupt catalog cache entry")
	}

	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]model.CourseView, 0, len(courses))
	for _, c := range courses {
		views = append(views, model.NewCourseView(c))
	}
	s.fillCache(ctx, courseCatalogCacheKey, views)
	return views, nil
}

// List returns the full course records (admin operation, uncached).
func (s *CourseService) List(ctx context.Context) ([]*model.Course, error) {
	return s.courses.List(ctx)
}

// GetContent returns the full course, video URLs and question threads
// included, for purchasers and admins.
func (s *CourseService) GetContent(ctx context.Context, identity domainauth.Identity, courseID string) (*model.Course, error) {
	if !identity.Owns(courseID) && !identity.IsAdmin() {
		return nil, apperrors.Forbidden("You have not purchased this course")
	}
	return s.courses.GetByID(ctx, courseID)
}

// AddQuestion attaches a purchaser question to a course section.
func (s *CourseService) AddQuestion(ctx context.Context, identity domainauth.Identity, req model.AddQuestionRequest) (*model.Course, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !identity.Owns(req.CourseID) && !identity.IsAdmin() {
		return nil, apperrors.Forbidden("You have not purchased this course")
	}

	course, err := s.courses.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	idx := sectionIndex(course.Sections, req.SectionID)
	if idx < 0 {
		return nil, apperrors.NotFound("Section not found")
	}

	course.Sections[idx].Questions = append(course.Sections[idx].Questions, model.Question{
		ID:        uuid.NewString(),
		UserID:    identity.ID,
		UserName:  identity.Name,
		Text:      req.Question,
		CreatedAt: s.time.Now(),
	})

	updated, err := s.courses.ReplaceSections(ctx, course.ID, course.Sections)
	if err != nil {
		return nil, err
	}
	if err := s.invalidate(ctx, course.ID); err != nil {
		return nil, err
	}

	s.recordNotification(ctx, identity.ID, "New Question Received",
		fmt.Sprintf("%s asked a question in %s", identity.Name, course.Name))
	return updated, nil
}

// AddAnswer attaches an answer to a question thread. When the answerer is
// not the asker, the asker is notified by mail, best effort.
func (s *CourseService) AddAnswer(ctx context.Context, identity domainauth.Identity, req model.AddAnswerRequest) (*model.Course, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !identity.Owns(req.CourseID) && !identity.IsAdmin() {
		return nil, apperrors.Forbidden("You have not purchased this course")
	}

	course, err := s.courses.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	si := sectionIndex(course.Sections, req.SectionID)
	if si < 0 {
		return nil, apperrors.NotFound("Section not found")
	}

	qi := -1
	for i, q := range course.Sections[si].Questions {
		if q.ID == req.QuestionID {
			qi = i
			break
		}
	}
	if qi < 0 {
		return nil, apperrors.NotFound("Question not found")
	}

	question := &course.Sections[si].Questions[qi]
	question.Answers = append(question.Answers, model.Answer{
		ID:        uuid.NewString(),
		UserID:    identity.ID,
		UserName:  identity.Name,
		Text:      req.Answer,
		CreatedAt: s.time.Now(),
	})

	updated, err := s.courses.ReplaceSections(ctx, course.ID, course.Sections)
	if err != nil {
		return nil, err
	}
	if err := s.invalidate(ctx, course.ID); err != nil {
		return nil, err
	}

	if question.UserID != identity.ID {
		s.mailQuestionReply(ctx, question.UserID, question.Text, course.Name)
	}
	return updated, nil
}

// AddReview attaches a purchaser review and recomputes the course rating.
// One review per purchaser per course.
func (s *CourseService) AddReview(ctx context.Context, identity domainauth.Identity, courseID string, req model.AddReviewRequest) (*model.Course, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !identity.Owns(courseID) {
		return nil, apperrors.Forbidden("You have not purchased this course")
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	for _, r := range course.Reviews {
		if r.UserID == identity.ID {
			return nil, apperrors.Conflict("You have already reviewed this course")
		}
	}

	reviews := append(course.Reviews, model.Review{
		ID:        uuid.NewString(),
		UserID:    identity.ID,
		UserName:  identity.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: s.time.Now(),
	})

	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	ratings := sum / float64(len(reviews))

	updated, err := s.courses.ReplaceReviews(ctx, courseID, reviews, ratings)
	if err != nil {
		return nil, err
	}
	if err := s.invalidate(ctx, courseID); err != nil {
		return nil, err
	}

	s.recordNotification(ctx, identity.ID, "New Review Received",
		fmt.Sprintf("%s reviewed %s", identity.Name, course.Name))
	return updated, nil
}

// AddReviewReply attaches an admin reply to a review.
func (s *CourseService) AddReviewReply(ctx context.Context, identity domainauth.Identity, req model.AddReviewReplyRequest) (*model.Course, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	ri := -1
	for i, r := range course.Reviews {
		if r.ID == req.ReviewID {
			ri = i
			break
		}
	}
	if ri < 0 {
		return nil, apperrors.NotFound("Review not found")
	}

	course.Reviews[ri].Replies = append(course.Reviews[ri].Replies, model.Reply{
		ID:        uuid.NewString(),
		UserID:    identity.ID,
		UserName:  identity.Name,
		Comment:   req.Comment,
		CreatedAt: s.time.Now(),
	})

	updated, err := s.courses.ReplaceReviews(ctx, req.CourseID, course.Reviews, course.Ratings)
	if err != nil {
		return nil, err
	}
	if err := s.invalidate(ctx, req.CourseID); err != nil {
		return nil, err
	}
	return updated, nil
}

// invalidate deletes the per-course and catalog cache keys after a
// canonical write.
func (s *CourseService) invalidate(ctx context.Context, courseID string) error {
	for _, key := range []string{courseCacheKey(courseID), courseCatalogCacheKey} {
		if _, err := s.cache.Delete(ctx, key); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeUpstream, "Could not invalidate course cache")
		}
	}
	return nil
}

// fillCache stores a projection, best effort. A failed write only costs
// the next reader a canonical-store round trip.
func (s *CourseService) fillCache(ctx context.Context, key string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		s.logger.ErrorContext(ctx, "marshal course projection", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "course cache write failed", "key", key, "error", err)
	}
}

func (s *CourseService) recordNotification(ctx context.Context, userID, title, message string) {
	if s.notifications == nil {
		return
	}
	n := &model.Notification{UserID: userID, Title: title, Message: message}
	if _, err := s.notifications.Create(ctx, n); err != nil {
		s.logger.ErrorContext(ctx, "notification record failed", "title", title, "error", err)
	}
}

func (s *CourseService) mailQuestionReply(ctx context.Context, askerID, questionText, courseName string) {
	if s.mailer == nil || s.users == nil {
		return
	}

	asker, err := s.users.GetByID(ctx, askerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "asker lookup failed", "user_id", askerID, "error", err)
		return
	}

	err = s.mailer.Send(ctx, ports.Mail{
		To:       asker.Email,
		Subject:  "Your question received a reply",
		Template: "question_reply",
		Data: map[string]any{
			"Name":       asker.Name,
			"CourseName": courseName,
			"Question":   questionText,
		},
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "question reply mail failed", "user_id", askerID, "error", err)
	}
}

func sectionIndex(sections []model.Section, id string) int {
	for i, s := range sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}
