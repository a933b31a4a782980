package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/openlearn/lms-api/internal/data"
	domainauth "github.com/openlearn/lms-api/internal/domain/auth"
	"github.com/openlearn/lms-api/internal/domain/model"
	apperrors "github.com/openlearn/lms-api/internal/errors"
	"github.com/openlearn/lms-api/internal/mocks"
	authmocks "github.com/openlearn/lms-api/internal/mocks/auth"
	"github.com/openlearn/lms-api/internal/testutil"
)

const testCourseID = "2e9b0a1c-9f5a-4c8e-bf2a-6a1d6f3f9b11"

type courseServiceFixture struct {
	courses       *mocks.MockCourseRepository
	cache         *mocks.MockCacheRepository
	users         *mocks.MockUserRepository
	notifications *mocks.MockNotificationRepository
	mailer        *authmocks.RecordingMailer
	svc           *CourseService
}

func newCourseServiceFixture(t *testing.T) *courseServiceFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &courseServiceFixture{
		courses:       mocks.NewMockCourseRepository(ctrl),
		cache:         mocks.NewMockCacheRepository(ctrl),
		users:         mocks.NewMockUserRepository(ctrl),
		notifications: mocks.NewMockNotificationRepository(ctrl),
		mailer:        &authmocks.RecordingMailer{},
	}

	svc, err := NewCourseService(CourseServiceOptions{
		Courses:       f.courses,
		Cache:         f.cache,
		Users:         f.users,
		Notifications: f.notifications,
		Mailer:        f.mailer,
		TimeProvider:  data.NewFixedTimeProvider(testutil.TestTime()),
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

// expectInvalidate registers the delete-on-write expectations for a course.
func (f *courseServiceFixture) expectInvalidate(ctx context.Context, courseID string) {
	f.cache.EXPECT().Delete(ctx, "course:"+courseID).Return(true, nil)
	f.cache.EXPECT().Delete(ctx, "courses:all").Return(true, nil)
}

func testCourse() *model.Course {
	return &model.Course{
		ID:          testCourseID,
		Name:        "Go Basics",
		Description: "An introduction",
		Price:       29.99,
		Sections: []model.Section{
			{
				ID:       "sec-1",
				Title:    "Intro",
				VideoURL: "https://cdn.example.com/secret.mp4",
				Questions: []model.Question{
					{ID: "q-1", UserID: "asker-1", UserName: "Ada", Text: "Why Go?"},
				},
			},
		},
	}
}

func purchaser(courseIDs ...string) domainauth.Identity {
	return domainauth.Identity{
		ID:        "buyer-1",
		Name:      "Grace",
		Email:     "grace@example.com",
		Role:      domainauth.RoleUser,
		CourseIDs: courseIDs,
	}
}

func TestCourseService_GetView(t *testing.T) {
	t.Run("cache hit skips the repository", func(t *testing.T) {
		f := newCourseServiceFixture(t)
		ctx := context.Background()

		cached, err := json.Marshal(model.CourseView{ID: testCourseID, Name: "Go Basics"})
		require.NoError(t, err)
		f.cache.EXPECT().Get(ctx, "course:"+testCourseID).Return(cached, nil)

		view, err := f.svc.GetView(ctx, testCourseID)
		require.NoError(t, err)
		assert.Equal(t, "Go Basics", view.Name)
	})

	t.Run("cache miss loads, sanitizes, and fills the cache", func(t *testing.T) {
		f := newCourseServiceFixture(t)
		ctx := context.Background()

		f.cache.EXPECT().Get(ctx, "course:"+testCourseID).Return(nil, nil)
		f.courses.EXPECT().GetByID(ctx, testCourseID).Return(testCourse(), nil)
		f.cache.EXPECT().
			Set(ctx, "course:"+testCourseID, gomock.Any(), time.Duration(0)).
			DoAndReturn(func(_ context.Context, _ string, payload []byte, _ time.Duration) error {
				// The cached projection must not leak video URLs or questions.
				assert.NotContains(t, string(payload), "secret.mp4")
				assert.NotContains(t, string(payload), "Why Go?")
				return nil
			})

		view, err := f.svc.GetView(ctx, testCourseID)
		require.NoError(t, err)
		assert.Equal(t, "Go Basics", view.Name)
		require.Len(t, view.Sections, 1)
		assert.Equal(t, "Intro", view.Sections[0].Title)
	})

	t.Run("cache outage degrades to the canonical store", func(t *testing.T) {
		f := newCourseServiceFixture(t)
		ctx := context.Background()

		f.cache.EXPECT().Get(ctx, "course:"+testCourseID).Return(nil, errors.New("redis down"))
		f.courses.EXPECT().GetByID(ctx, testCourseID).Return(testCourse(), nil)
		f.cache.EXPECT().Set(ctx, "course:"+testCourseID, gomock.Any(), time.Duration(0)).Return(errors.New("redis down"))

		view, err := f.svc.GetView(ctx, testCourseID)
		require.NoError(t, err)
		assert.Equal(t, "Go Basics", view.Name)
	})

	t.Run("missing course is not found", func(t *testing.T) {
		f := newCourseServiceFixture(t)
		ctx := context.Background()

		f.cache.EXPECT().Get(ctx, gomock.Any()).Return(nil, nil)
		f.courses.EXPECT().GetByID(ctx, "ghost").Return(nil, apperrors.NotFound("Course not found"))

		_, err := f.svc.GetView(ctx, "ghost")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestCourseService_ListViews(t *testing.T) {
	t.Run("fills the catalog key on miss", func(t *testing.T) {
		f := newCourseServiceFixture(t)
		ctx := context.Background()

		f.cache.EXPECT().Get(ctx, "courses:all").Return(nil, nil)
		f.courses.EXPECT().List(ctx).Return([]*model.Course{testCourse()}, nil)
		f.cache.EXPECT().Set(ctx, "courses:all", gomock.Any(), time.Duration(0)).Return(nil)

		views, err := f.svc.ListViews(ctx)
		require.NoError(t, err)
		require.Len(t, views, 1)
	})

	t.Run("serves the cached catalog", func(t *testing.T) {
		f := newCourseServiceFixture(t)
		ctx := context.Background()

		cached, err := json.Marshal([]model.CourseView{{ID: testCourseID}})
		require.NoError(t, err)
		f.cache.EXPECT().Get(ctx, "courses:all").Return(cached, nil)

		views, err := f.svc.ListViews(ctx)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, testCourseID, views[0].ID)
	})
}

func TestCourseService_Mutations_Invalidate(t *testing.T) {
	t.Run("create invalidates the catalog", func(t *testing.T) {
		f := newCourseServiceFixture(t)
		ctx := context.Background()
		req := &model.CreateCourseRequest{Name: "Go Basics", Description: "Intro", Price: 10}

		f.courses.EXPECT().Create(ctx, req).Return(testCourse(), nil)
		f.expectInvalidate(ctx, testCourseID)

		course, err := f.svc.Create(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, testCourseID, course.ID)
	})

	t.Run("update invalidates both keys", func(t *testing.T) {
		f := newCourseServiceFixture(t)
		ctx := context.Background()
		req := model.UpdateCourseRequest{Price: testutil.Float64Ptr(19.99)}

		f.courses.EXPECT().Update(ctx, testCourseID, req).Return(testCourse(), nil)
		f.expectInvalidate(ctx, testCourseID)

		_, err := f.svc.Update(ctx, testCourseID, req)
		require.NoError(t, err)
	})

	t.Run("delete invalidates both keys", func(t *testing.T) {
		f := newCourseServiceFixture(t)
		ctx := context.Background()

		f.courses.EXPECT().Delete(ctx, testCourseID).Return(true, nil)
		f.expectInvalidate(ctx, testCourseID)

		require.NoError(t, f.svc.Delete(ctx, testCourseID))
	})

	t.Run("delete of missing course is not found", func(t *testing.T) {
		f := newCourseServiceFixture(t)
		ctx := context.Background()

		f.courses.EXPECT().Delete(ctx, "ghost").Return(false, nil)

		err := f.svc.Delete(ctx, "ghost")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("invalidation failure surfaces as upstream", func(t *testing.T) {
		f := newCourseServiceFixture(t)
		ctx := context.Background()

		f.courses.EXPECT().Delete(ctx, testCourseID).Return(true, nil)
		f.cache.EXPECT().Delete(ctx, "course:"+testCourseID).Return(false, errors.New("redis down"))

		err := f.svc.Delete(ctx, testCourseID)
		require.Error(t, err)
		assert.True(t, apperrors.IsUpstream(err))
	})
}

func TestCourseService_GetContent(t *testing.T) {
	t.Run("purchaser sees full content", func(t *testing.T) {
		f := newCourseServiceFixture(t)
		ctx := context.Background()

		f.courses.EXPECT().GetByID(ctx, testCourseID).Return(testCourse(), nil)

		course, err := f.svc.GetContent(ctx, purchaser(testCourseID), testCourseID)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/secret.mp4", course.Sections[0].VideoURL)
	})

	t.Run("non-purchaser is forbidden", func(t *testing.T) {
		f := newCourseServiceFixture(t)

		_, err := f.svc.GetContent(context.Background(), purchaser(), testCourseID)
		require.Error(t, err)
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("admin bypasses the ownership check", func(t *testing.T) {
		f := newCourseServiceFixture(t)
		ctx := context.Background()

		f.courses.EXPECT().GetByID(ctx, testCourseID).Return(testCourse(), nil)

		admin := domainauth.Identity{ID: "admin-1", Role: domainauth.RoleAdmin}
		_, err := f.svc.GetContent(ctx, admin, testCourseID)
		require.NoError(t, err)
	})
}

func TestCourseService_AddQuestion(t *testing.T) {
	t.Run("appends to the section thread and records a notification", func(t *testing.T) {
		f := newCourseServiceFixture(t)
		ctx := context.Background()

		f.courses.EXPECT().GetByID(ctx, testCourseID).Return(testCourse(), nil)
		f.courses.EXPECT().
			ReplaceSections(ctx, testCourseID, gomock.Any()).
			DoAndReturn(func(_ context.Context, id string, sections []model.Section) (*model.Course, error) {
				require.Len(t, sections[0].Questions, 2)
				added := sections[0].Questions[1]
				assert.Equal(t, "buyer-1", added.UserID)
				assert.Equal(t, "Is there homework?", added.Text)
				assert.NotEmpty(t, added.ID)
				course := testCourse()
				course.Sections = sections
				return course, nil
			})
		f.expectInvalidate(ctx, testCourseID)
		f.notifications.EXPECT().Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, n *model.Notification) (*model.Notification, error) {
				assert.Equal(t, "New Question Received", n.Title)
				assert.Equal(t, "buyer-1", n.UserID)
				return n, nil
			})

		_, err := f.svc.AddQuestion(ctx, purchaser(testCourseID), model.AddQuestionRequest{
			CourseID:  testCourseID,
			SectionID: "sec-1",
			Question:  "Is there homework?",
		})
		require.NoError(t, err)
	})

	t.Run("non-purchaser is forbidden", func(t *testing.T) {
		f := newCourseServiceFixture(t)

		_, err := f.svc.AddQuestion(context.Background(), purchaser(), model.AddQuestionRequest{
			CourseID:  testCourseID,
			SectionID: "sec-1",
			Question:  "Hi?",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("unknown section is not found", func(t *testing.T) {
		f := newCourseServiceFixture(t)
		ctx := context.Background()

		f.courses.EXPECT().GetByID(ctx, testCourseID).Return(testCourse(), nil)

		_, err := f.svc.AddQuestion(ctx, purchaser(testCourseID), model.AddQuestionRequest{
			CourseID:  testCourseID,
			SectionID: "ghost",
			Question:  "Hello?",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestCourseService_AddAnswer(t *testing.T) {
	t.Run("notifies the asker when someone else answers", func(t *testing.T) {
		f := newCourseServiceFixture(t)
		ctx := context.Background()

		f.courses.EXPECT().GetByID(ctx, testCourseID).Return(testCourse(), nil)
		f.courses.EXPECT().
			ReplaceSections(ctx, testCourseID, gomock.Any()).
			DoAndReturn(func(_ context.Context, id string, sections []model.Section) (*model.Course, error) {
				require.Len(t, sections[0].Questions[0].Answers, 1)
				course := testCourse()
				course.Sections = sections
				return course, nil
			})
		f.expectInvalidate(ctx, testCourseID)
		f.users.EXPECT().GetByID(ctx, "asker-1").
			Return(&model.User{ID: "asker-1", Name: "Ada", Email: "ada@example.com"}, nil)

		_, err := f.svc.AddAnswer(ctx, purchaser(testCourseID), model.AddAnswerRequest{
			CourseID:   testCourseID,
			SectionID:  "sec-1",
			QuestionID: "q-1",
			Answer:     "Because of goroutines.",
		})
		require.NoError(t, err)

		sent := f.mailer.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "ada@example.com", sent[0].To)
		assert.Equal(t, "question_reply", sent[0].Template)
	})

	t.Run("self-answer sends no mail", func(t *testing.T) {
		f := newCourseServiceFixture(t)
		ctx := context.Background()

		asker := domainauth.Identity{ID: "asker-1", Name: "Ada", CourseIDs: []string{testCourseID}}
		f.courses.EXPECT().GetByID(ctx, testCourseID).Return(testCourse(), nil)
		f.courses.EXPECT().ReplaceSections(ctx, testCourseID, gomock.Any()).Return(testCourse(), nil)
		f.expectInvalidate(ctx, testCourseID)

		_, err := f.svc.AddAnswer(ctx, asker, model.AddAnswerRequest{
			CourseID:   testCourseID,
			SectionID:  "sec-1",
			QuestionID: "q-1",
			Answer:     "Figured it out myself.",
		})
		require.NoError(t, err)
		assert.Empty(t, f.mailer.Sent())
	})

	t.Run("unknown question is not found", func(t *testing.T) {
		f := newCourseServiceFixture(t)
		ctx := context.Background()

		f.courses.EXPECT().GetByID(ctx, testCourseID).Return(testCourse(), nil)

		_, err := f.svc.AddAnswer(ctx, purchaser(testCourseID), model.AddAnswerRequest{
			CourseID:   testCourseID,
			SectionID:  "sec-1",
			QuestionID: "ghost",
			Answer:     "Hello?",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestCourseService_AddReview(t *testing.T) {
	t.Run("appends the review and recomputes the average rating", func(t *testing.T) {
		f := newCourseServiceFixture(t)
		ctx := context.Background()

		course := testCourse()
		course.Reviews = []model.Review{{ID: "r-1", UserID: "other", Rating: 5}}
		course.Ratings = 5

		f.courses.EXPECT().GetByID(ctx, testCourseID).Return(course, nil)
		f.courses.EXPECT().
			ReplaceReviews(ctx, testCourseID, gomock.Any(), 4.0).
			DoAndReturn(func(_ context.Context, id string, reviews []model.Review, ratings float64) (*model.Course, error) {
				require.Len(t, reviews, 2)
				assert.Equal(t, "buyer-1", reviews[1].UserID)
				updated := testCourse()
				updated.Reviews = reviews
				updated.Ratings = ratings
				return updated, nil
			})
		f.expectInvalidate(ctx, testCourseID)
		f.notifications.EXPECT().Create(ctx, gomock.Any()).Return(&model.Notification{}, nil)

		updated, err := f.svc.AddReview(ctx, purchaser(testCourseID), testCourseID, model.AddReviewRequest{
			Rating:  3,
			Comment: "Decent",
		})
		require.NoError(t, err)
		assert.InDelta(t, 4.0, updated.Ratings, 1e-9)
	})

	t.Run("second review from the same purchaser conflicts", func(t *testing.T) {
		f := newCourseServiceFixture(t)
		ctx := context.Background()

		course := testCourse()
		course.Reviews = []model.Review{{ID: "r-1", UserID: "buyer-1", Rating: 4}}
		f.courses.EXPECT().GetByID(ctx, testCourseID).Return(course, nil)

		_, err := f.svc.AddReview(ctx, purchaser(testCourseID), testCourseID, model.AddReviewRequest{
			Rating:  5,
			Comment: "Changed my mind",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("non-purchaser is forbidden even for admins", func(t *testing.T) {
		f := newCourseServiceFixture(t)

		admin := domainauth.Identity{ID: "admin-1", Role: domainauth.RoleAdmin}
		_, err := f.svc.AddReview(context.Background(), admin, testCourseID, model.AddReviewRequest{
			Rating:  5,
			Comment: "Great",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("out-of-range rating is a validation error", func(t *testing.T) {
		f := newCourseServiceFixture(t)

		_, err := f.svc.AddReview(context.Background(), purchaser(testCourseID), testCourseID, model.AddReviewRequest{
			Rating:  6,
			Comment: "!!",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestCourseService_AddReviewReply(t *testing.T) {
	t.Run("appends an admin reply without touching the rating", func(t *testing.T) {
		f := newCourseServiceFixture(t)
		ctx := context.Background()

		course := testCourse()
		course.Reviews = []model.Review{{ID: "r-1", UserID: "buyer-1", Rating: 4, Comment: "Good"}}
		course.Ratings = 4

		f.courses.EXPECT().GetByID(ctx, testCourseID).Return(course, nil)
		f.courses.EXPECT().
			ReplaceReviews(ctx, testCourseID, gomock.Any(), 4.0).
			DoAndReturn(func(_ context.Context, id string, reviews []model.Review, ratings float64) (*model.Course, error) {
				require.Len(t, reviews[0].Replies, 1)
				assert.Equal(t, "Thanks!", reviews[0].Replies[0].Comment)
				updated := testCourse()
				updated.Reviews = reviews
				return updated, nil
			})
		f.expectInvalidate(ctx, testCourseID)

		admin := domainauth.Identity{ID: "admin-1", Name: "Root", Role: domainauth.RoleAdmin}
		_, err := f.svc.AddReviewReply(ctx, admin, model.AddReviewReplyRequest{
			CourseID: testCourseID,
			ReviewID: "r-1",
			Comment:  "Thanks!",
		})
		require.NoError(t, err)
	})

	t.Run("unknown review is not found", func(t *testing.T) {
		f := newCourseServiceFixture(t)
		ctx := context.Background()

		f.courses.EXPECT().GetByID(ctx, testCourseID).Return(testCourse(), nil)

		admin := domainauth.Identity{ID: "admin-1", Role: domainauth.RoleAdmin}
		_, err := f.svc.AddReviewReply(ctx, admin, model.AddReviewReplyRequest{
			CourseID: testCourseID,
			ReviewID: "ghost",
			Comment:  "Thanks!",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}
