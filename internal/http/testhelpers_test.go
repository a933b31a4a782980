package httpx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/openlearn/lms-api/internal/data"
	domainauth "github.com/openlearn/lms-api/internal/domain/auth"
	"github.com/openlearn/lms-api/internal/mocks"
	authmocks "github.com/openlearn/lms-api/internal/mocks/auth"
	"github.com/openlearn/lms-api/internal/service"
	"github.com/openlearn/lms-api/internal/testutil"
)

// routerFixture wires real services over in-memory fakes and gomock
// repositories behind a real router, for end-to-end handler tests.
type routerFixture struct {
	users         *mocks.MockUserRepository
	courses       *mocks.MockCourseRepository
	orders        *mocks.MockOrderRepository
	notifications *mocks.MockNotificationRepository
	layouts       *mocks.MockLayoutRepository
	analytics     *mocks.MockAnalyticsRepository
	cache         *mocks.MockCacheRepository
	tokens        *authmocks.FakeTokenService
	sessions      *authmocks.MemorySessionCache
	mailer        *authmocks.RecordingMailer
	handler       http.Handler
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &routerFixture{
		users:         mocks.NewMockUserRepository(ctrl),
		courses:       mocks.NewMockCourseRepository(ctrl),
		orders:        mocks.NewMockOrderRepository(ctrl),
		notifications: mocks.NewMockNotificationRepository(ctrl),
		layouts:       mocks.NewMockLayoutRepository(ctrl),
		analytics:     mocks.NewMockAnalyticsRepository(ctrl),
		cache:         mocks.NewMockCacheRepository(ctrl),
		tokens:        authmocks.NewFakeTokenService(),
		sessions:      authmocks.NewMemorySessionCache(),
		mailer:        &authmocks.RecordingMailer{},
	}

	authSvc, err := service.NewAuthService(service.AuthServiceOptions{
		Users:    f.users,
		Tokens:   f.tokens,
		Sessions: f.sessions,
		Mailer:   f.mailer,
	})
	require.NoError(t, err)

	userSvc, err := service.NewUserService(service.UserServiceOptions{
		Users:    f.users,
		Sessions: f.sessions,
	})
	require.NoError(t, err)

	courseSvc, err := service.NewCourseService(service.CourseServiceOptions{
		Courses:       f.courses,
		Cache:         f.cache,
		Users:         f.users,
		Notifications: f.notifications,
		Mailer:        f.mailer,
		TimeProvider:  data.NewFixedTimeProvider(testutil.TestTime()),
	})
	require.NoError(t, err)

	orderSvc, err := service.NewOrderService(service.OrderServiceOptions{
		Orders:        f.orders,
		Courses:       f.courses,
		Users:         f.users,
		Sessions:      f.sessions,
		Cache:         f.cache,
		Notifications: f.notifications,
		Mailer:        f.mailer,
	})
	require.NoError(t, err)

	notificationSvc, err := service.NewNotificationService(service.NotificationServiceOptions{Repo: f.notifications})
	require.NoError(t, err)

	layoutSvc, err := service.NewLayoutService(service.LayoutServiceOptions{Repo: f.layouts})
	require.NoError(t, err)

	analyticsSvc, err := service.NewAnalyticsService(service.AnalyticsServiceOptions{Repo: f.analytics})
	require.NoError(t, err)

	f.handler = NewRouter(RouterServices{
		Auth:          authSvc,
		Users:         userSvc,
		Courses:       courseSvc,
		Orders:        orderSvc,
		Notifications: notificationSvc,
		Layouts:       layoutSvc,
		Analytics:     analyticsSvc,
		Tokens:        f.tokens,
		Sessions:      f.sessions,
		Cookies:       CookieSettings{Secure: false},
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return f
}

// loginAs seeds a session and returns the access-token cookie for requests.
func (f *routerFixture) loginAs(t *testing.T, identity domainauth.Identity) *http.Cookie {
	t.Helper()
	require.NoError(t, f.sessions.Put(t.Context(), identity))
	token, err := f.tokens.IssueAccessToken(identity.ID)
	require.NoError(t, err)
	return &http.Cookie{Name: accessTokenCookie, Value: token}
}

// modelIdentity builds a plain user-role identity for tests.
func modelIdentity(id string) domainauth.Identity {
	return domainauth.Identity{
		ID:    id,
		Name:  "Test User",
		Email: id + "@example.com",
		Role:  domainauth.RoleUser,
	}
}

// do runs a request through the router and returns the recorder.
func (f *routerFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}
