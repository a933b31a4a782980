package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/openlearn/lms-api/internal/domain/auth"
	"github.com/openlearn/lms-api/internal/domain/model"
	apperrors "github.com/openlearn/lms-api/internal/errors"
	"github.com/openlearn/lms-api/internal/mocks"
	authmocks "github.com/openlearn/lms-api/internal/mocks/auth"
	"github.com/openlearn/lms-api/internal/testutil"
)

type userServiceFixture struct {
	users    *mocks.MockUserRepository
	sessions *authmocks.MemorySessionCache
	svc      *UserService
}

func newUserServiceFixture(t *testing.T) *userServiceFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &userServiceFixture{
		users:    mocks.NewMockUserRepository(ctrl),
		sessions: authmocks.NewMemorySessionCache(),
	}

	svc, err := NewUserService(UserServiceOptions{
		Users:    f.users,
		Sessions: f.sessions,
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func TestUserService_Profile(t *testing.T) {
	t.Run("serves the session snapshot without hitting the database", func(t *testing.T) {
		f := newUserServiceFixture(t)
		ctx := context.Background()

		cached := domainauth.Identity{ID: "user-1", Name: "Ada", Role: domainauth.RoleUser}
		require.NoError(t, f.sessions.Put(ctx, cached))

		identity, err := f.svc.Profile(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, cached, identity)
	})

	t.Run("falls through to the database and repopulates the session", func(t *testing.T) {
		f := newUserServiceFixture(t)
		ctx := context.Background()

		f.users.EXPECT().GetByID(ctx, "user-1").Return(&model.User{
			ID:    "user-1",
			Name:  "Ada",
			Email: "ada@example.com",
			Role:  domainauth.RoleUser,
		}, nil)

		identity, err := f.svc.Profile(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "Ada", identity.Name)
		assert.True(t, f.sessions.Has("user-1"))
	})

	t.Run("unknown subject propagates not found", func(t *testing.T) {
		f := newUserServiceFixture(t)
		ctx := context.Background()

		f.users.EXPECT().GetByID(ctx, "ghost").Return(nil, apperrors.NotFound("User not found"))

		_, err := f.svc.Profile(ctx, "ghost")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Run("updates and refreshes the session snapshot", func(t *testing.T) {
		f := newUserServiceFixture(t)
		ctx := context.Background()

		req := model.UpdateProfileRequest{Name: testutil.StringPtr("Ada King")}
		f.users.EXPECT().UpdateProfile(ctx, "user-1", req).Return(&model.User{
			ID:   "user-1",
			Name: "Ada King",
			Role: domainauth.RoleUser,
		}, nil)

		user, err := f.svc.UpdateProfile(ctx, "user-1", req)
		require.NoError(t, err)
		assert.Equal(t, "Ada King", user.Name)

		identity, err := f.sessions.Get(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "Ada King", identity.Name)
	})

	t.Run("empty update is a validation error", func(t *testing.T) {
		f := newUserServiceFixture(t)

		_, err := f.svc.UpdateProfile(context.Background(), "user-1", model.UpdateProfileRequest{})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestUserService_UpdatePassword(t *testing.T) {
	hash := func(t *testing.T, pw string) string {
		t.Helper()
		h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
		require.NoError(t, err)
		return string(h)
	}

	t.Run("stores a new hash after verifying the old password", func(t *testing.T) {
		f := newUserServiceFixture(t)
		ctx := context.Background()

		f.users.EXPECT().GetByID(ctx, "user-1").Return(&model.User{
			ID:           "user-1",
			PasswordHash: hash(t, "old-secret"),
		}, nil)
		f.users.EXPECT().
			UpdatePassword(ctx, "user-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, id, newHash string) (*model.User, error) {
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("new-secret")))
				return &model.User{ID: id}, nil
			})

		_, err := f.svc.UpdatePassword(ctx, "user-1", model.UpdatePasswordRequest{
			OldPassword: "old-secret",
			NewPassword: "new-secret",
		})
		require.NoError(t, err)
	})

	t.Run("wrong old password is unauthenticated", func(t *testing.T) {
		f := newUserServiceFixture(t)
		ctx := context.Background()

		f.users.EXPECT().GetByID(ctx, "user-1").Return(&model.User{
			ID:           "user-1",
			PasswordHash: hash(t, "old-secret"),
		}, nil)

		_, err := f.svc.UpdatePassword(ctx, "user-1", model.UpdatePasswordRequest{
			OldPassword: "wrong",
			NewPassword: "new-secret",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsUnauthenticated(err))
	})

	t.Run("social-only account has no password to change", func(t *testing.T) {
		f := newUserServiceFixture(t)
		ctx := context.Background()

		f.users.EXPECT().GetByID(ctx, "user-2").Return(&model.User{ID: "user-2"}, nil)

		_, err := f.svc.UpdatePassword(ctx, "user-2", model.UpdatePasswordRequest{
			OldPassword: "anything",
			NewPassword: "new-secret",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestUserService_UpdateAvatar(t *testing.T) {
	f := newUserServiceFixture(t)
	ctx := context.Background()

	f.users.EXPECT().
		UpdateAvatar(ctx, "user-1", "https://cdn.example.com/new.png").
		Return(&model.User{ID: "user-1", AvatarURL: "https://cdn.example.com/new.png"}, nil)

	user, err := f.svc.UpdateAvatar(ctx, "user-1", model.UpdateAvatarRequest{
		AvatarURL: "https://cdn.example.com/new.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/new.png", user.AvatarURL)

	identity, err := f.sessions.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/new.png", identity.AvatarURL)
}

func TestUserService_List(t *testing.T) {
	f := newUserServiceFixture(t)
	ctx := context.Background()

	// Non-positive limit falls back to the default page size.
	f.users.EXPECT().List(ctx, 50, 0).Return([]*model.User{{ID: "user-1"}}, nil)

	users, err := f.svc.List(ctx, 0, -5)
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestUserService_UpdateRole(t *testing.T) {
	t.Run("promotes by email and refreshes an active session", func(t *testing.T) {
		f := newUserServiceFixture(t)
		ctx := context.Background()

		require.NoError(t, f.sessions.Put(ctx, domainauth.Identity{ID: "user-1", Role: domainauth.RoleUser}))

		f.users.EXPECT().
			GetByEmail(ctx, "ada@example.com").
			Return(&model.User{ID: "user-1", Email: "ada@example.com", Role: domainauth.RoleUser}, nil)
		f.users.EXPECT().
			UpdateRole(ctx, "user-1", "admin").
			Return(&model.User{ID: "user-1", Email: "ada@example.com", Role: domainauth.RoleAdmin}, nil)

		user, err := f.svc.UpdateRole(ctx, model.UpdateRoleRequest{
			Email: "ada@example.com",
			Role:  domainauth.RoleAdmin,
		})
		require.NoError(t, err)
		assert.Equal(t, domainauth.RoleAdmin, user.Role)

		identity, err := f.sessions.Get(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, domainauth.RoleAdmin, identity.Role)
	})

	t.Run("unknown role is a validation error", func(t *testing.T) {
		f := newUserServiceFixture(t)

		_, err := f.svc.UpdateRole(context.Background(), model.UpdateRoleRequest{
			Email: "ada@example.com",
			Role:  "superuser",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestUserService_Delete(t *testing.T) {
	t.Run("deletes the user and revokes the session", func(t *testing.T) {
		f := newUserServiceFixture(t)
		ctx := context.Background()

		require.NoError(t, f.sessions.Put(ctx, domainauth.Identity{ID: "user-1"}))
		f.users.EXPECT().Delete(ctx, "user-1").Return(true, nil)

		require.NoError(t, f.svc.Delete(ctx, "user-1"))
		assert.False(t, f.sessions.Has("user-1"))
	})

	t.Run("missing user is not found", func(t *testing.T) {
		f := newUserServiceFixture(t)
		ctx := context.Background()

		f.users.EXPECT().Delete(ctx, "ghost").Return(false, nil)

		err := f.svc.Delete(ctx, "ghost")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}
