package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/alenbi/worknest-clienthub-52-sub000/internal/errors"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/util"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, params model.CreateUserParams) (*model.User, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id string, params model.UpdateProfileParams) (*model.User, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) TouchLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.Session, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *mockSessionRepo) Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *mockSessionRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *mockSessionRepo) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockClientRepo struct {
	mock.Mock
}

func (m *mockClientRepo) FindByID(ctx context.Context, id string) (*model.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *mockClientRepo) FindByEmail(ctx context.Context, email string) (*model.Client, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *mockClientRepo) FindByUserID(ctx context.Context, userID string) (*model.Client, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *mockClientRepo) List(ctx context.Context) ([]model.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Client), args.Error(1)
}

func (m *mockClientRepo) Create(ctx context.Context, params model.CreateClientParams) (*model.Client, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *mockClientRepo) Update(ctx context.Context, id string, params model.UpdateClientParams) (*model.Client, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *mockClientRepo) LinkUser(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *mockClientRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockRoleRepo struct {
	mock.Mock
}

func (m *mockRoleRepo) FindRoleByUserID(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func testUser(t *testing.T, email, password string) *model.User {
	t.Helper()
	hash, err := util.HashPassword(password)
	require.NoError(t, err)
	return &model.User{
		ID:           "u1",
		Email:        email,
		PasswordHash: hash,
		DisplayName:  "Test User",
		CreatedAt:    time.Now(),
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("allowlist rejects unlisted admin email before any backend call", func(t *testing.T) {
		users := new(mockUserRepo)
		sessions := new(mockSessionRepo)
		clients := new(mockClientRepo)
		resolver := NewAllowlistResolver([]string{"boss@example.com"})
		svc := NewService(users, sessions, clients, resolver, time.Hour)

		result, err := svc.Login(ctx, "intruder@example.com", "whatever", model.RoleAdmin)

		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrCodeUnauthorizedRole, apperrors.GetCode(err))
		users.AssertNotCalled(t, "FindByEmail")
		sessions.AssertNotCalled(t, "Create")
	})

	t.Run("wrong password is unauthorized without a session", func(t *testing.T) {
		users := new(mockUserRepo)
		sessions := new(mockSessionRepo)
		clients := new(mockClientRepo)
		user := testUser(t, "amy@example.com", "correct-horse")
		users.On("FindByEmail", mock.Anything, "amy@example.com").Return(user, nil)

		resolver := NewClientLinkResolver(nil, clients)
		svc := NewService(users, sessions, clients, resolver, time.Hour)

		result, err := svc.Login(ctx, "amy@example.com", "wrong", model.RoleClient)

		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrCodeUnauthorized, apperrors.GetCode(err))
		sessions.AssertNotCalled(t, "Create")
	})

	t.Run("unknown email is indistinguishable from a bad password", func(t *testing.T) {
		users := new(mockUserRepo)
		sessions := new(mockSessionRepo)
		clients := new(mockClientRepo)
		users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)

		resolver := NewClientLinkResolver(nil, clients)
		svc := NewService(users, sessions, clients, resolver, time.Hour)

		_, err := svc.Login(ctx, "ghost@example.com", "anything", model.RoleClient)

		assert.Equal(t, apperrors.ErrCodeUnauthorized, apperrors.GetCode(err))
	})

	t.Run("role mismatch revokes the freshly issued session", func(t *testing.T) {
		users := new(mockUserRepo)
		sessions := new(mockSessionRepo)
		clients := new(mockClientRepo)
		user := testUser(t, "amy@example.com", "correct-horse")
		users.On("FindByEmail", mock.Anything, "amy@example.com").Return(user, nil)
		sessions.On("Create", mock.Anything, mock.Anything).
			Return(&model.Session{ID: "s1", UserID: "u1"}, nil)
		sessions.On("Delete", mock.Anything, "s1").Return(nil)
		// Not linked to any client record, so the role resolves to none.
		clients.On("FindByUserID", mock.Anything, "u1").Return(nil, nil)

		resolver := NewClientLinkResolver(nil, clients)
		svc := NewService(users, sessions, clients, resolver, time.Hour)

		result, err := svc.Login(ctx, "amy@example.com", "correct-horse", model.RoleClient)

		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrCodeRoleMismatch, apperrors.GetCode(err))
		sessions.AssertCalled(t, "Delete", mock.Anything, "s1")
	})

	t.Run("successful client login returns a token and enriched identity", func(t *testing.T) {
		users := new(mockUserRepo)
		sessions := new(mockSessionRepo)
		clients := new(mockClientRepo)
		user := testUser(t, "amy@example.com", "correct-horse")
		users.On("FindByEmail", mock.Anything, "amy@example.com").Return(user, nil)
		users.On("TouchLastLogin", mock.Anything, "u1").Return(nil)
		sessions.On("Create", mock.Anything, mock.Anything).
			Return(&model.Session{ID: "s1", UserID: "u1"}, nil)
		clients.On("FindByUserID", mock.Anything, "u1").
			Return(&model.Client{ID: "c1", Name: "Amy Co"}, nil)

		resolver := NewClientLinkResolver(nil, clients)
		svc := NewService(users, sessions, clients, resolver, time.Hour)

		result, err := svc.Login(ctx, "Amy@Example.com ", "correct-horse", model.RoleClient)

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, model.RoleClient, result.Identity.Role)
		require.NotNil(t, result.Identity.ClientID)
		assert.Equal(t, "c1", *result.Identity.ClientID)
	})

	t.Run("profile enrichment failure does not fail the login", func(t *testing.T) {
		users := new(mockUserRepo)
		sessions := new(mockSessionRepo)
		clients := new(mockClientRepo)
		roles := new(mockRoleRepo)
		user := testUser(t, "amy@example.com", "correct-horse")
		users.On("FindByEmail", mock.Anything, "amy@example.com").Return(user, nil)
		users.On("TouchLastLogin", mock.Anything, "u1").Return(nil)
		sessions.On("Create", mock.Anything, mock.Anything).
			Return(&model.Session{ID: "s1", UserID: "u1"}, nil)
		roles.On("FindRoleByUserID", mock.Anything, "u1").Return("client", nil)
		clients.On("FindByUserID", mock.Anything, "u1").Return(nil, errors.New("profile table offline"))

		resolver := NewRoleTableResolver(roles)
		svc := NewService(users, sessions, clients, resolver, time.Hour)

		result, err := svc.Login(ctx, "amy@example.com", "correct-horse", model.RoleClient)

		require.NoError(t, err)
		assert.Equal(t, model.RoleClient, result.Identity.Role)
		assert.Nil(t, result.Identity.ClientID)
	})
}

func TestIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown token is invalid", func(t *testing.T) {
		users := new(mockUserRepo)
		sessions := new(mockSessionRepo)
		clients := new(mockClientRepo)
		sessions.On("FindByTokenHash", mock.Anything, "hash").Return(nil, nil)

		svc := NewService(users, sessions, clients, NewClientLinkResolver(nil, clients), time.Hour)

		identity, err := svc.Identity(ctx, "hash")

		assert.Nil(t, identity)
		assert.Equal(t, apperrors.ErrCodeInvalidToken, apperrors.GetCode(err))
	})

	t.Run("role is re-derived from backend state on every call", func(t *testing.T) {
		users := new(mockUserRepo)
		sessions := new(mockSessionRepo)
		clients := new(mockClientRepo)
		user := testUser(t, "amy@example.com", "pw")
		sessions.On("FindByTokenHash", mock.Anything, "hash").
			Return(&model.Session{ID: "s1", UserID: "u1"}, nil)
		users.On("FindByID", mock.Anything, "u1").Return(user, nil)
		clients.On("FindByUserID", mock.Anything, "u1").
			Return(&model.Client{ID: "c1"}, nil)

		svc := NewService(users, sessions, clients, NewClientLinkResolver(nil, clients), time.Hour)

		identity, err := svc.Identity(ctx, "hash")

		require.NoError(t, err)
		assert.Equal(t, model.RoleClient, identity.Role)
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects a duplicate email", func(t *testing.T) {
		users := new(mockUserRepo)
		sessions := new(mockSessionRepo)
		clients := new(mockClientRepo)
		users.On("FindByEmail", mock.Anything, "amy@example.com").
			Return(&model.User{ID: "existing"}, nil)

		svc := NewService(users, sessions, clients, NewClientLinkResolver(nil, clients), time.Hour)

		_, err := svc.Register(ctx, "amy@example.com", "longenough", "Amy")

		assert.Equal(t, apperrors.ErrCodeAlreadyExists, apperrors.GetCode(err))
	})

	t.Run("rejects short passwords before touching the backend", func(t *testing.T) {
		users := new(mockUserRepo)
		svc := NewService(users, new(mockSessionRepo), new(mockClientRepo), NewClientLinkResolver(nil, nil), time.Hour)

		_, err := svc.Register(ctx, "amy@example.com", "short", "Amy")

		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
		users.AssertNotCalled(t, "FindByEmail")
	})

	t.Run("links a staff pre-created client record by email", func(t *testing.T) {
		users := new(mockUserRepo)
		sessions := new(mockSessionRepo)
		clients := new(mockClientRepo)
		users.On("FindByEmail", mock.Anything, "amy@example.com").Return(nil, nil)
		users.On("Create", mock.Anything, mock.Anything).
			Return(&model.User{ID: "u1", Email: "amy@example.com", DisplayName: "Amy"}, nil)
		clients.On("FindByEmail", mock.Anything, "amy@example.com").
			Return(&model.Client{ID: "c1", Email: "amy@example.com"}, nil)
		clients.On("LinkUser", mock.Anything, "c1", "u1").Return(nil)
		clients.On("FindByUserID", mock.Anything, "u1").
			Return(&model.Client{ID: "c1"}, nil)
		sessions.On("Create", mock.Anything, mock.Anything).
			Return(&model.Session{ID: "s1", UserID: "u1"}, nil)

		svc := NewService(users, sessions, clients, NewClientLinkResolver(nil, clients), time.Hour)

		result, err := svc.Register(ctx, "amy@example.com", "longenough", "Amy")

		require.NoError(t, err)
		clients.AssertCalled(t, "LinkUser", mock.Anything, "c1", "u1")
		clients.AssertNotCalled(t, "Create")
		assert.Equal(t, model.RoleClient, result.Identity.Role)
	})
}

func TestLogout(t *testing.T) {
	t.Run("empty token touches nothing", func(t *testing.T) {
		sessions := new(mockSessionRepo)
		svc := NewService(new(mockUserRepo), sessions, new(mockClientRepo), NewClientLinkResolver(nil, nil), time.Hour)

		svc.Logout(context.Background(), "")

		sessions.AssertNotCalled(t, "DeleteByTokenHash")
	})

	t.Run("revokes the session by token hash", func(t *testing.T) {
		sessions := new(mockSessionRepo)
		sessions.On("DeleteByTokenHash", mock.Anything, util.HashToken("tok")).Return(nil)
		svc := NewService(new(mockUserRepo), sessions, new(mockClientRepo), NewClientLinkResolver(nil, nil), time.Hour)

		svc.Logout(context.Background(), "tok")

		sessions.AssertExpectations(t)
	})
}
