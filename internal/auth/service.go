package auth

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alenbi/worknest-clienthub-52-sub000/internal/audit"
	apperrors "github.com/alenbi/worknest-clienthub-52-sub000/internal/errors"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/repository"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/util"
)

type LoginResult struct {
	Token    string         `json:"token"`
	Identity model.Identity `json:"identity"`
}

type Service struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	clients    repository.ClientRepository
	resolver   RoleResolver
	sessionTTL time.Duration
}

func NewService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	clients repository.ClientRepository,
	resolver RoleResolver,
	sessionTTL time.Duration,
) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		clients:    clients,
		resolver:   resolver,
		sessionTTL: sessionTTL,
	}
}

// Login authenticates against the portal variant identified by required.
// Under the allowlist policy the admin portal rejects unlisted emails
// before any backend call. A credential that authenticates but resolves to
// the wrong role gets its session revoked immediately: a mismatched
// session is never left live.
func (s *Service) Login(ctx context.Context, email, password string, required model.Role) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.MissingRequired("email and password")
	}

	if required == model.RoleAdmin {
		if allowlist, ok := s.resolver.(*AllowlistResolver); ok && !allowlist.Allows(email) {
			audit.Log(ctx, audit.Event{Type: audit.EventLoginRejected, Details: map[string]interface{}{"email": email}})
			return nil, apperrors.UnauthorizedRole("This portal is restricted")
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if user == nil || !util.CheckPasswordHash(password, user.PasswordHash) {
		audit.Log(ctx, audit.Event{Type: audit.EventLoginFailure, Details: map[string]interface{}{"email": email}})
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	token, session, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	role, err := s.resolver.Resolve(ctx, user)
	if err != nil {
		s.revoke(ctx, session)
		return nil, apperrors.Database(err)
	}

	if role != required {
		s.revoke(ctx, session)
		audit.Log(ctx, audit.Event{
			Type:   audit.EventRoleMismatch,
			UserID: user.ID,
			Details: map[string]interface{}{
				"required": string(required),
				"actual":   string(role),
			},
		})
		return nil, apperrors.RoleMismatch(string(required), string(role))
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		log.Warn().Err(err).Str("userId", user.ID).Msg("failed to record last login")
	}

	identity := s.buildIdentity(ctx, user, role)
	audit.Log(ctx, audit.Event{Type: audit.EventLoginSuccess, UserID: user.ID})

	return &LoginResult{Token: token, Identity: identity}, nil
}

// Register creates a client account. If staff pre-created a client record
// with the same email, the new user links to it; otherwise a fresh client
// record is created.
func (s *Service) Register(ctx context.Context, email, password, name string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.InvalidInput("email", "must be a valid address")
	}
	if len(password) < 8 {
		return nil, apperrors.InvalidInput("password", "must be at least 8 characters")
	}
	if name == "" {
		return nil, apperrors.MissingRequired("name")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if existing != nil {
		return nil, apperrors.AlreadyExists("Account")
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password").WithCause(err)
	}

	user, err := s.users.Create(ctx, model.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  name,
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	if err := s.linkOrCreateClient(ctx, user); err != nil {
		return nil, err
	}

	token, _, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	identity := s.buildIdentity(ctx, user, model.RoleClient)
	audit.Log(ctx, audit.Event{Type: audit.EventAccountCreate, UserID: user.ID})

	return &LoginResult{Token: token, Identity: identity}, nil
}

// Logout revokes the session server-side. Safe to call with a token that
// is already gone.
func (s *Service) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.sessions.DeleteByTokenHash(ctx, util.HashToken(token)); err != nil {
		log.Warn().Err(err).Msg("failed to delete session on logout")
	}
	audit.Log(ctx, audit.Event{Type: audit.EventLogout})
}

// Identity resolves the authenticated identity for a session token hash.
// Role derivation is a pure function of backend state. A failed profile
// enrichment is non-fatal: the identity stays authenticated with default
// fields.
func (s *Service) Identity(ctx context.Context, tokenHash string) (*model.Identity, error) {
	session, err := s.sessions.FindByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if session == nil {
		return nil, apperrors.InvalidToken("Session expired or revoked")
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if user == nil {
		return nil, apperrors.InvalidToken("Account no longer exists")
	}

	role, err := s.resolver.Resolve(ctx, user)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	identity := s.buildIdentity(ctx, user, role)
	return &identity, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, params model.UpdateProfileParams) (*model.User, error) {
	user, err := s.users.UpdateProfile(ctx, userID, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return user, nil
}

func (s *Service) issueSession(ctx context.Context, userID string) (string, *model.Session, error) {
	token, err := util.GenerateToken()
	if err != nil {
		return "", nil, apperrors.Internal("Failed to generate session token").WithCause(err)
	}

	session, err := s.sessions.Create(ctx, model.CreateSessionParams{
		TokenHash: util.HashToken(token),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	})
	if err != nil {
		return "", nil, apperrors.Database(err)
	}

	return token, session, nil
}

func (s *Service) revoke(ctx context.Context, session *model.Session) {
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		log.Error().Err(err).Str("sessionId", session.ID).Msg("failed to revoke session")
	}
}

// buildIdentity enriches the role with the linked client record. Failures
// here are the non-fatal profile-fetch case.
func (s *Service) buildIdentity(ctx context.Context, user *model.User, role model.Role) model.Identity {
	identity := model.Identity{User: *user, Role: role}

	if role == model.RoleClient {
		client, err := s.clients.FindByUserID(ctx, user.ID)
		if err != nil {
			log.Warn().Err(err).Str("userId", user.ID).
				Msg("profile fetch failed, continuing with defaults")
		} else if client != nil {
			identity.ClientID = &client.ID
		}
	}

	return identity
}

func (s *Service) linkOrCreateClient(ctx context.Context, user *model.User) error {
	client, err := s.clients.FindByEmail(ctx, user.Email)
	if err != nil {
		return apperrors.Database(err)
	}

	if client != nil {
		if client.UserID != nil && *client.UserID != user.ID {
			return apperrors.AlreadyExists("Client account")
		}
		if err := s.clients.LinkUser(ctx, client.ID, user.ID); err != nil {
			return apperrors.Database(err)
		}
		return nil
	}

	created, err := s.clients.Create(ctx, model.CreateClientParams{
		Name:  user.DisplayName,
		Email: user.Email,
	})
	if err != nil {
		return apperrors.Database(err)
	}
	if err := s.clients.LinkUser(ctx, created.ID, user.ID); err != nil {
		return apperrors.Database(err)
	}
	return nil
}
