package service

import (
	"context"
	"fmt"
	"time"

	"tutor-cerdas-console/internal/auth"
	"tutor-cerdas-console/internal/dto"
	"tutor-cerdas-console/internal/entity"
	"tutor-cerdas-console/internal/identity"
	"tutor-cerdas-console/internal/pkg/logger"
	"tutor-cerdas-console/internal/repository/contract"
	"tutor-cerdas-console/internal/routing"
	"tutor-cerdas-console/internal/session"

	"github.com/google/uuid"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, sessionID string)
}

type authService struct {
	identity   *identity.Client
	profiles   contract.ProfileRepository
	sessions   *session.Store
	resolvers  *auth.Manager
	log        logger.ILogger
	defaultTTL time.Duration
}

func NewAuthService(
	idClient *identity.Client,
	profiles contract.ProfileRepository,
	sessions *session.Store,
	resolvers *auth.Manager,
	log logger.ILogger,
	defaultTTL time.Duration,
) IAuthService {
	return &authService{
		identity:   idClient,
		profiles:   profiles,
		sessions:   sessions,
		resolvers:  resolvers,
		log:        log,
		defaultTTL: defaultTTL,
	}
}

// Register signs the user up with the identity provider and seeds the
// profile row. The role is always written as user; admin is granted
// out-of-band, never from here.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	user, err := s.identity.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	if id, parseErr := uuid.Parse(user.ID); parseErr == nil {
		var fullName *string
		if req.FullName != "" {
			fullName = &req.FullName
		}
		if err := s.profiles.Ensure(ctx, id, fullName); err != nil {
			// Non-fatal: a DB trigger may already have created the row.
			s.log.Warn("auth", "profile seed failed on register", map[string]interface{}{
				"user_id": user.ID,
				"error":   err.Error(),
			})
		}
	}

	return &dto.RegisterResponse{Email: req.Email}, nil
}

// Login exchanges credentials with the provider, ensures the profile row
// exists, resolves the role for the redirect target and creates the server
// side session.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	tok, err := s.identity.SignInWithPassword(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(tok.User.ID)
	if err != nil {
		return nil, fmt.Errorf("identity provider returned an invalid user id: %q", tok.User.ID)
	}

	if err := s.profiles.Ensure(ctx, userID, nil); err != nil {
		s.log.Warn("auth", "profile seed failed on login", map[string]interface{}{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
	}

	role, err := s.profiles.GetRole(ctx, userID)
	if err != nil {
		s.log.Warn("auth", "role lookup failed, defaulting to user", map[string]interface{}{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
		role = entity.UserRoleUser
	}

	sess := &entity.Session{
		Id:           uuid.NewString(),
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		User: entity.User{
			Id:       userID,
			Email:    tok.User.Email,
			Metadata: tok.User.UserMetadata,
		},
		ExpiresAt: s.sessionExpiry(tok),
	}
	s.sessions.Put(sess)

	return &dto.LoginResponse{
		Email:      tok.User.Email,
		Role:       role,
		RedirectTo: routing.RoleHome(role),
		SessionID:  sess.Id,
	}, nil
}

// Logout signs the provider session out through the resolver so the role is
// cleared and the change event fires; the guards handle where the client
// lands next.
func (s *authService) Logout(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if r := s.resolvers.For(sessionID); r != nil {
		r.SignOut(ctx)
	} else {
		s.sessions.Delete(sessionID)
	}
	s.resolvers.Drop(sessionID)
}

func (s *authService) sessionExpiry(tok *identity.TokenResponse) time.Time {
	if claims, err := s.identity.ParseClaims(tok.AccessToken); err == nil && !claims.ExpiresAt.IsZero() {
		return claims.ExpiresAt
	}
	if tok.ExpiresIn > 0 {
		return time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	return time.Now().Add(s.defaultTTL)
}
