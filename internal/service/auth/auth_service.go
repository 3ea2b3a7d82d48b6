package auth

import (
	"context"
	goerrors "errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"polly-api/internal/domain"
	"polly-api/internal/repository"
	"polly-api/internal/service"
	"polly-api/internal/validation"
	"polly-api/pkg/errors"
	"polly-api/pkg/logger"
)

const signUpMessage = "Sign-up successful! Please check your email to verify your account."

// Service implements the AuthService interface: a thin gateway over the
// backend's credential operations plus profile-row synchronization.
type Service struct {
	client      *GoTrueClient
	profileRepo repository.ProfileRepository
	jwtSecret   []byte
	logger      *logger.Logger
}

// NewService creates a new auth service
func NewService(client *GoTrueClient, profileRepo repository.ProfileRepository, jwtSecret string, logger *logger.Logger) service.AuthService {
	return &Service{
		client:      client,
		profileRepo: profileRepo,
		jwtSecret:   []byte(jwtSecret),
		logger:      logger,
	}
}

// SignUp registers a credential identity, then mirrors it into a profiles
// row. The profile write happens only after the identity is known to have
// been created; a failure there surfaces as a partial write, and re-running
// sign-up reconciles through the update branch.
func (s *Service) SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.SignUpResponse, error) {
	if verr := validation.SignUp(req); verr != nil {
		s.logger.WithField("details", verr.Details).Debug("Sign-up input rejected")
		return nil, verr
	}

	user, err := s.client.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		var backendErr *BackendError
		if goerrors.As(err, &backendErr) {
			s.logger.WithField("status_code", backendErr.StatusCode).Warn("Auth backend rejected sign-up")
			return nil, errors.NewAuthenticationError(backendErr.Message)
		}
		s.logger.WithError(err).Error("Sign-up call failed")
		return nil, errors.NewExternalError("Sign-up failed", err)
	}

	if user.ID != "" {
		if err := s.syncProfile(ctx, user, req.FullName); err != nil {
			// The identity already exists at this point. Surface the
			// failure as a partial write instead of pretending the whole
			// sign-up failed.
			s.logger.WithError(err).WithField("user_id", user.ID).Error("Profile sync failed after sign-up")
			return nil, errors.NewPartialWriteError("Account created but profile setup failed, please sign up again", err)
		}
	}

	return &domain.SignUpResponse{
		Message: signUpMessage,
		User:    user,
	}, nil
}

// syncProfile checks for an existing profile row before deciding between
// insert and update.
func (s *Service) syncProfile(ctx context.Context, user *domain.AuthUser, fullName string) error {
	existing, err := s.profileRepo.GetByID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to check existing profile: %w", err)
	}

	if existing != nil {
		return s.profileRepo.UpdateName(ctx, user.ID, fullName)
	}

	return s.profileRepo.Create(ctx, &domain.Profile{
		ID:    user.ID,
		Name:  fullName,
		Email: user.Email,
	})
}

// SignIn verifies credentials against the auth backend and returns the
// issued session. The backend's rejection message is surfaced verbatim.
func (s *Service) SignIn(ctx context.Context, req *domain.SignInRequest) (*domain.Session, error) {
	if verr := validation.SignIn(req); verr != nil {
		return nil, verr
	}

	session, err := s.client.SignInWithPassword(ctx, req.Email, req.Password)
	if err != nil {
		var backendErr *BackendError
		if goerrors.As(err, &backendErr) {
			return nil, errors.NewAuthenticationError(backendErr.Message)
		}
		s.logger.WithError(err).Error("Sign-in call failed")
		return nil, errors.NewExternalError("Sign-in failed", err)
	}

	return session, nil
}

// SignOut revokes the caller's session. Not expected to fail in a
// user-visible way; errors are logged and swallowed.
func (s *Service) SignOut(ctx context.Context, accessToken string) error {
	if err := s.client.SignOut(ctx, accessToken); err != nil {
		s.logger.WithError(err).Warn("Sign-out call failed")
	}
	return nil
}

// ValidateToken validates an HS256 access token issued by the auth backend
// and returns its claims.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*domain.AuthClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, errors.NewAuthenticationError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.NewAuthenticationError("Invalid token claims")
	}

	authClaims := &domain.AuthClaims{}
	if sub, ok := claims["sub"].(string); ok {
		authClaims.Sub = sub
	}
	if email, ok := claims["email"].(string); ok {
		authClaims.Email = email
	}
	if role, ok := claims["role"].(string); ok {
		authClaims.Role = role
	}

	if authClaims.Sub == "" {
		return nil, errors.NewAuthenticationError("Token has no subject")
	}

	return authClaims, nil
}
