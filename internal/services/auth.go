package services

import (
	"context"
	"net/http"

	"github.com/mytherion/client/internal/api"
	"github.com/mytherion/client/internal/logger"
	"github.com/mytherion/client/types"
)

// AuthService encapsulates account and session use-cases.
type AuthService struct {
	transport Transport
	log       *logger.Logger
}

func NewAuthService(transport Transport, log *logger.Logger) *AuthService {
	return &AuthService{
		transport: transport,
		log:       log.Child(logger.Fields{"service": "authService"}),
	}
}

// Register creates an account. The account stays unauthenticated until its
// email is verified.
func (s *AuthService) Register(ctx context.Context, req types.RegisterRequest) (types.User, error) {
	log := s.log.Child(logger.Fields{"operation": "register", "email": req.Email, "username": req.Username})
	log.Info("Registering user")

	var user types.User
	err := s.transport.Do(ctx, api.Request{
		Method:   http.MethodPost,
		Path:     "/auth/register",
		Body:     req,
		Fallback: "Registration failed",
	}, &user)
	if err != nil {
		log.Error("Registration failed", err)
		return types.User{}, err
	}

	log.Info("User registered", logger.Fields{"userId": user.ID})
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req types.LoginRequest) (types.User, error) {
	log := s.log.Child(logger.Fields{"operation": "login", "email": req.Email})
	log.Info("Logging in")

	var user types.User
	err := s.transport.Do(ctx, api.Request{
		Method:   http.MethodPost,
		Path:     "/auth/login",
		Body:     req,
		Fallback: "Login failed",
	}, &user)
	if err != nil {
		log.Error("Login failed", err)
		return types.User{}, err
	}

	log.Info("Logged in", logger.Fields{"userId": user.ID})
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	log := s.log.Child(logger.Fields{"operation": "logout"})
	log.Info("Logging out")

	err := s.transport.Do(ctx, api.Request{
		Method:   http.MethodPost,
		Path:     "/auth/logout",
		Fallback: "Logout failed",
	}, nil)
	if err != nil {
		log.Error("Logout failed", err)
		return err
	}
	return nil
}

// CurrentUser returns the user of the active session. A failure is the
// ordinary "not logged in" outcome and is logged at DEBUG.
func (s *AuthService) CurrentUser(ctx context.Context) (types.User, error) {
	log := s.log.Child(logger.Fields{"operation": "currentUser"})
	log.Debug("Checking session")

	var user types.User
	err := s.transport.Do(ctx, api.Request{
		Method:   http.MethodGet,
		Path:     "/auth/me",
		Fallback: "Not authenticated",
	}, &user)
	if err != nil {
		log.Debug("No active session", logger.Fields{"reason": err.Error()})
		return types.User{}, err
	}

	log.Debug("Session active", logger.Fields{"userId": user.ID})
	return user, nil
}

// VerifyEmail redeems a verification token. The token itself is never logged.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (types.User, error) {
	log := s.log.Child(logger.Fields{"operation": "verifyEmail"})
	log.Info("Verifying email")

	var user types.User
	err := s.transport.Do(ctx, api.Request{
		Method:   http.MethodPost,
		Path:     "/auth/verify-email",
		Body:     types.VerifyEmailRequest{Token: token},
		Fallback: "Email verification failed",
	}, &user)
	if err != nil {
		log.Error("Email verification failed", err)
		return types.User{}, err
	}

	log.Info("Email verified", logger.Fields{"userId": user.ID})
	return user, nil
}

func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	log := s.log.Child(logger.Fields{"operation": "resendVerification", "email": email})
	log.Info("Resending verification email")

	err := s.transport.Do(ctx, api.Request{
		Method:   http.MethodPost,
		Path:     "/auth/resend-verification",
		Body:     types.ResendVerificationRequest{Email: email},
		Fallback: "Failed to resend verification email",
	}, nil)
	if err != nil {
		log.Error("Failed to resend verification email", err)
		return err
	}
	return nil
}
