package store

import (
	"context"

	"github.com/mytherion/client/internal/api"
	"github.com/mytherion/client/internal/logger"
	"github.com/mytherion/client/types"
)

// AuthAPI is the account surface the auth slice dispatches into.
type AuthAPI interface {
	Register(ctx context.Context, req types.RegisterRequest) (types.User, error)
	Login(ctx context.Context, req types.LoginRequest) (types.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (types.User, error)
	VerifyEmail(ctx context.Context, token string) (types.User, error)
	ResendVerification(ctx context.Context, email string) error
}

// AuthState is the session of the process.
type AuthState struct {
	User            *types.User
	IsAuthenticated bool
	// IsInitialized becomes true once the first session check settles.
	IsInitialized bool
	Status
}

// every auth operation competes for the same session
const sessionKey = "session"

// Auth is the auth slice.
type Auth struct {
	*slice[AuthState]
	svc AuthAPI
}

func newAuth(authAPI AuthAPI, log *logger.Logger) *Auth {
	// loading until the first session check settles
	initial := AuthState{Status: Status{Loading: true}}
	return &Auth{
		slice: newSlice("auth", initial, func(s *AuthState) *Status { return &s.Status }, log),
		svc:   authAPI,
	}
}

// Register creates an account. The session is never authenticated by
// registration; the email has to be verified first.
func (a *Auth) Register(ctx context.Context, req types.RegisterRequest) (types.User, error) {
	ticket := a.begin(sessionKey)
	user, err := a.svc.Register(ctx, req)
	if err != nil {
		a.reject(sessionKey, ticket, api.Message(err, "Registration failed"))
		return types.User{}, err
	}
	a.fulfill(sessionKey, ticket, func(s *AuthState) {
		s.User = nil
		s.IsAuthenticated = false
	})
	return user, nil
}

func (a *Auth) Login(ctx context.Context, req types.LoginRequest) (types.User, error) {
	ticket := a.begin(sessionKey)
	user, err := a.svc.Login(ctx, req)
	if err != nil {
		a.reject(sessionKey, ticket, api.Message(err, "Login failed"))
		return types.User{}, err
	}
	a.fulfill(sessionKey, ticket, func(s *AuthState) {
		s.User = ptr(user)
		s.IsAuthenticated = true
	})
	return user, nil
}

func (a *Auth) Logout(ctx context.Context) error {
	ticket := a.begin(sessionKey)
	if err := a.svc.Logout(ctx); err != nil {
		a.reject(sessionKey, ticket, api.Message(err, "Logout failed"))
		return err
	}
	a.fulfill(sessionKey, ticket, func(s *AuthState) {
		s.User = nil
		s.IsAuthenticated = false
	})
	return nil
}

// CheckAuth resolves the current session. A failure is the ordinary
// "not logged in" state: the user is cleared and Error stays empty.
func (a *Auth) CheckAuth(ctx context.Context) (types.User, error) {
	ticket := a.begin(sessionKey)
	user, err := a.svc.CurrentUser(ctx)
	if err != nil {
		a.settle(sessionKey, ticket, func(s *AuthState) {
			s.User = nil
			s.IsAuthenticated = false
			s.IsInitialized = true
			s.Error = ""
		})
		return types.User{}, err
	}
	a.fulfill(sessionKey, ticket, func(s *AuthState) {
		s.User = ptr(user)
		s.IsAuthenticated = true
		s.IsInitialized = true
	})
	return user, nil
}

// VerifyEmail redeems a verification token and authenticates the session.
func (a *Auth) VerifyEmail(ctx context.Context, token string) (types.User, error) {
	ticket := a.begin(sessionKey)
	user, err := a.svc.VerifyEmail(ctx, token)
	if err != nil {
		a.reject(sessionKey, ticket, api.Message(err, "Email verification failed"))
		return types.User{}, err
	}
	a.fulfill(sessionKey, ticket, func(s *AuthState) {
		s.User = ptr(user)
		s.IsAuthenticated = true
	})
	return user, nil
}

func (a *Auth) ResendVerification(ctx context.Context, email string) error {
	ticket := a.begin(sessionKey)
	if err := a.svc.ResendVerification(ctx, email); err != nil {
		a.reject(sessionKey, ticket, api.Message(err, "Failed to resend verification email"))
		return err
	}
	a.fulfill(sessionKey, ticket, nil)
	return nil
}

func (a *Auth) ClearError() {
	a.update(func(s *AuthState) { s.Error = "" })
}

// ClearUser drops the user without calling the API.
func (a *Auth) ClearUser() {
	a.update(func(s *AuthState) {
		s.User = nil
		s.IsAuthenticated = false
	})
}
