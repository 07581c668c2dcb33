package fakeapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mytherion/client/internal/logger"
	"github.com/mytherion/client/types"
	"golang.org/x/crypto/bcrypt"
)

const (
	// SessionCookie carries the signed session token.
	SessionCookie = "mytherion_session"

	defaultTokenTTL = 24 * time.Hour
	defaultUserRole = "USER"
)

// AuthHandler provides the cookie-session authentication endpoints.
type AuthHandler struct {
	mem      *memory
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
	log      *logger.Logger
}

func newAuthHandler(mem *memory, secret []byte, now func() time.Time, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		mem:      mem,
		secret:   secret,
		tokenTTL: defaultTokenTTL,
		now:      now,
		log:      log,
	}
}

func authRouter(r chi.Router, h *AuthHandler) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Post("/verify-email", h.VerifyEmail)
	r.Post("/resend-verification", h.ResendVerification)
	r.With(h.RequireAuth).Get("/me", h.Me)
}

// RequireAuth enforces a valid session cookie and injects the subject
// into the request context.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil || strings.TrimSpace(cookie.Value) == "" {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		subject, err := parseTokenSubject(cookie.Value, h.secret, h.now)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		ctx := context.WithValue(r.Context(), contextSubjectKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Register creates an unverified account. No session is started.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if req.Email == "" || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email, username and password are required")
		return
	}
	if len(req.Password) < 8 || len(req.Password) > 72 {
		writeError(w, http.StatusBadRequest, "Password must be between 8 and 72 characters")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token := uuid.NewString()
	user, err := h.mem.createAccount(types.User{
		Email:    req.Email,
		Username: req.Username,
		Role:     defaultUserRole,
	}, string(hashed), token)
	switch {
	case errors.Is(err, ErrEmailTaken):
		writeError(w, http.StatusConflict, "Email already registered")
		return
	case errors.Is(err, ErrUsernameTaken):
		writeError(w, http.StatusConflict, "Username already taken")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	h.mailToken(user.Email, token)
	writeJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and starts a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	acc, err := h.mem.accountByEmail(req.Email)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.passwordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if !acc.user.EmailVerified {
		writeError(w, http.StatusForbidden, "Please verify your email before logging in")
		return
	}

	if err := h.startSession(w, acc.user.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}
	writeJSON(w, http.StatusOK, acc.user)
}

// Logout expires the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the current authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.mem.userByID(userID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// VerifyEmail consumes a verification token and starts a session.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req types.VerifyEmailRequest
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Token) == "" {
		writeError(w, http.StatusBadRequest, "Verification token is required")
		return
	}

	user, err := h.mem.verify(strings.TrimSpace(req.Token))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or expired verification token")
		return
	}

	if err := h.startSession(w, user.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ResendVerification issues a new token. It answers 204 whether or not
// the address is known.
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req types.ResendVerificationRequest
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	email := strings.TrimSpace(req.Email)
	token := uuid.NewString()
	if h.mem.rotateToken(email, token) {
		h.mailToken(email, token)
	}
	w.WriteHeader(http.StatusNoContent)
}

// mailToken stands in for the verification mail.
func (h *AuthHandler) mailToken(email, token string) {
	h.log.Info("Verification mail", logger.Fields{"email": email, "token": token})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, userID int64) error {
	token, err := issueToken(userID, h.secret, h.tokenTTL, h.now)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func issueToken(userID int64, secret []byte, ttl time.Duration, now func() time.Time) (string, error) {
	issued := now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseTokenSubject(tokenString string, secret []byte, now func() time.Time) (string, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	}, jwt.WithTimeFunc(now))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("missing subject")
	}
	return claims.Subject, nil
}
