package types

// User represents an account as returned by the Mytherion API.
// It is immutable from the client's side; a verified email is observed
// by fetching the user again.
type User struct {
	// ID is the unique identifier of the user.
	ID int64 `json:"id"`

	// Email is the address the account was registered with.
	Email string `json:"email"`

	// Username is the public name chosen by the user.
	Username string `json:"username"`

	// Role indicates the user's authorization level
	// within the system (e.g., "USER", "ADMIN").
	Role string `json:"role"`

	// EmailVerified reports whether the user confirmed their email address.
	EmailVerified bool `json:"emailVerified"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyEmailRequest is the payload for POST /auth/verify-email.
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

// ResendVerificationRequest is the payload for POST /auth/resend-verification.
type ResendVerificationRequest struct {
	Email string `json:"email"`
}
