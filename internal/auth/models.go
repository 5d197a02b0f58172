package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName = "admin_session"
	localsKey  = "admin"
)

var (
	ErrPasswordRequired  = errors.New("password required")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrSessionInvalid    = errors.New("session invalid")
	ErrSessionRevoked    = errors.New("session revoked")
)

type Claims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type UnlockRequest struct {
	Password string `json:"password" form:"password"`
}
