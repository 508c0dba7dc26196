package domain

import (
	"errors"
	"os"
)

const (
	TierFree = "free"
	TierPlus = "plus"
	TierPro  = "pro"
)

var (
	MessageFailedBodyRequest    = "failed to process body request"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	JwtSecret = os.Getenv("JWT_SECRET")

	ErrParseUUID        = errors.New("failed to parse UUID")
	ErrTokenNotFound    = errors.New("failed to token not found")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("token invalid")
	ErrNotAuthenticated = errors.New("no authenticated user session")
)
