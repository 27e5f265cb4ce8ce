package jwttoken

import (
	authmw "lifeclock/pkg/platform/middleware/auth"
)

func ToMiddlewareClaims(claims *Claims) *authmw.JWTClaims {
	out := &authmw.JWTClaims{
		UserID: claims.UserID,
		JTI:    claims.ID,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out
}

// JWTServiceAdapter exposes JWTService to the auth middleware.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
