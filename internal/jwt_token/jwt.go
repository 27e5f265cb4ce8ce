package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "lifeclock/pkg/domain"
	dErrors "lifeclock/pkg/domain-errors"
)

// DefaultTTL matches the one-day session of the web client.
const DefaultTTL = 24 * time.Hour

// Claims are the access token claims. ID (jti) keys revocation.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTService signs and validates HS256 access tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
}

func NewJWTService(signingKey string, issuer string, audience string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

// GenerateAccessToken signs a token for userID issued at now.
func (s *JWTService) GenerateAccessToken(userID id.UserID, now time.Time, expiresIn time.Duration) (string, *Claims, error) {
	claims := &Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithAudience(s.audience))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if _, err := id.ParseUserID(claims.UserID); err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}
