package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
)

// JWTManager issues and validates HS256 identity tokens carrying a Caller.
type JWTManager struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
}

// NewJWTManager creates a new JWT manager.
// secret must be at least 32 characters for HS256 security.
func NewJWTManager(secret string, issuer string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:    []byte(secret),
		issuer:    issuer,
		accessTTL: accessTTL,
	}
}

// accessClaims extends standard JWT claims with the caller's org scope.
type accessClaims struct {
	jwt.RegisteredClaims
	Role         string   `json:"role"`
	OrgID        string   `json:"org_id"`
	OutletAccess []string `json:"outlet_access,omitempty"`
}

// GenerateAccessToken creates a signed token with the user ID as subject.
func (m *JWTManager) GenerateAccessToken(caller domain.Caller) (string, error) {
	now := time.Now()
	outlets := make([]string, 0, len(caller.OutletAccess))
	for _, id := range caller.OutletAccess {
		outlets = append(outlets, id.String())
	}

	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   caller.UserID.String(),
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role:         string(caller.Role),
		OrgID:        caller.OrgID.String(),
		OutletAccess: outlets,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ValidateAccessToken parses and validates a token and returns its Caller.
func (m *JWTManager) ValidateAccessToken(tokenString string) (domain.Caller, error) {
	if tokenString == "" {
		return domain.Caller{}, errors.New("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer))
	if err != nil {
		return domain.Caller{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return domain.Caller{}, errors.New("invalid token claims")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Caller{}, fmt.Errorf("invalid subject UUID: %w", err)
	}
	orgID, err := uuid.Parse(claims.OrgID)
	if err != nil {
		return domain.Caller{}, fmt.Errorf("invalid org_id: %w", err)
	}
	role := domain.Role(claims.Role)
	if !role.IsValid() {
		return domain.Caller{}, fmt.Errorf("invalid role %q", claims.Role)
	}

	outlets := make([]uuid.UUID, 0, len(claims.OutletAccess))
	for _, s := range claims.OutletAccess {
		id, err := uuid.Parse(s)
		if err != nil {
			return domain.Caller{}, fmt.Errorf("invalid outlet id: %w", err)
		}
		outlets = append(outlets, id)
	}

	return domain.Caller{
		UserID:       userID,
		Role:         role,
		OrgID:        orgID,
		OutletAccess: outlets,
	}, nil
}
