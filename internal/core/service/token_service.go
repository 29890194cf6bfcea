package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/campusboard/board-api/internal/core/domain"
)

// tokenClaims is the signed payload of an access token.
type tokenClaims struct {
	SubjectID int64  `json:"subjectId"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 access tokens.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

// Issue signs a token for id that expires domain.TokenTTL after now.
func (s *TokenService) Issue(id domain.Identity) (string, time.Time, error) {
	now := s.now().Truncate(jwt.TimePrecision)
	exp := now.Add(domain.TokenTTL)

	claims := tokenClaims{
		SubjectID: id.SubjectID,
		Email:     id.Email,
		Role:      string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(id.SubjectID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// ValidateHeader checks an Authorization header value and returns the
// identity asserted by its token. Failures are reported in order: missing,
// malformed scheme, invalid signature, expired.
func (s *TokenService) ValidateHeader(header string) (domain.Identity, error) {
	if header == "" {
		return domain.Identity{}, domain.ErrMissingCredential
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return domain.Identity{}, domain.ErrMalformedCredential
	}

	return s.Validate(parts[1])
}

// Validate verifies a raw token string. Claims are trusted as issued; the
// store is not consulted.
func (s *TokenService) Validate(raw string) (domain.Identity, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		// The signature is verified before claims, so an expired error
		// implies the signature was good.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, domain.ErrExpiredCredential
		}
		return domain.Identity{}, domain.Wrap(domain.KindInvalidCredential, domain.ErrInvalidCredential.Message, err)
	}

	role := domain.Role(claims.Role)
	if !role.Valid() {
		return domain.Identity{}, domain.ErrInvalidCredential
	}

	return domain.Identity{
		SubjectID: claims.SubjectID,
		Email:     claims.Email,
		Role:      role,
	}, nil
}
