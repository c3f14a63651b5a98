package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-tour-booking/models"
	"github.com/golang-jwt/jwt/v5"
)

// Token validation failures. Expiry is reported separately so callers can
// show a different message for it.
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// GenerateJWTToken creates a signed HMAC-SHA256 JWT token for subjectID.
//
// The token includes the following standard claims:
//   - Subject   (sub): the user ID
//   - IssuedAt  (iat): now
//   - ExpiresAt (exp): now plus tokenDuration
//
// Returns an error if subjectID or signKey are empty or tokenDuration is zero.
//
// Example usage:
//
//	token, err := utils.GenerateJWTToken("0190...", time.Now(), 90*24*time.Hour, "secret")
func GenerateJWTToken(subjectID string, now time.Time, tokenDuration time.Duration, signKey string) (models.AuthToken, error) {
	if subjectID == "" || tokenDuration == 0 || signKey == "" {
		return models.AuthToken{}, errors.New("invalid params for generating JWT Token")
	}

	issuedAt := now.Truncate(time.Second)
	expiresAt := issuedAt.Add(tokenDuration)
	claims := &jwt.RegisteredClaims{
		Subject:   subjectID,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.AuthToken{}, fmt.Errorf("error occurred during singing JWT token: %w", err)
	}

	return models.AuthToken{
		SubjectID:    subjectID,
		IssuedAt:     issuedAt,
		ExpiresAt:    expiresAt,
		SignedString: tokenString,
	}, nil
}

// ValidateAndParseJWTToken verifies the signature and expiry of tokenString
// and extracts its claims.
//
// Only HS256 is accepted. An expired token yields [ErrTokenExpired]; every
// other failure (bad signature, malformed token, missing sub or iat claim)
// yields [ErrTokenInvalid]. Both wrap the underlying jwt error.
func ValidateAndParseJWTToken(tokenString, tokenSignKey string) (models.AuthToken, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired(), jwt.WithIssuedAt())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.AuthToken{}, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return models.AuthToken{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	if claims.Subject == "" {
		return models.AuthToken{}, fmt.Errorf("%w: empty subject", ErrTokenInvalid)
	}
	if claims.IssuedAt == nil {
		return models.AuthToken{}, fmt.Errorf("%w: missing iat claim", ErrTokenInvalid)
	}

	return models.AuthToken{
		SubjectID:    claims.Subject,
		IssuedAt:     claims.IssuedAt.Time,
		ExpiresAt:    claims.ExpiresAt.Time,
		SignedString: tokenString,
	}, nil
}
