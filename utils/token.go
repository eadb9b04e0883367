package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenMissing     = errors.New("missing token")
	ErrTokenClaims      = errors.New("invalid token claims")
	ErrSecondFactorOpen = errors.New("2FA required")
)

// TokenMetadata struct to describe metadata in JWT.
type TokenMetadata struct {
	Id  int64
	Otp bool
	Exp int64
}

// GenerateToken signs an HS512 access token for the user id.
func GenerateToken(id int64, otp bool, ttl time.Duration, key string) (string, error) {
	claims := jwt.MapClaims{}

	claims["id"] = FormatID(id)
	claims["otp"] = otp
	claims["exp"] = time.Now().Add(ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	t, err := token.SignedString([]byte(key))
	if err != nil {
		return "", err
	}

	return t, nil
}

// CheckAndExtractTokenMetadata verifies signature and expiry and returns the claims.
func CheckAndExtractTokenMetadata(token string, key string) (*TokenMetadata, error) {
	if token == "" {
		return nil, ErrTokenMissing
	}

	t, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(key), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok || !t.Valid {
		return nil, ErrTokenClaims
	}

	return MetadataFromClaims(claims)
}

// MetadataFromClaims reads the id/otp/exp claims. The id may be a string or a number.
func MetadataFromClaims(claims jwt.MapClaims) (*TokenMetadata, error) {
	meta := &TokenMetadata{}

	switch v := claims["id"].(type) {
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, ErrTokenClaims
		}
		meta.Id = id
	case float64:
		meta.Id = int64(v)
	default:
		return nil, ErrTokenClaims
	}
	if meta.Id <= 0 {
		return nil, ErrTokenClaims
	}

	meta.Otp, _ = claims["otp"].(bool)
	if exp, ok := claims["exp"].(float64); ok {
		meta.Exp = int64(exp)
	}

	return meta, nil
}

// Authenticate verifies the token and rejects identities still waiting on a second factor.
func Authenticate(token string, key string) (int64, error) {
	meta, err := CheckAndExtractTokenMetadata(token, key)
	if err != nil {
		return 0, err
	}
	if meta.Otp {
		return 0, ErrSecondFactorOpen
	}
	return meta.Id, nil
}

// FormatID renders a user id the way it appears in tokens.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
