package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is what both sides read from an access token.
type Claims struct {
	UserID    string
	Username  string
	ExpiresAt time.Time
}

func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// IssueJWT signs an HS256 access token for the user.
func IssueJWT(userID, username string, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}

func DecodeJWT(token string, secret []byte) (jwt.MapClaims, error) {
	parsedToken, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// VerifyJWT checks the signature and returns the typed claims.
func VerifyJWT(token string, secret []byte) (Claims, error) {
	claims, err := DecodeJWT(token, secret)
	if err != nil {
		return Claims{}, err
	}
	return toClaims(claims)
}

// PeekJWT reads the claims without checking the signature. The client uses it
// to learn who it is logged in as; it must never be used to authorize.
func PeekJWT(token string) (Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Claims{}, err
	}
	return toClaims(claims)
}

func toClaims(claims jwt.MapClaims) (Claims, error) {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Claims{}, ErrInvalidToken
	}

	c := Claims{UserID: sub}
	if username, ok := claims["username"].(string); ok {
		c.Username = username
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}
