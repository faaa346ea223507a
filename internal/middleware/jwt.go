package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 7 * 24 * time.Hour

// Tokens issues and verifies bearer tokens for member API clients.
type Tokens struct {
	secret []byte
}

func NewTokens(secret string) *Tokens { return &Tokens{secret: []byte(secret)} }

func (t *Tokens) Issue(uid int, name string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  uid,
		"name": name,
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}).SignedString(t.secret)
}

// Parse validates a token and returns its member id, name and, when the
// token has less than a day left, a freshly issued replacement.
func (t *Tokens) Parse(raw string) (uid int, name, renewed string, err error) {
	token, err := jwt.Parse(raw, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", "", errors.New("invalid token")
	}
	claims := token.Claims.(jwt.MapClaims)
	fuid, ok := claims["uid"].(float64)
	if !ok || fuid <= 0 {
		return 0, "", "", errors.New("invalid token")
	}
	name, _ = claims["name"].(string)
	uid = int(fuid)

	// Renew once less than a day is left.
	if exp, ok := claims["exp"].(float64); ok {
		if time.Until(time.Unix(int64(exp), 0)) < 24*time.Hour {
			renewed, _ = t.Issue(uid, name)
		}
	}
	return uid, name, renewed, nil
}

func bearer(header string) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return header[len("Bearer "):], true
}
