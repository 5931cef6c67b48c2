package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenPair is the credential pair issued at registration and login.
type TokenPair struct {
	Access  string
	Refresh string
}

type JWT struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewJWT(secret string, accessTTL, refreshTTL time.Duration) *JWT {
	return &JWT{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// IssuePair signs an access/refresh pair for the user. Refresh tokens carry a
// jti so individual tokens stay distinguishable.
func (j *JWT) IssuePair(userID uint64) (TokenPair, error) {
	access, err := j.sign(userID, "access", j.accessTTL, "")
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := j.sign(userID, "refresh", j.refreshTTL, uuid.NewString())
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (j *JWT) sign(userID uint64, typ string, ttl time.Duration, jti string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"typ": typ,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if jti != "" {
		claims["jti"] = jti
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(j.secret)
}

// VerifyAccess resolves an access token to the caller's user id.
func (j *JWT) VerifyAccess(tokenStr string) (uint64, error) {
	return j.verify(tokenStr, "access")
}

// VerifyRefresh resolves a refresh token to the caller's user id.
func (j *JWT) VerifyRefresh(tokenStr string) (uint64, error) {
	return j.verify(tokenStr, "refresh")
}

func (j *JWT) verify(tokenStr, typ string) (uint64, error) {
	t, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return j.secret, nil
	})
	if err != nil || !t.Valid {
		return 0, errors.New("invalid token")
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims")
	}

	if claims["typ"] != typ {
		return 0, errors.New("wrong token type")
	}

	sub, ok := claims["sub"]
	if !ok {
		return 0, errors.New("missing sub")
	}

	// jwt MapClaims numbers are float64
	idf, ok := sub.(float64)
	if !ok {
		return 0, errors.New("invalid sub type")
	}
	return uint64(idf), nil
}
