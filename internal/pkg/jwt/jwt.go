package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Claims is the signed token payload: the account id plus the issuance
// timestamp in milliseconds. Standard iat/exp claims ride along.
type Claims struct {
	UserID    string `json:"id"`
	Timestamp int64  `json:"timestamp,omitempty"`
	jwtlib.RegisteredClaims
}

// Service signs and verifies the two token flavors. Access and refresh
// tokens use distinct secrets and expiries so one can never stand in for
// the other.
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func New(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (s *Service) SignAccess(userID string) (string, error) {
	return s.sign(s.accessSecret, s.accessTTL, userID)
}

func (s *Service) SignRefresh(userID string) (string, error) {
	return s.sign(s.refreshSecret, s.refreshTTL, userID)
}

func (s *Service) ParseAccess(tokenStr string) (*Claims, error) {
	return s.parse(s.accessSecret, tokenStr)
}

func (s *Service) ParseRefresh(tokenStr string) (*Claims, error) {
	return s.parse(s.refreshSecret, tokenStr)
}

func (s *Service) sign(secret []byte, ttl time.Duration, userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		Timestamp: now.UnixMilli(),
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (s *Service) parse(secret []byte, tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	return claims, nil
}
