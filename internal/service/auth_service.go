package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"

	"restaurant-order-service/internal/entity"
)

// SessionClaims are the JWT claims carried by a customer session token.
type SessionClaims struct {
	UID   string `json:"uid"`
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService mints session tokens once the external auth provider has
// completed a sign-in. Sessions are recorded in redis keyed by uid so a
// sign-out can revoke them. No other component writes session state.
type AuthService struct {
	rdb    *redis.Client
	secret []byte
}

func NewAuthService(rdb *redis.Client, secret []byte) *AuthService {
	return &AuthService{rdb: rdb, secret: secret}
}

// CreateSession turns a provider profile into a signed session token.
func (s *AuthService) CreateSession(ctx context.Context, profile entity.Profile) (string, error) {
	if profile.UID == "" {
		return "", fmt.Errorf("profile is missing a uid")
	}

	claims := &SessionClaims{
		UID:   profile.UID,
		Name:  profile.Name,
		Email: profile.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err := tkn.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, sessionKey(profile.UID), token, time.Hour*24).Err(); err != nil {
			return "", err
		}
	}

	return token, nil
}

// DeleteSession revokes the user's session.
func (s *AuthService) DeleteSession(ctx context.Context, uid string) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, sessionKey(uid)).Err()
}

func sessionKey(uid string) string {
	return fmt.Sprintf("session:%s", uid)
}
