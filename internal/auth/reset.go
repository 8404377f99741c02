package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResetTTL bounds how long a password-reset token can be redeemed.
const ResetTTL = time.Hour

const resetKeyPrefix = "pwreset:"

// ResetTokens wraps Redis for password-reset token storage. The TTL enforces
// the expiry invariant and GETDEL makes redemption single-use even under
// concurrent attempts.
type ResetTokens struct {
	rdb *redis.Client
}

func NewResetTokens(rdb *redis.Client) *ResetTokens {
	return &ResetTokens{rdb: rdb}
}

// Create generates a 256-bit hex token mapped to the given email.
func (s *ResetTokens) Create(ctx context.Context, email string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)
	if err := s.rdb.Set(ctx, resetKeyPrefix+token, email, ResetTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Redeem consumes the token and returns the email it was issued for, or ""
// if the token is unknown or expired.
func (s *ResetTokens) Redeem(ctx context.Context, token string) (string, error) {
	email, err := s.rdb.GetDel(ctx, resetKeyPrefix+token).Result()
	if err == redis.Nil {
		return "", nil
	}
	return email, err
}
