package ratelimit

import (
	"context"

	redis "github.com/redis/go-redis/v9"
	"github.com/societyhq/societyhub/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Login attempts refill at one token every 12 seconds with a burst of 5,
// so a single client gets at most 5 rapid tries per IP.
const (
	loginRate  = 5.0 / 60.0
	loginBurst = 5
)

// LoginLimiter throttles the login endpoint per client IP. With no redis
// configured it allows everything; account lockout still applies.
type LoginLimiter struct {
	bucket *TokenBucket
	log    *zap.Logger
}

type LoginLimiterParams struct {
	fx.In

	Client *redis.Client `optional:"true"`
	Log    *zap.Logger
}

func NewLoginLimiter(p LoginLimiterParams) *LoginLimiter {
	return &LoginLimiter{
		bucket: NewTokenBucket(p.Client),
		log:    p.Log.Named("ratelimit.login"),
	}
}

// Allow reports whether another login attempt from ip may proceed. Redis
// errors fail open: throttling is an extra guard, not the lockout itself.
func (l *LoginLimiter) Allow(ctx context.Context, ip string) *Result {
	if l == nil || l.bucket == nil || ip == "" {
		return &Result{Allowed: true}
	}
	res, err := l.bucket.Allow(ctx, "ratelimit:login:"+ip, loginRate, loginBurst)
	if err != nil {
		l.log.Warn("rate limit check failed", zap.String("ip", ip), zap.Error(err))
		return &Result{Allowed: true}
	}
	return res
}

// NewRedisClient builds the shared redis client, or nil when no address
// is configured.
func NewRedisClient(cfg config.Config, log *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Info("redis not configured, login rate limiting disabled")
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
}

var Module = fx.Module("ratelimit",
	fx.Provide(NewRedisClient),
	fx.Provide(NewLoginLimiter),
)
