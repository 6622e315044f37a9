package societyctx

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// SocietyContextKey is the request context key for the target society ID.
type SocietyContextKey struct{}

// WithSocietyID stores the society ID in the context.
func WithSocietyID(ctx context.Context, societyID snowflake.ID) context.Context {
	return context.WithValue(ctx, SocietyContextKey{}, societyID)
}

// SocietyIDFromContext returns the society ID from context, if set.
func SocietyIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}

	value := ctx.Value(SocietyContextKey{})
	switch typed := value.(type) {
	case snowflake.ID:
		return typed, true
	case int64:
		return snowflake.ID(typed), true
	case string:
		parsed, err := snowflake.ParseString(strings.TrimSpace(typed))
		if err == nil {
			return parsed, true
		}
	}
	return 0, false
}
