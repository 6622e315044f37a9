package server

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/societyhq/societyhub/internal/auth/token"
	authzdomain "github.com/societyhq/societyhub/internal/authorization/domain"
	"github.com/societyhq/societyhub/internal/requestctx"
	"github.com/societyhq/societyhub/internal/societyctx"
)

const (
	headerRequestID = "X-Request-ID"
	headerSociety   = "X-Society-ID"
)

// RequestContext propagates the correlation ID and client IP into the
// request context so services and the audit trail can pick them up.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(headerRequestID, requestID)

		ctx := requestctx.WithRequestID(c.Request.Context(), requestID)
		ctx = requestctx.WithClientIP(ctx, c.ClientIP())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AuthRequired verifies the bearer token and stores the user identity
// in the request context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		raw := strings.TrimSpace(header[len("Bearer "):])
		userID, _, err := s.issuer.Verify(raw)
		if err != nil {
			AbortWithError(c, token.ErrInvalidToken)
			return
		}

		ctx := requestctx.WithUserID(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// SocietyContext resolves the target society from the X-Society-ID
// header or the society_id query parameter, when present.
func SocietyContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(headerSociety))
		if raw == "" {
			raw = strings.TrimSpace(c.Query("society_id"))
		}
		if raw != "" {
			societyID, err := snowflake.ParseString(raw)
			if err != nil {
				AbortWithError(c, ErrInvalidRequest)
				return
			}
			ctx := societyctx.WithSocietyID(c.Request.Context(), societyID)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// RequirePermission gates a route on the resource/action pair, scoped
// to the society resolved by SocietyContext when one is set.
func (s *Server) RequirePermission(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userID, ok := requestctx.UserIDFromContext(ctx)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		var societyID *snowflake.ID
		if target, found := societyctx.SocietyIDFromContext(ctx); found {
			societyID = &target
		}

		if err := s.authzSvc.Authorize(ctx, userID, societyID, resource, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// RequireRole gates a route on holding one of the named roles.
func (s *Server) RequireRole(roleNames ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userID, ok := requestctx.UserIDFromContext(ctx)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		if err := s.authzSvc.AuthorizeRole(ctx, userID, roleNames...); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// LoginRateLimit throttles login attempts per client IP when redis is
// configured.
func (s *Server) LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.loginLimiter == nil {
			c.Next()
			return
		}
		res := s.loginLimiter.Allow(c.Request.Context(), c.ClientIP())
		if !res.Allowed {
			if res.RetryAfter > 0 {
				c.Header("Retry-After", res.RetryAfter.Round(time.Second).String())
			}
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

// superAdminOnly is a convenience wrapper for platform-level routes.
func (s *Server) superAdminOnly() gin.HandlerFunc {
	return s.RequireRole(authzdomain.SuperAdminRole)
}
