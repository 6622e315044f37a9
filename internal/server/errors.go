package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	assetdomain "github.com/societyhq/societyhub/internal/asset/domain"
	authdomain "github.com/societyhq/societyhub/internal/auth/domain"
	"github.com/societyhq/societyhub/internal/auth/token"
	authzdomain "github.com/societyhq/societyhub/internal/authorization/domain"
	billingdomain "github.com/societyhq/societyhub/internal/billing/domain"
	memberdomain "github.com/societyhq/societyhub/internal/member/domain"
	paymentdomain "github.com/societyhq/societyhub/internal/payment/domain"
	permissiondomain "github.com/societyhq/societyhub/internal/permission/domain"
	roledomain "github.com/societyhq/societyhub/internal/role/domain"
	societydomain "github.com/societyhq/societyhub/internal/society/domain"
	subscriptiondomain "github.com/societyhq/societyhub/internal/subscription/domain"
	userroledomain "github.com/societyhq/societyhub/internal/userrole/domain"
	visitordomain "github.com/societyhq/societyhub/internal/visitor/domain"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrTooManyRequests = errors.New("too_many_requests")
)

// ErrorHandlingMiddleware turns the last gin error into the JSON
// envelope after the handler chain finished without writing a body.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, envelope{Success: false, Message: message})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal error"

	// 400
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, authdomain.ErrInvalidID),
		errors.Is(err, authdomain.ErrWeakPassword),
		errors.Is(err, societydomain.ErrInvalidID),
		errors.Is(err, societydomain.ErrInvalidName),
		errors.Is(err, memberdomain.ErrInvalidID),
		errors.Is(err, memberdomain.ErrInvalidName),
		errors.Is(err, assetdomain.ErrInvalidID),
		errors.Is(err, assetdomain.ErrInvalidName),
		errors.Is(err, roledomain.ErrInvalidID),
		errors.Is(err, roledomain.ErrInvalidRoleName),
		errors.Is(err, permissiondomain.ErrInvalidID),
		errors.Is(err, permissiondomain.ErrInvalidResource),
		errors.Is(err, permissiondomain.ErrInvalidAction),
		errors.Is(err, userroledomain.ErrInvalidID),
		errors.Is(err, userroledomain.ErrInvalidWindow),
		errors.Is(err, billingdomain.ErrInvalidID),
		errors.Is(err, billingdomain.ErrInvalidChargeName),
		errors.Is(err, billingdomain.ErrInvalidBillingMonth),
		errors.Is(err, billingdomain.ErrInvalidAmount),
		errors.Is(err, billingdomain.ErrInvalidReference),
		errors.Is(err, paymentdomain.ErrInvalidID),
		errors.Is(err, paymentdomain.ErrInvalidAmount),
		errors.Is(err, visitordomain.ErrInvalidID),
		errors.Is(err, visitordomain.ErrInvalidName),
		errors.Is(err, subscriptiondomain.ErrInvalidID),
		errors.Is(err, subscriptiondomain.ErrInvalidPlanName):
		return http.StatusBadRequest, err.Error()

	// 401
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrUnauthenticated),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, token.ErrInvalidToken):
		return http.StatusUnauthorized, err.Error()

	// 403
	case errors.Is(err, authdomain.ErrAccountLocked),
		errors.Is(err, authzdomain.ErrNoActiveRoles),
		errors.Is(err, authzdomain.ErrPermissionDenied),
		errors.Is(err, authzdomain.ErrRoleDenied),
		errors.Is(err, roledomain.ErrSystemRoleProtected),
		errors.Is(err, permissiondomain.ErrSystemPermissionProtected),
		errors.Is(err, userroledomain.ErrScopeNotAllowed):
		return http.StatusForbidden, err.Error()

	// 404
	case errors.Is(err, authdomain.ErrNotFound),
		errors.Is(err, societydomain.ErrNotFound),
		errors.Is(err, memberdomain.ErrNotFound),
		errors.Is(err, memberdomain.ErrSocietyNotFound),
		errors.Is(err, assetdomain.ErrNotFound),
		errors.Is(err, roledomain.ErrNotFound),
		errors.Is(err, roledomain.ErrGrantNotFound),
		errors.Is(err, permissiondomain.ErrNotFound),
		errors.Is(err, userroledomain.ErrNotFound),
		errors.Is(err, userroledomain.ErrRoleNotFound),
		errors.Is(err, billingdomain.ErrChargeNotFound),
		errors.Is(err, billingdomain.ErrBillNotFound),
		errors.Is(err, billingdomain.ErrBillItemNotFound),
		errors.Is(err, paymentdomain.ErrPaymentNotFound),
		errors.Is(err, paymentdomain.ErrMethodNotFound),
		errors.Is(err, visitordomain.ErrNotFound),
		errors.Is(err, subscriptiondomain.ErrPlanNotFound),
		errors.Is(err, subscriptiondomain.ErrSubscriptionNotFound):
		return http.StatusNotFound, err.Error()

	// 409
	case errors.Is(err, authdomain.ErrUserExists),
		errors.Is(err, societydomain.ErrSocietyExists),
		errors.Is(err, memberdomain.ErrMemberExists),
		errors.Is(err, roledomain.ErrRoleExists),
		errors.Is(err, permissiondomain.ErrPermissionExists),
		errors.Is(err, userroledomain.ErrAlreadyAssigned),
		errors.Is(err, userroledomain.ErrAlreadyRevoked),
		errors.Is(err, visitordomain.ErrAlreadyCheckedOut),
		errors.Is(err, subscriptiondomain.ErrPlanExists):
		return http.StatusConflict, err.Error()

	// 429
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, err.Error()

	default:
		return http.StatusInternalServerError, "internal error"
	}
}
