package server

import (
	"net/http"
	"time"

	auditdomain "github.com/societyhq/societyhub/internal/audit/domain"
	"github.com/gin-gonic/gin"
)

// ListAuditLogs binds the trail filters by hand: the time range comes in
// as RFC 3339 strings.
func (s *Server) ListAuditLogs(c *gin.Context) {
	var req auditdomain.ListAuditLogRequest
	if err := c.ShouldBindQuery(&req.Pagination); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	req.UserID = c.Query("user_id")
	req.Action = c.Query("action")
	req.ResourceType = c.Query("resource_type")
	req.ResourceID = c.Query("resource_id")

	if raw := c.Query("start_at"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		req.StartAt = &at
	}
	if raw := c.Query("end_at"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		req.EndAt = &at
	}

	resp, err := s.auditSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}
