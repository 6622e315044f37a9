package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	userroledomain "github.com/societyhq/societyhub/internal/userrole/domain"
)

func (s *Server) AssignUserRole(c *gin.Context) {
	var req userroledomain.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	assignment, err := s.userRoleSvc.Assign(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusCreated, assignment)
}

func (s *Server) ListUserRoles(c *gin.Context) {
	var req userroledomain.ListUserRolesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.userRoleSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}

func (s *Server) GetUserRole(c *gin.Context) {
	assignment, err := s.userRoleSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, assignment)
}

func (s *Server) RevokeUserRole(c *gin.Context) {
	assignment, err := s.userRoleSvc.Revoke(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, assignment)
}

func (s *Server) DeleteUserRole(c *gin.Context) {
	if err := s.userRoleSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "user role deleted")
}
