package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	permissiondomain "github.com/societyhq/societyhub/internal/permission/domain"
)

func (s *Server) CreatePermission(c *gin.Context) {
	var req permissiondomain.CreatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	perm, err := s.permissionSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusCreated, perm)
}

func (s *Server) ListPermissions(c *gin.Context) {
	var req permissiondomain.ListPermissionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.permissionSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}

func (s *Server) GetPermission(c *gin.Context) {
	perm, err := s.permissionSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, perm)
}

func (s *Server) UpdatePermission(c *gin.Context) {
	var req permissiondomain.UpdatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = c.Param("id")

	perm, err := s.permissionSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, perm)
}

func (s *Server) DeletePermission(c *gin.Context) {
	if err := s.permissionSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "permission deleted")
}
