package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	roledomain "github.com/societyhq/societyhub/internal/role/domain"
)

func (s *Server) CreateRole(c *gin.Context) {
	var req roledomain.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	role, err := s.roleSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusCreated, role)
}

func (s *Server) ListRoles(c *gin.Context) {
	var req roledomain.ListRolesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.roleSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}

func (s *Server) GetRole(c *gin.Context) {
	role, err := s.roleSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, role)
}

func (s *Server) UpdateRole(c *gin.Context) {
	var req roledomain.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = c.Param("id")

	role, err := s.roleSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, role)
}

func (s *Server) DeleteRole(c *gin.Context) {
	if err := s.roleSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "role deleted")
}

func (s *Server) ListRolePermissions(c *gin.Context) {
	grants, err := s.roleSvc.ListPermissions(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"role_permissions": grants})
}

func (s *Server) SetRolePermission(c *gin.Context) {
	var req roledomain.SetRolePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	grant, err := s.roleSvc.SetPermission(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusCreated, grant)
}

func (s *Server) RemoveRolePermission(c *gin.Context) {
	if err := s.roleSvc.RemovePermission(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "role permission removed")
}
