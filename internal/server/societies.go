package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	societydomain "github.com/societyhq/societyhub/internal/society/domain"
)

func (s *Server) CreateSociety(c *gin.Context) {
	var req societydomain.CreateSocietyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	society, err := s.societySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusCreated, society)
}

func (s *Server) ListSocieties(c *gin.Context) {
	var req societydomain.ListSocietiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.societySvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}

func (s *Server) GetSociety(c *gin.Context) {
	society, err := s.societySvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, society)
}

func (s *Server) UpdateSociety(c *gin.Context) {
	var req societydomain.UpdateSocietyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = c.Param("id")

	society, err := s.societySvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, society)
}

func (s *Server) DeleteSociety(c *gin.Context) {
	if err := s.societySvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "society deleted")
}
