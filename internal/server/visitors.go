package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	visitordomain "github.com/societyhq/societyhub/internal/visitor/domain"
)

func (s *Server) CheckInVisitor(c *gin.Context) {
	var req visitordomain.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	visitor, err := s.visitorSvc.CheckIn(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusCreated, visitor)
}

func (s *Server) ListVisitors(c *gin.Context) {
	var req visitordomain.ListVisitorsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.visitorSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}

func (s *Server) GetVisitor(c *gin.Context) {
	visitor, err := s.visitorSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, visitor)
}

func (s *Server) CheckOutVisitor(c *gin.Context) {
	var req visitordomain.CheckOutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
	}
	req.ID = c.Param("id")

	visitor, err := s.visitorSvc.CheckOut(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, visitor)
}
