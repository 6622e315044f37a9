package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	assetdomain "github.com/societyhq/societyhub/internal/asset/domain"
)

func (s *Server) CreateAsset(c *gin.Context) {
	var req assetdomain.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	asset, err := s.assetSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusCreated, asset)
}

func (s *Server) ListAssets(c *gin.Context) {
	var req assetdomain.ListAssetsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.assetSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}

func (s *Server) GetAsset(c *gin.Context) {
	asset, err := s.assetSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, asset)
}

func (s *Server) UpdateAsset(c *gin.Context) {
	var req assetdomain.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = c.Param("id")

	asset, err := s.assetSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, asset)
}

func (s *Server) DeleteAsset(c *gin.Context) {
	if err := s.assetSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "asset deleted")
}
