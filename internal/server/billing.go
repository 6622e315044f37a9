package server

import (
	"net/http"

	billingdomain "github.com/societyhq/societyhub/internal/billing/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateChargeTemplate(c *gin.Context) {
	var req billingdomain.CreateChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	charge, err := s.billingSvc.CreateCharge(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusCreated, charge)
}

func (s *Server) ListChargeTemplates(c *gin.Context) {
	var req billingdomain.ListChargesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.billingSvc.ListCharges(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}

func (s *Server) GetChargeTemplate(c *gin.Context) {
	charge, err := s.billingSvc.GetChargeByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, charge)
}

func (s *Server) UpdateChargeTemplate(c *gin.Context) {
	var req billingdomain.UpdateChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = c.Param("id")

	charge, err := s.billingSvc.UpdateCharge(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, charge)
}

func (s *Server) DeleteChargeTemplate(c *gin.Context) {
	if err := s.billingSvc.DeleteCharge(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "charge template deleted")
}

func (s *Server) CreateBill(c *gin.Context) {
	var req billingdomain.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	bill, err := s.billingSvc.CreateBill(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusCreated, bill)
}

func (s *Server) ListBills(c *gin.Context) {
	var req billingdomain.ListBillsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.billingSvc.ListBills(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}

func (s *Server) GetBill(c *gin.Context) {
	bill, err := s.billingSvc.GetBillByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, bill)
}

func (s *Server) UpdateBill(c *gin.Context) {
	var req billingdomain.UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = c.Param("id")

	bill, err := s.billingSvc.UpdateBill(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, bill)
}

func (s *Server) DeleteBill(c *gin.Context) {
	if err := s.billingSvc.DeleteBill(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "bill deleted")
}

func (s *Server) AddBillItem(c *gin.Context) {
	var req billingdomain.AddBillItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	item, err := s.billingSvc.AddBillItem(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusCreated, item)
}

func (s *Server) UpdateBillItem(c *gin.Context) {
	var req billingdomain.UpdateBillItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = c.Param("id")

	item, err := s.billingSvc.UpdateBillItem(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, item)
}

func (s *Server) DeleteBillItem(c *gin.Context) {
	if err := s.billingSvc.DeleteBillItem(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "bill item deleted")
}
