package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/societyhq/societyhub/internal/pdf"
	paymentdomain "github.com/societyhq/societyhub/internal/payment/domain"
)

func (s *Server) ProcessMaintenancePayment(c *gin.Context) {
	var req paymentdomain.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.paymentSvc.ProcessMaintenancePayment(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusCreated, resp)
}

func (s *Server) ListPayments(c *gin.Context) {
	var req paymentdomain.ListPaymentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.paymentSvc.ListPayments(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}

func (s *Server) GetPayment(c *gin.Context) {
	payment, err := s.paymentSvc.GetPaymentByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, payment)
}

// PaymentReceiptPDF renders the printable receipt for one payment.
func (s *Server) PaymentReceiptPDF(c *gin.Context) {
	ctx := c.Request.Context()

	payment, err := s.paymentSvc.GetPaymentByID(ctx, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	detail, err := s.billingSvc.GetBillByID(ctx, payment.BillID.String())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	currency := s.settings.Get().Currency

	data := pdf.ReceiptData{
		ReceiptNumber: payment.ReceiptNumber,
		BillNumber:    detail.BillNumber,
		BillingMonth:  detail.BillingMonth,
		PaymentDate:   payment.PaymentDate.Format("02 Jan 2006"),
		PaymentMethod: payment.PaymentMethod,
		AmountPaid:    formatMoney(payment.PaymentAmount, currency),
		TotalAmount:   formatMoney(detail.TotalAmount, currency),
		PendingAmount: formatMoney(detail.PendingAmount, currency),
	}
	for _, item := range detail.Items {
		description := item.ChargeName
		if item.Description != "" {
			description = item.Description
		}
		data.Items = append(data.Items, pdf.ReceiptItem{
			Description: description,
			Quantity:    item.Quantity,
			UnitRate:    formatMoney(item.UnitRate, currency),
			Amount:      formatMoney(item.Amount, currency),
		})
	}

	if society, err := s.societySvc.GetByID(ctx, detail.SocietyID.String()); err == nil {
		data.SocietyName = society.SocietyName
	}
	if member, err := s.memberSvc.GetByID(ctx, detail.MemberID.String()); err == nil {
		data.MemberName = member.FirstName + " " + member.LastName
		data.FlatNumber = member.FlatNumber
	}

	doc, err := s.receipts.RenderReceipt(ctx, data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filename := fmt.Sprintf("attachment; filename=%s.pdf", payment.ReceiptNumber)
	c.DataFromReader(http.StatusOK, -1, "application/pdf", doc, map[string]string{
		"Content-Disposition": filename,
	})
}

func (s *Server) CreatePaymentMethod(c *gin.Context) {
	var req paymentdomain.CreateMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	method, err := s.paymentSvc.CreateMethod(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusCreated, method)
}

func (s *Server) ListPaymentMethods(c *gin.Context) {
	var req paymentdomain.ListMethodsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.paymentSvc.ListMethods(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}

func (s *Server) GetPaymentMethod(c *gin.Context) {
	method, err := s.paymentSvc.GetMethodByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, method)
}

func (s *Server) UpdatePaymentMethod(c *gin.Context) {
	var req paymentdomain.UpdateMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = c.Param("id")

	method, err := s.paymentSvc.UpdateMethod(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, method)
}

func (s *Server) DeletePaymentMethod(c *gin.Context) {
	if err := s.paymentSvc.DeleteMethod(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "payment method deleted")
}

func (s *Server) SetDefaultPaymentMethod(c *gin.Context) {
	method, err := s.paymentSvc.SetDefaultMethod(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, method)
}

// formatMoney renders integer minor units as "CUR 12.34". Negative
// balances keep the sign in front of the number.
func formatMoney(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s %s%d.%02d", currency, sign, minor/100, minor%100)
}
