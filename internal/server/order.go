package server

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	invoicedomain "github.com/jayambe/books/internal/invoice/domain"
	"github.com/jayambe/books/internal/providers/pdf"
	"go.uber.org/zap"
)

type orderLineItem struct {
	Description string  `json:"description" binding:"required"`
	Quantity    float64 `json:"quantity" binding:"gt=0"`
	Rate        float64 `json:"rate" binding:"gte=0"`
}

type orderTaxLine struct {
	Label   string  `json:"label"`
	Percent float64 `json:"percent" binding:"gte=0"`
}

// createOrderRequest is the order wire shape: items and note instead of the
// invoice ledger's lineItems and notes.
type createOrderRequest struct {
	CustomerName  string          `json:"customerName" binding:"required"`
	CustomerEmail string          `json:"customerEmail" binding:"required,email"`
	CustomerPhone string          `json:"customerPhone" binding:"required,phone"`
	DueDate       *time.Time      `json:"dueDate"`
	CreatedAt     *time.Time      `json:"createdAt"`
	Items         []orderLineItem `json:"items" binding:"required,min=1,dive"`
	Taxes         []orderTaxLine  `json:"taxes" binding:"omitempty,dive"`
	Note          string          `json:"note"`
}

// CreateOrder books a final invoice and renders its printable bill in one
// call. The bill bytes ride along base64-encoded so browser clients can
// trigger a download without a second round trip.
func (s *Server) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindingError(err))
		return
	}

	createReq := invoicedomain.CreateInvoiceRequest{
		Type:          string(invoicedomain.TypeFinal),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		DueDate:       req.DueDate,
		CreatedAt:     req.CreatedAt,
		Notes:         req.Note,
	}
	for _, li := range req.Items {
		createReq.LineItems = append(createReq.LineItems, invoicedomain.LineItemInput{
			Description: li.Description,
			Quantity:    li.Quantity,
			Rate:        li.Rate,
		})
	}
	for _, t := range req.Taxes {
		createReq.Taxes = append(createReq.Taxes, invoicedomain.TaxLineInput{
			Label:   t.Label,
			Percent: t.Percent,
		})
	}

	inv, err := s.invoiceSvc.Create(c.Request.Context(), createReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	billPDF, err := s.pdf.GenerateBill(c.Request.Context(), s.billDataFor(inv))
	if err != nil {
		// The invoice is already booked; a failed render should not
		// surface as a failed order.
		s.log.Warn("bill render failed",
			zap.String("invoice_number", inv.Number),
			zap.Error(err),
		)
	}

	resp := gin.H{"invoice": inv}
	if len(billPDF) > 0 {
		resp["billPdfBase64"] = base64.StdEncoding.EncodeToString(billPDF)
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// Orders and invoices share the invoices table; the order read surface is an
// alias over the invoice ledger.
func (s *Server) ListOrders(c *gin.Context) {
	invoices, err := s.invoiceSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoices})
}

func (s *Server) GetOrderByID(c *gin.Context) {
	inv, err := s.invoiceSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) billDataFor(inv invoicedomain.Invoice) pdf.BillData {
	data := pdf.BillData{
		BusinessName:  s.cfg.BusinessName,
		InvoiceNumber: inv.Number,
		OrderID:       inv.ID.String(),
		Date:          inv.CreatedAt.Format("02 Jan 2006"),
		CustomerName:  inv.CustomerName,
		CustomerEmail: inv.CustomerEmail,
		CustomerPhone: inv.CustomerPhone,
		Subtotal:      inv.Subtotal,
		Total:         inv.Total,
		Notes:         inv.Notes,
	}
	if inv.DueDate != nil {
		data.DueDate = inv.DueDate.Format("02 Jan 2006")
	}
	for _, li := range inv.LineItems {
		data.Items = append(data.Items, pdf.BillItem{
			Description: li.Description,
			Quantity:    li.Quantity,
			Rate:        li.Rate,
			Amount:      li.Quantity * li.Rate,
		})
	}
	for _, t := range inv.Taxes {
		data.Taxes = append(data.Taxes, pdf.BillTax{
			Label:   t.Label,
			Percent: t.Percent,
			Amount:  inv.Subtotal * t.Percent / 100,
		})
	}
	return data
}

// bindingError converts validator failures into per-field validation
// payloads; anything else collapses to a generic invalid request.
func bindingError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return invalidRequestError()
	}

	out := &ValidationErrors{}
	for _, fe := range fieldErrs {
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		out.Errors = append(out.Errors, ValidationError{
			Field:   field,
			Code:    "invalid_" + fe.Tag(),
			Message: "invalid " + field,
		})
	}
	return out
}
