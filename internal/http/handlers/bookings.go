package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tiketku/internal/domain/models"
	"tiketku/internal/http/middleware"
	"tiketku/internal/services"
	"tiketku/internal/utils"
)

// POST /api/bookings
func (a *API) CreateBooking(c *gin.Context) {
	var req services.CreateBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.UserID == 0 {
		req.UserID = middleware.AuthUserID(c)
	}

	booking, err := a.Bookings.Create(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "pemesanan dibuat, selesaikan pembayaran sebelum batas waktu",
		"booking": booking,
		"payment_info": gin.H{
			"total_harga":            booking.Total,
			"total_harga_format":     utils.FormatRupiah(booking.Total),
			"batas_waktu_pembayaran": utils.FormatDateTime(booking.PaymentDeadline),
			"metode_tersedia": []string{
				models.PaymentTransfer, models.PaymentQRIS, models.PaymentEwallet,
				models.PaymentCreditCard, models.PaymentCash,
			},
		},
	})
}

// GET /api/bookings/:id, menerima id booking atau kode booking.
func (a *API) GetBooking(c *gin.Context) {
	idOrCode := strings.TrimSpace(c.Param("id"))
	if idOrCode == "" {
		respondError(c, http.StatusBadRequest, "invalid_id", "id atau kode booking wajib diisi", nil)
		return
	}
	booking, err := a.Bookings.Get(c.Request.Context(), idOrCode)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

type paymentRequest struct {
	Method    string `json:"metode_pembayaran"`
	Reference string `json:"referensi_pembayaran"`
	Amount    int64  `json:"jumlah_bayar"`
}

// POST /api/bookings/:id/payment
func (a *API) PayBooking(c *gin.Context) {
	idOrCode := strings.TrimSpace(c.Param("id"))
	var req paymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	booking, err := a.Bookings.Pay(c.Request.Context(), idOrCode, req.Method, req.Reference, req.Amount)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "pembayaran berhasil, pemesanan lunas",
		"booking": booking,
	})
}

type cancelRequest struct {
	Reason string `json:"alasan"`
}

// POST /api/bookings/:id/cancel
func (a *API) CancelBooking(c *gin.Context) {
	idOrCode := strings.TrimSpace(c.Param("id"))
	var req cancelRequest
	if c.Request.Body != nil {
		_ = c.ShouldBindJSON(&req)
	}

	booking, refund, err := a.Bookings.Cancel(c.Request.Context(), idOrCode, strings.TrimSpace(req.Reason))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	resp := gin.H{
		"message": "pemesanan dibatalkan",
		"booking": booking,
	}
	if refund != nil {
		resp["refund_info"] = refund
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/bookings/user/:userId?status=&page=&limit=
func (a *API) GetUserBookings(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	status := models.BookingStatus(strings.ToUpper(strings.TrimSpace(c.Query("status"))))
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 10)

	bookings, total, err := a.Bookings.ListForUser(c.Request.Context(), userID, status, page, limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// GET /api/bookings/:id/e-ticket returns the e-ticket PDF (inline).
func (a *API) GetBookingETicketPDF(c *gin.Context) {
	a.serveBookingPDF(c, "e-ticket")
}

// GET /api/bookings/:id/invoice returns the invoice PDF (inline).
func (a *API) GetBookingInvoicePDF(c *gin.Context) {
	a.serveBookingPDF(c, "invoice")
}

func (a *API) serveBookingPDF(c *gin.Context, kind string) {
	idOrCode := strings.TrimSpace(c.Param("id"))
	if idOrCode == "" {
		respondError(c, http.StatusBadRequest, "invalid_id", "id atau kode booking wajib diisi", nil)
		return
	}

	svc := a.Docs
	svc.RequestID = middleware.GetRequestID(c)

	var (
		pdfBytes []byte
		filename string
		err      error
	)
	if kind == "invoice" {
		pdfBytes, filename, err = svc.GenerateInvoice(c.Request.Context(), idOrCode)
	} else {
		pdfBytes, filename, err = svc.GenerateETicket(c.Request.Context(), idOrCode)
	}
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
