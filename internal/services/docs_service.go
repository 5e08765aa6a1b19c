package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"tiketku/internal/domain"
	"tiketku/internal/domain/models"
	"tiketku/internal/utils"
)

// DocsService menghasilkan PDF e-ticket & invoice untuk pemesanan LUNAS.
type DocsService struct {
	Bookings  BookingStore
	Schedules ScheduleStore
	RequestID string

	Loader func(ctx context.Context, idOrCode string) (bookingDocData, error)
}

type bookingDocData struct {
	Code           string
	Status         string
	PassengerName  string
	PassengerPhone string
	SeatLabels     []string
	Origin         string
	Destination    string
	Departure      time.Time
	VehicleType    string
	PricePerSeat   int64
	Total          int64
	PaidAt         time.Time
	PaymentMethod  string
}

func (s DocsService) GenerateETicket(ctx context.Context, idOrCode string) ([]byte, string, error) {
	data, err := s.loadBookingDocData(ctx, idOrCode)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", fmt.Sprintf("kode=%s", data.Code))
	return buildETicketPDF(data)
}

func (s DocsService) GenerateInvoice(ctx context.Context, idOrCode string) ([]byte, string, error) {
	data, err := s.loadBookingDocData(ctx, idOrCode)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_invoice", fmt.Sprintf("kode=%s", data.Code))
	return buildInvoicePDF(data)
}

func (s DocsService) loadBookingDocData(ctx context.Context, idOrCode string) (bookingDocData, error) {
	if s.Loader != nil {
		return s.Loader(ctx, idOrCode)
	}

	var out bookingDocData
	b, err := s.Bookings.GetByCode(ctx, idOrCode)
	if err != nil {
		b, err = s.Bookings.GetByID(ctx, idOrCode)
		if err != nil {
			return out, err
		}
	}
	if b.Status != models.BookingPaid {
		return out, domain.ConflictError{Resource: "pemesanan", Msg: "belum lunas, dokumen hanya untuk pemesanan terbayar"}
	}

	out.Code = b.Code
	out.Status = string(b.Status)
	if len(b.Passengers) > 0 {
		out.PassengerName = b.Passengers[0].FullName
		out.PassengerPhone = b.Passengers[0].Phone
	}
	if out.PassengerName == "" {
		out.PassengerName = b.Contact.Name
	}
	if out.PassengerPhone == "" {
		out.PassengerPhone = b.Contact.Phone
	}
	out.SeatLabels = b.SeatLabels()
	out.PricePerSeat = b.PricePerSeat
	out.Total = b.Total
	if b.Payment != nil {
		out.PaidAt = b.Payment.PaidAt
		out.PaymentMethod = b.Payment.Method
	}

	if sched, err := s.Schedules.GetByID(ctx, b.ScheduleID); err == nil {
		out.Origin = sched.Origin
		out.Destination = sched.Destination
		out.Departure = sched.DepartureTime
		out.VehicleType = sched.VehicleType
	}

	return out, nil
}

func buildETicketPDF(d bookingDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Kode Booking   : %s", safe(d.Code, "-")),
		fmt.Sprintf("Nama Penumpang : %s", safe(d.PassengerName, "-")),
		fmt.Sprintf("No HP          : %s", safe(d.PassengerPhone, "-")),
		fmt.Sprintf("Kursi          : %s", safe(strings.Join(d.SeatLabels, ", "), "-")),
		fmt.Sprintf("Rute           : %s -> %s", safe(d.Origin, "-"), safe(d.Destination, "-")),
		fmt.Sprintf("Berangkat      : %s", departureLabel(d.Departure)),
		fmt.Sprintf("Kendaraan      : %s", safe(d.VehicleType, "-")),
		fmt.Sprintf("Status         : %s", safe(d.Status, "-")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Catatan: Harap tunjukkan e-ticket ini beserta identitas penumpang saat keberangkatan.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%s.pdf", safeFilenamePart(d.Code))
	return buf.Bytes(), filename, nil
}

func buildInvoicePDF(d bookingDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "No Invoice  : INV-"+safe(d.Code, "-"))
	pdf.Ln(7)
	paid := "-"
	if !d.PaidAt.IsZero() {
		paid = d.PaidAt.Format("2006-01-02 15:04")
	}
	pdf.Cell(0, 7, "Dibayar     : "+paid+" ("+safe(d.PaymentMethod, "-")+")")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Ditagihkan kepada:")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Nama   : %s", safe(d.PassengerName, "-")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("No HP  : %s", safe(d.PassengerPhone, "-")))
	pdf.Ln(10)

	desc := fmt.Sprintf("Tiket %s -> %s (%s) kursi %s",
		safe(d.Origin, "-"), safe(d.Destination, "-"),
		departureLabel(d.Departure),
		safe(strings.Join(d.SeatLabels, ", "), "-"),
	)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Rincian:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, "1) "+desc, "", "", false)
	pdf.Ln(2)

	pdf.Cell(0, 6, fmt.Sprintf("Harga per kursi (%d kursi): %s", len(d.SeatLabels), utils.FormatRupiah(d.PricePerSeat)))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+utils.FormatRupiah(d.Total))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Invoice ini adalah bukti pembayaran yang sah.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("INVOICE_%s.pdf", safeFilenamePart(d.Code))
	return buf.Bytes(), filename, nil
}

func departureLabel(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
