package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"hostelhub/internal/common"
	"hostelhub/internal/jobs"
	"hostelhub/internal/models"
	"hostelhub/internal/services"

	"github.com/jung-kurt/gofpdf"
	"github.com/labstack/echo/v4"
)

// PaymentHandlers handles payments, dues and rent alerts.
type PaymentHandlers struct {
	billingService services.BillingService
	tenantService  services.TenantService
	alertsJob      *jobs.RentAlertsJob
}

func NewPaymentHandlers(billingService services.BillingService, tenantService services.TenantService, alertsJob *jobs.RentAlertsJob) *PaymentHandlers {
	return &PaymentHandlers{
		billingService: billingService,
		tenantService:  tenantService,
		alertsJob:      alertsJob,
	}
}

// Create handles POST /v1/payments
func (h *PaymentHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	var req struct {
		TenantID string  `json:"tenant_id"`
		Amount   float64 `json:"amount"`
		Method   string  `json:"method"`
		Type     string  `json:"type"`
		DueDate  *string `json:"due_date"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenantID, err := common.ValidateUUID(req.TenantID, "tenant_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	payment := &models.Payment{
		HostelID: hostelID,
		TenantID: tenantID,
		Amount:   req.Amount,
		Method:   req.Method,
		Type:     req.Type,
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := common.ValidateDateFormat(*req.DueDate, "due_date")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		payment.DueDate = &due
	}

	if err := h.billingService.CreatePayment(ctx, payment); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, payment)
}

// List handles GET /v1/payments
func (h *PaymentHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	page, limit, offset := common.PageToOffset(page, limit)

	filter := &models.PaymentSearchFilter{
		Status: c.QueryParam("status"),
		Type:   c.QueryParam("type"),
		Limit:  limit,
		Offset: offset,
	}
	if tenantParam := c.QueryParam("tenant_id"); tenantParam != "" {
		tenantID, err := common.ValidateUUID(tenantParam, "tenant_id")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filter.TenantID = &tenantID
	}

	payments, total, err := h.billingService.ListPayments(ctx, hostelID, filter)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, common.NewPaginated(payments, total, page, limit))
}

// MarkPaid handles POST /v1/payments/mark-paid: settles the tenant's
// most recent pending payment.
func (h *PaymentHandlers) MarkPaid(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	var req struct {
		TenantID string `json:"tenant_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenantID, err := common.ValidateUUID(req.TenantID, "tenant_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	payment, err := h.billingService.MarkPaid(ctx, hostelID, tenantID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, payment)
}

// Due handles GET /v1/payments/due/:tenantId
func (h *PaymentHandlers) Due(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	tenantID, err := common.ValidateUUID(c.Param("tenantId"), "tenantId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	due, err := h.billingService.ComputeCurrentDue(ctx, hostelID, tenantID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, due)
}

// SendAlerts handles POST /v1/payments/send-alerts: an on-demand run of
// the rent alert sweep for the caller's hostel.
func (h *PaymentHandlers) SendAlerts(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	summary, err := h.alertsJob.RunForHostel(ctx, hostelID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// Receipt handles GET /v1/payments/:id/receipt and streams a PDF.
func (h *PaymentHandlers) Receipt(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	payment, err := h.billingService.GetPayment(ctx, hostelID, id)
	if err != nil {
		return handleServiceError(c, err)
	}
	if payment.Status != models.PaymentStatusCompleted {
		return echo.NewHTTPError(http.StatusConflict, "Receipt is only available for completed payments")
	}

	tenant, err := h.tenantService.GetByID(ctx, hostelID, payment.TenantID)
	if err != nil {
		return handleServiceError(c, err)
	}

	pdfBytes, err := h.generateReceiptPDF(payment, tenant)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate receipt")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="receipt-%s.pdf"`, payment.ID.String()))
	return c.Blob(http.StatusOK, "application/pdf", pdfBytes)
}

func (h *PaymentHandlers) generateReceiptPDF(payment *models.Payment, tenant *models.Tenant) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 10, "PAYMENT RECEIPT")
	pdf.Ln(15)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Receipt Number: %s", payment.ID.String()))
	pdf.Ln(8)
	paidAt := time.Now()
	if payment.PaidAt != nil {
		paidAt = *payment.PaidAt
	}
	pdf.Cell(0, 8, fmt.Sprintf("Payment Date: %s", paidAt.Format("02-Jan-2006")))
	pdf.Ln(13)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "RECEIVED FROM:")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tenant.FirstName+" "+tenant.LastName)
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Phone: %s", tenant.Phone))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	headers := []string{"Description", "Method", "Amount"}
	colWidths := []float64{90, 40, 40}
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(255, 255, 255)
	pdf.CellFormat(colWidths[0], 8, fmt.Sprintf("%s payment", payment.Type), "1", 0, "L", false, 0, "")
	pdf.CellFormat(colWidths[1], 8, payment.Method, "1", 0, "C", false, 0, "")
	pdf.CellFormat(colWidths[2], 8, fmt.Sprintf("%.2f", payment.Amount), "1", 0, "R", false, 0, "")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("TOTAL: Rs %.2f", payment.Amount))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
