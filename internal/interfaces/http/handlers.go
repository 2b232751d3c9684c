package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/garyjia/expense-approval/internal/application/port"
	"github.com/garyjia/expense-approval/internal/application/service"
	"github.com/garyjia/expense-approval/internal/domain/entity"
)

// dateLayout is the wire format for calendar dates. Parsed values are
// midnight UTC.
const dateLayout = "2006-01-02"

// Handlers contains all HTTP request handlers
type Handlers struct {
	expenseService  service.ExpenseService
	policyService   service.PolicyService
	approvalService service.ApprovalService
	financeService  service.FinanceService
	managerService  service.ManagerService
	employees       port.EmployeeRepository
	storage         port.StorageBackend
	receiptRules    service.ReceiptRules

	authority           TokenAuthority
	bypass              ActorResolver
	developerCredential string

	metrics *Metrics
	logger  Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	expenseService service.ExpenseService,
	policyService service.PolicyService,
	approvalService service.ApprovalService,
	financeService service.FinanceService,
	managerService service.ManagerService,
	employees port.EmployeeRepository,
	storage port.StorageBackend,
	receiptRules service.ReceiptRules,
	authority TokenAuthority,
	bypass ActorResolver,
	developerCredential string,
	metrics *Metrics,
	logger Logger,
) *Handlers {
	return &Handlers{
		expenseService:      expenseService,
		policyService:       policyService,
		approvalService:     approvalService,
		financeService:      financeService,
		managerService:      managerService,
		employees:           employees,
		storage:             storage,
		receiptRules:        receiptRules,
		authority:           authority,
		bypass:              bypass,
		developerCredential: developerCredential,
		metrics:             metrics,
		logger:              logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// LoginRequest carries the development credential exchange payload.
type LoginRequest struct {
	HRIdentifier string `json:"hr_identifier"`
	Credential   string `json:"credential"`
}

// LoginResponse returns the signed token and the employee's role.
type LoginResponse struct {
	Token string      `json:"token"`
	Role  entity.Role `json:"role"`
}

// CreateReportRequest is the POST /api/reports payload.
type CreateReportRequest struct {
	ReportingPeriodStart string              `json:"reporting_period_start"`
	ReportingPeriodEnd   string              `json:"reporting_period_end"`
	Currency             string              `json:"currency"`
	Items                []CreateItemRequest `json:"items"`
}

// CreateItemRequest is one expense line in a report creation payload.
type CreateItemRequest struct {
	ExpenseDate   string                 `json:"expense_date"`
	Category      string                 `json:"category"`
	GLAccountID   *string                `json:"gl_account_id"`
	Description   *string                `json:"description"`
	Attendees     *string                `json:"attendees"`
	Location      *string                `json:"location"`
	AmountCents   int64                  `json:"amount_cents"`
	Reimbursable  bool                   `json:"reimbursable"`
	PaymentMethod *string                `json:"payment_method"`
	Receipts      []CreateReceiptRequest `json:"receipts"`
}

// CreateReceiptRequest declares an already-uploaded receipt file.
type CreateReceiptRequest struct {
	FileKey   string `json:"file_key"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

// DecisionRequest is the POST /api/approvals/:id payload.
type DecisionRequest struct {
	Status               string  `json:"status"`
	Comments             *string `json:"comments"`
	PolicyExceptionNotes *string `json:"policy_exception_notes"`
}

// FinalizeRequest is the POST /api/finance/finalize payload.
type FinalizeRequest struct {
	ReportIDs      []string `json:"report_ids"`
	BatchReference string   `json:"batch_reference"`
}

// ReportDetailResponse is a report with its items and the lifecycle actions
// the caller may take next.
type ReportDetailResponse struct {
	Report           entity.ExpenseReport `json:"report"`
	Items            []entity.ExpenseItem `json:"items"`
	PermittedActions []string             `json:"permitted_actions"`
}

// QueueEntryResponse is one pending report in the manager queue.
type QueueEntryResponse struct {
	Report       entity.ExpenseReport `json:"report"`
	HRIdentifier string               `json:"hr_identifier"`
	LineItems    []entity.ExpenseItem `json:"line_items"`
	PolicyFlags  []PolicyFlagResponse `json:"policy_flags"`
}

// PolicyFlagResponse points a reviewer at a flagged line item.
type PolicyFlagResponse struct {
	ItemID      uuid.UUID `json:"item_id"`
	Category    string    `json:"category"`
	ExpenseDate string    `json:"expense_date"`
	Description *string   `json:"description,omitempty"`
}

// BatchSummaryResponse is one finalization batch with its line aggregates.
type BatchSummaryResponse struct {
	Batch            entity.NetSuiteBatch `json:"batch"`
	ReportCount      int                  `json:"report_count"`
	TotalAmountCents int64                `json:"total_amount_cents"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// Login handles POST /auth/login. It exchanges the shared development
// credential plus an HR identifier for a signed token.
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	// An unset credential disables the login path entirely.
	if h.developerCredential == "" || req.Credential != h.developerCredential {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Error: "invalid_credentials"})
		return
	}

	employee, err := h.employees.GetByHRIdentifier(c.Request.Context(), req.HRIdentifier)
	if err != nil {
		h.writeError(c, service.Internal(err))
		return
	}
	if employee == nil {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Error: "invalid_credentials"})
		return
	}

	token, err := h.authority.IssueToken(employee)
	if err != nil {
		h.writeError(c, service.Internal(err))
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    LoginResponse{Token: token, Role: employee.Role},
	})
}

// CreateReport handles POST /api/reports
func (h *Handlers) CreateReport(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	input, err := toCreateReportInput(req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	report, err := h.expenseService.CreateReport(c.Request.Context(), actor, input)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    gin.H{"report": report},
	})
}

// SubmitReport handles POST /api/reports/:id/submit
func (h *Handlers) SubmitReport(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	reportID, ok := h.reportIDParam(c)
	if !ok {
		return
	}

	report, err := h.expenseService.SubmitReport(c.Request.Context(), actor, reportID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    gin.H{"report": report},
	})
}

// GetReport handles GET /api/reports/:id
func (h *Handlers) GetReport(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	reportID, ok := h.reportIDParam(c)
	if !ok {
		return
	}

	detail, err := h.expenseService.GetReport(c.Request.Context(), actor, reportID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	actions := make([]string, 0, len(detail.PermittedActions))
	for _, trigger := range detail.PermittedActions {
		actions = append(actions, trigger.String())
	}
	items := detail.Items
	if items == nil {
		items = []entity.ExpenseItem{}
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: ReportDetailResponse{
			Report:           detail.Report,
			Items:            items,
			PermittedActions: actions,
		},
	})
}

// EvaluatePolicy handles GET /api/reports/:id/policy
func (h *Handlers) EvaluatePolicy(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	reportID, ok := h.reportIDParam(c)
	if !ok {
		return
	}

	evaluation, err := h.policyService.EvaluateReport(c.Request.Context(), actor, reportID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    gin.H{"evaluation": evaluation},
	})
}

// RecordDecision handles POST /api/approvals/:id
func (h *Handlers) RecordDecision(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	reportID, ok := h.reportIDParam(c)
	if !ok {
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	status, err := entity.ParseApprovalStatus(req.Status)
	if err != nil {
		verr := &service.ValidationError{}
		verr.Add("status", "must be one of approved, denied, needs_changes")
		h.writeError(c, verr)
		return
	}

	approval, err := h.approvalService.RecordDecision(c.Request.Context(), actor, reportID, service.DecisionInput{
		Status:               status,
		Comments:             req.Comments,
		PolicyExceptionNotes: req.PolicyExceptionNotes,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.metrics.DecisionsRecorded.WithLabelValues(status.String()).Inc()
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    gin.H{"approval": approval},
	})
}

// ManagerQueue handles GET /api/manager/queue
func (h *Handlers) ManagerQueue(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	queue, err := h.managerService.PendingQueue(c.Request.Context(), actor)
	if err != nil {
		h.writeError(c, err)
		return
	}

	entries := make([]QueueEntryResponse, 0, len(queue))
	for _, entry := range queue {
		entries = append(entries, toQueueEntryResponse(entry))
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    gin.H{"queue": entries},
	})
}

// FinalizeReports handles POST /api/finance/finalize
func (h *Handlers) FinalizeReports(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	input, err := toFinalizeInput(req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	batch, err := h.financeService.FinalizeReports(c.Request.Context(), actor, input)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.metrics.BatchesExported.Inc()
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    gin.H{"batch": batch},
	})
}

// RecentBatches handles GET /api/finance/batches
func (h *Handlers) RecentBatches(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	summaries, err := h.financeService.RecentBatches(c.Request.Context(), actor)
	if err != nil {
		h.writeError(c, err)
		return
	}

	batches := make([]BatchSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		batches = append(batches, BatchSummaryResponse{
			Batch:            summary.Batch,
			ReportCount:      summary.ReportCount,
			TotalAmountCents: summary.TotalAmountCents,
		})
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    gin.H{"batches": batches},
	})
}

// UploadReceipt handles POST /api/receipts. It stores the uploaded file under
// a server-generated key the client then references when creating a report.
func (h *Handlers) UploadReceipt(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "a file form field is required"})
		return
	}
	defer file.Close()

	if h.receiptRules.MaxSizeBytes > 0 && header.Size > h.receiptRules.MaxSizeBytes {
		verr := &service.ValidationError{}
		verr.Add("file", fmt.Sprintf("file exceeds limit of %d bytes", h.receiptRules.MaxSizeBytes))
		h.writeError(c, verr)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeError(c, service.Internal(err))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("receipts/%s/%s%s", actor.EmployeeID, uuid.NewString(), path.Ext(header.Filename))
	if err := h.storage.Put(c.Request.Context(), key, data, contentType); err != nil {
		h.writeError(c, service.Internal(err))
		return
	}
	url, err := h.storage.PresignedURL(c.Request.Context(), key)
	if err != nil {
		h.writeError(c, service.Internal(err))
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data: gin.H{
			"file_key":   key,
			"url":        url,
			"size_bytes": int64(len(data)),
		},
	})
}

// writeError maps the service error taxonomy onto HTTP status codes.
// Anything outside the taxonomy is logged and redacted as a 500.
func (h *Handlers) writeError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   "validation failed",
			Details: verr.Fields,
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, Response{Success: false, Error: "forbidden"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, Response{Success: false, Error: "conflict"})
	default:
		h.logger.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal server error"})
	}
}

// requireActor returns the authenticated actor or writes a 401. The auth
// middleware always sets one, so the failure path only guards misrouting.
func (h *Handlers) requireActor(c *gin.Context) (service.Actor, bool) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Error: "missing authorization token"})
		return service.Actor{}, false
	}
	return actor, true
}

// reportIDParam parses the :id path segment or writes a 400.
func (h *Handlers) reportIDParam(c *gin.Context) (uuid.UUID, bool) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid report ID"})
		return uuid.Nil, false
	}
	return id, true
}

// toCreateReportInput converts the wire payload into the service input,
// collecting malformed dates, categories and IDs as validation findings.
func toCreateReportInput(req CreateReportRequest) (service.CreateReportInput, error) {
	verr := &service.ValidationError{}

	input := service.CreateReportInput{Currency: req.Currency}
	input.ReportingPeriodStart = parseDate(verr, "reporting_period_start", req.ReportingPeriodStart)
	input.ReportingPeriodEnd = parseDate(verr, "reporting_period_end", req.ReportingPeriodEnd)

	input.Items = make([]service.CreateItemInput, 0, len(req.Items))
	for i, item := range req.Items {
		prefix := fmt.Sprintf("items[%d]", i)

		category, err := entity.ParseExpenseCategory(item.Category)
		if err != nil {
			verr.Add(prefix+".category", "unknown expense category")
		}

		var glAccountID *uuid.UUID
		if item.GLAccountID != nil {
			parsed, err := uuid.Parse(*item.GLAccountID)
			if err != nil {
				verr.Add(prefix+".gl_account_id", "must be a UUID")
			} else {
				glAccountID = &parsed
			}
		}

		receipts := make([]service.CreateReceiptInput, 0, len(item.Receipts))
		for _, receipt := range item.Receipts {
			receipts = append(receipts, service.CreateReceiptInput{
				FileKey:   receipt.FileKey,
				FileName:  receipt.FileName,
				MimeType:  receipt.MimeType,
				SizeBytes: receipt.SizeBytes,
			})
		}

		input.Items = append(input.Items, service.CreateItemInput{
			ExpenseDate:   parseDate(verr, prefix+".expense_date", item.ExpenseDate),
			Category:      category,
			GLAccountID:   glAccountID,
			Description:   item.Description,
			Attendees:     item.Attendees,
			Location:      item.Location,
			PaymentMethod: item.PaymentMethod,
			AmountCents:   item.AmountCents,
			Reimbursable:  item.Reimbursable,
			Receipts:      receipts,
		})
	}

	if verr.HasErrors() {
		return service.CreateReportInput{}, verr
	}
	return input, nil
}

// toFinalizeInput converts the finalization payload, validating every report
// ID up front.
func toFinalizeInput(req FinalizeRequest) (service.FinalizeInput, error) {
	verr := &service.ValidationError{}
	if req.BatchReference == "" {
		verr.Add("batch_reference", "batch reference is required")
	}
	if len(req.ReportIDs) == 0 {
		verr.Add("report_ids", "at least one report is required")
	}

	reportIDs := make([]uuid.UUID, 0, len(req.ReportIDs))
	for i, idStr := range req.ReportIDs {
		id, err := uuid.Parse(idStr)
		if err != nil {
			verr.Add(fmt.Sprintf("report_ids[%d]", i), "must be a UUID")
			continue
		}
		reportIDs = append(reportIDs, id)
	}

	if verr.HasErrors() {
		return service.FinalizeInput{}, verr
	}
	return service.FinalizeInput{ReportIDs: reportIDs, BatchReference: req.BatchReference}, nil
}

// parseDate parses a YYYY-MM-DD value, recording a finding on failure.
func parseDate(verr *service.ValidationError, field, value string) time.Time {
	parsed, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		verr.Add(field, "must be a date formatted YYYY-MM-DD")
		return time.Time{}
	}
	return parsed
}

// toQueueEntryResponse converts a queue entry to its API shape.
func toQueueEntryResponse(entry service.QueueEntry) QueueEntryResponse {
	flags := make([]PolicyFlagResponse, 0, len(entry.PolicyFlags))
	for _, flag := range entry.PolicyFlags {
		flags = append(flags, PolicyFlagResponse{
			ItemID:      flag.ItemID,
			Category:    flag.Category.String(),
			ExpenseDate: flag.ExpenseDate.Format(dateLayout),
			Description: flag.Description,
		})
	}
	lineItems := entry.LineItems
	if lineItems == nil {
		lineItems = []entity.ExpenseItem{}
	}
	return QueueEntryResponse{
		Report:       entry.Report,
		HRIdentifier: entry.HRIdentifier,
		LineItems:    lineItems,
		PolicyFlags:  flags,
	}
}
