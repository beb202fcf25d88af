package http

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/tpa-claims/internal/application/port"
	"github.com/garyjia/tpa-claims/internal/application/service"
	"github.com/garyjia/tpa-claims/internal/application/workflow"
	"github.com/garyjia/tpa-claims/internal/domain/claim"
	"github.com/garyjia/tpa-claims/internal/domain/entity"
	"github.com/garyjia/tpa-claims/internal/domain/requirement"
	domainwf "github.com/garyjia/tpa-claims/internal/domain/workflow"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	engine  workflow.ClaimWorkflow
	history service.HistoryService
	logger  Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(engine workflow.ClaimWorkflow, history service.HistoryService, logger Logger) *Handlers {
	return &Handlers{
		engine:  engine,
		history: history,
		logger:  logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ListClaimsRequest represents query parameters for listing claims
type ListClaimsRequest struct {
	Status         string `form:"status"`
	MemberID       string `form:"member_id"`
	InsuranceOrgID string `form:"insurance_org_id"`
	ReviewerID     string `form:"reviewer_id"`
	Limit          int    `form:"limit"`
	Offset         int    `form:"offset"`
}

// ApproveRequest is the body of POST /api/claims/:id/approve
type ApproveRequest struct {
	ApprovedAmount entity.Money `json:"approved_amount"`
}

// RejectRequest is the body of POST /api/claims/:id/reject
type RejectRequest struct {
	ReviewerComment string `json:"reviewer_comment"`
}

// ReturnForInfoRequest is the body of POST /api/claims/:id/return-for-info
type ReturnForInfoRequest struct {
	Comment string `json:"comment"`
}

// AssignRequest is the body of POST /api/claims/:id/assign
type AssignRequest struct {
	ReviewerID   string `json:"reviewer_id"`
	ReviewerName string `json:"reviewer_name"`
}

// PreApprovalRequest is the body of POST /api/claims/:id/pre-approval
type PreApprovalRequest struct {
	PreApprovalID string `json:"pre_approval_id"`
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

// ListClaims handles GET /api/claims
func (h *Handlers) ListClaims(c *gin.Context) {
	var req ListClaimsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid query parameters",
		})
		return
	}

	status := domainwf.Status(req.Status)
	if status != "" && !status.IsValid() {
		h.writeError(c, &claim.ValidationError{Field: "status", Reason: "unknown status " + req.Status})
		return
	}

	claims, err := h.engine.List(c.Request.Context(), port.ClaimFilter{
		Status:         status,
		MemberID:       req.MemberID,
		InsuranceOrgID: req.InsuranceOrgID,
		ReviewerID:     req.ReviewerID,
		Limit:          req.Limit,
		Offset:         req.Offset,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	if claims == nil {
		claims = []*entity.Claim{}
	}
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    claims,
	})
}

// CreateClaim handles POST /api/claims
func (h *Handlers) CreateClaim(c *gin.Context) {
	var fields claim.Fields
	if !h.bindJSON(c, &fields) {
		return
	}

	req, ok := h.actionRequest(c)
	if !ok {
		return
	}

	created, err := h.engine.Create(c.Request.Context(), fields, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeClaim(c, http.StatusCreated, created)
}

// GetClaim handles GET /api/claims/:id
func (h *Handlers) GetClaim(c *gin.Context) {
	found, err := h.engine.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeClaim(c, http.StatusOK, found)
}

// EditClaim handles PUT /api/claims/:id
func (h *Handlers) EditClaim(c *gin.Context) {
	var fields claim.Fields
	if !h.bindJSON(c, &fields) {
		return
	}

	h.act(c, func(req workflow.ActionRequest) (*entity.Claim, error) {
		return h.engine.Edit(c.Request.Context(), c.Param("id"), fields, req)
	})
}

// DeactivateClaim handles DELETE /api/claims/:id
func (h *Handlers) DeactivateClaim(c *gin.Context) {
	h.act(c, func(req workflow.ActionRequest) (*entity.Claim, error) {
		return h.engine.Deactivate(c.Request.Context(), c.Param("id"), req)
	})
}

// SubmitClaim handles POST /api/claims/:id/submit
func (h *Handlers) SubmitClaim(c *gin.Context) {
	h.act(c, func(req workflow.ActionRequest) (*entity.Claim, error) {
		return h.engine.Submit(c.Request.Context(), c.Param("id"), req)
	})
}

// StartReview handles POST /api/claims/:id/start-review
func (h *Handlers) StartReview(c *gin.Context) {
	h.act(c, func(req workflow.ActionRequest) (*entity.Claim, error) {
		return h.engine.StartReview(c.Request.Context(), c.Param("id"), req)
	})
}

// ApproveClaim handles POST /api/claims/:id/approve
func (h *Handlers) ApproveClaim(c *gin.Context) {
	var body ApproveRequest
	if !h.bindJSON(c, &body) {
		return
	}

	h.act(c, func(req workflow.ActionRequest) (*entity.Claim, error) {
		return h.engine.Approve(c.Request.Context(), c.Param("id"), body.ApprovedAmount, req)
	})
}

// RejectClaim handles POST /api/claims/:id/reject
func (h *Handlers) RejectClaim(c *gin.Context) {
	var body RejectRequest
	if !h.bindJSON(c, &body) {
		return
	}

	h.act(c, func(req workflow.ActionRequest) (*entity.Claim, error) {
		return h.engine.Reject(c.Request.Context(), c.Param("id"), body.ReviewerComment, req)
	})
}

// ReturnForInfo handles POST /api/claims/:id/return-for-info
func (h *Handlers) ReturnForInfo(c *gin.Context) {
	var body ReturnForInfoRequest
	if !h.bindJSON(c, &body) {
		return
	}

	h.act(c, func(req workflow.ActionRequest) (*entity.Claim, error) {
		return h.engine.ReturnForInfo(c.Request.Context(), c.Param("id"), body.Comment, req)
	})
}

// SettleClaim handles POST /api/claims/:id/settle
func (h *Handlers) SettleClaim(c *gin.Context) {
	var body workflow.Settlement
	if !h.bindJSON(c, &body) {
		return
	}

	h.act(c, func(req workflow.ActionRequest) (*entity.Claim, error) {
		return h.engine.Settle(c.Request.Context(), c.Param("id"), body, req)
	})
}

// AssignReviewer handles POST /api/claims/:id/assign
func (h *Handlers) AssignReviewer(c *gin.Context) {
	var body AssignRequest
	if !h.bindJSON(c, &body) {
		return
	}

	h.act(c, func(req workflow.ActionRequest) (*entity.Claim, error) {
		return h.engine.AssignReviewer(c.Request.Context(), c.Param("id"), body.ReviewerID, body.ReviewerName, req)
	})
}

// LinkPreApproval handles POST /api/claims/:id/pre-approval
func (h *Handlers) LinkPreApproval(c *gin.Context) {
	var body PreApprovalRequest
	if !h.bindJSON(c, &body) {
		return
	}

	h.act(c, func(req workflow.ActionRequest) (*entity.Claim, error) {
		return h.engine.LinkPreApproval(c.Request.Context(), c.Param("id"), body.PreApprovalID, req)
	})
}

// AttachDocument handles POST /api/claims/:id/attachments
func (h *Handlers) AttachDocument(c *gin.Context) {
	var body claim.AttachmentInput
	if !h.bindJSON(c, &body) {
		return
	}

	req, ok := h.actionRequest(c)
	if !ok {
		return
	}

	updated, err := h.engine.AttachDocument(c.Request.Context(), c.Param("id"), body, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeClaim(c, http.StatusCreated, updated)
}

// DetachDocument handles DELETE /api/claims/:id/attachments/:attachmentId
func (h *Handlers) DetachDocument(c *gin.Context) {
	h.act(c, func(req workflow.ActionRequest) (*entity.Claim, error) {
		return h.engine.DetachDocument(c.Request.Context(), c.Param("id"), c.Param("attachmentId"), req)
	})
}

// GetAuditTrail handles GET /api/claims/:id/audit
func (h *Handlers) GetAuditTrail(c *gin.Context) {
	entries, err := h.history.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    entries,
	})
}

// GetStateAt handles GET /api/claims/:id/audit/:entryId/state
func (h *Handlers) GetStateAt(c *gin.Context) {
	entryIDStr := c.Param("entryId")
	entryID, err := strconv.ParseInt(entryIDStr, 10, 64)
	if err != nil {
		h.logger.Error("Invalid audit entry ID", "entry_id", entryIDStr, "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid audit entry ID",
		})
		return
	}

	state, err := h.history.StateAt(c.Request.Context(), c.Param("id"), entryID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    state,
	})
}

// ExportAuditTrail handles GET /api/claims/:id/audit/export
func (h *Handlers) ExportAuditTrail(c *gin.Context) {
	id := c.Param("id")

	// Render fully before writing so a failure can still produce a JSON error
	var buf bytes.Buffer
	if err := h.history.Export(c.Request.Context(), id, &buf); err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="claim-`+id+`-audit.xlsx"`)
	c.Data(http.StatusOK, h.history.ExportContentType(), buf.Bytes())
}

// GetRequirements handles GET /api/claim-types/:type/requirements
func (h *Handlers) GetRequirements(c *gin.Context) {
	claimType := entity.ClaimType(c.Param("type"))
	if !claimType.IsValid() {
		h.writeError(c, &claim.ValidationError{Field: "claim_type", Reason: "unknown claim type " + string(claimType)})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    requirement.For(claimType),
	})
}

// act runs a claim mutation with the request's actor and version and writes the result
func (h *Handlers) act(c *gin.Context, fn func(req workflow.ActionRequest) (*entity.Claim, error)) {
	req, ok := h.actionRequest(c)
	if !ok {
		return
	}

	updated, err := fn(req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeClaim(c, http.StatusOK, updated)
}

func (h *Handlers) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.logger.Error("Invalid request body", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body: " + err.Error(),
		})
		return false
	}
	return true
}

// writeClaim responds with the claim and its version as the ETag
func (h *Handlers) writeClaim(c *gin.Context, status int, cl *entity.Claim) {
	c.Header("ETag", strconv.Quote(strconv.FormatInt(cl.Version, 10)))
	c.JSON(status, Response{
		Success: true,
		Data:    cl,
	})
}
