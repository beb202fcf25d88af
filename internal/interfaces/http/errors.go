package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/tpa-claims/internal/domain/claim"
)

// MissingAttachmentsResponse is the data of a 422 response
type MissingAttachmentsResponse struct {
	ClaimType string   `json:"claim_type"`
	Missing   []string `json:"missing"`
}

// statusFor maps a workflow error to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, claim.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, claim.ErrMissingAttachments):
		return http.StatusUnprocessableEntity
	case errors.Is(err, claim.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, claim.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, claim.ErrConcurrencyConflict):
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}

// writeError responds with the mapped status; unexpected errors are logged and hidden
func (h *Handlers) writeError(c *gin.Context, err error) {
	status := statusFor(err)

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "path", c.FullPath(), "claim_id", c.Param("id"), "error", err)
		c.JSON(status, Response{
			Success: false,
			Error:   "internal server error",
		})
		return
	}

	resp := Response{
		Success: false,
		Error:   err.Error(),
	}

	var missing *claim.MissingAttachmentsError
	if errors.As(err, &missing) {
		data := MissingAttachmentsResponse{ClaimType: string(missing.ClaimType)}
		for _, category := range missing.Missing {
			data.Missing = append(data.Missing, string(category))
		}
		resp.Data = data
	}

	c.JSON(status, resp)
}
