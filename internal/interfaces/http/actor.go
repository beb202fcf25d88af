package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/tpa-claims/internal/application/workflow"
	"github.com/garyjia/tpa-claims/internal/domain/entity"
)

// Actor headers set by the gateway in front of this service
const (
	headerUserID   = "X-User-ID"
	headerUsername = "X-Username"
	headerUserRole = "X-User-Role"
	headerIfMatch  = "If-Match"
)

// actionRequest builds the acting user and expected version from the request headers.
// It writes a 400 and returns false when If-Match is not a version number.
func (h *Handlers) actionRequest(c *gin.Context) (workflow.ActionRequest, bool) {
	req := workflow.ActionRequest{
		Actor: entity.Actor{
			UserID:    c.GetHeader(headerUserID),
			Username:  c.GetHeader(headerUsername),
			Role:      c.GetHeader(headerUserRole),
			IPAddress: c.ClientIP(),
		},
	}

	version, err := parseIfMatch(c.GetHeader(headerIfMatch))
	if err != nil {
		h.logger.Error("Invalid If-Match header", "value", c.GetHeader(headerIfMatch), "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "If-Match must be a claim version",
		})
		return req, false
	}
	req.ExpectedVersion = version

	return req, true
}

// parseIfMatch accepts `3`, `"3"` and `W/"3"`; an empty header or `*` means no version
func parseIfMatch(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "*" {
		return 0, nil
	}

	value = strings.TrimPrefix(value, "W/")
	value = strings.Trim(value, `"`)
	return strconv.ParseInt(value, 10, 64)
}
