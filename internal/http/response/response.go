package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lifelog-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError renders an error returned by the service layer. Plain
// errors become 500 with fallbackCode; internal messages are not echoed.
func RespondServiceError(c *gin.Context, fallbackCode string, err error) {
	if ae, ok := apierr.As(err); ok && ae.Status != 0 {
		code := ae.Code
		if code == "" {
			code = fallbackCode
		}
		if ae.Status >= http.StatusInternalServerError && ae.Status != http.StatusServiceUnavailable {
			_ = c.Error(err)
			RespondError(c, ae.Status, code, errInternal)
			return
		}
		RespondError(c, ae.Status, code, ae)
		return
	}
	_ = c.Error(err)
	RespondError(c, http.StatusInternalServerError, fallbackCode, errInternal)
}

// Abort stops the chain with the standard error envelope.
func Abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: message, Code: code}})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
