package response

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/taskdeck/taskdeck/pkg/errors"
)

// ErrorMessage is the uniform error payload returned to API consumers.
type ErrorMessage struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// Success writes the payload as-is with the given status code.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// NoContent writes an empty success body.
func NoContent(c *gin.Context, statusCode int) {
	c.Status(statusCode)
}

// Error converts any error into the uniform error payload. Internal details
// never reach the client; they stay on AppError.Internal for logging.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if appErr == nil {
		appErr = appErrors.ErrInternalServer
	}

	c.JSON(appErr.StatusCode, ErrorMessage{
		StatusCode: appErr.StatusCode,
		Message:    appErr.Message,
	})
}
