package response

import (
	"errors"
	"net/http"
	"strconv"

	"oficina/internal/pkg/apperror"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// FromError writes err using the status of its kind. Unexpected errors are
// attached to the gin context for the request logger and hidden from clients
// unless debug is on.
func FromError(c *gin.Context, err error) {
	status, code := apperror.Status(err)

	var verr *apperror.ValidationError
	if errors.As(err, &verr) {
		ErrorWithDetails(c, status, code, "Invalid input", verr.Fields)
		return
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		message := "Internal server error"
		if gin.IsDebugging() {
			message = err.Error()
		}
		Error(c, status, code, message)
		return
	}

	Error(c, status, code, err.Error())
}

// BadRequest is used by handlers for malformed bodies and path params.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "VALIDATION_ERROR", message)
}

// PathID parses a positive integer path param, writing a 400 when it is not one.
func PathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}
