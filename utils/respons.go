package utils

import (
	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondValidationErrors returns the complete list of offending fields so
// the caller can fix the whole form in one round trip.
func RespondValidationErrors(c *gin.Context, fields []string) {
	c.JSON(400, gin.H{
		"status":  false,
		"message": "Validation failed",
		"errors":  fields,
	})
}
