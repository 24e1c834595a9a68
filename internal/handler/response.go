package handler

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/dentalbright/booking-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondError writes the error with the status code its kind maps to.
// Unclassified errors become a generic 500 so internals never leak.
func RespondError(c *gin.Context, err error) {
	c.JSON(apperrors.StatusCode(err), NewErrorResponse(apperrors.PublicMessage(err)))
}
