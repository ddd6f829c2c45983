package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse standard API response structure
type APIResponse struct {
	Data  interface{} `json:"data"`
	Meta  *Meta       `json:"meta,omitempty"`
	Error *ErrorInfo  `json:"error,omitempty"`
}

// Meta pagination metadata
type Meta struct {
	Page  int   `json:"page,omitempty"`
	Limit int   `json:"limit,omitempty"`
	Total int64 `json:"total,omitempty"`
}

// ErrorInfo error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse returns a successful JSON response
func SuccessResponse(c *gin.Context, data interface{}, meta *Meta) {
	c.JSON(http.StatusOK, APIResponse{
		Data: data,
		Meta: meta,
	})
}

// CreatedResponse returns 201 with the created resource
func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Data: data})
}

// ErrorCodeKey gin 컨텍스트에 마지막 에러 코드를 남기는 키 (로그/메트릭용)
const ErrorCodeKey = "error_code"

// ErrorResponse returns an error JSON response with a code derived from the HTTP status
func ErrorResponse(c *gin.Context, status int, message string, err error) {
	CodedErrorResponse(c, status, getErrorCode(status), message, err)
}

// CodedErrorResponse returns an error JSON response with an explicit machine-readable code
func CodedErrorResponse(c *gin.Context, status int, code, message string, err error) {
	errInfo := &ErrorInfo{
		Code:    code,
		Message: message,
	}
	if err != nil && err.Error() != message {
		errInfo.Details = err.Error()
	}

	c.Set(ErrorCodeKey, code)
	c.JSON(status, gin.H{"error": errInfo})
}

// getErrorCode generates error code from HTTP status
func getErrorCode(status int) string {
	switch status {
	case 400:
		return "BAD_REQUEST"
	case 401:
		return "UNAUTHORIZED"
	case 403:
		return "FORBIDDEN"
	case 404:
		return "NOT_FOUND"
	case 409:
		return "CONFLICT"
	case 422:
		return "UNPROCESSABLE_ENTITY"
	case 500:
		return "INTERNAL_SERVER_ERROR"
	default:
		return "ERROR"
	}
}
