package utils

import "time"

// StandardResponse is the envelope every API response uses.
type StandardResponse struct {
	Status    string      `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// SuccessResponse creates a success response
func SuccessResponse(message string, data interface{}) StandardResponse {
	return StandardResponse{
		Status:    "success",
		Message:   message,
		Data:      data,
		Timestamp: GetUnixTimestamp(),
	}
}

// ErrorResponse creates an error response
func ErrorResponse(message string) StandardResponse {
	return StandardResponse{
		Status:    "error",
		Message:   message,
		Timestamp: GetUnixTimestamp(),
	}
}

// GetUnixTimestamp returns the current time in Unix milliseconds.
func GetUnixTimestamp() int64 {
	return time.Now().UnixMilli()
}
