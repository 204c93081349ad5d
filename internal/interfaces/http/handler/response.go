package handler

import "github.com/furnitureops/backend/internal/interfaces/http/dto"

// Swagger models. They mirror dto.Response with a typed data field so the
// generated documentation shows real payloads.

// APIResponse is the success envelope
// @Description Success envelope; meta is present on list endpoints
type APIResponse[T any] struct {
	Success bool      `json:"success" example:"true"`
	Data    T         `json:"data"`
	Meta    *dto.Meta `json:"meta,omitempty"`
}

// ErrorResponse is the failure envelope
// @Description Failure envelope
type ErrorResponse struct {
	Success bool          `json:"success" example:"false"`
	Error   dto.ErrorInfo `json:"error"`
}

// MessageData
// @Description Confirmation message
type MessageData struct {
	Message string `json:"message" example:"Logged out successfully"`
}
