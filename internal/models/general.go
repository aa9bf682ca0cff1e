package models

// ErrorResponse defines the error payload returned by the management API
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}
