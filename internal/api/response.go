// Package api defines the response envelope shared by every service.
package api

import (
	"encoding/json"
	"net/http"
)

// FieldError ties an error message to the field or concern that caused it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Response is the envelope returned by all endpoints. Errors is empty on
// success; Result is absent on failure.
type Response struct {
	StatusCode int          `json:"statusCode"`
	IsSuccess  bool         `json:"isSuccess"`
	Result     any          `json:"result,omitempty"`
	Message    string       `json:"message,omitempty"`
	Errors     []FieldError `json:"errors,omitempty"`
}

func Success(status int, result any, message string) Response {
	return Response{
		StatusCode: status,
		IsSuccess:  true,
		Result:     result,
		Message:    message,
	}
}

func Fail(status int, field, message string) Response {
	return Response{
		StatusCode: status,
		IsSuccess:  false,
		Errors:     []FieldError{{Field: field, Message: message}},
	}
}

func FailWith(status int, errs []FieldError) Response {
	return Response{
		StatusCode: status,
		IsSuccess:  false,
		Errors:     errs,
	}
}

// Write serializes the envelope using its own StatusCode as the HTTP status.
func Write(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	_ = json.NewEncoder(w).Encode(resp)
}
