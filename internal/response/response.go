package response

import (
	"encoding/json"
	"net/http"

	"github.com/ahmadqo/campus-console/internal/listview"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

type PaginatedResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
	Pagination *Pagination `json:"pagination"`
	// Warnings lists lookups that degraded to raw ids.
	Warnings map[string]string `json:"warnings,omitempty"`
}

type Pagination struct {
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	TotalItems int64  `json:"total_items"`
	TotalPages int    `json:"total_pages"`
	Query      string `json:"query,omitempty"`
}

// PaginationFrom describes a computed list page.
func PaginationFrom(p listview.Page) *Pagination {
	return &Pagination{
		Page:       p.Page,
		PerPage:    p.PageSize,
		TotalItems: int64(p.TotalItems),
		TotalPages: p.TotalPages,
		Query:      p.Query,
	}
}

func write(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

func JSON(w http.ResponseWriter, statusCode int, success bool, message string, data interface{}) {
	write(w, statusCode, Response{
		Success: success,
		Message: message,
		Data:    data,
	})
}

func Success(w http.ResponseWriter, message string, data interface{}) {
	JSON(w, http.StatusOK, true, message, data)
}

func Created(w http.ResponseWriter, message string, data interface{}) {
	JSON(w, http.StatusCreated, true, message, data)
}

func BadRequest(w http.ResponseWriter, message string, errors interface{}) {
	write(w, http.StatusBadRequest, Response{
		Success: false,
		Message: message,
		Errors:  errors,
	})
}

// Fail reports a failed call with an explicit status, e.g. the backend's
// own status passed through.
func Fail(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, false, message, nil)
}

func Unauthorized(w http.ResponseWriter, message string) {
	JSON(w, http.StatusUnauthorized, false, message, nil)
}

func Forbidden(w http.ResponseWriter, message string) {
	JSON(w, http.StatusForbidden, false, message, nil)
}

func NotFound(w http.ResponseWriter, message string) {
	JSON(w, http.StatusNotFound, false, message, nil)
}

func BadGateway(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadGateway, false, message, nil)
}

func InternalError(w http.ResponseWriter, message string) {
	JSON(w, http.StatusInternalServerError, false, message, nil)
}

func Paginated(w http.ResponseWriter, message string, data interface{}, pagination *Pagination, warnings map[string]string) {
	if len(warnings) == 0 {
		warnings = nil
	}
	write(w, http.StatusOK, PaginatedResponse{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: pagination,
		Warnings:   warnings,
	})
}
