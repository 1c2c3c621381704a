package dto

import (
	"time"
)

// SaveTemplateRequest represents the request to save a new template
type SaveTemplateRequest struct {
	CustomerID uint   `json:"-"`
	Name       string `json:"name" validate:"required,min=1,max=255"`
	Subject    string `json:"subject" validate:"required,min=1,max=300"`
	Body       string `json:"body" validate:"required,min=1"`
	Intent     string `json:"intent" validate:"required,oneof=cold warm hot followup"`
}

// TemplateDTO represents a template in responses
type TemplateDTO struct {
	UUID      string     `json:"uuid"`
	Name      string     `json:"name"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	Intent    string     `json:"intent"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// SaveTemplateResponse represents the response after saving a template
type SaveTemplateResponse struct {
	Message  string      `json:"message"`
	Template TemplateDTO `json:"template"`
}

// DeleteTemplateRequest represents the request to delete a template
type DeleteTemplateRequest struct {
	UUID       string `json:"-"`
	CustomerID uint   `json:"-"`
}

// DeleteTemplateResponse represents the response after deleting a template
type DeleteTemplateResponse struct {
	Message string `json:"message"`
}

// ListTemplatesRequest represents the request to list templates
type ListTemplatesRequest struct {
	CustomerID uint `json:"-"`
	Page       int  `json:"page" validate:"omitempty,min=1"`
	PageSize   int  `json:"page_size" validate:"omitempty,min=1,max=100"`
}

// ListTemplatesResponse represents the response to list templates
type ListTemplatesResponse struct {
	Templates  []TemplateDTO  `json:"templates"`
	Pagination PaginationInfo `json:"pagination"`
}
