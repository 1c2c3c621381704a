package dto

import (
	"time"
)

// CreateContactRequest represents the request to create a new contact
type CreateContactRequest struct {
	CustomerID uint    `json:"-"`
	FirstName  string  `json:"first_name" validate:"required,min=1,max=100"`
	LastName   string  `json:"last_name" validate:"required,min=1,max=100"`
	Title      *string `json:"title,omitempty" validate:"omitempty,max=150"`
	Company    *string `json:"company,omitempty" validate:"omitempty,max=255"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
}

// ContactDTO represents a contact in responses
type ContactDTO struct {
	UUID      string    `json:"uuid"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Title     *string   `json:"title,omitempty"`
	Company   *string   `json:"company,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateContactResponse represents the response after creating a contact
type CreateContactResponse struct {
	Message string     `json:"message"`
	Contact ContactDTO `json:"contact"`
}

// GetContactRequest represents the request to get a contact
type GetContactRequest struct {
	UUID       string `json:"-"`
	CustomerID uint   `json:"-"`
}

// GetContactResponse represents the response to get a contact
type GetContactResponse struct {
	Contact ContactDTO `json:"contact"`
}

// ListActivitiesRequest represents the request to list a contact's activities
type ListActivitiesRequest struct {
	ContactUUID string `json:"-"`
	CustomerID  uint   `json:"-"`
	Page        int    `json:"page" validate:"omitempty,min=1"`
	PageSize    int    `json:"page_size" validate:"omitempty,min=1,max=100"`
}

// ActivityDTO represents one activity log entry
type ActivityDTO struct {
	Type      string    `json:"type"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ListActivitiesResponse represents the response to list activities
type ListActivitiesResponse struct {
	Activities []ActivityDTO  `json:"activities"`
	Pagination PaginationInfo `json:"pagination"`
}

// AddNoteRequest represents the request to add a note to a contact
type AddNoteRequest struct {
	ContactUUID string `json:"-"`
	CustomerID  uint   `json:"-"`
	Note        string `json:"note" validate:"required,min=1,max=5000"`
}

// EditNoteRequest represents the request to record a note edit
type EditNoteRequest struct {
	ContactUUID string `json:"-"`
	CustomerID  uint   `json:"-"`
	Note        string `json:"note" validate:"required,min=1,max=5000"`
}

// DeleteNoteRequest represents the request to record a note deletion
type DeleteNoteRequest struct {
	ContactUUID string `json:"-"`
	CustomerID  uint   `json:"-"`
}

// NoteResponse represents the response after a note operation
type NoteResponse struct {
	Message string `json:"message"`
}
