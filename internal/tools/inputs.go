// Package tools exposes ticket operations as named tools over HTTP.
// Each tool takes a JSON input document and returns human-readable
// text.
package tools

import (
	"fmt"
	"strings"
)

// maxSubjectLength is the ticket subject limit enforced before any
// network call.
const maxSubjectLength = 250

// ListRequestsInput filters the ticket listing. All fields optional.
type ListRequestsInput struct {
	Status        string `json:"status,omitempty"`
	Priority      string `json:"priority,omitempty"`
	Technician    string `json:"technician,omitempty"`
	Requester     string `json:"requester,omitempty"`
	OpenOnly      bool   `json:"open_only,omitempty"`
	CreatedAfter  string `json:"created_after,omitempty"`
	CreatedBefore string `json:"created_before,omitempty"`
	Limit         int    `json:"limit,omitempty"`
	Offset        int    `json:"offset,omitempty"`
}

// Sanitize trims whitespace from the string filters.
func (in *ListRequestsInput) Sanitize() {
	in.Status = strings.TrimSpace(in.Status)
	in.Priority = strings.TrimSpace(in.Priority)
	in.Technician = strings.TrimSpace(in.Technician)
	in.Requester = strings.TrimSpace(in.Requester)
	in.CreatedAfter = strings.TrimSpace(in.CreatedAfter)
	in.CreatedBefore = strings.TrimSpace(in.CreatedBefore)
}

// GetRequestInput identifies a single ticket.
type GetRequestInput struct {
	RequestID string `json:"request_id"`
}

func (in *GetRequestInput) Sanitize() {
	in.RequestID = strings.TrimSpace(in.RequestID)
}

// ListNotesInput identifies the ticket whose notes to list.
type ListNotesInput struct {
	RequestID string `json:"request_id"`
}

func (in *ListNotesInput) Sanitize() {
	in.RequestID = strings.TrimSpace(in.RequestID)
}

// GetNoteInput identifies one note on a ticket.
type GetNoteInput struct {
	RequestID string `json:"request_id"`
	NoteID    string `json:"note_id"`
}

func (in *GetNoteInput) Sanitize() {
	in.RequestID = strings.TrimSpace(in.RequestID)
	in.NoteID = strings.TrimSpace(in.NoteID)
}

// ListConversationsInput identifies the ticket whose conversations to
// list.
type ListConversationsInput struct {
	RequestID string `json:"request_id"`
}

func (in *ListConversationsInput) Sanitize() {
	in.RequestID = strings.TrimSpace(in.RequestID)
}

// ListTechniciansInput filters the technician roster.
type ListTechniciansInput struct {
	Group string `json:"group,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

func (in *ListTechniciansInput) Sanitize() {
	in.Group = strings.TrimSpace(in.Group)
}

// CreateRequestInput creates a new ticket. Subject is required.
type CreateRequestInput struct {
	Subject        string `json:"subject"`
	Description    string `json:"description,omitempty"`
	RequesterEmail string `json:"requester_email,omitempty"`
	Priority       string `json:"priority,omitempty"`
	Category       string `json:"category,omitempty"`
	Subcategory    string `json:"subcategory,omitempty"`
	Item           string `json:"item,omitempty"`
	Group          string `json:"group,omitempty"`
	TechnicianID   string `json:"technician_id,omitempty"`
}

func (in *CreateRequestInput) Sanitize() {
	in.Subject = strings.TrimSpace(in.Subject)
	in.Description = strings.TrimSpace(in.Description)
	in.RequesterEmail = strings.TrimSpace(in.RequesterEmail)
	in.Priority = strings.TrimSpace(in.Priority)
	in.Category = strings.TrimSpace(in.Category)
	in.Subcategory = strings.TrimSpace(in.Subcategory)
	in.Item = strings.TrimSpace(in.Item)
	in.Group = strings.TrimSpace(in.Group)
	in.TechnicianID = strings.TrimSpace(in.TechnicianID)
}

// Validate checks the business rules before any API call.
func (in *CreateRequestInput) Validate() error {
	if in.Subject == "" {
		return fmt.Errorf("subject is required and cannot be empty")
	}
	if len(in.Subject) > maxSubjectLength {
		return fmt.Errorf("subject exceeds maximum length of %d characters (got %d characters)",
			maxSubjectLength, len(in.Subject))
	}
	return nil
}

// UpdateRequestInput modifies an existing ticket. At least one field
// besides the id must be set.
type UpdateRequestInput struct {
	RequestID    string `json:"request_id"`
	Subject      string `json:"subject,omitempty"`
	Description  string `json:"description,omitempty"`
	Priority     string `json:"priority,omitempty"`
	Status       string `json:"status,omitempty"`
	Category     string `json:"category,omitempty"`
	Subcategory  string `json:"subcategory,omitempty"`
	Group        string `json:"group,omitempty"`
	TechnicianID string `json:"technician_id,omitempty"`
}

func (in *UpdateRequestInput) Sanitize() {
	in.RequestID = strings.TrimSpace(in.RequestID)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Description = strings.TrimSpace(in.Description)
	in.Priority = strings.TrimSpace(in.Priority)
	in.Status = strings.TrimSpace(in.Status)
	in.Category = strings.TrimSpace(in.Category)
	in.Subcategory = strings.TrimSpace(in.Subcategory)
	in.Group = strings.TrimSpace(in.Group)
	in.TechnicianID = strings.TrimSpace(in.TechnicianID)
}

// HasUpdates reports whether any mutable field is set.
func (in *UpdateRequestInput) HasUpdates() bool {
	return in.Subject != "" ||
		in.Description != "" ||
		in.Priority != "" ||
		in.Status != "" ||
		in.Category != "" ||
		in.Subcategory != "" ||
		in.Group != "" ||
		in.TechnicianID != ""
}

// Validate checks the business rules before any API call.
func (in *UpdateRequestInput) Validate() error {
	if !in.HasUpdates() {
		return fmt.Errorf("at least one field must be provided for update (subject, description, priority, status, category, subcategory, group, or technician_id)")
	}
	if len(in.Subject) > maxSubjectLength {
		return fmt.Errorf("subject exceeds maximum length of %d characters (got %d characters)",
			maxSubjectLength, len(in.Subject))
	}
	return nil
}

// CloseRequestInput closes a ticket. Closure code and comments are
// optional.
type CloseRequestInput struct {
	RequestID       string `json:"request_id"`
	ClosureCode     string `json:"closure_code,omitempty"`
	ClosureComments string `json:"closure_comments,omitempty"`
}

func (in *CloseRequestInput) Sanitize() {
	in.RequestID = strings.TrimSpace(in.RequestID)
	in.ClosureCode = strings.TrimSpace(in.ClosureCode)
	in.ClosureComments = strings.TrimSpace(in.ClosureComments)
}

// AddNoteInput attaches a note to a ticket. Content is required.
type AddNoteInput struct {
	RequestID        string `json:"request_id"`
	Content          string `json:"content"`
	ShowToRequester  *bool  `json:"show_to_requester,omitempty"`
	NotifyTechnician *bool  `json:"notify_technician,omitempty"`
}

func (in *AddNoteInput) Sanitize() {
	in.RequestID = strings.TrimSpace(in.RequestID)
	in.Content = strings.TrimSpace(in.Content)
}

// Validate checks the business rules before any API call.
func (in *AddNoteInput) Validate() error {
	if in.Content == "" {
		return fmt.Errorf("note content is required and cannot be empty")
	}
	return nil
}

// AssignRequestInput assigns a ticket. At least one of technician_id
// or group must be set.
type AssignRequestInput struct {
	RequestID    string `json:"request_id"`
	TechnicianID string `json:"technician_id,omitempty"`
	Group        string `json:"group,omitempty"`
}

func (in *AssignRequestInput) Sanitize() {
	in.RequestID = strings.TrimSpace(in.RequestID)
	in.TechnicianID = strings.TrimSpace(in.TechnicianID)
	in.Group = strings.TrimSpace(in.Group)
}

// HasAssignment reports whether any assignment target is set.
func (in *AssignRequestInput) HasAssignment() bool {
	return in.TechnicianID != "" || in.Group != ""
}

// Validate checks the business rules before any API call.
func (in *AssignRequestInput) Validate() error {
	if !in.HasAssignment() {
		return fmt.Errorf("at least one of technician_id or group must be provided for assignment")
	}
	return nil
}
