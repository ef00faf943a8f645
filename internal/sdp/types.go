package sdp

import (
	"encoding/json"
	"strconv"
)

// FlexString decodes a JSON value that the SDP API returns sometimes as
// a string and sometimes as a number. The remote schema is inconsistent
// across endpoints; all leniency lives here at the JSON boundary.
type FlexString string

// UnmarshalJSON accepts a string, a number, or null.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

// FlexInt decodes a JSON number that may arrive quoted.
type FlexInt int

// UnmarshalJSON accepts a number, a numeric string, or null.
func (i *FlexInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*i = 0
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*i = FlexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*i = FlexInt(n)
	return nil
}

// NamedEntity is the id/name reference pair used throughout the SDP
// API.
type NamedEntity struct {
	ID   FlexString `json:"id,omitempty"`
	Name string     `json:"name,omitempty"`
}

// DisplayName returns the name or a placeholder.
func (e *NamedEntity) DisplayName() string {
	if e == nil || e.Name == "" {
		return "Unknown"
	}
	return e.Name
}

// Timestamp is the SDP timestamp pair: epoch milliseconds (numeric or
// string, depending on endpoint) plus a human-readable display value.
type Timestamp struct {
	Value        FlexString `json:"value,omitempty"`
	DisplayValue string     `json:"display_value,omitempty"`
}

// Display returns the display value if present, otherwise the raw
// value, otherwise "".
func (t *Timestamp) Display() string {
	if t == nil {
		return ""
	}
	if t.DisplayValue != "" {
		return t.DisplayValue
	}
	return string(t.Value)
}

// RequestSummary is the lighter representation returned by the list
// endpoint.
type RequestSummary struct {
	ID              FlexString   `json:"id"`
	Subject         string       `json:"subject,omitempty"`
	Status          *NamedEntity `json:"status,omitempty"`
	Priority        *NamedEntity `json:"priority,omitempty"`
	Technician      *NamedEntity `json:"technician,omitempty"`
	Requester       *NamedEntity `json:"requester,omitempty"`
	CreatedTime     *Timestamp   `json:"created_time,omitempty"`
	LastUpdatedTime *Timestamp   `json:"last_updated_time,omitempty"`
	DueByTime       *Timestamp   `json:"due_by_time,omitempty"`
	RequestType     *NamedEntity `json:"request_type,omitempty"`
	Category        *NamedEntity `json:"category,omitempty"`
	Subcategory     *NamedEntity `json:"subcategory,omitempty"`
	Site            *NamedEntity `json:"site,omitempty"`
	Group           *NamedEntity `json:"group,omitempty"`
}

// DisplaySubject returns the subject or a placeholder.
func (r *RequestSummary) DisplaySubject() string {
	if r.Subject == "" {
		return "(No subject)"
	}
	return r.Subject
}

// DisplayStatus returns the status name or "Unknown".
func (r *RequestSummary) DisplayStatus() string { return r.Status.DisplayName() }

// DisplayPriority returns the priority name or "Unknown".
func (r *RequestSummary) DisplayPriority() string { return r.Priority.DisplayName() }

// DisplayTechnician returns the technician name or "Unassigned".
func (r *RequestSummary) DisplayTechnician() string {
	if r.Technician == nil || r.Technician.Name == "" {
		return "Unassigned"
	}
	return r.Technician.Name
}

// DisplayRequester returns the requester name or "Unknown".
func (r *RequestSummary) DisplayRequester() string { return r.Requester.DisplayName() }

// Request is the full detail representation of a ticket.
type Request struct {
	ID                   FlexString   `json:"id"`
	Subject              string       `json:"subject,omitempty"`
	Description          string       `json:"description,omitempty"`
	Status               *NamedEntity `json:"status,omitempty"`
	Priority             *NamedEntity `json:"priority,omitempty"`
	Urgency              *NamedEntity `json:"urgency,omitempty"`
	Impact               *NamedEntity `json:"impact,omitempty"`
	Technician           *NamedEntity `json:"technician,omitempty"`
	Requester            *NamedEntity `json:"requester,omitempty"`
	RequestType          *NamedEntity `json:"request_type,omitempty"`
	Category             *NamedEntity `json:"category,omitempty"`
	Subcategory          *NamedEntity `json:"subcategory,omitempty"`
	Item                 *NamedEntity `json:"item,omitempty"`
	Site                 *NamedEntity `json:"site,omitempty"`
	Group                *NamedEntity `json:"group,omitempty"`
	Level                *NamedEntity `json:"level,omitempty"`
	Mode                 *NamedEntity `json:"mode,omitempty"`
	Service              *NamedEntity `json:"service,omitempty"`
	CreatedTime          *Timestamp   `json:"created_time,omitempty"`
	LastUpdatedTime      *Timestamp   `json:"last_updated_time,omitempty"`
	DueByTime            *Timestamp   `json:"due_by_time,omitempty"`
	FirstResponseDueTime *Timestamp   `json:"first_response_due_by_time,omitempty"`
	ResolutionDueTime    *Timestamp   `json:"resolution_due_by_time,omitempty"`
	CompletedTime        *Timestamp   `json:"completed_time,omitempty"`
	Resolution           *Resolution  `json:"resolution,omitempty"`
	ClosureInfo          *ClosureInfo `json:"closure_info,omitempty"`
	IsOverdue            *bool        `json:"is_overdue,omitempty"`
	IsFCR                *bool        `json:"is_fcr,omitempty"`
	HasAttachments       *bool        `json:"has_attachments,omitempty"`
	HasNotes             *bool        `json:"has_notes,omitempty"`
	EmailIDsToNotify     []string     `json:"email_ids_to_notify,omitempty"`
	ApprovalStatus       *NamedEntity `json:"approval_status,omitempty"`
}

// DisplaySubject returns the subject or a placeholder.
func (r *Request) DisplaySubject() string {
	if r.Subject == "" {
		return "(No subject)"
	}
	return r.Subject
}

// DisplayStatus returns the status name or "Unknown".
func (r *Request) DisplayStatus() string { return r.Status.DisplayName() }

// DisplayPriority returns the priority name or "Unknown".
func (r *Request) DisplayPriority() string { return r.Priority.DisplayName() }

// DisplayTechnician returns the technician name or "Unassigned".
func (r *Request) DisplayTechnician() string {
	if r.Technician == nil || r.Technician.Name == "" {
		return "Unassigned"
	}
	return r.Technician.Name
}

// DisplayRequester returns the requester name or "Unknown".
func (r *Request) DisplayRequester() string { return r.Requester.DisplayName() }

// DisplayGroup returns the group name, or "" if unassigned.
func (r *Request) DisplayGroup() string {
	if r.Group == nil {
		return ""
	}
	return r.Group.Name
}

// CategoryPath joins category > subcategory > item, skipping absent
// levels. Returns "Uncategorized" when all are absent.
func (r *Request) CategoryPath() string {
	var path string
	for _, e := range []*NamedEntity{r.Category, r.Subcategory, r.Item} {
		if e == nil || e.Name == "" {
			continue
		}
		if path != "" {
			path += " > "
		}
		path += e.Name
	}
	if path == "" {
		return "Uncategorized"
	}
	return path
}

// Resolution holds resolution details for a completed request.
type Resolution struct {
	Content     string       `json:"content,omitempty"`
	SubmittedBy *NamedEntity `json:"submitted_by,omitempty"`
	SubmittedOn *Timestamp   `json:"submitted_on,omitempty"`
}

// ClosureInfo holds closure details for a closed request.
type ClosureInfo struct {
	ClosureCode     *NamedEntity `json:"closure_code,omitempty"`
	ClosureComments string       `json:"closure_comments,omitempty"`
	ClosedBy        *NamedEntity `json:"closed_by,omitempty"`
	ClosedTime      *Timestamp   `json:"closed_time,omitempty"`
}

// Note is a technician or requester note attached to a request. The
// list endpoint often omits Description; the full content then has to
// be fetched per note.
type Note struct {
	ID              FlexString   `json:"id"`
	Description     string       `json:"description,omitempty"`
	CreatedBy       *NamedEntity `json:"created_by,omitempty"`
	CreatedTime     *Timestamp   `json:"created_time,omitempty"`
	ShowToRequester *bool        `json:"show_to_requester,omitempty"`
	NotifyTechnician *bool       `json:"notify_technician,omitempty"`
}

// DisplayContent returns the note body or a placeholder.
func (n *Note) DisplayContent() string {
	if n.Description == "" {
		return "(No content)"
	}
	return n.Description
}

// DisplayCreatedBy returns the author name or "Unknown".
func (n *Note) DisplayCreatedBy() string { return n.CreatedBy.DisplayName() }

// Conversation is an email exchange attached to a request. Endpoints
// disagree on field names, so decoding coalesces the known aliases.
type Conversation struct {
	ID               FlexString   `json:"id"`
	Description      string       `json:"description,omitempty"`
	From             *NamedEntity `json:"from,omitempty"`
	To               []string     `json:"to,omitempty"`
	SentTime         *Timestamp   `json:"sent_time,omitempty"`
	ConversationType string       `json:"type,omitempty"`
	IsIncoming       *bool        `json:"is_incoming,omitempty"`
	Subject          string       `json:"subject,omitempty"`
	ContentURL       string       `json:"content_url,omitempty"`
	HasAttachments   *bool        `json:"has_attachments,omitempty"`
	ShowToRequester  *bool        `json:"show_to_requester,omitempty"`
}

// UnmarshalJSON folds the content/body and created_time/created_date
// aliases some endpoints use into the canonical fields.
func (c *Conversation) UnmarshalJSON(data []byte) error {
	type conversation Conversation
	aux := struct {
		*conversation
		Content     string     `json:"content"`
		Body        string     `json:"body"`
		CreatedTime *Timestamp `json:"created_time"`
		CreatedDate *Timestamp `json:"created_date"`
	}{conversation: (*conversation)(c)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if c.Description == "" {
		if aux.Content != "" {
			c.Description = aux.Content
		} else if aux.Body != "" {
			c.Description = aux.Body
		}
	}
	if c.SentTime == nil {
		if aux.CreatedTime != nil {
			c.SentTime = aux.CreatedTime
		} else if aux.CreatedDate != nil {
			c.SentTime = aux.CreatedDate
		}
	}
	return nil
}

// DisplayContent returns the best available body text for rendering.
func (c *Conversation) DisplayContent() string {
	if c.Description != "" {
		return c.Description
	}
	if c.ContentURL != "" {
		return "(Content could not be fetched)"
	}
	if c.Subject != "" {
		return "[Subject: " + c.Subject + "]"
	}
	return "(No content)"
}

// DisplayFrom returns the sender name or "Unknown".
func (c *Conversation) DisplayFrom() string { return c.From.DisplayName() }

// DisplayTime returns the sent time for rendering, or "".
func (c *Conversation) DisplayTime() string { return c.SentTime.Display() }

// Technician is an assignable support agent.
type Technician struct {
	ID         FlexString   `json:"id"`
	Name       string       `json:"name,omitempty"`
	EmailID    string       `json:"email_id,omitempty"`
	FirstName  string       `json:"first_name,omitempty"`
	LastName   string       `json:"last_name,omitempty"`
	Phone      string       `json:"phone,omitempty"`
	Mobile     string       `json:"mobile,omitempty"`
	JobTitle   string       `json:"job_title,omitempty"`
	Department *NamedEntity `json:"department,omitempty"`
	IsActive   *bool        `json:"is_active,omitempty"`
	Site       *NamedEntity `json:"site,omitempty"`
}

// DisplayName returns the best available name.
func (t *Technician) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	if t.FirstName != "" || t.LastName != "" {
		name := t.FirstName
		if t.LastName != "" {
			if name != "" {
				name += " "
			}
			name += t.LastName
		}
		return name
	}
	return "Unknown"
}

// Response payload shapes. Fields sit alongside response_status in the
// same top-level object.

type listRequestsPayload struct {
	Requests []RequestSummary `json:"requests"`
	ListInfo *ListInfoResult  `json:"list_info,omitempty"`
}

type getRequestPayload struct {
	Request Request `json:"request"`
}

type listNotesPayload struct {
	Notes []Note `json:"notes"`
}

type getNotePayload struct {
	Note Note `json:"note"`
}

type listConversationsPayload struct {
	Conversations []Conversation `json:"conversations"`
}

type listTechniciansPayload struct {
	Technicians []Technician `json:"technicians"`
}

// ListInfoResult is the pagination block SDP returns on list responses.
type ListInfoResult struct {
	HasMoreRows bool    `json:"has_more_rows"`
	TotalCount  FlexInt `json:"total_count,omitempty"`
	StartIndex  FlexInt `json:"start_index,omitempty"`
	RowCount    FlexInt `json:"row_count,omitempty"`
}
