// Package format renders API results as plain text for tool responses.
package format

import (
	"fmt"
	"strings"

	"github.com/Reventlow/glass/internal/sdp"
)

// maxDescriptionLength caps description and resolution bodies before
// rendering.
const maxDescriptionLength = 2000

// TruncateText shortens text to at most maxLength bytes, breaking at a
// word boundary when one exists, and marks the cut.
func TruncateText(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}
	end := maxLength - 15 // room for the truncation marker
	if i := strings.LastIndexFunc(text[:end], isSpace); i > 0 {
		end = i
	}
	return text[:end] + "... [truncated]"
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// RequestList renders a list of ticket summaries.
func RequestList(requests []sdp.RequestSummary) string {
	if len(requests) == 0 {
		return "No tickets found matching the criteria."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d ticket(s):\n\n", len(requests))

	for i := range requests {
		req := &requests[i]
		fmt.Fprintf(&b, "#%s - %s\n", req.ID, req.DisplaySubject())
		fmt.Fprintf(&b, "   Status: %s | Priority: %s | Assignee: %s\n",
			req.DisplayStatus(), req.DisplayPriority(), req.DisplayTechnician())
		fmt.Fprintf(&b, "   Requester: %s\n", req.DisplayRequester())
		if created := req.CreatedTime.Display(); created != "" {
			fmt.Fprintf(&b, "   Created: %s\n", created)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// RequestDetails renders the full view of a single ticket.
func RequestDetails(req *sdp.Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Ticket #%s: %s\n", req.ID, req.DisplaySubject())
	b.WriteString(strings.Repeat("=", 60))
	b.WriteByte('\n')

	fmt.Fprintf(&b, "\nStatus: %s\n", req.DisplayStatus())
	fmt.Fprintf(&b, "Priority: %s\n", req.DisplayPriority())

	if req.Urgency != nil && req.Urgency.Name != "" {
		fmt.Fprintf(&b, "Urgency: %s\n", req.Urgency.Name)
	}
	if req.Impact != nil && req.Impact.Name != "" {
		fmt.Fprintf(&b, "Impact: %s\n", req.Impact.Name)
	}

	if path := req.CategoryPath(); path != "Uncategorized" {
		fmt.Fprintf(&b, "Category: %s\n", path)
	}

	fmt.Fprintf(&b, "\nRequester: %s\n", req.DisplayRequester())
	fmt.Fprintf(&b, "Assigned to: %s\n", req.DisplayTechnician())
	if group := req.DisplayGroup(); group != "" {
		fmt.Fprintf(&b, "Group: %s\n", group)
	}

	b.WriteString("\n--- Timestamps ---\n")
	if created := req.CreatedTime.Display(); created != "" {
		fmt.Fprintf(&b, "Created: %s\n", created)
	}
	if updated := req.LastUpdatedTime.Display(); updated != "" {
		fmt.Fprintf(&b, "Last Updated: %s\n", updated)
	}
	if due := req.DueByTime.Display(); due != "" {
		fmt.Fprintf(&b, "Due By: %s\n", due)
	}

	if req.IsOverdue != nil && *req.IsOverdue {
		b.WriteString("\n[OVERDUE]\n")
	}

	if req.Description != "" {
		b.WriteString("\n--- Description ---\n")
		b.WriteString(TruncateText(req.Description, maxDescriptionLength))
		b.WriteByte('\n')
	}

	if res := req.Resolution; res != nil && res.Content != "" {
		b.WriteString("\n--- Resolution ---\n")
		b.WriteString(TruncateText(res.Content, maxDescriptionLength))
		b.WriteByte('\n')
		if res.SubmittedBy != nil && res.SubmittedBy.Name != "" {
			fmt.Fprintf(&b, "Submitted by: %s\n", res.SubmittedBy.Name)
		}
		if on := res.SubmittedOn.Display(); on != "" {
			fmt.Fprintf(&b, "Submitted on: %s\n", on)
		}
	}

	if closure := req.ClosureInfo; closure != nil {
		b.WriteString("\n--- Closure Info ---\n")
		if closure.ClosureCode != nil && closure.ClosureCode.Name != "" {
			fmt.Fprintf(&b, "Closure Code: %s\n", closure.ClosureCode.Name)
		}
		if closure.ClosureComments != "" {
			fmt.Fprintf(&b, "Comments: %s\n", closure.ClosureComments)
		}
		if closure.ClosedBy != nil && closure.ClosedBy.Name != "" {
			fmt.Fprintf(&b, "Closed by: %s\n", closure.ClosedBy.Name)
		}
		if closed := closure.ClosedTime.Display(); closed != "" {
			fmt.Fprintf(&b, "Closed at: %s\n", closed)
		}
	}

	return b.String()
}

// NoteList renders the notes attached to a ticket.
func NoteList(requestID string, notes []sdp.Note) string {
	if len(notes) == 0 {
		return fmt.Sprintf("No notes found on ticket #%s.", requestID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d note(s) on ticket #%s:\n\n", len(notes), requestID)

	for i := range notes {
		note := &notes[i]
		fmt.Fprintf(&b, "Note #%s by %s", note.ID, note.DisplayCreatedBy())
		if created := note.CreatedTime.Display(); created != "" {
			fmt.Fprintf(&b, " (%s)", created)
		}
		if note.ShowToRequester != nil && !*note.ShowToRequester {
			b.WriteString(" [internal]")
		}
		b.WriteByte('\n')
		b.WriteString(TruncateText(note.DisplayContent(), maxDescriptionLength))
		b.WriteString("\n\n")
	}
	return b.String()
}

// ConversationList renders the email conversations attached to a
// ticket.
func ConversationList(requestID string, conversations []sdp.Conversation) string {
	if len(conversations) == 0 {
		return fmt.Sprintf("No conversations found on ticket #%s.", requestID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d conversation(s) on ticket #%s:\n\n", len(conversations), requestID)

	for i := range conversations {
		conv := &conversations[i]
		direction := "Outgoing"
		if conv.IsIncoming != nil && *conv.IsIncoming {
			direction = "Incoming"
		}
		fmt.Fprintf(&b, "[%s] From: %s", direction, conv.DisplayFrom())
		if t := conv.DisplayTime(); t != "" {
			fmt.Fprintf(&b, " (%s)", t)
		}
		b.WriteByte('\n')
		if conv.Subject != "" {
			fmt.Fprintf(&b, "Subject: %s\n", conv.Subject)
		}
		b.WriteString(TruncateText(conv.DisplayContent(), maxDescriptionLength))
		b.WriteString("\n\n")
	}
	return b.String()
}

// TechnicianList renders the technician roster.
func TechnicianList(technicians []sdp.Technician) string {
	if len(technicians) == 0 {
		return "No technicians found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d technician(s):\n\n", len(technicians))

	for i := range technicians {
		tech := &technicians[i]
		fmt.Fprintf(&b, "ID: %s | Name: %s", tech.ID, tech.DisplayName())
		if tech.EmailID != "" {
			fmt.Fprintf(&b, " | Email: %s", tech.EmailID)
		}
		if tech.IsActive != nil && !*tech.IsActive {
			b.WriteString(" [INACTIVE]")
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// CreateResult renders a create confirmation with follow-up hints.
func CreateResult(req *sdp.Request, webURL string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Successfully created ticket #%s: %s\n\n", req.ID, req.DisplaySubject())
	fmt.Fprintf(&b, "Status: %s\n", req.DisplayStatus())
	fmt.Fprintf(&b, "Priority: %s\n", req.DisplayPriority())
	fmt.Fprintf(&b, "Assigned to: %s\n", req.DisplayTechnician())
	if group := req.DisplayGroup(); group != "" {
		fmt.Fprintf(&b, "Group: %s\n", group)
	}
	fmt.Fprintf(&b, "\nRequester: %s\n", req.DisplayRequester())
	if created := req.CreatedTime.Display(); created != "" {
		fmt.Fprintf(&b, "Created: %s\n", created)
	}
	if webURL != "" {
		fmt.Fprintf(&b, "View in browser: %s\n", webURL)
	}

	b.WriteString("\nNext steps:\n")
	fmt.Fprintf(&b, "  - View details: use get_request with request_id=%q\n", string(req.ID))
	fmt.Fprintf(&b, "  - Add notes: use add_note with request_id=%q\n", string(req.ID))

	return b.String()
}

// UpdateResult renders an update confirmation showing the resulting
// state.
func UpdateResult(req *sdp.Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Successfully updated ticket #%s: %s\n\n", req.ID, req.DisplaySubject())
	b.WriteString("Current state:\n")
	fmt.Fprintf(&b, "  Status: %s\n", req.DisplayStatus())
	fmt.Fprintf(&b, "  Priority: %s\n", req.DisplayPriority())
	fmt.Fprintf(&b, "  Assigned to: %s\n", req.DisplayTechnician())
	if group := req.DisplayGroup(); group != "" {
		fmt.Fprintf(&b, "  Group: %s\n", group)
	}
	if path := req.CategoryPath(); path != "Uncategorized" {
		fmt.Fprintf(&b, "  Category: %s\n", path)
	}
	if updated := req.LastUpdatedTime.Display(); updated != "" {
		fmt.Fprintf(&b, "\nLast updated: %s\n", updated)
	}

	return b.String()
}

// CloseResult renders a close confirmation.
func CloseResult(req *sdp.Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Successfully closed ticket #%s: %s\n\n", req.ID, req.DisplaySubject())
	fmt.Fprintf(&b, "Status: %s\n", req.DisplayStatus())

	if closure := req.ClosureInfo; closure != nil {
		if closure.ClosureCode != nil && closure.ClosureCode.Name != "" {
			fmt.Fprintf(&b, "Closure Code: %s\n", closure.ClosureCode.Name)
		}
		if closure.ClosureComments != "" {
			fmt.Fprintf(&b, "Closure Comments: %s\n", closure.ClosureComments)
		}
		if closed := closure.ClosedTime.Display(); closed != "" {
			fmt.Fprintf(&b, "Closed at: %s\n", closed)
		}
	}

	return b.String()
}

// AddNoteResult renders an add-note confirmation.
func AddNoteResult(requestID string, note *sdp.Note) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Successfully added note #%s to ticket #%s.\n\n", note.ID, requestID)

	visibility := "Internal (technicians only)"
	if note.ShowToRequester != nil && *note.ShowToRequester {
		visibility = "Visible to requester"
	}
	fmt.Fprintf(&b, "Visibility: %s\n", visibility)

	if created := note.CreatedTime.Display(); created != "" {
		fmt.Fprintf(&b, "Created: %s\n", created)
	}
	if note.NotifyTechnician != nil && *note.NotifyTechnician {
		b.WriteString("Technician notification: Sent\n")
	}

	return b.String()
}

// AssignResult renders an assign confirmation. Only the targets that
// were part of the assignment are echoed.
func AssignResult(req *sdp.Request, assignedTechnician, assignedGroup bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Successfully assigned ticket #%s: %s\n\n", req.ID, req.DisplaySubject())

	if assignedTechnician {
		fmt.Fprintf(&b, "Technician: %s\n", req.DisplayTechnician())
	}
	if assignedGroup {
		if group := req.DisplayGroup(); group != "" {
			fmt.Fprintf(&b, "Group: %s\n", group)
		}
	}
	if updated := req.LastUpdatedTime.Display(); updated != "" {
		fmt.Fprintf(&b, "\nUpdated: %s\n", updated)
	}

	return b.String()
}
