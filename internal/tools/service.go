package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Reventlow/glass/internal/domain"
	"github.com/Reventlow/glass/internal/format"
	"github.com/Reventlow/glass/internal/sdp"
)

// Service implements the tool operations on top of the SDP client.
// Every error string it returns has already been sanitized.
type Service struct {
	client *sdp.Client
	logger *slog.Logger
}

// NewService creates the tool service.
func NewService(client *sdp.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, logger: logger}
}

// Ping verifies the service is alive.
func (s *Service) Ping(ctx context.Context) string {
	s.logger.DebugContext(ctx, "ping tool called")
	return "pong"
}

// sanitized strips the API key from an error before it leaves the
// service.
func (s *Service) sanitized(err error) string {
	return domain.SanitizedError(err, s.client.APIKey())
}

// failf builds the outgoing tool error: the formatted message must
// already be sanitized. The error kind survives so the transport can
// pick a status code, the original cause does not.
func (s *Service) failf(cause error, format string, args ...any) error {
	message := fmt.Sprintf(format, args...)
	var gerr *domain.Error
	if errors.As(cause, &gerr) {
		return &domain.Error{Kind: gerr.Kind, Message: message}
	}
	return errors.New(message)
}

// ListRequests lists tickets matching the input filters.
func (s *Service) ListRequests(ctx context.Context, in *ListRequestsInput) (string, error) {
	in.Sanitize()
	s.logger.DebugContext(ctx, "list_requests tool called",
		slog.String("status", in.Status),
		slog.String("priority", in.Priority),
	)

	params := sdp.NewListParams()
	if in.Status != "" {
		params = params.WithStatus(in.Status)
	}
	if in.Priority != "" {
		params = params.WithPriority(in.Priority)
	}
	if in.Technician != "" {
		params = params.WithTechnician(in.Technician)
	}
	if in.Requester != "" {
		params = params.WithRequester(in.Requester)
	}
	if in.OpenOnly {
		params = params.WithOpenOnly()
	}
	if in.CreatedAfter != "" {
		params = params.WithCreatedAfter(in.CreatedAfter)
	}
	if in.CreatedBefore != "" {
		params = params.WithCreatedBefore(in.CreatedBefore)
	}

	limit := in.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	params = params.WithLimit(limit)
	if in.Offset > 0 {
		params = params.WithOffset(in.Offset)
	}

	requests, err := s.client.ListRequests(ctx, params)
	if err != nil {
		sanitized := s.sanitized(err)
		s.logger.ErrorContext(ctx, "failed to list requests", slog.String("error", sanitized))
		return "", s.failf(err, "failed to list requests: %s", sanitized)
	}
	return format.RequestList(requests), nil
}

// GetRequest returns the full details of one ticket.
func (s *Service) GetRequest(ctx context.Context, in *GetRequestInput) (string, error) {
	in.Sanitize()
	s.logger.DebugContext(ctx, "get_request tool called", slog.String("request_id", in.RequestID))

	request, err := s.client.GetRequest(ctx, in.RequestID)
	if err != nil {
		sanitized := s.sanitized(err)
		s.logger.ErrorContext(ctx, "failed to get request",
			slog.String("request_id", in.RequestID),
			slog.String("error", sanitized),
		)
		return "", s.failf(err, "failed to get request %s: %s", in.RequestID, sanitized)
	}
	return format.RequestDetails(request), nil
}

// ListNotes lists a ticket's notes with full content where available.
func (s *Service) ListNotes(ctx context.Context, in *ListNotesInput) (string, error) {
	in.Sanitize()
	s.logger.DebugContext(ctx, "list_notes tool called", slog.String("request_id", in.RequestID))

	notes, err := s.client.ListNotesWithContent(ctx, in.RequestID)
	if err != nil {
		sanitized := s.sanitized(err)
		s.logger.ErrorContext(ctx, "failed to list notes",
			slog.String("request_id", in.RequestID),
			slog.String("error", sanitized),
		)
		return "", s.failf(err, "failed to list notes on request %s: %s", in.RequestID, sanitized)
	}
	return format.NoteList(in.RequestID, notes), nil
}

// GetNote returns one note with its full content.
func (s *Service) GetNote(ctx context.Context, in *GetNoteInput) (string, error) {
	in.Sanitize()
	s.logger.DebugContext(ctx, "get_note tool called",
		slog.String("request_id", in.RequestID),
		slog.String("note_id", in.NoteID),
	)

	note, err := s.client.GetNote(ctx, in.RequestID, in.NoteID)
	if err != nil {
		sanitized := s.sanitized(err)
		s.logger.ErrorContext(ctx, "failed to get note",
			slog.String("request_id", in.RequestID),
			slog.String("note_id", in.NoteID),
			slog.String("error", sanitized),
		)
		return "", s.failf(err, "failed to get note %s on request %s: %s", in.NoteID, in.RequestID, sanitized)
	}
	return format.NoteList(in.RequestID, []sdp.Note{*note}), nil
}

// ListConversations lists a ticket's email conversations, resolving
// content URLs where needed.
func (s *Service) ListConversations(ctx context.Context, in *ListConversationsInput) (string, error) {
	in.Sanitize()
	s.logger.DebugContext(ctx, "list_conversations tool called", slog.String("request_id", in.RequestID))

	conversations, err := s.client.ListConversationsWithContent(ctx, in.RequestID)
	if err != nil {
		sanitized := s.sanitized(err)
		s.logger.ErrorContext(ctx, "failed to list conversations",
			slog.String("request_id", in.RequestID),
			slog.String("error", sanitized),
		)
		return "", s.failf(err, "failed to list conversations on request %s: %s", in.RequestID, sanitized)
	}
	return format.ConversationList(in.RequestID, conversations), nil
}

// ListTechnicians lists assignable technicians.
func (s *Service) ListTechnicians(ctx context.Context, in *ListTechniciansInput) (string, error) {
	in.Sanitize()
	s.logger.DebugContext(ctx, "list_technicians tool called", slog.String("group", in.Group))

	limit := in.Limit
	if limit <= 0 {
		limit = 50
	}

	technicians, err := s.client.ListTechnicians(ctx, in.Group, limit)
	if err != nil {
		sanitized := s.sanitized(err)
		s.logger.ErrorContext(ctx, "failed to list technicians", slog.String("error", sanitized))
		return "", s.failf(err, "failed to list technicians: %s", sanitized)
	}
	return format.TechnicianList(technicians), nil
}

// CreateRequest creates a new ticket.
func (s *Service) CreateRequest(ctx context.Context, in *CreateRequestInput) (string, error) {
	in.Sanitize()
	s.logger.DebugContext(ctx, "create_request tool called", slog.String("subject", in.Subject))

	if err := in.Validate(); err != nil {
		return "", err
	}

	request, err := s.client.CreateRequest(ctx, &sdp.CreateRequestInput{
		Subject:        in.Subject,
		Description:    in.Description,
		RequesterEmail: in.RequesterEmail,
		Priority:       in.Priority,
		Category:       in.Category,
		Subcategory:    in.Subcategory,
		Item:           in.Item,
		Group:          in.Group,
		TechnicianID:   in.TechnicianID,
	})
	if err != nil {
		sanitized := s.sanitized(err)
		s.logger.ErrorContext(ctx, "failed to create request", slog.String("error", sanitized))
		return "", s.failf(err, "failed to create request: %s", sanitized)
	}
	return format.CreateResult(request, s.client.RequestWebURL(string(request.ID))), nil
}

// UpdateRequest modifies an existing ticket.
func (s *Service) UpdateRequest(ctx context.Context, in *UpdateRequestInput) (string, error) {
	in.Sanitize()
	s.logger.DebugContext(ctx, "update_request tool called", slog.String("request_id", in.RequestID))

	if err := in.Validate(); err != nil {
		return "", err
	}

	request, err := s.client.UpdateRequest(ctx, in.RequestID, &sdp.UpdateRequestInput{
		Subject:      in.Subject,
		Description:  in.Description,
		Priority:     in.Priority,
		Status:       in.Status,
		Category:     in.Category,
		Subcategory:  in.Subcategory,
		Group:        in.Group,
		TechnicianID: in.TechnicianID,
	})
	if err != nil {
		sanitized := s.sanitized(err)
		s.logger.ErrorContext(ctx, "failed to update request",
			slog.String("request_id", in.RequestID),
			slog.String("error", sanitized),
		)
		return "", s.failf(err, "failed to update request %s: %s", in.RequestID, sanitized)
	}
	return format.UpdateResult(request), nil
}

// CloseRequest closes a ticket.
func (s *Service) CloseRequest(ctx context.Context, in *CloseRequestInput) (string, error) {
	in.Sanitize()
	s.logger.DebugContext(ctx, "close_request tool called", slog.String("request_id", in.RequestID))

	request, err := s.client.CloseRequest(ctx, in.RequestID, in.ClosureCode, in.ClosureComments)
	if err != nil {
		sanitized := s.sanitized(err)
		s.logger.ErrorContext(ctx, "failed to close request",
			slog.String("request_id", in.RequestID),
			slog.String("error", sanitized),
		)
		return "", s.failf(err, "failed to close request %s: %s", in.RequestID, sanitized)
	}
	return format.CloseResult(request), nil
}

// AddNote attaches a note to a ticket.
func (s *Service) AddNote(ctx context.Context, in *AddNoteInput) (string, error) {
	in.Sanitize()
	s.logger.DebugContext(ctx, "add_note tool called", slog.String("request_id", in.RequestID))

	if err := in.Validate(); err != nil {
		return "", err
	}

	note, err := s.client.AddNote(ctx, in.RequestID, in.Content, in.ShowToRequester, in.NotifyTechnician)
	if err != nil {
		sanitized := s.sanitized(err)
		s.logger.ErrorContext(ctx, "failed to add note",
			slog.String("request_id", in.RequestID),
			slog.String("error", sanitized),
		)
		return "", s.failf(err, "failed to add note to request %s: %s", in.RequestID, sanitized)
	}
	return format.AddNoteResult(in.RequestID, note), nil
}

// AssignRequest assigns a ticket to a technician and/or group.
func (s *Service) AssignRequest(ctx context.Context, in *AssignRequestInput) (string, error) {
	in.Sanitize()
	s.logger.DebugContext(ctx, "assign_request tool called", slog.String("request_id", in.RequestID))

	if err := in.Validate(); err != nil {
		return "", err
	}

	request, err := s.client.AssignRequest(ctx, in.RequestID, in.TechnicianID, in.Group)
	if err != nil {
		sanitized := s.sanitized(err)
		s.logger.ErrorContext(ctx, "failed to assign request",
			slog.String("request_id", in.RequestID),
			slog.String("error", sanitized),
		)
		return "", s.failf(err, "failed to assign request %s: %s", in.RequestID, sanitized)
	}
	return format.AssignResult(request, in.TechnicianID != "", in.Group != ""), nil
}
