// Package sdp is the HTTP client for the ManageEngine ServiceDesk Plus
// v3 REST API.
//
// The client authenticates every call with the technician API key,
// speaks the API's input_data protocol (JSON in a query parameter for
// reads, a url-encoded form field for writes), unwraps the
// response_status envelope, and retries transient failures: HTTP 429
// with exponential backoff, 502/503/504 after a fixed delay, and
// timeouts. Client errors other than 429 are never retried.
//
// The API key is never logged; every error string leaving this package
// is sanitized first.
package sdp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Reventlow/glass/internal/config"
	"github.com/Reventlow/glass/internal/domain"
)

const (
	// defaultTimeout is the per-attempt HTTP timeout.
	defaultTimeout = 30 * time.Second

	// acceptHeader selects v3 of the SDP API.
	acceptHeader = "application/vnd.manageengine.sdp.v3+json"

	// maxErrorBodyLen caps error response bodies to avoid echoing
	// verbose SDP internals back to callers.
	maxErrorBodyLen = 500

	// maxEchoedIDLen caps how much of an invalid identifier is echoed
	// in validation errors.
	maxEchoedIDLen = 50
)

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL overrides the configured base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = normalizeBaseURL(baseURL)
	}
}

// WithHTTPClient sets a custom HTTP client, e.g. a VCR transport in
// tests.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client is the ServiceDesk Plus API client. It holds no mutable state
// beyond the shared connection-pooling http.Client and is safe for
// concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	timeout    time.Duration
	logger     *slog.Logger
}

// NewClient creates an SDP client from configuration.
func NewClient(cfg *config.Config, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: normalizeBaseURL(cfg.SDP.BaseURL),
		apiKey:  cfg.SDP.APIKey,
		timeout: defaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// normalizeBaseURL ensures the base ends with exactly one /api/v3
// segment, however the instance address was supplied. Idempotent.
func normalizeBaseURL(raw string) string {
	raw = strings.TrimRight(raw, "/")
	switch {
	case strings.HasSuffix(raw, "/api/v3"):
		return raw
	case strings.HasSuffix(raw, "/api"):
		return raw + "/v3"
	default:
		return raw + "/api/v3"
	}
}

// APIKey exposes the secret for sanitization only. Never log the
// returned value.
func (c *Client) APIKey() string {
	return c.apiKey
}

// validateID enforces that externally supplied identifiers are
// non-empty ASCII digit strings before they reach a URL path. This
// blocks path traversal and injection via crafted ids. The offending
// value is truncated in the error message.
func validateID(id, fieldName string) error {
	valid := id != ""
	for i := 0; valid && i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			valid = false
		}
	}
	if !valid {
		echo := id
		if len(echo) > maxEchoedIDLen {
			echo = echo[:maxEchoedIDLen]
		}
		return domain.ErrValidation(fmt.Sprintf("%s must be a numeric string, got: %q", fieldName, echo))
	}
	return nil
}

// RequestWebURL returns the browser URL for viewing a request in the
// ServiceDesk Plus UI.
func (c *Client) RequestWebURL(requestID string) string {
	webBase := strings.TrimSuffix(c.baseURL, "/api/v3")
	webBase = strings.TrimSuffix(webBase, "/api")
	return webBase + "/WorkOrder.do?woMode=viewWO&woID=" + url.QueryEscape(requestID)
}

// request executes one logical API call with retry. T is the payload
// shape sitting alongside response_status in the response body.
func request[T any](ctx context.Context, c *Client, method, path string, input any) (T, error) {
	operation := method + " " + path
	return withRetry(ctx, c, operation, func(ctx context.Context) (T, error) {
		return requestOnce[T](ctx, c, method, path, input)
	})
}

func get[T any](ctx context.Context, c *Client, path string, input any) (T, error) {
	return request[T](ctx, c, http.MethodGet, path, input)
}

func post[T any](ctx context.Context, c *Client, path string, input any) (T, error) {
	return request[T](ctx, c, http.MethodPost, path, input)
}

func put[T any](ctx context.Context, c *Client, path string, input any) (T, error) {
	return request[T](ctx, c, http.MethodPut, path, input)
}

// requestOnce performs a single attempt: build the request, classify
// any failure, and unwrap the envelope on success.
func requestOnce[T any](ctx context.Context, c *Client, method, path string, input any) (T, error) {
	var zero T

	fullURL := c.baseURL + path
	var body io.Reader

	c.logger.Debug("SDP API request",
		slog.String("method", method),
		slog.String("path", path),
	)

	var contentType string
	if input != nil {
		inputJSON, err := json.Marshal(input)
		if err != nil {
			return zero, domain.ErrSerialization(err)
		}
		values := url.Values{"input_data": {string(inputJSON)}}
		if method == http.MethodGet {
			// Reads carry input_data as a query parameter.
			fullURL += "?" + values.Encode()
		} else {
			// Writes carry input_data as a single url-encoded form
			// field. This is an SDP protocol quirk, not a REST body.
			body = strings.NewReader(values.Encode())
			contentType = "application/x-www-form-urlencoded"
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return zero, domain.ErrTransportInit(err)
	}
	req.Header.Set("authtoken", c.apiKey)
	req.Header.Set("Accept", acceptHeader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, c.transportError(err, method+" "+path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return zero, c.classifyStatus(resp)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, domain.ErrTransport(err)
	}

	return decodeEnvelope[T](respBody)
}

// transportError maps a round-trip failure: deadline overruns become
// timeout errors labeled with the operation, everything else a generic
// transport error.
func (c *Client) transportError(err error, operation string) *domain.Error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() || errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrTimeout(c.timeout, operation)
	}
	return domain.ErrTransport(err)
}

// classifyStatus converts a non-2xx response into a domain error before
// any envelope parsing. The body of unclassified statuses is sanitized
// and length-capped.
func (c *Client) classifyStatus(resp *http.Response) *domain.Error {
	var retryAfter time.Duration
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			retryAfter = time.Duration(secs) * time.Second
		}
	}

	raw, _ := io.ReadAll(resp.Body)
	body := domain.Redact(string(raw), c.apiKey)
	if len(body) > maxErrorBodyLen {
		body = body[:maxErrorBodyLen] + "...[truncated]"
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrAuthentication()
	case http.StatusNotFound:
		return domain.ErrNotFound("resource")
	case http.StatusTooManyRequests:
		c.logger.Warn("rate limited by SDP server")
		return domain.ErrRateLimited(retryAfter)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		c.logger.Warn("SDP server temporarily unavailable", slog.Int("status", resp.StatusCode))
		return domain.ErrServiceUnavailable(resp.StatusCode)
	default:
		return domain.ErrHTTPStatus(resp.StatusCode, body)
	}
}

// restampNotFound replaces the generic not-found id from the HTTP or
// envelope layer with the concrete identifier the caller asked about.
func restampNotFound(err error, id string) error {
	if domain.IsKind(err, domain.KindNotFound) {
		return domain.ErrNotFound(id)
	}
	return err
}

// ListRequests lists tickets matching params, in server order.
func (c *Client) ListRequests(ctx context.Context, params *ListParams) ([]RequestSummary, error) {
	payload, err := get[listRequestsPayload](ctx, c, "/requests", params.InputData())
	if err != nil {
		return nil, err
	}
	return payload.Requests, nil
}

// GetRequest fetches full details of a single ticket.
func (c *Client) GetRequest(ctx context.Context, id string) (*Request, error) {
	if err := validateID(id, "request_id"); err != nil {
		return nil, err
	}
	payload, err := get[getRequestPayload](ctx, c, "/requests/"+id, nil)
	if err != nil {
		return nil, restampNotFound(err, id)
	}
	return &payload.Request, nil
}

// ListNotes lists the notes attached to a ticket.
func (c *Client) ListNotes(ctx context.Context, requestID string) ([]Note, error) {
	if err := validateID(requestID, "request_id"); err != nil {
		return nil, err
	}
	payload, err := get[listNotesPayload](ctx, c, "/requests/"+requestID+"/notes", nil)
	if err != nil {
		return nil, restampNotFound(err, requestID)
	}
	return payload.Notes, nil
}

// GetNote fetches a single note with its full content.
func (c *Client) GetNote(ctx context.Context, requestID, noteID string) (*Note, error) {
	if err := validateID(requestID, "request_id"); err != nil {
		return nil, err
	}
	if err := validateID(noteID, "note_id"); err != nil {
		return nil, err
	}
	payload, err := get[getNotePayload](ctx, c, "/requests/"+requestID+"/notes/"+noteID, nil)
	if err != nil {
		return nil, restampNotFound(err, fmt.Sprintf("note %s on request %s", noteID, requestID))
	}
	return &payload.Note, nil
}

// ListConversations lists the email conversations attached to a ticket.
func (c *Client) ListConversations(ctx context.Context, requestID string) ([]Conversation, error) {
	if err := validateID(requestID, "request_id"); err != nil {
		return nil, err
	}
	payload, err := get[listConversationsPayload](ctx, c, "/requests/"+requestID+"/conversations", nil)
	if err != nil {
		return nil, restampNotFound(err, requestID)
	}
	return payload.Conversations, nil
}

// ListNotesWithContent lists notes and fetches the full content for
// every note the list endpoint returned without one. A failed per-note
// fetch is logged and the partial note kept; it never fails the call.
func (c *Client) ListNotesWithContent(ctx context.Context, requestID string) ([]Note, error) {
	notes, err := c.ListNotes(ctx, requestID)
	if err != nil {
		return nil, err
	}

	full := make([]Note, 0, len(notes))
	for _, note := range notes {
		if note.Description != "" {
			full = append(full, note)
			continue
		}
		fetched, err := c.GetNote(ctx, requestID, string(note.ID))
		if err != nil {
			c.logger.Warn("failed to fetch note content, using partial note",
				slog.String("note_id", string(note.ID)),
				slog.String("request_id", requestID),
				slog.String("error", domain.SanitizedError(err, c.apiKey)),
			)
			full = append(full, note)
			continue
		}
		full = append(full, *fetched)
	}
	return full, nil
}

// ListConversationsWithContent lists conversations and resolves each
// content_url for items without inline content. Failed content fetches
// are logged and the partial item kept.
func (c *Client) ListConversationsWithContent(ctx context.Context, requestID string) ([]Conversation, error) {
	conversations, err := c.ListConversations(ctx, requestID)
	if err != nil {
		return nil, err
	}

	for i := range conversations {
		conv := &conversations[i]
		if conv.Description != "" || conv.ContentURL == "" {
			continue
		}
		content, err := c.GetContentFromURL(ctx, conv.ContentURL)
		if err != nil {
			c.logger.Warn("failed to fetch conversation content",
				slog.String("conversation_id", string(conv.ID)),
				slog.String("content_url", conv.ContentURL),
				slog.String("error", domain.SanitizedError(err, c.apiKey)),
			)
			continue
		}
		conv.Description = content
	}
	return conversations, nil
}

// contentPaths are the known {wrapper, field} pairs under which
// secondary-content endpoints return their body text.
var contentPaths = [][2]string{
	{"notification", "description"},
	{"notification", "content"},
	{"conversation", "description"},
	{"note", "description"},
	{"note", "content"},
}

// GetContentFromURL fetches note/conversation body text from a relative
// content URL, with retry.
func (c *Client) GetContentFromURL(ctx context.Context, contentURL string) (string, error) {
	return withRetry(ctx, c, "GET "+contentURL, func(ctx context.Context) (string, error) {
		return c.contentFromURL(ctx, contentURL)
	})
}

// contentFromURL is a single content fetch attempt. The resolved URL
// must stay on the configured instance's authority; anything else is
// rejected before a connection is attempted (SSRF guard).
func (c *Client) contentFromURL(ctx context.Context, contentURL string) (string, error) {
	base := strings.TrimSuffix(c.baseURL, "/api/v3")
	fullURL := base + contentURL

	parsed, err := url.Parse(fullURL)
	if err != nil {
		return "", domain.ErrValidation("invalid content URL: " + err.Error())
	}
	baseParsed, err := url.Parse(base)
	if err != nil {
		return "", domain.ErrValidation("invalid base URL: " + err.Error())
	}
	if parsed.Host != baseParsed.Host {
		return "", domain.ErrValidation(fmt.Sprintf(
			"content URL host mismatch: expected %q, got %q", baseParsed.Host, parsed.Host))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return "", domain.ErrTransportInit(err)
	}
	req.Header.Set("authtoken", c.apiKey)
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.transportError(err, "GET "+contentURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", c.classifyStatus(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.ErrTransport(err)
	}

	// The wrapper shape varies by content type; try the known pairs and
	// fall back to the raw body for anything unexpected.
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err == nil {
		for _, pair := range contentPaths {
			wrapper, ok := doc[pair[0]]
			if !ok {
				continue
			}
			var fields map[string]json.RawMessage
			if err := json.Unmarshal(wrapper, &fields); err != nil {
				continue
			}
			var content string
			if raw, ok := fields[pair[1]]; ok && json.Unmarshal(raw, &content) == nil && content != "" {
				return content, nil
			}
		}
	}
	return string(body), nil
}

// ListTechnicians lists assignable technicians, optionally filtered by
// support group name.
func (c *Client) ListTechnicians(ctx context.Context, group string, limit int) ([]Technician, error) {
	listInfo := map[string]any{}
	if limit > 0 {
		listInfo["row_count"] = limit
	}
	input := map[string]any{"list_info": listInfo}
	if group != "" {
		input["search_criteria"] = []SearchCriterion{Is("group.name", group)}
	}

	payload, err := get[listTechniciansPayload](ctx, c, "/technicians", input)
	if err != nil {
		return nil, err
	}
	return payload.Technicians, nil
}

// CreateRequestInput holds the fields for creating a ticket. Subject is
// required; absent optional fields are omitted from the payload.
type CreateRequestInput struct {
	Subject        string
	Description    string
	RequesterEmail string
	Priority       string
	Category       string
	Subcategory    string
	Item           string
	Group          string
	TechnicianID   string
}

// UpdateRequestInput holds the mutable ticket fields; only present
// fields are sent.
type UpdateRequestInput struct {
	Subject      string
	Description  string
	Priority     string
	Status       string
	Category     string
	Subcategory  string
	Group        string
	TechnicianID string
}

// CreateRequest creates a new ticket and returns it with its assigned
// id.
func (c *Client) CreateRequest(ctx context.Context, input *CreateRequestInput) (*Request, error) {
	data := map[string]any{"subject": input.Subject}
	if input.Description != "" {
		data["description"] = input.Description
	}
	if input.RequesterEmail != "" {
		data["requester"] = map[string]any{"email_id": input.RequesterEmail}
	}
	setNamed(data, "priority", input.Priority)
	setNamed(data, "category", input.Category)
	setNamed(data, "subcategory", input.Subcategory)
	setNamed(data, "item", input.Item)
	setNamed(data, "group", input.Group)
	if input.TechnicianID != "" {
		data["technician"] = map[string]any{"id": input.TechnicianID}
	}

	payload, err := post[getRequestPayload](ctx, c, "/requests", map[string]any{"request": data})
	if err != nil {
		return nil, err
	}
	return &payload.Request, nil
}

// UpdateRequest modifies an existing ticket.
func (c *Client) UpdateRequest(ctx context.Context, id string, input *UpdateRequestInput) (*Request, error) {
	if err := validateID(id, "request_id"); err != nil {
		return nil, err
	}

	data := map[string]any{}
	if input.Subject != "" {
		data["subject"] = input.Subject
	}
	if input.Description != "" {
		data["description"] = input.Description
	}
	setNamed(data, "priority", input.Priority)
	setNamed(data, "status", input.Status)
	setNamed(data, "category", input.Category)
	setNamed(data, "subcategory", input.Subcategory)
	setNamed(data, "group", input.Group)
	if input.TechnicianID != "" {
		data["technician"] = map[string]any{"id": input.TechnicianID}
	}

	payload, err := put[getRequestPayload](ctx, c, "/requests/"+id, map[string]any{"request": data})
	if err != nil {
		return nil, restampNotFound(err, id)
	}
	return &payload.Request, nil
}

// CloseRequest closes a ticket. Closure code and comments are optional;
// an empty pair sends no closure_info rather than failing.
func (c *Client) CloseRequest(ctx context.Context, id, closureCode, comments string) (*Request, error) {
	if err := validateID(id, "request_id"); err != nil {
		return nil, err
	}

	data := map[string]any{}
	closureInfo := map[string]any{}
	setNamed(closureInfo, "closure_code", closureCode)
	if comments != "" {
		closureInfo["closure_comments"] = comments
	}
	if len(closureInfo) > 0 {
		data["closure_info"] = closureInfo
	}

	payload, err := put[getRequestPayload](ctx, c, "/requests/"+id+"/close", map[string]any{"request": data})
	if err != nil {
		return nil, restampNotFound(err, id)
	}
	return &payload.Request, nil
}

// noteBody is the outbound note shape; absent flags are omitted.
type noteBody struct {
	Description      string `json:"description"`
	ShowToRequester  *bool  `json:"show_to_requester,omitempty"`
	NotifyTechnician *bool  `json:"notify_technician,omitempty"`
}

// AddNote attaches a note to a ticket.
func (c *Client) AddNote(ctx context.Context, requestID, content string, showToRequester, notifyTechnician *bool) (*Note, error) {
	if err := validateID(requestID, "request_id"); err != nil {
		return nil, err
	}

	input := map[string]any{"note": noteBody{
		Description:      content,
		ShowToRequester:  showToRequester,
		NotifyTechnician: notifyTechnician,
	}}

	payload, err := post[getNotePayload](ctx, c, "/requests/"+requestID+"/notes", input)
	if err != nil {
		return nil, restampNotFound(err, requestID)
	}
	return &payload.Note, nil
}

// AssignRequest assigns a ticket to a technician and/or group. Both
// targets empty sends an empty update; callers enforce the
// at-least-one business rule.
func (c *Client) AssignRequest(ctx context.Context, id, technicianID, group string) (*Request, error) {
	if err := validateID(id, "request_id"); err != nil {
		return nil, err
	}
	if technicianID != "" {
		if err := validateID(technicianID, "technician_id"); err != nil {
			return nil, err
		}
	}

	data := map[string]any{}
	if technicianID != "" {
		data["technician"] = map[string]any{"id": technicianID}
	}
	setNamed(data, "group", group)

	payload, err := put[getRequestPayload](ctx, c, "/requests/"+id, map[string]any{"request": data})
	if err != nil {
		return nil, restampNotFound(err, id)
	}
	return &payload.Request, nil
}

// TestConnection verifies the server is reachable and the credential
// valid by listing a single request. Failures map to actionable,
// sanitized probe messages.
func (c *Client) TestConnection(ctx context.Context) error {
	c.logger.Debug("testing connection to SDP server")

	_, err := c.ListRequests(ctx, NewListParams().WithLimit(1))
	if err == nil {
		c.logger.Info("connection test successful")
		return nil
	}

	var gerr *domain.Error
	if errors.As(err, &gerr) {
		switch gerr.Kind {
		case domain.KindAuthentication:
			return domain.ErrProbe("Authentication failed - verify SDP_API_KEY is correct")
		case domain.KindTimeout:
			return domain.ErrProbe(fmt.Sprintf(
				"Connection timed out after %s - verify SDP_BASE_URL is correct and server is reachable",
				gerr.Duration))
		case domain.KindTransport:
			return domain.ErrProbe(fmt.Sprintf(
				"HTTP error: %s - verify SDP_BASE_URL is correct", gerr.Sanitized(c.apiKey)))
		}
	}
	return domain.ErrProbe(domain.SanitizedError(err, c.apiKey))
}

// setNamed adds a {"name": value} reference when value is present.
func setNamed(data map[string]any, key, value string) {
	if value != "" {
		data[key] = map[string]any{"name": value}
	}
}
