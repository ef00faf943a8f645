package tools

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Reventlow/glass/internal/domain"
	"github.com/Reventlow/glass/internal/server"
)

// toolResponse is the JSON envelope for tool results.
type toolResponse struct {
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Register mounts the tool endpoints on the router. Each tool is a
// POST taking a JSON body; an empty body means no arguments.
func (s *Service) Register(r chi.Router) {
	r.Get("/ping", func(w http.ResponseWriter, req *http.Request) {
		writeResult(w, http.StatusOK, s.Ping(req.Context()))
	})

	r.Post("/tools/list_requests", handle(s, "list_requests", s.ListRequests))
	r.Post("/tools/get_request", handle(s, "get_request", s.GetRequest))
	r.Post("/tools/list_notes", handle(s, "list_notes", s.ListNotes))
	r.Post("/tools/get_note", handle(s, "get_note", s.GetNote))
	r.Post("/tools/list_conversations", handle(s, "list_conversations", s.ListConversations))
	r.Post("/tools/list_technicians", handle(s, "list_technicians", s.ListTechnicians))
	r.Post("/tools/create_request", handle(s, "create_request", s.CreateRequest))
	r.Post("/tools/update_request", handle(s, "update_request", s.UpdateRequest))
	r.Post("/tools/close_request", handle(s, "close_request", s.CloseRequest))
	r.Post("/tools/add_note", handle(s, "add_note", s.AddNote))
	r.Post("/tools/assign_request", handle(s, "assign_request", s.AssignRequest))
}

// handle adapts a typed tool method to an HTTP handler: decode the
// JSON input, run the tool, map the error kind to a status code.
func handle[T any](s *Service, name string, fn func(ctx context.Context, in *T) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		server.AddLogField(req.Context(), "tool", name)

		var in T
		body, err := io.ReadAll(req.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read request body")
			return
		}
		if len(body) > 0 {
			if err := json.Unmarshal(body, &in); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON input: "+err.Error())
				return
			}
		}

		result, err := fn(req.Context(), &in)
		if err != nil {
			server.AddError(req.Context(), err)
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeResult(w, http.StatusOK, result)
	}
}

// statusFor maps tool errors to response codes. Validation failures
// are the caller's fault; everything else is an upstream problem.
func statusFor(err error) int {
	var gerr *domain.Error
	if errors.As(err, &gerr) {
		switch gerr.Kind {
		case domain.KindValidation:
			return http.StatusBadRequest
		case domain.KindNotFound:
			return http.StatusNotFound
		case domain.KindAuthentication:
			return http.StatusBadGateway
		case domain.KindTimeout, domain.KindRateLimited, domain.KindServiceUnavailable:
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	}
	// Plain errors come from input validation in this package.
	return http.StatusBadRequest
}

func writeResult(w http.ResponseWriter, status int, result string) {
	writeJSON(w, status, toolResponse{Result: result})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, toolResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body toolResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
