package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/eino-contrib/jsonschema"
	"github.com/google/uuid"
	"github.com/tbxark/calltaker/agent"
	"github.com/tbxark/calltaker/extract"
	"github.com/tbxark/calltaker/state"
	"github.com/tbxark/calltaker/submission"
	"github.com/tbxark/calltaker/types"
)

const maxBodyBytes = 64 << 10

// ComplaintLister looks up recorded complaints by contact number.
type ComplaintLister interface {
	ListByPhone(ctx context.Context, phone string) ([]submission.Record, error)
}

type Handler struct {
	Agent    *agent.ComplaintAgent
	Sessions agent.StateReadWriter
	// Complaints is nil when the configured sink keeps no history.
	Complaints ComplaintLister
}

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	Response   string       `json:"response"`
	AgentState *state.State `json:"agent_state"`
	SessionID  string       `json:"session_id"`
	Goal       types.Goal   `json:"goal"`
}

type ComplaintsResponse struct {
	Phone      string              `json:"phone"`
	Complaints []submission.Record `json:"complaints"`
}

type SessionResponse struct {
	SessionID string       `json:"session_id"`
	State     *state.State `json:"state"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "calltaker"})
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read body"})
		return
	}
	var req ChatRequest
	if err := sonic.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	ctx := agent.WithSessionKey(r.Context(), req.SessionID)
	resp, err := h.Agent.Turn(ctx, req.Message)
	if err != nil {
		slog.ErrorContext(ctx, "Chat turn failed", "session", req.SessionID, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("error processing message: %v", err)})
		return
	}
	slog.Debug("Chat turn", "session", req.SessionID, "goal", resp.Goal)
	writeJSON(w, http.StatusOK, ChatResponse{
		Response:   resp.Message,
		AgentState: resp.State,
		SessionID:  req.SessionID,
		Goal:       resp.Goal,
	})
}

func (h *Handler) ClearSession(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session_id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session_id is required"})
		return
	}
	if err := h.Sessions.Remove(agent.WithSessionKey(r.Context(), id)); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Session cleared"})
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	st, ok, err := h.Sessions.Read(agent.WithSessionKey(r.Context(), id))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Session not found"})
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{SessionID: id, State: st})
}

// ListComplaints lists the complaints recorded for ?phone=.
func (h *Handler) ListComplaints(w http.ResponseWriter, r *http.Request) {
	if h.Complaints == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "complaint history is not enabled"})
		return
	}
	phone := extract.Digits(r.URL.Query().Get("phone"))
	if phone == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "phone is required"})
		return
	}
	records, err := h.Complaints.ListByPhone(r.Context(), phone)
	if err != nil {
		slog.ErrorContext(r.Context(), "List complaints failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if records == nil {
		records = []submission.Record{}
	}
	writeJSON(w, http.StatusOK, ComplaintsResponse{Phone: phone, Complaints: records})
}

// Schema describes the dialogue state shown in the chat UI's state panel.
func (h *Handler) Schema(w http.ResponseWriter, r *http.Request) {
	schema := jsonschema.Reflect(&state.State{})
	schema.Title = "DialogueState"
	schema.Description = "Everything the agent has learned in a conversation so far."
	writeJSON(w, http.StatusOK, schema)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := sonic.Marshal(payload)
	if err != nil {
		slog.Error("Failed to encode response", "err", err)
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}
