package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/asknotes/asknotes/internal/core"
)

// Uploads larger than this are rejected before any extraction work.
const maxUploadBytes = 64 << 20 // 64 MiB

type APIHandler struct {
	sessions *core.SessionManager
}

func NewAPIHandler(sm *core.SessionManager) *APIHandler {
	return &APIHandler{sessions: sm}
}

// session resolves the {sessionID} URL parameter, writing the error
// response itself when the session does not exist.
func (h *APIHandler) session(w http.ResponseWriter, r *http.Request) *core.Session {
	id := chi.URLParam(r, "sessionID")
	s, err := h.sessions.GetSession(id)
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return nil
	}
	return s
}

func (h *APIHandler) ListModelsHandler(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]any{
		"models":           core.AllowedModels,
		"default":          core.DefaultModel(false),
		"advanced_default": core.AdvancedDefaultModel,
	})
}

type CreateSessionRequest struct {
	Advanced bool `json:"advanced"`
	ShowLog  bool `json:"show_log"`
}

type SessionResponse struct {
	ID    string          `json:"id"`
	Model string          `json:"model"`
	Ready bool            `json:"ready"`
	Turns []core.ChatTurn `json:"turns"`
}

func sessionResponse(s *core.Session) SessionResponse {
	return SessionResponse{
		ID:    s.ID,
		Model: s.ModelID,
		Ready: s.Ready(),
		Turns: s.Turns(),
	}
}

func (h *APIHandler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if r.Body != http.NoBody {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	s := h.sessions.CreateSession(req.Advanced, req.ShowLog)
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sessionResponse(s))
}

func (h *APIHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	json.NewEncoder(w).Encode(sessionResponse(s))
}

type UploadResponse struct {
	core.IngestResult
	Ready bool `json:"ready"`
}

// UploadFilesHandler accepts a multipart batch of PDFs and runs the
// ingestion pipeline. A failed build is reported with 422 and the
// caller-visible notice; the session simply has no index afterwards.
func (h *APIHandler) UploadFilesHandler(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart body: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	var files []core.UploadedFile
	for _, headers := range r.MultipartForm.File {
		for _, hdr := range headers {
			f, err := hdr.Open()
			if err != nil {
				http.Error(w, fmt.Sprintf("Failed to read %s", hdr.Filename), http.StatusBadRequest)
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				http.Error(w, fmt.Sprintf("Failed to read %s", hdr.Filename), http.StatusBadRequest)
				return
			}
			files = append(files, core.UploadedFile{Name: hdr.Filename, Data: data})
		}
	}

	result, err := h.sessions.EnsureIndex(r.Context(), s, files)
	if err != nil {
		log.Printf("Ingestion failed for session %s: %v", s.ID, err)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	json.NewEncoder(w).Encode(UploadResponse{IngestResult: result, Ready: s.Ready()})
}

type AskRequest struct {
	Question string `json:"question"`
	Model    string `json:"model,omitempty"`
}

type AskResponse struct {
	Answer string          `json:"answer"`
	Turns  []core.ChatTurn `json:"turns"`
}

func (h *APIHandler) AskHandler(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		http.Error(w, "Question is required", http.StatusBadRequest)
		return
	}

	answer, err := h.sessions.Ask(r.Context(), s, req.Question, req.Model)
	if err != nil {
		if errors.Is(err, core.ErrNoIndex) {
			http.Error(w, "Attach a PDF to start chatting", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	json.NewEncoder(w).Encode(AskResponse{Answer: answer, Turns: s.Turns()})
}

func (h *APIHandler) ClearHistoryHandler(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	h.sessions.ClearHistory(s)
	json.NewEncoder(w).Encode(sessionResponse(s))
}

func (h *APIHandler) DeleteIndexHandler(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	h.sessions.DeleteIndex(s)
	json.NewEncoder(w).Encode(sessionResponse(s))
}

// ExportHistoryHandler serves the chat history as a download, either
// pretty-printed JSON or the fixed plain-text transcript format.
func (h *APIHandler) ExportHistoryHandler(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	switch r.URL.Query().Get("format") {
	case "txt":
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("Content-Disposition", `attachment; filename="chat_history.txt"`)
		io.WriteString(w, core.ExportText(s.Turns()))
	case "json", "":
		data, err := core.ExportJSON(s.Turns())
		if err != nil {
			log.Printf("Error exporting history for session %s: %v", s.ID, err)
			http.Error(w, "Failed to export history", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="chat_history.json"`)
		w.Write(data)
	default:
		http.Error(w, "Unknown format; use json or txt", http.StatusBadRequest)
	}
}

func (h *APIHandler) GetLogHandler(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	json.NewEncoder(w).Encode(s.LogEntries())
}

type SetLogVisibleRequest struct {
	Visible bool `json:"visible"`
}

func (h *APIHandler) SetLogVisibleHandler(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	var req SetLogVisibleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	h.sessions.SetLogVisible(s, req.Visible)
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) ResetLogHandler(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	h.sessions.ResetLog(s)
	w.WriteHeader(http.StatusNoContent)
}
