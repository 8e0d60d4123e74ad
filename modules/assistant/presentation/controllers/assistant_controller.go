package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/salescope/salescope/modules/assistant/services"
	directoryservices "github.com/salescope/salescope/modules/directory/services"
	"github.com/salescope/salescope/modules/scope/filter"
	scopeservices "github.com/salescope/salescope/modules/scope/services"
	"github.com/salescope/salescope/pkg/composables"
	"github.com/salescope/salescope/pkg/httpapi"
)

type AssistantController struct {
	assistant *services.AssistantService
}

func NewAssistantController(assistant *services.AssistantService) *AssistantController {
	return &AssistantController{assistant: assistant}
}

func (c *AssistantController) Key() string {
	return "/assistant"
}

func (c *AssistantController) Register(r *mux.Router) {
	router := r.PathPrefix("/assistant").Subrouter()
	router.HandleFunc("/ask", c.ask).Methods(http.MethodPost)
	router.HandleFunc("/refine", c.refine).Methods(http.MethodPost)
	router.HandleFunc("/{thread}/sql", c.showSQL).Methods(http.MethodGet)
	router.HandleFunc("/{thread}/export", c.export).Methods(http.MethodGet)
}

type askRequest struct {
	ThreadID string `json:"threadId"`
	Question string `json:"question"`
}

type answerResponse struct {
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	Chart     string     `json:"chart"`
	TotalRows int        `json:"totalRows"`
	Truncated bool       `json:"truncated"`
}

func (c *AssistantController) ask(w http.ResponseWriter, r *http.Request) {
	requester, err := composables.UseRequester(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "requesting employee not identified", nil)
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ThreadID == "" || req.Question == "" {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_REQUEST", "threadId and question are required", nil)
		return
	}

	answer, err := c.assistant.Ask(r.Context(), requester, req.ThreadID, req.Question)
	if err != nil {
		writeAssistantError(w, err)
		return
	}
	writeAnswer(w, answer)
}

func (c *AssistantController) refine(w http.ResponseWriter, r *http.Request) {
	requester, err := composables.UseRequester(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "requesting employee not identified", nil)
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ThreadID == "" || req.Question == "" {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_REQUEST", "threadId and question are required", nil)
		return
	}

	answer, err := c.assistant.Refine(r.Context(), requester, req.ThreadID, req.Question)
	if err != nil {
		writeAssistantError(w, err)
		return
	}
	writeAnswer(w, answer)
}

func (c *AssistantController) showSQL(w http.ResponseWriter, r *http.Request) {
	threadID := mux.Vars(r)["thread"]
	if threadID == "" {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_REQUEST", "thread is required", nil)
		return
	}

	sql, err := c.assistant.ShowSQL(r.Context(), threadID)
	if err != nil {
		writeAssistantError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]string{"sql": sql})
}

func (c *AssistantController) export(w http.ResponseWriter, r *http.Request) {
	requester, err := composables.UseRequester(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "requesting employee not identified", nil)
		return
	}

	threadID := mux.Vars(r)["thread"]
	if threadID == "" {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_REQUEST", "thread is required", nil)
		return
	}
	format := services.FormatCSV
	if r.URL.Query().Get("format") == "xlsx" {
		format = services.FormatXLSX
	}

	export, err := c.assistant.Export(r.Context(), requester, threadID, format)
	if err != nil {
		writeAssistantError(w, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Data)))
	_, _ = w.Write(export.Data)
}

func writeAnswer(w http.ResponseWriter, answer services.Answer) {
	_ = httpapi.WriteJSON(w, http.StatusOK, answerResponse{
		Columns:   answer.Table.Columns,
		Rows:      answer.Table.Rows,
		Chart:     string(answer.Chart),
		TotalRows: answer.TotalRows,
		Truncated: answer.Truncated,
	})
}

func writeAssistantError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNoThreadSQL):
		_ = httpapi.WriteBaseError(w, http.StatusNotFound, err)
	case errors.Is(err, filter.ErrScopeViolation):
		_ = httpapi.WriteBaseError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, directoryservices.ErrEmployeeUnknown), errors.Is(err, scopeservices.ErrRequesterUnknown):
		_ = httpapi.WriteBaseError(w, http.StatusNotFound, err)
	case errors.Is(err, scopeservices.ErrRequesterInactive):
		_ = httpapi.WriteBaseError(w, http.StatusForbidden, err)
	default:
		_ = httpapi.WriteBaseError(w, http.StatusInternalServerError, err)
	}
}
