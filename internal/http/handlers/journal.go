package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/lifelog-backend/internal/http/response"
	"github.com/yungbote/lifelog-backend/internal/services"
)

type JournalHandler struct {
	journal services.JournalService
	actions services.JournalActionsService
	analyze services.AnalyzeService
}

func NewJournalHandler(journal services.JournalService, actions services.JournalActionsService, analyze services.AnalyzeService) *JournalHandler {
	return &JournalHandler{journal: journal, actions: actions, analyze: analyze}
}

type createJournalRequest struct {
	Content string `json:"content"`
}

// POST /api/journal
func (h *JournalHandler) Create(c *gin.Context) {
	var req createJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	entry, err := h.journal.Create(c.Request.Context(), req.Content)
	if err != nil {
		response.RespondServiceError(c, "create_journal_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"journal": entry})
}

// GET /api/journal?days=N
func (h *JournalHandler) List(c *gin.Context) {
	days, ok := queryDays(c)
	if !ok {
		return
	}
	entries, err := h.journal.List(c.Request.Context(), days)
	if err != nil {
		response.RespondServiceError(c, "list_journal_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"journals": entries})
}

// GET /api/journal/:id
func (h *JournalHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "invalid_journal_id")
	if !ok {
		return
	}
	entry, err := h.journal.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, "load_journal_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"journal": entry})
}

// POST /api/journal/actions
//
// Partial success is still 200; the per-item outcome is in the body.
func (h *JournalHandler) Actions(c *gin.Context) {
	var req services.ActionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.actions.Commit(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, "commit_actions_failed", err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/journal/:id/analyze
func (h *JournalHandler) Analyze(c *gin.Context) {
	id, ok := pathID(c, "invalid_journal_id")
	if !ok {
		return
	}
	res, err := h.analyze.Analyze(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, "analyze_failed", err)
		return
	}
	response.RespondOK(c, res)
}

func pathID(c *gin.Context, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, code, err)
		return uuid.Nil, false
	}
	return id, true
}

// queryDays parses ?days; absent means the service default.
func queryDays(c *gin.Context) (int, bool) {
	raw := c.Query("days")
	if raw == "" {
		return 0, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_days", err)
		return 0, false
	}
	return days, true
}
