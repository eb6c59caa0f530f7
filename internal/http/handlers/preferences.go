package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lifelog-backend/internal/http/response"
	"github.com/yungbote/lifelog-backend/internal/modules/preferences"
	"github.com/yungbote/lifelog-backend/internal/services"
)

type PreferencesHandler struct {
	prefs    services.PreferencesService
	outcomes services.OutcomeService
}

func NewPreferencesHandler(prefs services.PreferencesService, outcomes services.OutcomeService) *PreferencesHandler {
	return &PreferencesHandler{prefs: prefs, outcomes: outcomes}
}

// GET /api/journal/preferences
func (h *PreferencesHandler) Get(c *gin.Context) {
	v, err := h.prefs.Get(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, "load_preferences_failed", err)
		return
	}
	response.RespondOK(c, v)
}

// PUT /api/journal/preferences
//
// Fields outside the patch allow-list are dropped by the decoder.
func (h *PreferencesHandler) Update(c *gin.Context) {
	var patch preferences.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	v, err := h.prefs.Update(c.Request.Context(), patch)
	if err != nil {
		response.RespondServiceError(c, "update_preferences_failed", err)
		return
	}
	response.RespondOK(c, v)
}

// DELETE /api/journal/preferences
func (h *PreferencesHandler) Reset(c *gin.Context) {
	v, err := h.prefs.Reset(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, "reset_preferences_failed", err)
		return
	}
	response.RespondOK(c, v)
}

type outcomesRequest struct {
	Outcomes []preferences.Outcome `json:"outcomes"`
}

// POST /api/journal/suggestions/outcomes
//
// Accepts either a bare array or {"outcomes": [...]}. Learning is applied
// asynchronously, hence 202.
func (h *PreferencesHandler) SubmitOutcomes(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	outcomes, err := decodeOutcomes(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	n, err := h.outcomes.Submit(c.Request.Context(), outcomes)
	if err != nil {
		response.RespondServiceError(c, "submit_outcomes_failed", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"accepted": n})
}
