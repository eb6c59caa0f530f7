package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/lifelog-backend/internal/http/response"
	"github.com/yungbote/lifelog-backend/internal/services"
)

type ContextHandler struct {
	context services.ContextService
}

func NewContextHandler(context services.ContextService) *ContextHandler {
	return &ContextHandler{context: context}
}

// GET /api/journal/context?days=N
func (h *ContextHandler) Full(c *gin.Context) {
	days, ok := queryDays(c)
	if !ok {
		return
	}
	b, err := h.context.Full(c.Request.Context(), days)
	if err != nil {
		response.RespondServiceError(c, "load_context_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"context": b})
}

// GET /api/journal/context/light
func (h *ContextHandler) Light(c *gin.Context) {
	lw, err := h.context.Light(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, "load_context_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"context": lw})
}
