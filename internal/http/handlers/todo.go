package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lifelog-backend/internal/domain/journal"
	"github.com/yungbote/lifelog-backend/internal/http/response"
	"github.com/yungbote/lifelog-backend/internal/services"
)

type TodoHandler struct {
	todos services.TodoService
}

func NewTodoHandler(todos services.TodoService) *TodoHandler {
	return &TodoHandler{todos: todos}
}

// PATCH /api/todos/:id
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "invalid_todo_id")
	if !ok {
		return
	}
	var patch journal.TodoPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	todo, err := h.todos.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.RespondServiceError(c, "update_todo_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"todo": todo})
}
