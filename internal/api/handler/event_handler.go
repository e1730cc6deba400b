package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// EventDeleter removes an event and runs its cascade.
type EventDeleter interface {
	DeleteEvent(ctx context.Context, eventID string) error
}

// EventHandler handles manager corrections to clock events.
type EventHandler struct {
	shift EventDeleter
}

func NewEventHandler(shift EventDeleter) *EventHandler {
	return &EventHandler{shift: shift}
}

// Delete handles DELETE /v1/events/:id. Deleting an entry removes its exits;
// deleting an exit reopens its entry. Unknown ids are a no-op.
//
// @Summary      Delete a clock event
// @Tags         events
// @Security     BearerAuth
// @Param        id   path  string  true  "Event ID"
// @Success      204
// @Failure      500  {object}  errorResponse
// @Router       /v1/events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	if err := h.shift.DeleteEvent(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
