package http

import (
	"context"
	nethttp "net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/novamind-digital/immo/internal/domains/reminders/domain"
	apierrors "github.com/novamind-digital/immo/internal/shared/errors"
)

// Engine is the slice of the reminder engine served over HTTP.
type Engine interface {
	Refresh(ctx context.Context) []domain.Reminder
	Reminders(ownerID string) []domain.Reminder
	HasActive(ownerID string) bool
	Dismiss(ctx context.Context, reminderID string)
}

// ReminderList is the transport shape of the active reminders.
type ReminderList struct {
	Reminders []domain.Reminder `json:"reminders"`
	HasActive bool              `json:"hasActiveReminders"`
}

type API struct {
	engine Engine
}

func NewAPI(engine Engine) *API {
	return &API{engine: engine}
}

func (api *API) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reminders", api.ListReminders)
	rg.POST("/reminders/evaluate", api.EvaluateReminders)
	rg.POST("/reminders/:id/dismiss", api.DismissReminder)
}

// Get /v1/reminders
func (api *API) ListReminders(c *gin.Context) {
	owner := c.Query("ownerId")
	c.JSON(nethttp.StatusOK, ReminderList{
		Reminders: nonNil(api.engine.Reminders(owner)),
		HasActive: api.engine.HasActive(owner),
	})
}

// Post /v1/reminders/evaluate
// Reloads the handovers and recomputes without waiting for the next poll.
func (api *API) EvaluateReminders(c *gin.Context) {
	api.engine.Refresh(c.Request.Context())
	api.ListReminders(c)
}

// Post /v1/reminders/:id/dismiss
func (api *API) DismissReminder(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail("reminder id is required"))
		return
	}
	api.engine.Dismiss(c.Request.Context(), id)
	c.Status(nethttp.StatusNoContent)
}

func nonNil(list []domain.Reminder) []domain.Reminder {
	if list == nil {
		return []domain.Reminder{}
	}
	return list
}
