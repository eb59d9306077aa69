package http

import (
	"errors"
	"io"
	nethttp "net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/novamind-digital/immo/internal/domains/handover/adapters/http/mapper"
	"github.com/novamind-digital/immo/internal/domains/handover/application"
	"github.com/novamind-digital/immo/internal/domains/handover/domain"
	"github.com/novamind-digital/immo/internal/domains/handover/ports"
	apierrors "github.com/novamind-digital/immo/internal/shared/errors"
)

// SessionSource resolves live wizard sessions for step access.
type SessionSource interface {
	Session(id string) (*application.Session, error)
}

// API wires HTTP transport with the handover bounded context.
type API struct {
	service   ports.Service
	sessions  SessionSource
	responder *apierrors.Responder
}

// NewAPI creates an API backed by service. sessions is usually the undecorated
// application service behind service.
func NewAPI(service ports.Service, sessions SessionSource) *API {
	return &API{
		service:   service,
		sessions:  sessions,
		responder: apierrors.NewResponder("", MapError),
	}
}

// RegisterRoutes mounts the session, step and handover routes on rg.
func (api *API) RegisterRoutes(rg *gin.RouterGroup) {
	sessions := rg.Group("/sessions")
	sessions.POST("", api.OpenSession)
	sessions.GET("/:sid", api.DescribeSession)
	sessions.DELETE("/:sid", api.CloseSession)
	sessions.POST("/:sid/save", api.SaveSession)
	sessions.POST("/:sid/load", api.LoadIntoSession)
	sessions.POST("/:sid/reset", api.ResetSession)

	steps := sessions.Group("/:sid/steps/:step")
	steps.GET("", api.GetStep)
	steps.PATCH("", api.PatchStep)
	steps.PUT("", api.ReplaceStep)
	steps.POST("/items", api.AddItem)
	steps.PATCH("/items/:index", api.UpdateItem)
	steps.DELETE("/items/:index", api.RemoveItem)

	handovers := rg.Group("/handovers")
	handovers.GET("", api.ListHandovers)
	handovers.POST("/:id/complete", api.CompleteHandover)
	handovers.POST("/:id/archive", api.ArchiveHandover)
	handovers.DELETE("/:id", api.DeleteHandover)
}

// Post /v1/sessions
func (api *API) OpenSession(c *gin.Context) {
	var req mapper.OpenSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			api.responder.BadRequest(c, err.Error())
			return
		}
	}
	var (
		info *ports.SessionInfo
		err  error
	)
	if req.HandoverID != "" {
		info, err = api.service.ResumeSession(c.Request.Context(), req.OwnerID, req.HandoverID)
	} else {
		info, err = api.service.OpenSession(c.Request.Context(), req.OwnerID)
	}
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(nethttp.StatusCreated, mapper.FromSessionInfo(info))
}

// Get /v1/sessions/:sid
func (api *API) DescribeSession(c *gin.Context) {
	info, err := api.service.DescribeSession(c.Request.Context(), c.Param("sid"))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromSessionInfo(info))
}

// Delete /v1/sessions/:sid
func (api *API) CloseSession(c *gin.Context) {
	if err := api.service.CloseSession(c.Request.Context(), c.Param("sid")); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Status(nethttp.StatusNoContent)
}

// Post /v1/sessions/:sid/save
func (api *API) SaveSession(c *gin.Context) {
	info, err := api.service.SaveSession(c.Request.Context(), c.Param("sid"))
	if err != nil {
		api.respondWithSession(c, err, info)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromSessionInfo(info))
}

// Post /v1/sessions/:sid/load
func (api *API) LoadIntoSession(c *gin.Context) {
	var req mapper.LoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	info, err := api.service.LoadIntoSession(c.Request.Context(), c.Param("sid"), req.HandoverID)
	if err != nil {
		api.respondWithSession(c, err, info)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromSessionInfo(info))
}

// Post /v1/sessions/:sid/reset
func (api *API) ResetSession(c *gin.Context) {
	info, err := api.service.ResetSession(c.Request.Context(), c.Param("sid"))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromSessionInfo(info))
}

// Get /v1/sessions/:sid/steps/:step
func (api *API) GetStep(c *gin.Context) {
	ep, ok := api.endpoint(c)
	if !ok {
		return
	}
	c.JSON(nethttp.StatusOK, ep.view())
}

// Patch /v1/sessions/:sid/steps/:step
// Shallow-merges the body into a record step.
func (api *API) PatchStep(c *gin.Context) {
	api.mutate(c, func(ep endpoint, body []byte) error { return ep.patch(body) })
}

// Put /v1/sessions/:sid/steps/:step
// Replaces a list step.
func (api *API) ReplaceStep(c *gin.Context) {
	api.mutate(c, func(ep endpoint, body []byte) error { return ep.replace(body) })
}

// Post /v1/sessions/:sid/steps/:step/items
func (api *API) AddItem(c *gin.Context) {
	api.mutate(c, func(ep endpoint, body []byte) error { return ep.add(body) })
}

// Patch /v1/sessions/:sid/steps/:step/items/:index
func (api *API) UpdateItem(c *gin.Context) {
	index, ok := api.indexParam(c)
	if !ok {
		return
	}
	api.mutate(c, func(ep endpoint, body []byte) error { return ep.update(index, body) })
}

// Delete /v1/sessions/:sid/steps/:step/items/:index
func (api *API) RemoveItem(c *gin.Context) {
	index, ok := api.indexParam(c)
	if !ok {
		return
	}
	api.mutate(c, func(ep endpoint, _ []byte) error { return ep.remove(index) })
}

// Get /v1/handovers
func (api *API) ListHandovers(c *gin.Context) {
	filter := ports.ListFilter{OwnerID: c.Query("ownerId")}
	for _, raw := range c.QueryArray("status") {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			api.responder.BadRequest(c, err.Error())
			return
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	filter.SelectedAddress = strings.TrimSpace(c.Query("address"))
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			api.responder.BadRequest(c, "limit must be a non-negative integer")
			return
		}
		filter.Limit = limit
	}
	list, err := api.service.ListHandovers(c.Request.Context(), filter)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromHandoverList(list))
}

// Post /v1/handovers/:id/complete
func (api *API) CompleteHandover(c *gin.Context) {
	result, err := api.service.CompleteHandover(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromHandover(result))
}

// Post /v1/handovers/:id/archive
func (api *API) ArchiveHandover(c *gin.Context) {
	result, err := api.service.ArchiveHandover(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromHandover(result))
}

// Delete /v1/handovers/:id
func (api *API) DeleteHandover(c *gin.Context) {
	if err := api.service.DeleteHandover(c.Request.Context(), c.Param("id")); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Status(nethttp.StatusNoContent)
}

func (api *API) endpoint(c *gin.Context) (endpoint, bool) {
	step, err := domain.ParseStep(c.Param("step"))
	if err != nil {
		api.responder.RespondError(c, err)
		return nil, false
	}
	sess, err := api.sessions.Session(c.Param("sid"))
	if err != nil {
		api.responder.RespondError(c, err)
		return nil, false
	}
	ep, err := endpointFor(c.Request.Context(), sess, step)
	if err != nil {
		api.responder.RespondError(c, err)
		return nil, false
	}
	return ep, true
}

func (api *API) mutate(c *gin.Context, apply func(endpoint, []byte) error) {
	ep, ok := api.endpoint(c)
	if !ok {
		return
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	if err := apply(ep, body); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, ep.view())
}

func (api *API) indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		api.responder.BadRequest(c, "index must be an integer")
		return 0, false
	}
	return index, true
}

// respondWithSession attaches the session state to the problem so clients can
// show the recorded error and keep the dirty flag.
func (api *API) respondWithSession(c *gin.Context, err error, info *ports.SessionInfo) {
	problem := api.responder.Problem(err)
	if info != nil {
		problem = problem.WithExtension("session", mapper.FromSessionInfo(info))
	}
	api.responder.Respond(c, problem)
}

// MapError converts handover errors to problem details.
func MapError(err error) (apierrors.ProblemDetail, bool) {
	var problem apierrors.ProblemDetail
	switch {
	case errors.Is(err, application.ErrSessionNotFound):
		problem = apierrors.ErrSessionNotFound
	case errors.Is(err, ports.ErrNotFound):
		problem = apierrors.ErrNotFound
	case errors.Is(err, ports.ErrVersionConflict):
		problem = apierrors.ErrVersionConflict
	case errors.Is(err, domain.ErrNotDraft):
		problem = apierrors.ErrNotDraft
	case errors.Is(err, domain.ErrUnknownStep):
		problem = apierrors.ErrUnknownStep
	case errors.Is(err, errWrongKind):
		problem = apierrors.ErrWrongStepKind
	case errors.Is(err, errBadPayload), errors.Is(err, application.ErrInvalidInput):
		problem = apierrors.ErrBadRequest
	case errors.Is(err, application.ErrSaveFailed), errors.Is(err, application.ErrLoadFailed):
		problem = apierrors.ErrGatewayFailed
	default:
		return apierrors.ProblemDetail{}, false
	}
	return problem.WithDetail(err.Error()), true
}
