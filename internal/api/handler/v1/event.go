package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/housing-events/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/domain"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/service"
)

type EventService interface {
	ListEvents(filter service.EventFilter) ([]service.EventOverview, error)
	GetEvent(id string) (service.EventOverview, error)
	CreateEvent(ctx context.Context, e domain.Event) (domain.Event, error)
	UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (domain.Event, error)
	ToggleEvent(ctx context.Context, id string) (domain.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	PastEvents() []domain.Event
	DeletePastEvents(ctx context.Context) ([]string, error)
	AddFormField(ctx context.Context, id string) (domain.Event, error)
	UpdateFormField(ctx context.Context, id string, index int, patch domain.FormFieldPatch) (domain.Event, error)
	RemoveFormField(ctx context.Context, id string, index int) (domain.Event, error)
}

type EventHandler struct {
	svc EventService
}

func NewEventHandler(svc EventService) *EventHandler {
	return &EventHandler{
		svc: svc,
	}
}

// HandleListEvents godoc
// @Summary      List events
// @Description  Lists events with their registration status. filter is one of all, upcoming, past.
// @Tags         events
// @Produce      json
// @Param        filter  query     string  false  "all | upcoming | past"
// @Success      200     {array}   response.EventCard
// @Failure      400     {object}  response.Err
// @Router       /events [get]
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	filter, err := service.ParseEventFilter(ctx.Query("filter"))
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	overviews, err := h.svc.ListEvents(filter)
	if err != nil {
		err = fmt.Errorf("HandleListEvents -> h.svc.ListEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewEventCards(overviews))
}

// HandleGetEvent godoc
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Param        eventID  path      string  true  "event ID"
// @Success      200      {object}  response.EventCard
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	eventID := ctx.Param("eventID")

	overview, err := h.svc.GetEvent(eventID)
	if err != nil {
		h.renderEventErr(ctx, eventID, "HandleGetEvent -> h.svc.GetEvent", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewEventCard(overview))
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Description  title and date are required. Omitting form_fields gives the default name, phone and email fields.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateEventRequest  true  "request body"
// @Success      201      {object}  response.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/events [post]
// @Security BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.CreateEvent(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		h.renderEventErr(ctx, "", "HandleCreateEvent -> h.svc.CreateEvent", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.NewEvent(event))
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Description  Only the keys present in the body are changed.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                      true  "event ID"
// @Param        request  body      request.UpdateEventRequest  true  "request body"
// @Success      200      {object}  response.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/events/{eventID} [patch]
// @Security BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	eventID := ctx.Param("eventID")

	var req request.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.UpdateEvent(ctx.Request.Context(), eventID, req.ToDomain())
	if err != nil {
		h.renderEventErr(ctx, eventID, "HandleUpdateEvent -> h.svc.UpdateEvent", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewEvent(event))
}

// HandleToggleEvent godoc
// @Summary      Open or close registration
// @Tags         admin
// @Produce      json
// @Param        eventID  path      string  true  "event ID"
// @Success      200      {object}  response.Event
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/events/{eventID}/toggle [post]
// @Security BearerAuth
func (h *EventHandler) HandleToggleEvent(ctx *gin.Context) {
	eventID := ctx.Param("eventID")

	event, err := h.svc.ToggleEvent(ctx.Request.Context(), eventID)
	if err != nil {
		h.renderEventErr(ctx, eventID, "HandleToggleEvent -> h.svc.ToggleEvent", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewEvent(event))
}

// HandleDeleteEvent godoc
// @Summary      Delete an event
// @Description  Registrations of the event are kept.
// @Tags         admin
// @Param        eventID  path  string  true  "event ID"
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/events/{eventID} [delete]
// @Security BearerAuth
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	eventID := ctx.Param("eventID")

	if err := h.svc.DeleteEvent(ctx.Request.Context(), eventID); err != nil {
		h.renderEventErr(ctx, eventID, "HandleDeleteEvent -> h.svc.DeleteEvent", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListPastEvents godoc
// @Summary      Preview past events
// @Description  Events dated before today, which a bulk delete would remove.
// @Tags         admin
// @Produce      json
// @Success      200  {array}   response.Event
// @Failure      401  {object}  response.Err
// @Router       /admin/events/past [get]
// @Security BearerAuth
func (h *EventHandler) HandleListPastEvents(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.NewEvents(h.svc.PastEvents()))
}

// HandleDeletePastEvents godoc
// @Summary      Delete all past events
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.BulkDelete
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/events/past [delete]
// @Security BearerAuth
func (h *EventHandler) HandleDeletePastEvents(ctx *gin.Context) {
	ids, err := h.svc.DeletePastEvents(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("HandleDeletePastEvents -> h.svc.DeletePastEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.BulkDelete{Deleted: len(ids), IDs: ids})
}

// renderEventErr maps service errors to responses. Client errors carry the
// service message; anything else is logged with the call chain.
func (h *EventHandler) renderEventErr(ctx *gin.Context, eventID, caller string, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
	case errors.Is(err, service.ErrFieldIndexOutOfRange):
		response.RenderErr(ctx, response.ErrNotFound("form field", "index", ctx.Param("index")))
	case errors.Is(err, service.ErrMissingRequiredFields),
		errors.Is(err, service.ErrNegativeParticipants),
		errors.Is(err, service.ErrInvalidEvent):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%v -> %w", caller, err)))
	}
}
