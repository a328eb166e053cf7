package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/housing-events/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/api/handler/v1/response"
)

var errInvalidFieldIndex = errors.New("field index must be a non-negative integer")

func fieldIndex(ctx *gin.Context) (int, bool) {
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil || index < 0 {
		response.RenderErr(ctx, response.ErrBadRequest(errInvalidFieldIndex))
		return 0, false
	}
	return index, true
}

// HandleAddFormField godoc
// @Summary      Append a form field
// @Description  Appends an optional text field named field_<unix ms>.
// @Tags         admin
// @Produce      json
// @Param        eventID  path      string  true  "event ID"
// @Success      201      {object}  response.Event
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/events/{eventID}/fields [post]
// @Security BearerAuth
func (h *EventHandler) HandleAddFormField(ctx *gin.Context) {
	eventID := ctx.Param("eventID")

	event, err := h.svc.AddFormField(ctx.Request.Context(), eventID)
	if err != nil {
		h.renderEventErr(ctx, eventID, "HandleAddFormField -> h.svc.AddFormField", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.NewEvent(event))
}

// HandleUpdateFormField godoc
// @Summary      Update a form field
// @Description  options may be a list or a comma-separated string.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                          true  "event ID"
// @Param        index    path      int                             true  "field position"
// @Param        request  body      request.UpdateFormFieldRequest  true  "request body"
// @Success      200      {object}  response.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/events/{eventID}/fields/{index} [patch]
// @Security BearerAuth
func (h *EventHandler) HandleUpdateFormField(ctx *gin.Context) {
	eventID := ctx.Param("eventID")
	index, ok := fieldIndex(ctx)
	if !ok {
		return
	}

	var req request.UpdateFormFieldRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.UpdateFormField(ctx.Request.Context(), eventID, index, req.ToDomain())
	if err != nil {
		h.renderEventErr(ctx, eventID, "HandleUpdateFormField -> h.svc.UpdateFormField", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewEvent(event))
}

// HandleRemoveFormField godoc
// @Summary      Remove a form field
// @Tags         admin
// @Produce      json
// @Param        eventID  path      string  true  "event ID"
// @Param        index    path      int     true  "field position"
// @Success      200      {object}  response.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/events/{eventID}/fields/{index} [delete]
// @Security BearerAuth
func (h *EventHandler) HandleRemoveFormField(ctx *gin.Context) {
	eventID := ctx.Param("eventID")
	index, ok := fieldIndex(ctx)
	if !ok {
		return
	}

	event, err := h.svc.RemoveFormField(ctx.Request.Context(), eventID, index)
	if err != nil {
		h.renderEventErr(ctx, eventID, "HandleRemoveFormField -> h.svc.RemoveFormField", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewEvent(event))
}
