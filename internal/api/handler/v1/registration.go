package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/housing-events/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/domain"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/service"
)

const (
	ReasonClosed  = "closed"
	ReasonExpired = "expired"
	ReasonFull    = "full"
)

type RegistrationService interface {
	Register(ctx context.Context, eventID string, formData map[string]string) (domain.Registration, error)
	ListRegistrations(eventID string) []service.RegistrationEntry
}

type ExportService interface {
	Export(eventID string) (service.CSVFile, error)
}

type RegistrationHandler struct {
	svc       RegistrationService
	exportSvc ExportService
}

func NewRegistrationHandler(svc RegistrationService, exportSvc ExportService) *RegistrationHandler {
	return &RegistrationHandler{
		svc:       svc,
		exportSvc: exportSvc,
	}
}

// HandleRegister godoc
// @Summary      Register for an event
// @Description  Blocks while the confirmation is sent. Nothing is recorded when sending fails.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                   true  "event ID"
// @Param        request  body      request.RegisterRequest  true  "request body"
// @Success      201      {object}  response.Registration
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err  "reason is closed, expired or full"
// @Failure      502      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/registrations [post]
func (h *RegistrationHandler) HandleRegister(ctx *gin.Context) {
	eventID := ctx.Param("eventID")

	var req request.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reg, err := h.svc.Register(ctx.Request.Context(), eventID, req.FormData)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrRegistrationClosed):
			response.RenderErr(ctx, response.ErrConflict(err, ReasonClosed))
		case errors.Is(err, service.ErrRegistrationExpired):
			response.RenderErr(ctx, response.ErrConflict(err, ReasonExpired))
		case errors.Is(err, service.ErrEventFull):
			response.RenderErr(ctx, response.ErrConflict(err, ReasonFull))
		case errors.Is(err, service.ErrInvalidSubmission):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrNotificationFailed):
			err = fmt.Errorf("HandleRegister -> h.svc.Register -> %w", err)
			response.RenderErr(ctx, response.ErrBadGateway(err, service.ErrNotificationFailed.Error()))
		default:
			err = fmt.Errorf("HandleRegister -> h.svc.Register -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, response.NewRegistration(reg))
}

// HandleListRegistrations godoc
// @Summary      List registrations
// @Description  Newest first. event_id narrows the list to one event.
// @Tags         admin
// @Produce      json
// @Param        event_id  query     string  false  "event ID"
// @Success      200       {array}   response.Registration
// @Failure      401       {object}  response.Err
// @Router       /admin/registrations [get]
// @Security BearerAuth
func (h *RegistrationHandler) HandleListRegistrations(ctx *gin.Context) {
	entries := h.svc.ListRegistrations(ctx.Query("event_id"))

	ctx.JSON(http.StatusOK, response.NewRegistrationEntries(entries))
}

// HandleExportRegistrations godoc
// @Summary      Export registrations as CSV
// @Description  UTF-8 with a byte order mark. event_id narrows the export to one event.
// @Tags         admin
// @Produce      text/csv
// @Param        event_id  query     string  false  "event ID"
// @Success      200       {file}    file
// @Failure      401       {object}  response.Err
// @Failure      422       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /admin/registrations/export [get]
// @Security BearerAuth
func (h *RegistrationHandler) HandleExportRegistrations(ctx *gin.Context) {
	file, err := h.exportSvc.Export(ctx.Query("event_id"))
	if err != nil {
		if errors.Is(err, service.ErrNothingToExport) {
			response.RenderErr(ctx, response.ErrUnprocessable(err))
			return
		}

		err = fmt.Errorf("HandleExportRegistrations -> h.exportSvc.Export -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Header("Content-Disposition", contentDisposition(file.Name))
	ctx.Data(http.StatusOK, "text/csv;charset=utf-8", file.Content)
}

func contentDisposition(name string) string {
	return fmt.Sprintf(`attachment; filename="export.csv"; filename*=UTF-8''%s`, url.PathEscape(name))
}
