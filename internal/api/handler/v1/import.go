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

const msgExtractionFailed = "failed to extract events from the text, please try again"

type ImportService interface {
	Import(ctx context.Context, text string) ([]domain.Event, error)
}

type ImportHandler struct {
	svc ImportService
}

func NewImportHandler(svc ImportService) *ImportHandler {
	return &ImportHandler{
		svc: svc,
	}
}

// HandleImportEvents godoc
// @Summary      Import events from free text
// @Description  Extracts events with the AI model and adds all of them, or none.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body      request.ImportRequest  true  "request body"
// @Success      201      {array}   response.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      502      {object}  response.Err
// @Failure      503      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/events/import [post]
// @Security BearerAuth
func (h *ImportHandler) HandleImportEvents(ctx *gin.Context) {
	var req request.ImportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	events, err := h.svc.Import(ctx.Request.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyImportText):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrMissingCredential):
			response.RenderErr(ctx, response.ErrServiceUnavailable(err))
		case errors.Is(err, service.ErrExtractionFailed):
			err = fmt.Errorf("HandleImportEvents -> h.svc.Import -> %w", err)
			response.RenderErr(ctx, response.ErrBadGateway(err, msgExtractionFailed))
		default:
			err = fmt.Errorf("HandleImportEvents -> h.svc.Import -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, response.NewEvents(events))
}
