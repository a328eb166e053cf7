package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/housing-events/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/config"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/pkg/jwthelper"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/service"
)

type AdminService interface {
	Login(ctx context.Context, password string) error
}

type AdminHandler struct {
	conf *config.APIConfig
	svc  AdminService
}

func NewAdminHandler(conf *config.APIConfig, svc AdminService) *AdminHandler {
	return &AdminHandler{
		conf: conf,
		svc:  svc,
	}
}

// HandleLogin godoc
// @Summary      Log in as admin
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body      request.LoginRequest  true  "request body"
// @Success      200      {object}  response.LoginResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/login [post]
func (h *AdminHandler) HandleLogin(ctx *gin.Context) {
	var req request.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.Login(ctx.Request.Context(), req.Password); err != nil {
		if errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))
			return
		}

		err = fmt.Errorf("HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	token, expiresAt, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), ctx.Request.UserAgent(), h.conf.JWTTTL)
	if err != nil {
		err = fmt.Errorf("HandleLogin -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
	})
}

// HandleLogout godoc
// @Summary      Log out
// @Description  Tokens are not tracked server-side; the client drops its token.
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.Message
// @Router       /admin/logout [post]
func (h *AdminHandler) HandleLogout(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.Message{Message: "logged out"})
}
