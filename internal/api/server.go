package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/yizeng/gab/gin/gorm/housing-events/docs"
	v1 "github.com/yizeng/gab/gin/gorm/housing-events/internal/api/handler/v1"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/api/middleware"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/config"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/repository"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/service"
)

// Services are the collaborators the handlers need besides the store.
type Services struct {
	Notifier  service.Notifier
	Extractor service.EventExtractor
	Admin     v1.AdminService
}

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
	Feed   *v1.FeedHandler
}

func NewServer(conf *config.AppConfig, store *repository.Store, svcs Services) (*Server, error) {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
		Feed:   v1.NewFeedHandler(),
	}

	loc, err := conf.API.Location()
	if err != nil {
		return nil, err
	}

	s.MountMiddlewares()

	eventHandler := v1.NewEventHandler(service.NewEventService(store))
	registrationHandler := v1.NewRegistrationHandler(
		service.NewRegistrationService(store, svcs.Notifier),
		service.NewExportService(store, loc),
	)
	importHandler := v1.NewImportHandler(service.NewImportService(store, svcs.Extractor))
	adminHandler := v1.NewAdminHandler(conf.API, svcs.Admin)

	store.OnChange(s.Feed.Publish)

	s.MountHandlers(eventHandler, registrationHandler, importHandler, adminHandler, s.Feed)

	return s, nil
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	eventHandler *v1.EventHandler,
	registrationHandler *v1.RegistrationHandler,
	importHandler *v1.ImportHandler,
	adminHandler *v1.AdminHandler,
	feedHandler *v1.FeedHandler,
) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.GET("/events", eventHandler.HandleListEvents)
		public.GET("/events/:eventID", eventHandler.HandleGetEvent)
		public.POST("/events/:eventID/registrations", registrationHandler.HandleRegister)

		public.POST("/admin/login", adminHandler.HandleLogin)
		public.POST("/admin/logout", adminHandler.HandleLogout)
	}

	admin := s.Router.Group(basePath+"/admin", middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		admin.GET("/events", eventHandler.HandleListEvents)
		admin.POST("/events", eventHandler.HandleCreateEvent)
		admin.POST("/events/import", importHandler.HandleImportEvents)
		admin.GET("/events/past", eventHandler.HandleListPastEvents)
		admin.DELETE("/events/past", eventHandler.HandleDeletePastEvents)
		admin.GET("/events/:eventID", eventHandler.HandleGetEvent)
		admin.PATCH("/events/:eventID", eventHandler.HandleUpdateEvent)
		admin.DELETE("/events/:eventID", eventHandler.HandleDeleteEvent)
		admin.POST("/events/:eventID/toggle", eventHandler.HandleToggleEvent)
		admin.POST("/events/:eventID/fields", eventHandler.HandleAddFormField)
		admin.PATCH("/events/:eventID/fields/:index", eventHandler.HandleUpdateFormField)
		admin.DELETE("/events/:eventID/fields/:index", eventHandler.HandleRemoveFormField)

		admin.GET("/registrations", registrationHandler.HandleListRegistrations)
		admin.GET("/registrations/export", registrationHandler.HandleExportRegistrations)

		admin.GET("/feed", feedHandler.HandleFeed)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Housing Events API"
	docs.SwaggerInfo.Description = "Event registration for the community housing portal."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
