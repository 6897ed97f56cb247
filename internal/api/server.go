package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/lagerschema/lagerschema/docs"
	v1 "github.com/lagerschema/lagerschema/internal/api/handler/v1"
	"github.com/lagerschema/lagerschema/internal/api/middleware"
	"github.com/lagerschema/lagerschema/internal/config"
	"github.com/lagerschema/lagerschema/internal/repository"
	"github.com/lagerschema/lagerschema/internal/schedule"
	"github.com/lagerschema/lagerschema/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, store repository.RemoteStore, view *schedule.Service) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	eventHandler := s.initEventHandler(store, view)
	scheduleHandler := v1.NewScheduleHandler(view)
	s.MountHandlers(eventHandler, scheduleHandler)

	return s
}

func (s *Server) initEventHandler(store repository.RemoteStore, view *schedule.Service) *v1.EventHandler {
	svc := service.NewSubmissionService(store, view, service.NewBackgroundRunner(), service.Config{
		BaseBranch:   s.Config.GitHub.BaseBranch,
		RegistryPath: s.Config.Schedule.RegistryPath,
		Environment:  schedule.Environment(s.Config.Schedule.Environment),
	})
	handler := v1.NewEventHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(eventHandler *v1.EventHandler, scheduleHandler *v1.ScheduleHandler) {
	const basePath = "/api/v1"

	routes := s.Router.Group(basePath)
	{
		routes.GET("/schedule", scheduleHandler.HandleGetSchedule)
		routes.GET("/camps", scheduleHandler.HandleGetCamps)
		routes.POST("/events", eventHandler.HandleCreateEvent)
		routes.PUT("/events/:eventID", eventHandler.HandleUpdateEvent)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Camp schedule API"
	docs.SwaggerInfo.Description = "Read and propose changes to a camp's activity schedule."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
