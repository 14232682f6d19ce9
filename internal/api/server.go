package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/zumnet/numeros-sorte/docs"
	v1 "github.com/zumnet/numeros-sorte/internal/api/handler/v1"
	"github.com/zumnet/numeros-sorte/internal/api/middleware"
	"github.com/zumnet/numeros-sorte/internal/config"
	"github.com/zumnet/numeros-sorte/internal/pkg/jwthelper"
	"github.com/zumnet/numeros-sorte/internal/pkg/luckynumber"
	"github.com/zumnet/numeros-sorte/internal/repository"
	"github.com/zumnet/numeros-sorte/internal/repository/dao"
	"github.com/zumnet/numeros-sorte/internal/service"
)

type Server struct {
	Config   *config.AppConfig
	Router   *gin.Engine
	Registry *prometheus.Registry
	Metrics  *service.Metrics

	// Campaign is shared with the capacity monitor.
	Campaign *service.CampaignService
	Numbers  *service.NumberService
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		Config:   conf,
		Router:   engine,
		Registry: registry,
		Metrics:  service.NewMetrics(registry),
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	numberHandler := s.initNumberHandler(db)
	campaignHandler := s.initCampaignHandler(db)
	participantHandler := s.initParticipantHandler(db)
	s.MountHandlers(authHandler, numberHandler, campaignHandler, participantHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	participantDAO := dao.NewParticipantDAO(db)
	repo := repository.NewParticipantRepository(participantDAO)
	svc := service.NewAuthService(repo, s.Config.Admin)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initNumberHandler(db *gorm.DB) *v1.NumberHandler {
	s.Numbers = NewNumberService(s.Config.Campaign, db, s.Metrics)
	handler := v1.NewNumberHandler(s.Numbers)

	return handler
}

func (s *Server) initCampaignHandler(db *gorm.DB) *v1.CampaignHandler {
	repo := repository.NewCampaignRepository(dao.NewCampaignDAO(db))
	numbers := repository.NewLuckyNumberRepository(dao.NewLuckyNumberDAO(db))
	s.Campaign = service.NewCampaignService(repo, numbers)
	handler := v1.NewCampaignHandler(s.Campaign)

	return handler
}

func (s *Server) initParticipantHandler(db *gorm.DB) *v1.ParticipantHandler {
	repo := repository.NewParticipantRepository(dao.NewParticipantDAO(db))
	numbers := repository.NewLuckyNumberRepository(dao.NewLuckyNumberDAO(db))
	svc := service.NewParticipantService(repo, numbers)
	handler := v1.NewParticipantHandler(svc)

	return handler
}

// NewNumberService wires the allocation stack on db. The command line
// issuer uses it without the HTTP server.
func NewNumberService(conf *config.CampaignConfig, db *gorm.DB, metrics *service.Metrics) *service.NumberService {
	allocations := repository.NewAllocationRepository(dao.NewTransactor(db))
	numbers := repository.NewLuckyNumberRepository(dao.NewLuckyNumberDAO(db))
	generator := luckynumber.NewGenerator(luckynumber.NewSource(0))

	return service.NewNumberService(conf, allocations, numbers, generator, metrics)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New(requestid.WithGenerator(uuid.NewString)))
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	numberHandler *v1.NumberHandler,
	campaignHandler *v1.CampaignHandler,
	participantHandler *v1.ParticipantHandler,
) {
	const basePath = "/api/v1"

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", authHandler.HandleSignup)
		public.POST("/auth/login", authHandler.HandleLogin)
		public.POST("/auth/reset-password", authHandler.HandleResetPassword)
		public.POST("/admin/login", authHandler.HandleAdminLogin)
	}

	participants := s.Router.Group(basePath,
		authenticator.VerifyJWT(), middleware.RequireRole(jwthelper.RoleParticipant))
	{
		participants.GET("/participants/me/numbers", numberHandler.HandleListOwn)
		participants.POST("/participants/me/numbers/generate", numberHandler.HandleGenerateOwn)
	}

	admin := s.Router.Group(basePath,
		authenticator.VerifyJWT(), middleware.RequireRole(jwthelper.RoleAdmin))
	{
		admin.POST("/numbers/generate", numberHandler.HandleGenerate)
		admin.GET("/admin/campaign", campaignHandler.HandleGetCampaign)
		admin.PUT("/admin/campaign", campaignHandler.HandleUpdateCampaign)
		admin.GET("/admin/campaign/stats", campaignHandler.HandleGetStats)
		admin.GET("/admin/participants", participantHandler.HandleSearch)
		admin.GET("/admin/participants/:documento/numbers", participantHandler.HandleGetParticipantNumbers)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{Registry: s.Registry})))

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Números da Sorte API"
	docs.SwaggerInfo.Description = "Participant registration and unique lucky number issuing for promotional campaigns."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
