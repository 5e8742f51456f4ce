package server

import (
	"net/http"
	"time"

	"emotion-service/internal/config"
	"emotion-service/internal/handler"
	"emotion-service/internal/middleware"
	"emotion-service/internal/repository"
	"emotion-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	logger *zap.Logger
}

func NewServer(db *sqlx.DB, cfg *config.Config, classifier service.Classifier, logger *zap.Logger, log *logrus.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router: router,
		logger: logger,
	}

	s.setupRoutes(db, cfg, classifier, log)

	return s
}

func (s *Server) setupRoutes(db *sqlx.DB, cfg *config.Config, classifier service.Classifier, log *logrus.Logger) {
	// Initialize Auth components
	authRepo := repository.NewAuthRepository(db, s.logger)
	authService := service.NewAuthService(authRepo, cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute, s.logger)
	authHandler := handler.NewAuthHandler(authService, log)

	// Initialize Emotion components
	emotionRepo := repository.NewEmotionRepository(db, s.logger)
	emotionService := service.NewEmotionService(emotionRepo, classifier,
		service.NewImageValidator(cfg.Image.MaxSizeBytes),
		service.NewTaxonomy(), service.NewAccessPolicy(), s.logger)
	emotionHandler := handler.NewEmotionHandler(emotionService, s.logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Authentication routes
	authGroup := s.router.Group("/api/v1/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Authenticated routes
	authRequired := s.router.Group("/api/v1")
	authRequired.Use(middleware.AuthMiddleware(authService, s.logger))
	{
		authRequired.POST("/emotions", emotionHandler.Upload)
		authRequired.GET("/emotions", emotionHandler.List)
		authRequired.GET("/emotions/:id", emotionHandler.Get)
		authRequired.PUT("/emotions/:id", emotionHandler.Update)
		authRequired.DELETE("/emotions/:id", emotionHandler.Delete)
	}
}

func (s *Server) Run(addr string) {
	s.logger.Info("Server starting", zap.String("addr", addr))
	if err := s.router.Run(addr); err != nil {
		s.logger.Fatal("Server failed to start", zap.Error(err))
	}
}
