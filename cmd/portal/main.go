package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // zone data for APP_TIMEZONE on minimal images

	_ "gaportal/api/swagger" // swagger docs
	"gaportal/internal/apiclient"
	"gaportal/internal/config"
	"gaportal/internal/database"
	xlsexport "gaportal/internal/export/xls"
	"gaportal/internal/guard"
	"gaportal/internal/handler"
	"gaportal/internal/logger"
	"gaportal/internal/middleware"
	"gaportal/internal/repository"
	"gaportal/internal/service"
	"gaportal/internal/session"
	"gaportal/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           GA Portal API
// @version         1.0
// @description     Browser gateway of the General Affairs portal: sessions, role guard and page views over the GA backend.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatalf("Loading config failed: %v", err)
	}
	logger.Init(conf.App.LogLevel)
	gin.SetMode(conf.App.Mode)
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions, audits, txManager := openStores(ctx, conf)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	upstream := apiclient.New(conf.Upstream.BaseURL, conf.UpstreamTimeout())
	manager := session.NewManager(upstream, sessions, conf.SessionTTL())
	signer := session.NewSigner(conf.Auth.JWTSecret)
	cookies := middleware.NewSessionCookies(manager, signer, conf.Auth.CookieName, conf.SessionTTL(), conf.App.Mode == gin.ReleaseMode)
	loginLimiter := middleware.NewRateLimiter(conf.Auth.LoginAttempts, time.Duration(conf.Auth.LoginWindowSeconds)*time.Second)

	clock := service.InZone(time.Now, conf.Location())
	auditService := service.NewAuditService(audits)
	authService := service.NewAuthService(manager, txManager, auditService)
	dashboardService := service.NewDashboardService(conf.DashboardCeiling())
	procurementService := service.NewProcurementService(auditService, wsHub, clock)
	watcher := service.NewPipelineWatcher(procurementService, conf.PipelinePollInterval())

	handlers := []interface{ RegisterRoutes(*gin.RouterGroup) }{
		handler.NewAuthHandler(authService, cookies, loginLimiter),
		handler.NewDashboardHandler(dashboardService),
		handler.NewTodoHandler(service.NewTodoService(auditService, clock), service.NewAdminTodoService(auditService, clock)),
		handler.NewRequestHandler(service.NewRequestService(auditService), service.NewAdminRequestService(auditService, watcher)),
		handler.NewMeetingHandler(service.NewMeetingService(auditService, clock), service.NewAdminMeetingService(auditService, clock)),
		handler.NewAssetHandler(service.NewAssetService(auditService), service.NewAdminAssetService(auditService), service.NewProcurementAssetService(auditService)),
		handler.NewVisitorHandler(service.NewVisitorService(auditService, xlsexport.New(), clock), clock),
		handler.NewUserHandler(service.NewUserService(auditService)),
		handler.NewProcurementHandler(procurementService, watcher, wsHub),
		handler.NewAuditHandler(auditService),
	}

	go manager.RunJanitor(ctx, time.Hour)
	go resetLimiter(ctx, loginLimiter, time.Duration(conf.Auth.LoginWindowSeconds)*time.Second)

	// Set up Gin Router
	router := gin.New()
	router.Use(gin.Recovery(), logger.Middleware())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = conf.Origins()
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", logger.RequestIDHeader}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK", "sockets": wsHub.ClientCount()})
	})

	// Every page route sees the caller's session, if any
	portal := router.Group("", cookies.Restore())
	for _, h := range handlers {
		h.RegisterRoutes(portal)
	}
	router.NoRoute(func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.Redirect(http.StatusFound, guard.DashboardPath)
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "message": "Not found"})
	})

	srv := &http.Server{Addr: ":" + conf.App.Port, Handler: router}
	go func() {
		log.Infof("Server listening on :%s", conf.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
}

// openStores picks where sessions and the audit trail live.
func openStores(ctx context.Context, conf *config.Configuration) (repository.SessionRepository, repository.AuditRepository, repository.TransactionManager) {
	switch conf.Session.Store {
	case "postgres":
		db, err := database.NewConnection(conf.DSN())
		if err != nil {
			log.Fatalf("Database connection failed: %v", err)
		}
		log.Info("Connected to PostgreSQL successfully.")
		return repository.NewSessionRepository(db), repository.NewAuditRepository(db), repository.NewTransactionManager(db)
	case "redis":
		client, err := repository.NewRedisClient(ctx, repository.RedisConfig{
			Host:        conf.Redis.Host,
			Port:        conf.Redis.Port,
			User:        conf.Redis.User,
			Password:    conf.Redis.Password,
			DialTimeout: time.Duration(conf.Redis.DialTimeoutSeconds) * time.Second,
			ReadTimeout: time.Duration(conf.Redis.ReadTimeoutSeconds) * time.Second,
		})
		if err != nil {
			log.Fatalf("Redis connection failed: %v", err)
		}
		log.Info("Connected to Redis successfully.")
		return repository.NewRedisSessionRepository(client), repository.NewRedisAuditRepository(client), repository.NewDirectTransactionManager()
	default:
		log.Warn("Using in-memory session store; sessions are lost on restart")
		return repository.NewMemorySessionRepository(), repository.NewMemoryAuditRepository(), repository.NewDirectTransactionManager()
	}
}

// resetLimiter forgets login attempts every window.
func resetLimiter(ctx context.Context, limiter *middleware.RateLimiter, window time.Duration) {
	ticker := time.NewTicker(window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Reset()
		}
	}
}
