package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/config"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/controllers"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/database"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/integrations/contaovos"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/logger"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/services"
)

func main() {
	// Carregar as configs
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Falha ao carregar configs")
	}

	root, err := logger.New(cfg.Log)
	if err != nil {
		logrus.WithError(err).Fatal("Falha ao configurar log")
	}
	log := logger.Component(root, "server")

	// Conectar ao banco
	db, err := database.Connect(cfg.DB, root)
	if err != nil {
		log.WithError(err).Fatal("Falha ao conectar banco de dados")
	}
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.WithError(err).Fatal("migration failed")
		}
	}
	log.WithField("db", cfg.DB.String()).Info("banco conectado")
	loc := cfg.Location()

	// Serviços
	var integrationOpts []services.IntegrationOption
	if client := contaovos.New(cfg.ContaOvos, loc, logger.Component(root, "conta-ovos")); client != nil {
		integrationOpts = append(integrationOpts, services.WithContaOvos(client))
	} else {
		log.Warn("CONTA_OVOS_URL nao definida; sincronizacao desativada")
	}

	userSvc := services.NewUserService(db, logger.Component(root, "usuarios"))
	municipalitySvc := services.NewMunicipalityService(db, logger.Component(root, "municipios"))
	localitySvc := services.NewLocalityService(db, logger.Component(root, "localidades"))
	blockSvc := services.NewBlockService(db, logger.Component(root, "quarteiroes"))
	trapSvc := services.NewTrapService(db, logger.Component(root, "ovitrampas"), loc)
	collectionSvc := services.NewCollectionService(db, logger.Component(root, "coletas"), loc)
	bulletinSvc := services.NewBulletinService(db, logger.Component(root, "boletins"), loc)
	statsSvc := services.NewStatsService(db, logger.Component(root, "stats"))
	integrationSvc := services.NewIntegrationService(db, logger.Component(root, "integracoes"), integrationOpts...)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.Validator = controllers.NewRequestValidator()
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, controllers.HeaderUserID},
	}))
	e.Use(requestLogger(logger.Component(root, "http")))

	// Rotas
	api := e.Group("/api", controllers.ActorMiddleware())
	controllers.NewUserController(userSvc).Register(api)
	controllers.NewMunicipalityController(municipalitySvc).Register(api)
	controllers.NewLocalityController(localitySvc).Register(api)
	controllers.NewBlockController(blockSvc).Register(api)
	controllers.NewTrapController(trapSvc).Register(api)
	controllers.NewCollectionController(collectionSvc).Register(api)
	controllers.NewBulletinController(bulletinSvc).Register(api)
	controllers.NewStatsController(statsSvc, func() error { return database.Ping(db) }).Register(api)
	controllers.NewIntegrationController(integrationSvc).Register(api)

	// Roda servidor com desligamento gracioso
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.WithField("addr", cfg.ServerAddress).Info("servidor iniciado")
		if err := e.Start(cfg.ServerAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("erro no servidor")
		}
	}()

	<-done
	log.Info("desligando servidor...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("erro ao desligar servidor")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("servidor parado")
}

func requestLogger(log *logrus.Entry) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"request_id": v.RequestID,
			})
			switch {
			case v.Error != nil:
				entry.WithError(v.Error).Error("request")
			case v.Status >= http.StatusInternalServerError:
				entry.Error("request")
			default:
				entry.Info("request")
			}
			return nil
		},
	})
}
