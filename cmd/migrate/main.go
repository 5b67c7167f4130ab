package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/config"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/database"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/logger"
)

// Aplica o schema SQL versionado no Postgres. Em dev o servidor pode usar
// DB_AUTO_MIGRATE; em produção rode este comando antes do deploy.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Falha ao carregar configs")
	}

	root, err := logger.New(cfg.Log)
	if err != nil {
		logrus.WithError(err).Fatal("Falha ao configurar log")
	}
	log := logger.Component(root, "migrate")

	if !strings.EqualFold(cfg.DB.Driver, "postgres") {
		log.WithField("driver", cfg.DB.Driver).Fatal("migrate so roda contra postgres; para sqlite use DB_AUTO_MIGRATE")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DB.PostgresDSN())
	if err != nil {
		log.WithError(err).Fatal("Erro ao conectar ao banco")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.WithError(err).Fatal("Erro ao pingar o banco")
	}
	log.WithField("db", cfg.DB.String()).Info("conectado ao banco")

	applied, err := database.ApplySchema(ctx, pool, log)
	if err != nil {
		log.WithError(err).Error("migration falhou")
		pool.Close()
		os.Exit(1)
	}
	if applied {
		log.Info("migration executada com sucesso")
	}
}
