package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/database/migrations"
)

const schemaFile = "ovitrampas_schema.sql"

// expectedTables são verificadas depois de aplicar o schema.
var expectedTables = []string{
	"users", "municipios", "localidades", "quarteiroes",
	"ovitrampas", "coletas", "boletins", "integration_runs",
}

// ApplySchema executa o schema SQL embutido no Postgres e registra a versão
// em schema_migrations. Se a versão já estiver registrada não faz nada e
// devolve false.
func ApplySchema(ctx context.Context, pool *pgxpool.Pool, log *logrus.Entry) (bool, error) {
	schemaSQL, err := migrations.Files.ReadFile(schemaFile)
	if err != nil {
		return false, fmt.Errorf("erro ao ler schema embutido: %w", err)
	}

	var tableExists bool
	err = pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM pg_tables
			WHERE schemaname = 'public' AND tablename = 'schema_migrations'
		)`).Scan(&tableExists)
	if err != nil {
		log.WithError(err).Warn("erro ao verificar schema_migrations")
	}

	if tableExists {
		var applied bool
		err = pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`,
			migrations.Version).Scan(&applied)
		if err == nil && applied {
			log.WithField("version", migrations.Version).Info("schema ja aplicado")
			return false, nil
		}
	}

	start := time.Now()
	if _, err := pool.Exec(ctx, string(schemaSQL)); err != nil {
		return false, fmt.Errorf("erro ao executar schema: %w", err)
	}
	if _, err := pool.Exec(ctx,
		`INSERT INTO schema_migrations (version) VALUES ($1) ON CONFLICT (version) DO NOTHING`,
		migrations.Version); err != nil {
		return false, fmt.Errorf("erro ao registrar versao: %w", err)
	}
	log.WithFields(logrus.Fields{
		"version":  migrations.Version,
		"duration": time.Since(start).String(),
	}).Info("schema aplicado")

	verifyTables(ctx, pool, log)
	return true, nil
}

func verifyTables(ctx context.Context, pool *pgxpool.Pool, log *logrus.Entry) {
	for _, table := range expectedTables {
		var exists bool
		err := pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM pg_tables WHERE schemaname = 'public' AND tablename = $1)`,
			table).Scan(&exists)
		if err != nil || !exists {
			log.WithField("table", table).Error("tabela nao encontrada")
			continue
		}
		log.WithField("table", table).Debug("tabela verificada")
	}
}
