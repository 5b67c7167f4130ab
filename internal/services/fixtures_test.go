package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/database"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/logger"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
)

// setupTestDB abre um SQLite em memória exclusivo do teste e migra todos os modelos.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err, "não foi possivel abrir DB de teste")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db), "falha na migração")
	return db
}

// testLoc é o fuso padrão dos testes; brt reproduz o horário de Brasília.
var (
	testLoc = time.UTC
	brt     = time.FixedZone("BRT", -3*60*60)
)

func testLog() *logrus.Entry {
	return logrus.NewEntry(logger.Discard())
}

func date(s string) time.Time {
	t, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// fixture monta a hierarquia município > localidade > quarteirão usada
// pela maioria dos testes.
type fixture struct {
	db       *gorm.DB
	actor    Actor
	muni     models.Municipality
	locality models.Locality
	block    models.Block
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)
	f := &fixture{db: db}

	user := models.User{Username: "agente1", Name: "Agente Um", Role: models.RoleAgent}
	require.NoError(t, db.Create(&user).Error)
	f.actor = Actor{UserID: user.ID}

	f.muni = models.Municipality{Name: "Santa Maria", State: "RS", Active: true}
	require.NoError(t, db.Create(&f.muni).Error)

	f.locality = models.Locality{Name: "Centro", MunicipalityID: f.muni.ID, Active: true}
	require.NoError(t, db.Create(&f.locality).Error)

	f.block = models.Block{Number: "Q-01", LocalityID: f.locality.ID}
	require.NoError(t, db.Create(&f.block).Error)
	return f
}

func (f *fixture) trap(t *testing.T, number string, installed string) models.Trap {
	t.Helper()
	tr := models.Trap{
		Number:         number,
		Address:        "Rua " + number,
		BlockID:        f.block.ID,
		MunicipalityID: f.muni.ID,
		UserID:         f.actor.UserID,
		Active:         true,
	}
	if installed != "" {
		at := date(installed)
		tr.InstalledAt = &at
	}
	require.NoError(t, f.db.Create(&tr).Error)
	return tr
}

func (f *fixture) collection(t *testing.T, trap models.Trap, rt models.ReadingType, when string, eggs int) models.Collection {
	t.Helper()
	c := models.Collection{
		TrapID:      trap.ID,
		CollectedAt: date(when),
		EggCount:    eggs,
		ReadingType: rt,
		UserID:      f.actor.UserID,
	}
	require.NoError(t, f.db.Create(&c).Error)
	return c
}

func strPtr(s string) *string { return &s }
func uintPtr(v uint) *uint    { return &v }
func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }
