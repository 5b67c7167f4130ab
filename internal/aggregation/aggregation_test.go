package aggregation

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
)

var base = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func trap(id uint, active bool) models.Trap {
	return models.Trap{ID: id, Number: "OV-" + string(rune('A'+id)), Active: active}
}

func coleta(id, trapID uint, ovos int, tipo models.ReadingType) models.Collection {
	return models.Collection{ID: id, TrapID: trapID, EggCount: ovos, ReadingType: tipo, CollectedAt: base.AddDate(0, 0, int(id))}
}

func TestDashboard_EmptySnapshot(t *testing.T) {
	stats := Dashboard(Snapshot{})
	assert.Equal(t, DashboardStats{}, stats)
}

func TestDashboard_ActiveMunicipalities(t *testing.T) {
	stats := Dashboard(Snapshot{Municipalities: []models.Municipality{
		{ID: 1, Name: "Pelotas", Active: true},
		{ID: 2, Name: "Rio Grande", Active: false},
	}})
	assert.Equal(t, 1, stats.ActiveMunicipalities)
}

func TestDashboard_PositiveTrapsCountsTrapsNotCollections(t *testing.T) {
	stats := Dashboard(Snapshot{
		Traps: []models.Trap{trap(1, true), trap(2, true)},
		Collections: []models.Collection{
			coleta(1, 1, 0, models.FirstReading),
			coleta(2, 1, 2, models.SecondReading),
			coleta(3, 2, 0, models.FirstReading),
		},
	})

	assert.Equal(t, 2, stats.InstalledTraps)
	assert.Equal(t, 1, stats.PositiveTraps)
	assert.Equal(t, 3, stats.CompletedCollections)
	assert.Equal(t, 50.0, stats.PositivityRate)
}

func TestDashboard_PositiveInBothReadingsCountsOnce(t *testing.T) {
	stats := Dashboard(Snapshot{
		Traps: []models.Trap{trap(1, true)},
		Collections: []models.Collection{
			coleta(1, 1, 5, models.FirstReading),
			coleta(2, 1, 9, models.SecondReading),
		},
	})
	assert.Equal(t, 1, stats.PositiveTraps)
}

func TestDashboard_InactiveTrapsExcluded(t *testing.T) {
	stats := Dashboard(Snapshot{
		Traps:       []models.Trap{trap(1, true), trap(2, false)},
		Collections: []models.Collection{coleta(1, 2, 7, models.FirstReading)},
	})
	assert.Equal(t, 1, stats.InstalledTraps)
	assert.Equal(t, 0, stats.PositiveTraps)
	assert.Equal(t, 1, stats.CompletedCollections)
}

func TestDashboard_CollectionWithoutDateNotCompleted(t *testing.T) {
	c := coleta(1, 1, 0, models.FirstReading)
	c.CollectedAt = time.Time{}
	stats := Dashboard(Snapshot{Traps: []models.Trap{trap(1, true)}, Collections: []models.Collection{c}})
	assert.Equal(t, 0, stats.CompletedCollections)
}

func TestPositivityRate(t *testing.T) {
	assert.Equal(t, 0.0, PositivityRate(0, 0))
	assert.Equal(t, 0.0, PositivityRate(0, 5))
	assert.Equal(t, 30.0, PositivityRate(10, 3))
	assert.Equal(t, 100.0, PositivityRate(4, 4))
}

func TestDeriveBulletinTotals_Scenario(t *testing.T) {
	traps := []models.Trap{trap(1, true), trap(2, true), trap(3, true), trap(4, true), trap(5, true)}
	cols := []models.Collection{
		coleta(1, 1, 0, models.FirstReading),
		coleta(2, 2, 0, models.FirstReading),
		coleta(3, 3, 0, models.FirstReading),
		coleta(4, 4, 4, models.FirstReading),
		coleta(5, 5, 7, models.FirstReading),
	}

	totals, err := DeriveBulletinTotals(traps, cols)
	require.NoError(t, err)
	assert.Equal(t, BulletinTotals{TotalTraps: 5, NegativePaddles: 3, PositivePaddles: 2, TotalEggs: 11}, totals)
}

func TestDeriveBulletinTotals_TrapWithoutCollectionsIsNegative(t *testing.T) {
	totals, err := DeriveBulletinTotals([]models.Trap{trap(1, true), trap(2, true)},
		[]models.Collection{coleta(1, 1, 3, models.FirstReading)})
	require.NoError(t, err)
	assert.Equal(t, 2, totals.TotalTraps)
	assert.Equal(t, 1, totals.NegativePaddles)
	assert.Equal(t, 1, totals.PositivePaddles)
}

func TestDeriveBulletinTotals_SumsBothReadings(t *testing.T) {
	totals, err := DeriveBulletinTotals([]models.Trap{trap(1, true)}, []models.Collection{
		coleta(1, 1, 10, models.FirstReading),
		coleta(2, 1, 20, models.SecondReading),
	})
	require.NoError(t, err)
	assert.Equal(t, 30, totals.TotalEggs)
	assert.Equal(t, 1, totals.PositivePaddles)
}

func TestDeriveBulletinTotals_ObservationCodeDoesNotHideEggs(t *testing.T) {
	code := models.ObsPoucaAgua
	c := coleta(1, 1, 12, models.FirstReading)
	c.ObservationCode = &code

	totals, err := DeriveBulletinTotals([]models.Trap{trap(1, true)}, []models.Collection{c})
	require.NoError(t, err)
	assert.Equal(t, 1, totals.PositivePaddles)
	assert.Equal(t, 12, totals.TotalEggs)
}

func TestDeriveBulletinTotals_CollectionOutsideScope(t *testing.T) {
	_, err := DeriveBulletinTotals([]models.Trap{trap(1, true)},
		[]models.Collection{coleta(9, 2, 1, models.FirstReading)})

	var inErr *InputError
	require.True(t, errors.As(err, &inErr))
	assert.Equal(t, uint(2), inErr.TrapID)
	assert.Equal(t, uint(9), inErr.CollectionID)
}

func TestDeriveBulletinTotals_DuplicateTrap(t *testing.T) {
	_, err := DeriveBulletinTotals([]models.Trap{trap(1, true), trap(1, true)}, nil)
	var inErr *InputError
	assert.True(t, errors.As(err, &inErr))
}

func TestDeriveBulletinTotals_NegativeEggs(t *testing.T) {
	_, err := DeriveBulletinTotals([]models.Trap{trap(1, true)},
		[]models.Collection{coleta(1, 1, -1, models.FirstReading)})
	var inErr *InputError
	assert.True(t, errors.As(err, &inErr))
}

func TestDeriveBulletinTotals_EmptyScope(t *testing.T) {
	totals, err := DeriveBulletinTotals(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, BulletinTotals{}, totals)
}

// Para qualquer escopo: positivas + negativas == armadilhas e total de ovos
// == soma das coletas.
func TestDeriveBulletinTotals_Reconciles(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		n := rng.Intn(30)
		traps := make([]models.Trap, n)
		for j := range traps {
			traps[j] = trap(uint(j+1), true)
		}

		var cols []models.Collection
		sum := 0
		if n > 0 {
			m := rng.Intn(60)
			for k := 0; k < m; k++ {
				ovos := 0
				if rng.Intn(3) == 0 {
					ovos = rng.Intn(200)
				}
				sum += ovos
				tipo := models.ReadingTypes[rng.Intn(2)]
				cols = append(cols, coleta(uint(k+1), uint(rng.Intn(n)+1), ovos, tipo))
			}
		}

		totals, err := DeriveBulletinTotals(traps, cols)
		require.NoError(t, err)
		assert.Equal(t, n, totals.TotalTraps)
		assert.Equal(t, totals.TotalTraps, totals.PositivePaddles+totals.NegativePaddles)
		assert.Equal(t, sum, totals.TotalEggs)
	}
}
