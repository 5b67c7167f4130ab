package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
)

func TestCreateTrap(t *testing.T) {
	f := newFixture(t)
	svc := NewTrapService(f.db, testLog(), testLoc)
	ctx := context.Background()

	lat := decimal.RequireFromString("-29.68412345")
	trap, err := svc.CreateTrap(ctx, f.actor, &models.CreateTrapRequest{
		Number:         "OV-001",
		Address:        "Rua do Acampamento, 100",
		ResidentName:   strPtr("Maria"),
		Latitude:       &lat,
		InstalledAt:    strPtr("2024-03-01"),
		BlockID:        f.block.ID,
		MunicipalityID: f.muni.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, f.actor.UserID, trap.UserID)
	assert.True(t, trap.Active)

	got, err := svc.GetTrap(ctx, trap.ID)
	require.NoError(t, err)
	assert.True(t, got.Latitude.Valid)
	assert.True(t, got.Latitude.Decimal.Equal(lat), "latitude %s", got.Latitude.Decimal)
	assert.False(t, got.Longitude.Valid)
	require.NotNil(t, got.InstalledAt)
	assert.Equal(t, "2024-03-01", got.InstalledAt.UTC().Format("2006-01-02"))
	require.NotNil(t, got.Block)
	assert.Equal(t, "Q-01", got.Block.Number)
}

func TestCreateTrap_BlockOfAnotherMunicipality(t *testing.T) {
	f := newFixture(t)
	other := models.Municipality{Name: "Outro", State: "RS", Active: true}
	require.NoError(t, f.db.Create(&other).Error)

	svc := NewTrapService(f.db, testLog(), testLoc)
	_, err := svc.CreateTrap(context.Background(), f.actor, &models.CreateTrapRequest{
		Number:         "OV-9",
		Address:        "Rua X",
		BlockID:        f.block.ID,
		MunicipalityID: other.ID,
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "quarteirao_id", ve.Fields[0].Field)
}

func TestUpdateTrap_Partial(t *testing.T) {
	f := newFixture(t)
	trap := f.trap(t, "OV-1", "2024-01-10")
	svc := NewTrapService(f.db, testLog(), testLoc)
	ctx := context.Background()

	lng := decimal.RequireFromString("-53.80691234")
	got, err := svc.UpdateTrap(ctx, f.actor, trap.ID, &models.TrapUpdate{
		Longitude:   &lng,
		InstalledAt: strPtr("2024-02-15"),
	})
	require.NoError(t, err)

	assert.Equal(t, "OV-1", got.Number)
	assert.Equal(t, trap.Address, got.Address)
	assert.True(t, got.Longitude.Decimal.Equal(lng))
	assert.Equal(t, "2024-02-15", got.InstalledAt.UTC().Format("2006-01-02"))
	assert.True(t, got.Active)

	got, err = svc.UpdateTrap(ctx, f.actor, trap.ID, &models.TrapUpdate{Active: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, "2024-02-15", got.InstalledAt.UTC().Format("2006-01-02"))
}

func TestUpdateTrap_Errors(t *testing.T) {
	f := newFixture(t)
	trap := f.trap(t, "OV-1", "")
	svc := NewTrapService(f.db, testLog(), testLoc)
	ctx := context.Background()

	var ve *ValidationError
	_, err := svc.UpdateTrap(ctx, f.actor, trap.ID, &models.TrapUpdate{})
	assert.ErrorAs(t, err, &ve)

	_, err = svc.UpdateTrap(ctx, f.actor, trap.ID, &models.TrapUpdate{InstalledAt: strPtr("ontem")})
	assert.ErrorAs(t, err, &ve)

	var nf *NotFoundError
	_, err = svc.UpdateTrap(ctx, f.actor, 1234, &models.TrapUpdate{Number: strPtr("OV-2")})
	assert.ErrorAs(t, err, &nf)
}

func TestUpdateTrap_ClearOptionalFields(t *testing.T) {
	f := newFixture(t)
	svc := NewTrapService(f.db, testLog(), testLoc)
	ctx := context.Background()

	lat := decimal.RequireFromString("-29.68412345")
	trap, err := svc.CreateTrap(ctx, f.actor, &models.CreateTrapRequest{
		Number:         "OV-9",
		Address:        "Rua B",
		ResidentName:   strPtr("Maria"),
		Latitude:       &lat,
		InstalledAt:    strPtr("2024-03-01"),
		BlockID:        f.block.ID,
		MunicipalityID: f.muni.ID,
	})
	require.NoError(t, err)

	got, err := svc.UpdateTrap(ctx, f.actor, trap.ID, &models.TrapUpdate{
		Clear: []string{"nome_morador", "latitude", "data_instalacao"},
	})
	require.NoError(t, err)
	assert.Nil(t, got.ResidentName)
	assert.False(t, got.Latitude.Valid)
	assert.Nil(t, got.InstalledAt)
	assert.Equal(t, "Rua B", got.Address)

	var ve *ValidationError
	_, err = svc.UpdateTrap(ctx, f.actor, trap.ID, &models.TrapUpdate{ResidentName: strPtr("Ana"), Clear: []string{"nome_morador"}})
	assert.ErrorAs(t, err, &ve)
	_, err = svc.UpdateTrap(ctx, f.actor, trap.ID, &models.TrapUpdate{Clear: []string{"numero"}})
	assert.ErrorAs(t, err, &ve)
}

func TestCreateTrap_InstallDateInLocalZone(t *testing.T) {
	f := newFixture(t)
	svc := NewTrapService(f.db, testLog(), brt)

	trap, err := svc.CreateTrap(context.Background(), f.actor, &models.CreateTrapRequest{
		Number:         "OV-1",
		Address:        "Rua A",
		InstalledAt:    strPtr("2024-03-01"),
		BlockID:        f.block.ID,
		MunicipalityID: f.muni.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, trap.InstalledAt)
	assert.True(t, trap.InstalledAt.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, brt)))
}

func TestListTraps_FilterAndActive(t *testing.T) {
	f := newFixture(t)
	a := f.trap(t, "OV-1", "")
	b := f.trap(t, "OV-2", "")
	svc := NewTrapService(f.db, testLog(), testLoc)
	ctx := context.Background()

	require.NoError(t, svc.DeactivateTrap(ctx, f.actor, b.ID))

	all, err := svc.ListTraps(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, a.ID, all[0].ID)

	none, err := svc.ListTraps(ctx, uintPtr(f.muni.ID+1))
	require.NoError(t, err)
	assert.Empty(t, none)
}
