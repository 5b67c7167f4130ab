package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
)

// Actor identifica o usuário que executa uma criação ou alteração.
// É passado explicitamente em toda escrita.
type Actor struct {
	UserID uint
}

// requireActor confirma que o ator existe.
func requireActor(tx *gorm.DB, a Actor) error {
	if a.UserID == 0 {
		return NewValidationError("user_id", "agente responsavel nao informado")
	}
	return mustExist(tx, &models.User{}, a.UserID, "usuario")
}

// mustExist carrega dest pelo id ou devolve NotFoundError.
func mustExist(tx *gorm.DB, dest interface{}, id uint, entity string) error {
	err := tx.First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return err
}

// withSnapshot executa fn numa única transação. No Postgres usa
// REPEATABLE READ, para que todas as leituras vejam o mesmo estado.
func withSnapshot(ctx context.Context, db *gorm.DB, readOnly bool, fn func(tx *gorm.DB) error) error {
	var opts []*sql.TxOptions
	if db.Dialector.Name() == "postgres" {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: readOnly})
	}
	return db.WithContext(ctx).Transaction(fn, opts...)
}

func parseDateField(field, value string, loc *time.Location) (time.Time, error) {
	t, err := models.ParseDateIn(value, loc)
	if err != nil {
		return time.Time{}, NewValidationError(field, err.Error())
	}
	return t, nil
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

// startOfDay é a meia-noite, no fuso loc, do dia de t. Volta em UTC.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).UTC()
}

// nextDay é a meia-noite seguinte a t no fuso loc.
func nextDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, loc).UTC()
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
