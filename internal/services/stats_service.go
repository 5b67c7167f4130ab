package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/aggregation"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
)

// StatsService alimenta os cartões do painel.
type StatsService interface {
	GetDashboardStats(ctx context.Context) (*aggregation.DashboardStats, error)
}

type statsService struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewStatsService(db *gorm.DB, log *logrus.Entry) StatsService {
	return &statsService{db: db, log: log}
}

func (s *statsService) GetDashboardStats(ctx context.Context) (*aggregation.DashboardStats, error) {
	var snap aggregation.Snapshot
	err := withSnapshot(ctx, s.db, true, func(tx *gorm.DB) error {
		if err := tx.Select("id", "ativo").Find(&snap.Municipalities).Error; err != nil {
			return err
		}
		if err := tx.Select("id", "ativo").Find(&snap.Traps).Error; err != nil {
			return err
		}
		return tx.Model(&models.Collection{}).
			Select("id", "ovitrampa_id", "data_coleta", "numero_ovos").
			Find(&snap.Collections).Error
	})
	if err != nil {
		return nil, storeErr("carregando estatisticas", err)
	}

	st := aggregation.Dashboard(snap)
	s.log.WithFields(logrus.Fields{
		"municipios": st.ActiveMunicipalities,
		"ovitrampas": st.InstalledTraps,
		"positivas":  st.PositiveTraps,
		"coletas":    st.CompletedCollections,
	}).Debug("estatisticas calculadas")
	return &st, nil
}
