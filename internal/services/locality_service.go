package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
)

// LocalityService trata as localidades de um município.
type LocalityService interface {
	CreateLocality(ctx context.Context, actor Actor, req *models.CreateLocalityRequest) (*models.Locality, error)
	ListLocalitiesByMunicipality(ctx context.Context, municipalityID uint) ([]models.Locality, error)
	DeactivateLocality(ctx context.Context, actor Actor, id uint) error
}

type localityService struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewLocalityService(db *gorm.DB, log *logrus.Entry) LocalityService {
	return &localityService{db: db, log: log}
}

func (s *localityService) CreateLocality(ctx context.Context, actor Actor, req *models.CreateLocalityRequest) (*models.Locality, error) {
	l := &models.Locality{
		Name:           req.Name,
		MunicipalityID: req.MunicipalityID,
		Active:         boolOr(req.Active, true),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireActor(tx, actor); err != nil {
			return err
		}
		if err := mustExist(tx, &models.Municipality{}, l.MunicipalityID, "municipio"); err != nil {
			return err
		}
		return tx.Create(l).Error
	})
	if err != nil {
		return nil, storeErr("criando localidade", err)
	}

	s.log.WithFields(logrus.Fields{"localidade_id": l.ID, "municipio_id": l.MunicipalityID, "user_id": actor.UserID}).Info("localidade criada")
	return l, nil
}

// ListLocalitiesByMunicipality devolve as localidades ativas do município.
func (s *localityService) ListLocalitiesByMunicipality(ctx context.Context, municipalityID uint) ([]models.Locality, error) {
	var localidades []models.Locality
	err := s.db.WithContext(ctx).
		Where("municipio_id = ? AND ativo = ?", municipalityID, true).
		Order("id").
		Find(&localidades).Error
	if err != nil {
		return nil, storeErr("listando localidades", err)
	}
	return localidades, nil
}

func (s *localityService) DeactivateLocality(ctx context.Context, actor Actor, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireActor(tx, actor); err != nil {
			return err
		}
		var l models.Locality
		if err := mustExist(tx, &l, id, "localidade"); err != nil {
			return err
		}
		return tx.Model(&l).Update("ativo", false).Error
	})
	if err != nil {
		return storeErr("desativando localidade", err)
	}
	s.log.WithFields(logrus.Fields{"localidade_id": id, "user_id": actor.UserID}).Info("localidade desativada")
	return nil
}
