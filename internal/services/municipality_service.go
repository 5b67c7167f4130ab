package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
)

const defaultState = "RS"

// MunicipalityService define as operações sobre municípios.
// Municípios não são apagados: Deactivate só desliga o flag ativo.
type MunicipalityService interface {
	CreateMunicipality(ctx context.Context, actor Actor, req *models.CreateMunicipalityRequest) (*models.Municipality, error)
	ListMunicipalities(ctx context.Context) ([]models.Municipality, error)
	GetMunicipality(ctx context.Context, id uint) (*models.Municipality, error)
	DeactivateMunicipality(ctx context.Context, actor Actor, id uint) error
}

type municipalityService struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewMunicipalityService(db *gorm.DB, log *logrus.Entry) MunicipalityService {
	return &municipalityService{db: db, log: log}
}

func (s *municipalityService) CreateMunicipality(ctx context.Context, actor Actor, req *models.CreateMunicipalityRequest) (*models.Municipality, error) {
	m := &models.Municipality{
		Name:     req.Name,
		State:    req.State,
		IBGECode: req.IBGECode,
		Active:   boolOr(req.Active, true),
	}
	if m.State == "" {
		m.State = defaultState
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireActor(tx, actor); err != nil {
			return err
		}
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, storeErr("criando municipio", err)
	}

	s.log.WithFields(logrus.Fields{"municipio_id": m.ID, "user_id": actor.UserID}).Info("municipio criado")
	return m, nil
}

// ListMunicipalities devolve só os municípios ativos.
func (s *municipalityService) ListMunicipalities(ctx context.Context) ([]models.Municipality, error) {
	var municipios []models.Municipality
	if err := s.db.WithContext(ctx).Where("ativo = ?", true).Order("id").Find(&municipios).Error; err != nil {
		return nil, storeErr("listando municipios", err)
	}
	return municipios, nil
}

func (s *municipalityService) GetMunicipality(ctx context.Context, id uint) (*models.Municipality, error) {
	var m models.Municipality
	if err := mustExist(s.db.WithContext(ctx), &m, id, "municipio"); err != nil {
		return nil, storeErr("buscando municipio", err)
	}
	return &m, nil
}

func (s *municipalityService) DeactivateMunicipality(ctx context.Context, actor Actor, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireActor(tx, actor); err != nil {
			return err
		}
		var m models.Municipality
		if err := mustExist(tx, &m, id, "municipio"); err != nil {
			return err
		}
		return tx.Model(&m).Update("ativo", false).Error
	})
	if err != nil {
		return storeErr("desativando municipio", err)
	}

	s.log.WithFields(logrus.Fields{"municipio_id": id, "user_id": actor.UserID}).Info("municipio desativado")
	return nil
}
