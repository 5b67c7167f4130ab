package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
)

// BlockService cadastra e lista quarteirões.
type BlockService interface {
	CreateBlock(ctx context.Context, actor Actor, req *models.CreateBlockRequest) (*models.Block, error)
	ListBlocksByLocality(ctx context.Context, localityID uint) ([]models.Block, error)
}

type blockService struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewBlockService(db *gorm.DB, log *logrus.Entry) BlockService {
	return &blockService{db: db, log: log}
}

func (s *blockService) CreateBlock(ctx context.Context, actor Actor, req *models.CreateBlockRequest) (*models.Block, error) {
	b := &models.Block{Number: req.Number, LocalityID: req.LocalityID}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireActor(tx, actor); err != nil {
			return err
		}
		if err := mustExist(tx, &models.Locality{}, b.LocalityID, "localidade"); err != nil {
			return err
		}
		return tx.Create(b).Error
	})
	if err != nil {
		return nil, storeErr("criando quarteirao", err)
	}

	s.log.WithFields(logrus.Fields{"quarteirao_id": b.ID, "localidade_id": b.LocalityID, "user_id": actor.UserID}).Info("quarteirao criado")
	return b, nil
}

func (s *blockService) ListBlocksByLocality(ctx context.Context, localityID uint) ([]models.Block, error) {
	var quarteiroes []models.Block
	if err := s.db.WithContext(ctx).Where("localidade_id = ?", localityID).Order("id").Find(&quarteiroes).Error; err != nil {
		return nil, storeErr("listando quarteiroes", err)
	}
	return quarteiroes, nil
}
