package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/aggregation"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
)

// CollectionService registra leituras e monta a tabela de histórico.
type CollectionService interface {
	CreateCollection(ctx context.Context, actor Actor, req *models.CreateCollectionRequest) (*models.Collection, error)
	ListByTrap(ctx context.Context, trapID uint) ([]models.Collection, error)
	StatusTable(ctx context.Context, municipalityID *uint) ([]aggregation.TrapStatus, error)
}

type collectionService struct {
	db  *gorm.DB
	log *logrus.Entry
	loc *time.Location
}

// NewCollectionService cria o serviço de coletas. Datas sem fuso e o início
// do ciclo da armadilha são calculados em loc; nil usa UTC.
func NewCollectionService(db *gorm.DB, log *logrus.Entry, loc *time.Location) CollectionService {
	return &collectionService{db: db, log: log, loc: orUTC(loc)}
}

func (s *collectionService) CreateCollection(ctx context.Context, actor Actor, req *models.CreateCollectionRequest) (*models.Collection, error) {
	collectedAt, err := parseDateField("data_coleta", req.CollectedAt, s.loc)
	if err != nil {
		return nil, err
	}
	readingType := models.ReadingType(req.ReadingType)
	if !readingType.Valid() {
		return nil, NewValidationError("tipo_coleta", "deve ser primeira ou segunda")
	}

	c := &models.Collection{
		TrapID:          req.TrapID,
		CollectedAt:     collectedAt,
		ObservationText: req.ObservationText,
		ReadingType:     readingType,
		UserID:          actor.UserID,
	}
	if req.EggCount != nil {
		if *req.EggCount < 0 {
			return nil, NewValidationError("numero_ovos", "nao pode ser negativo")
		}
		c.EggCount = *req.EggCount
	}
	if req.ObservationCode != nil && *req.ObservationCode != "" {
		code := models.ObservationCode(*req.ObservationCode)
		if !code.Valid() {
			return nil, NewValidationError("observacao_codigo", "codigo de observacao desconhecido")
		}
		c.ObservationCode = &code
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireActor(tx, actor); err != nil {
			return err
		}
		// A linha da armadilha fica travada até o commit, então duas coletas
		// da mesma armadilha não passam juntas pela contagem abaixo.
		var trap models.Trap
		if err := mustExist(tx.Clauses(clause.Locking{Strength: "UPDATE"}), &trap, c.TrapID, "ovitrampa"); err != nil {
			return err
		}
		if !trap.Active {
			return NewValidationError("ovitrampa_id", "ovitrampa inativa")
		}

		// Uma leitura de cada tipo por ciclo de instalação.
		q := tx.Model(&models.Collection{}).Where("ovitrampa_id = ? AND tipo_coleta = ?", trap.ID, c.ReadingType)
		if trap.InstalledAt != nil {
			q = q.Where("data_coleta >= ?", cycleStart(trap, s.loc))
		}
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return &ConflictError{Message: "ja existe coleta " + string(c.ReadingType) + " para esta ovitrampa no ciclo atual"}
		}

		return tx.Create(c).Error
	})
	if err != nil {
		return nil, storeErr("registrando coleta", err)
	}

	s.log.WithFields(logrus.Fields{
		"coleta_id":    c.ID,
		"ovitrampa_id": c.TrapID,
		"tipo_coleta":  c.ReadingType,
		"numero_ovos":  c.EggCount,
		"user_id":      actor.UserID,
	}).Info("coleta registrada")
	return c, nil
}

// ListByTrap devolve as coletas da armadilha, mais recentes primeiro.
func (s *collectionService) ListByTrap(ctx context.Context, trapID uint) ([]models.Collection, error) {
	var coletas []models.Collection
	err := s.db.WithContext(ctx).
		Where("ovitrampa_id = ?", trapID).
		Order("data_coleta DESC, id DESC").
		Find(&coletas).Error
	if err != nil {
		return nil, storeErr("listando coletas", err)
	}
	return coletas, nil
}

// StatusTable lê armadilhas ativas e suas coletas numa mesma transação e
// projeta a tabela de status.
func (s *collectionService) StatusTable(ctx context.Context, municipalityID *uint) ([]aggregation.TrapStatus, error) {
	var (
		traps   []models.Trap
		coletas []models.Collection
	)
	err := withSnapshot(ctx, s.db, true, func(tx *gorm.DB) error {
		active := func() *gorm.DB {
			q := tx.Model(&models.Trap{}).Where("ativo = ?", true)
			if municipalityID != nil {
				q = q.Where("municipio_id = ?", *municipalityID)
			}
			return q
		}
		if err := active().Order("id").Find(&traps).Error; err != nil {
			return err
		}
		if len(traps) == 0 {
			return nil
		}
		return tx.Where("ovitrampa_id IN (?)", active().Select("id")).Find(&coletas).Error
	})
	if err != nil {
		return nil, storeErr("carregando tabela de status", err)
	}

	rows, err := aggregation.CollectionStatusTable(traps, coletas)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
