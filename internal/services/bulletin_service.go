package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/aggregation"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
)

// BulletinPreview são os totais que um boletim teria se fosse emitido agora.
type BulletinPreview struct {
	aggregation.BulletinTotals
	PositivityRate float64 `json:"indice_positividade"`
}

// BulletinService emite boletins com totais calculados no servidor.
type BulletinService interface {
	CreateBulletin(ctx context.Context, actor Actor, req *models.CreateBulletinRequest) (*models.Bulletin, error)
	PreviewBulletin(ctx context.Context, scope *models.BulletinScope) (*BulletinPreview, error)
	ListBulletins(ctx context.Context, municipalityID *uint) ([]models.Bulletin, error)
	GetBulletin(ctx context.Context, id uint) (*models.Bulletin, error)
}

type bulletinService struct {
	db  *gorm.DB
	log *logrus.Entry
	loc *time.Location
}

// NewBulletinService cria o serviço de boletins. loc define os limites de
// cada dia da janela de coletas; nil usa UTC.
func NewBulletinService(db *gorm.DB, log *logrus.Entry, loc *time.Location) BulletinService {
	return &bulletinService{db: db, log: log, loc: orUTC(loc)}
}

// bulletinWindow é o escopo já validado: datas convertidas e janela de
// coletas [from, to), do início do dia de instalação ao fim do dia de
// leitura no fuso configurado.
type bulletinWindow struct {
	municipalityID uint
	localityID     *uint
	installedAt    time.Time
	readAt         time.Time
	from           time.Time
	to             time.Time
}

func parseScope(scope *models.BulletinScope, loc *time.Location) (*bulletinWindow, error) {
	installedAt, err := parseDateField("data_instalacao", scope.InstalledAt, loc)
	if err != nil {
		return nil, err
	}
	readAt, err := parseDateField("data_leitura", scope.ReadAt, loc)
	if err != nil {
		return nil, err
	}
	if startOfDay(readAt, loc).Before(startOfDay(installedAt, loc)) {
		return nil, NewValidationError("data_leitura", "data de leitura anterior a data de instalacao")
	}
	return &bulletinWindow{
		municipalityID: scope.MunicipalityID,
		localityID:     scope.LocalityID,
		installedAt:    installedAt,
		readAt:         readAt,
		from:           startOfDay(installedAt, loc),
		to:             nextDay(readAt, loc),
	}, nil
}

// derive carrega as armadilhas ativas do escopo e as coletas da janela e
// calcula os totais. Deve rodar dentro da transação de quem chama.
func (w *bulletinWindow) derive(tx *gorm.DB) (aggregation.BulletinTotals, error) {
	if err := mustExist(tx, &models.Municipality{}, w.municipalityID, "municipio"); err != nil {
		return aggregation.BulletinTotals{}, err
	}
	if w.localityID != nil {
		var loc models.Locality
		if err := mustExist(tx, &loc, *w.localityID, "localidade"); err != nil {
			return aggregation.BulletinTotals{}, err
		}
		if loc.MunicipalityID != w.municipalityID {
			return aggregation.BulletinTotals{}, NewValidationError("localidade_id", "localidade nao pertence ao municipio")
		}
	}

	var scoped []models.Trap
	if err := w.traps(tx).Order("id").Find(&scoped).Error; err != nil {
		return aggregation.BulletinTotals{}, err
	}

	var coletas []models.Collection
	if len(scoped) > 0 {
		err := tx.Where("ovitrampa_id IN (?) AND data_coleta >= ? AND data_coleta < ?",
			w.traps(tx).Select("id"), w.from, w.to).
			Find(&coletas).Error
		if err != nil {
			return aggregation.BulletinTotals{}, err
		}
	}

	return aggregation.DeriveBulletinTotals(scoped, coletas)
}

// traps monta a consulta das armadilhas ativas do escopo. Serve tanto para
// carregar as armadilhas quanto como subconsulta das coletas.
func (w *bulletinWindow) traps(tx *gorm.DB) *gorm.DB {
	q := tx.Model(&models.Trap{}).Where("municipio_id = ? AND ativo = ?", w.municipalityID, true)
	if w.localityID != nil {
		q = q.Where("quarteirao_id IN (?)",
			tx.Model(&models.Block{}).Select("id").Where("localidade_id = ?", *w.localityID))
	}
	return q
}

func (s *bulletinService) CreateBulletin(ctx context.Context, actor Actor, req *models.CreateBulletinRequest) (*models.Bulletin, error) {
	w, err := parseScope(&req.BulletinScope, s.loc)
	if err != nil {
		return nil, err
	}

	b := &models.Bulletin{
		MunicipalityID:   w.municipalityID,
		LocalityID:       w.localityID,
		ResponsibleAgent: req.ResponsibleAgent,
		ReadAt:           w.readAt,
		InstalledAt:      w.installedAt,
		UserID:           actor.UserID,
	}

	err = withSnapshot(ctx, s.db, false, func(tx *gorm.DB) error {
		if err := requireActor(tx, actor); err != nil {
			return err
		}
		totals, err := w.derive(tx)
		if err != nil {
			return err
		}
		b.TotalTraps = totals.TotalTraps
		b.NegativePaddles = totals.NegativePaddles
		b.PositivePaddles = totals.PositivePaddles
		b.TotalEggs = totals.TotalEggs
		return tx.Create(b).Error
	})
	if err != nil {
		return nil, storeErr("emitindo boletim", err)
	}

	s.log.WithFields(logrus.Fields{
		"boletim_id":        b.ID,
		"municipio_id":      b.MunicipalityID,
		"total_armadilhas":  b.TotalTraps,
		"paletas_positivas": b.PositivePaddles,
		"total_ovos":        b.TotalEggs,
		"user_id":           actor.UserID,
	}).Info("boletim emitido")
	return b, nil
}

func (s *bulletinService) PreviewBulletin(ctx context.Context, scope *models.BulletinScope) (*BulletinPreview, error) {
	w, err := parseScope(scope, s.loc)
	if err != nil {
		return nil, err
	}

	var totals aggregation.BulletinTotals
	err = withSnapshot(ctx, s.db, true, func(tx *gorm.DB) error {
		var err error
		totals, err = w.derive(tx)
		return err
	})
	if err != nil {
		return nil, storeErr("calculando previa do boletim", err)
	}

	return &BulletinPreview{
		BulletinTotals: totals,
		PositivityRate: aggregation.PositivityRate(totals.TotalTraps, totals.PositivePaddles),
	}, nil
}

// ListBulletins devolve os boletins mais recentes primeiro.
func (s *bulletinService) ListBulletins(ctx context.Context, municipalityID *uint) ([]models.Bulletin, error) {
	q := s.db.WithContext(ctx).Preload("Municipality").Preload("Locality")
	if municipalityID != nil {
		q = q.Where("municipio_id = ?", *municipalityID)
	}
	var boletins []models.Bulletin
	if err := q.Order("created_at DESC, id DESC").Find(&boletins).Error; err != nil {
		return nil, storeErr("listando boletins", err)
	}
	return boletins, nil
}

func (s *bulletinService) GetBulletin(ctx context.Context, id uint) (*models.Bulletin, error) {
	var b models.Bulletin
	if err := mustExist(s.db.WithContext(ctx).Preload("Municipality").Preload("Locality"), &b, id, "boletim"); err != nil {
		return nil, storeErr("buscando boletim", err)
	}
	return &b, nil
}
