package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
)

// TrapService define as operações sobre ovitrampas.
type TrapService interface {
	CreateTrap(ctx context.Context, actor Actor, req *models.CreateTrapRequest) (*models.Trap, error)
	ListTraps(ctx context.Context, municipalityID *uint) ([]models.Trap, error)
	GetTrap(ctx context.Context, id uint) (*models.Trap, error)
	UpdateTrap(ctx context.Context, actor Actor, id uint, upd *models.TrapUpdate) (*models.Trap, error)
	DeactivateTrap(ctx context.Context, actor Actor, id uint) error
}

type trapService struct {
	db  *gorm.DB
	log *logrus.Entry
	loc *time.Location
}

// NewTrapService cria o serviço de ovitrampas. Datas de instalação sem fuso
// são lidas em loc; nil usa UTC.
func NewTrapService(db *gorm.DB, log *logrus.Entry, loc *time.Location) TrapService {
	return &trapService{db: db, log: log, loc: orUTC(loc)}
}

func (s *trapService) CreateTrap(ctx context.Context, actor Actor, req *models.CreateTrapRequest) (*models.Trap, error) {
	t := &models.Trap{
		Number:          req.Number,
		Address:         req.Address,
		ResidentName:    req.ResidentName,
		InstallLocation: req.InstallLocation,
		Latitude:        nullDecimal(req.Latitude),
		Longitude:       nullDecimal(req.Longitude),
		BlockID:         req.BlockID,
		MunicipalityID:  req.MunicipalityID,
		UserID:          actor.UserID,
		Active:          boolOr(req.Active, true),
	}
	if req.InstalledAt != nil {
		at, err := parseDateField("data_instalacao", *req.InstalledAt, s.loc)
		if err != nil {
			return nil, err
		}
		t.InstalledAt = &at
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireActor(tx, actor); err != nil {
			return err
		}
		if err := mustExist(tx, &models.Municipality{}, t.MunicipalityID, "municipio"); err != nil {
			return err
		}
		if err := checkBlockInMunicipality(tx, t.BlockID, t.MunicipalityID); err != nil {
			return err
		}
		return tx.Create(t).Error
	})
	if err != nil {
		return nil, storeErr("criando ovitrampa", err)
	}

	s.log.WithFields(logrus.Fields{
		"ovitrampa_id":  t.ID,
		"municipio_id":  t.MunicipalityID,
		"quarteirao_id": t.BlockID,
		"user_id":       actor.UserID,
	}).Info("ovitrampa criada")
	return t, nil
}

// ListTraps devolve as ovitrampas ativas, opcionalmente de um município.
func (s *trapService) ListTraps(ctx context.Context, municipalityID *uint) ([]models.Trap, error) {
	q := s.db.WithContext(ctx).Where("ativo = ?", true)
	if municipalityID != nil {
		q = q.Where("municipio_id = ?", *municipalityID)
	}

	var traps []models.Trap
	if err := q.Order("id").Find(&traps).Error; err != nil {
		return nil, storeErr("listando ovitrampas", err)
	}
	return traps, nil
}

func (s *trapService) GetTrap(ctx context.Context, id uint) (*models.Trap, error) {
	var t models.Trap
	if err := mustExist(s.db.WithContext(ctx).Preload("Block"), &t, id, "ovitrampa"); err != nil {
		return nil, storeErr("buscando ovitrampa", err)
	}
	return &t, nil
}

// UpdateTrap grava só os campos presentes em upd.
func (s *trapService) UpdateTrap(ctx context.Context, actor Actor, id uint, upd *models.TrapUpdate) (*models.Trap, error) {
	if upd == nil || upd.Empty() {
		return nil, NewValidationError("body", "nenhum campo para atualizar")
	}
	cols, err := trapColumns(upd, s.loc)
	if err != nil {
		return nil, err
	}

	var t models.Trap
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireActor(tx, actor); err != nil {
			return err
		}
		if err := mustExist(tx, &t, id, "ovitrampa"); err != nil {
			return err
		}
		if upd.BlockID != nil {
			if err := checkBlockInMunicipality(tx, *upd.BlockID, t.MunicipalityID); err != nil {
				return err
			}
		}
		if err := tx.Model(&t).Updates(cols).Error; err != nil {
			return err
		}
		return tx.First(&t, id).Error
	})
	if err != nil {
		return nil, storeErr("atualizando ovitrampa", err)
	}

	s.log.WithFields(logrus.Fields{"ovitrampa_id": id, "campos": len(cols), "user_id": actor.UserID}).Info("ovitrampa atualizada")
	return &t, nil
}

func (s *trapService) DeactivateTrap(ctx context.Context, actor Actor, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireActor(tx, actor); err != nil {
			return err
		}
		var t models.Trap
		if err := mustExist(tx, &t, id, "ovitrampa"); err != nil {
			return err
		}
		return tx.Model(&t).Update("ativo", false).Error
	})
	if err != nil {
		return storeErr("desativando ovitrampa", err)
	}
	s.log.WithFields(logrus.Fields{"ovitrampa_id": id, "user_id": actor.UserID}).Info("ovitrampa desativada")
	return nil
}

// checkBlockInMunicipality garante que o quarteirão existe e pertence a
// uma localidade do município.
func checkBlockInMunicipality(tx *gorm.DB, blockID, municipalityID uint) error {
	var b models.Block
	if err := mustExist(tx.Preload("Locality"), &b, blockID, "quarteirao"); err != nil {
		return err
	}
	if b.Locality == nil || b.Locality.MunicipalityID != municipalityID {
		return NewValidationError("quarteirao_id", "quarteirao nao pertence ao municipio")
	}
	return nil
}

func trapColumns(upd *models.TrapUpdate, loc *time.Location) (map[string]interface{}, error) {
	cols := make(map[string]interface{})
	if upd.Number != nil {
		cols["numero"] = *upd.Number
	}
	if upd.Address != nil {
		cols["endereco"] = *upd.Address
	}
	if upd.ResidentName != nil {
		cols["nome_morador"] = *upd.ResidentName
	}
	if upd.InstallLocation != nil {
		cols["local_instalacao"] = *upd.InstallLocation
	}
	if upd.Latitude != nil {
		cols["latitude"] = nullDecimal(upd.Latitude)
	}
	if upd.Longitude != nil {
		cols["longitude"] = nullDecimal(upd.Longitude)
	}
	if upd.InstalledAt != nil {
		at, err := parseDateField("data_instalacao", *upd.InstalledAt, loc)
		if err != nil {
			return nil, err
		}
		cols["data_instalacao"] = at
	}
	if upd.BlockID != nil {
		cols["quarteirao_id"] = *upd.BlockID
	}
	if upd.Active != nil {
		cols["ativo"] = *upd.Active
	}
	for _, col := range upd.Clear {
		if !clearableTrapColumns[col] {
			return nil, NewValidationError("limpar", "campo nao pode ser limpo: "+col)
		}
		if _, set := cols[col]; set {
			return nil, NewValidationError("limpar", "campo enviado e limpo ao mesmo tempo: "+col)
		}
		cols[col] = nil
	}
	return cols, nil
}

var clearableTrapColumns = map[string]bool{
	"nome_morador":     true,
	"local_instalacao": true,
	"latitude":         true,
	"longitude":        true,
	"data_instalacao":  true,
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// cycleStart é o início do ciclo corrente da armadilha: a meia-noite, em
// loc, do dia de instalação.
func cycleStart(t models.Trap, loc *time.Location) time.Time {
	if t.InstalledAt == nil {
		return time.Time{}
	}
	return startOfDay(*t.InstalledAt, loc)
}
