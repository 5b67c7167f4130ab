package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/aggregation"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
)

// Formatos de exportação aceitos pela API.
const (
	FormatPDF  = "pdf"
	FormatWord = "word"
)

var runKinds = map[string]string{
	FormatPDF:  models.RunExportPDF,
	FormatWord: models.RunExportWord,
}

// ExportBulletin é um boletim com o índice de positividade já calculado.
type ExportBulletin struct {
	models.Bulletin
	PositivityRate float64 `json:"indice_positividade"`
}

// ExportDocument é o conteúdo entregue ao formatador.
type ExportDocument struct {
	ExecutionID string           `json:"execution_id"`
	GeneratedAt time.Time        `json:"gerado_em"`
	Bulletins   []ExportBulletin `json:"boletins"`
}

// Formatter transforma o documento no arquivo final (PDF, DOCX...).
type Formatter interface {
	ContentType() string
	Extension() string
	Format(ctx context.Context, doc ExportDocument) ([]byte, error)
}

// ContaOvosClient envia coletas ao sistema Conta Ovos.
type ContaOvosClient interface {
	PushCollections(ctx context.Context, collections []models.Collection) error
}

// ExportResult é o arquivo gerado por Export, com o nome sugerido para
// download.
type ExportResult struct {
	ExecutionID string
	Filename    string
	ContentType string
	Content     []byte
}

// SyncResult informa quantas coletas foram marcadas como sincronizadas.
type SyncResult struct {
	ExecutionID string `json:"execution_id"`
	Synced      int    `json:"sincronizadas"`
}

// IntegrationService dispara exportações e a sincronização com o Conta Ovos.
type IntegrationService interface {
	Export(ctx context.Context, actor Actor, format string, req *models.ExportRequest) (*ExportResult, error)
	SyncContaOvos(ctx context.Context, actor Actor) (*SyncResult, error)
	ListRuns(ctx context.Context, limit int) ([]models.IntegrationRun, error)
}

type integrationService struct {
	db         *gorm.DB
	log        *logrus.Entry
	formatters map[string]Formatter
	contaOvos  ContaOvosClient
}

// IntegrationOption configura formatadores e o cliente do Conta Ovos em
// NewIntegrationService.
type IntegrationOption func(*integrationService)

// WithFormatter registra o formatador de um formato ("pdf" ou "word").
func WithFormatter(format string, f Formatter) IntegrationOption {
	return func(s *integrationService) {
		s.formatters[format] = f
	}
}

// WithContaOvos define o cliente usado na sincronização. Sem ele a
// sincronização devolve ErrIntegrationUnavailable.
func WithContaOvos(c ContaOvosClient) IntegrationOption {
	return func(s *integrationService) {
		s.contaOvos = c
	}
}

// NewIntegrationService cria o serviço. Formatos sem formatador registrado
// respondem ErrUnsupportedFormat; sem WithContaOvos a sincronização fica
// indisponível.
func NewIntegrationService(db *gorm.DB, log *logrus.Entry, opts ...IntegrationOption) IntegrationService {
	s := &integrationService{
		db:         db,
		log:        log,
		formatters: make(map[string]Formatter),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *integrationService) Export(ctx context.Context, actor Actor, format string, req *models.ExportRequest) (*ExportResult, error) {
	kind, known := runKinds[format]
	f, ok := s.formatters[format]
	if !known || !ok || f == nil {
		return nil, ErrUnsupportedFormat
	}
	if req == nil {
		req = &models.ExportRequest{}
	}
	if err := requireActor(s.db.WithContext(ctx), actor); err != nil {
		return nil, storeErr("exportando boletins", err)
	}

	var boletins []models.Bulletin
	q := s.db.WithContext(ctx).Preload("Municipality").Preload("Locality")
	if req.MunicipalityID != nil {
		q = q.Where("municipio_id = ?", *req.MunicipalityID)
	}
	if len(req.BulletinIDs) > 0 {
		q = q.Where("id IN ?", req.BulletinIDs)
	}
	if err := q.Order("created_at DESC, id DESC").Find(&boletins).Error; err != nil {
		return nil, storeErr("carregando boletins para exportacao", err)
	}

	run := s.startRun(ctx, kind, actor, map[string]interface{}{
		"municipio_id": req.MunicipalityID,
		"boletim_ids":  req.BulletinIDs,
	})

	doc := ExportDocument{
		ExecutionID: run.ExecutionID,
		GeneratedAt: time.Now().UTC(),
		Bulletins:   make([]ExportBulletin, 0, len(boletins)),
	}
	for _, b := range boletins {
		doc.Bulletins = append(doc.Bulletins, ExportBulletin{
			Bulletin:       b,
			PositivityRate: aggregation.PositivityRate(b.TotalTraps, b.PositivePaddles),
		})
	}

	content, err := f.Format(ctx, doc)
	if err != nil {
		s.finishRun(ctx, run, models.RunFailed, 0, err)
		return nil, &IntegrationError{Kind: kind, Err: err}
	}
	s.finishRun(ctx, run, models.RunSuccess, len(boletins), nil)

	s.log.WithFields(logrus.Fields{
		"execution_id": run.ExecutionID,
		"formato":      format,
		"boletins":     len(boletins),
	}).Info("exportacao concluida")

	return &ExportResult{
		ExecutionID: run.ExecutionID,
		Filename:    fmt.Sprintf("boletins_%s.%s", doc.GeneratedAt.Format("20060102_150405"), f.Extension()),
		ContentType: f.ContentType(),
		Content:     content,
	}, nil
}

// SyncContaOvos envia as coletas ainda não sincronizadas e marca as
// enviadas. Em caso de falha nenhuma coleta é marcada.
func (s *integrationService) SyncContaOvos(ctx context.Context, actor Actor) (*SyncResult, error) {
	if s.contaOvos == nil {
		return nil, ErrIntegrationUnavailable
	}
	if err := requireActor(s.db.WithContext(ctx), actor); err != nil {
		return nil, storeErr("sincronizando conta ovos", err)
	}

	var pending []models.Collection
	err := s.db.WithContext(ctx).
		Preload("Trap").
		Where("sincronizado_conta_ovos = ?", false).
		Order("id").
		Find(&pending).Error
	if err != nil {
		return nil, storeErr("carregando coletas pendentes", err)
	}

	run := s.startRun(ctx, models.RunSyncContaOvos, actor, map[string]interface{}{"pendentes": len(pending)})
	if len(pending) == 0 {
		s.finishRun(ctx, run, models.RunSuccess, 0, nil)
		return &SyncResult{ExecutionID: run.ExecutionID}, nil
	}

	if err := s.contaOvos.PushCollections(ctx, pending); err != nil {
		s.finishRun(ctx, run, models.RunFailed, 0, err)
		s.log.WithError(err).WithField("execution_id", run.ExecutionID).Warn("falha ao sincronizar com conta ovos")
		return nil, &IntegrationError{Kind: models.RunSyncContaOvos, Err: err}
	}

	ids := make([]uint, len(pending))
	for i, c := range pending {
		ids[i] = c.ID
	}
	err = s.db.WithContext(ctx).Model(&models.Collection{}).
		Where("id IN ?", ids).
		Update("sincronizado_conta_ovos", true).Error
	if err != nil {
		s.finishRun(ctx, run, models.RunFailed, 0, err)
		return nil, storeErr("marcando coletas sincronizadas", err)
	}
	s.finishRun(ctx, run, models.RunSuccess, len(ids), nil)

	s.log.WithFields(logrus.Fields{
		"execution_id":  run.ExecutionID,
		"sincronizadas": len(ids),
	}).Info("sincronizacao conta ovos concluida")
	return &SyncResult{ExecutionID: run.ExecutionID, Synced: len(ids)}, nil
}

// ListRuns devolve as execuções mais recentes.
func (s *integrationService) ListRuns(ctx context.Context, limit int) ([]models.IntegrationRun, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var runs []models.IntegrationRun
	if err := s.db.WithContext(ctx).Order("started_at DESC, id DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, storeErr("listando execucoes", err)
	}
	return runs, nil
}

// startRun grava a execução como "running". Falhas ao registrar não
// interrompem a operação, apenas geram aviso no log.
func (s *integrationService) startRun(ctx context.Context, kind string, actor Actor, payload map[string]interface{}) *models.IntegrationRun {
	run := &models.IntegrationRun{
		ExecutionID: uuid.New().String(),
		Kind:        kind,
		Status:      models.RunRunning,
		UserID:      actor.UserID,
		StartedAt:   time.Now().UTC(),
	}
	if raw, err := json.Marshal(payload); err == nil {
		run.Payload = datatypes.JSON(raw)
	}
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		s.log.WithError(err).WithField("execution_id", run.ExecutionID).Warn("erro ao registrar execucao")
	}
	return run
}

func (s *integrationService) finishRun(ctx context.Context, run *models.IntegrationRun, status string, processed int, cause error) {
	if run.ID == 0 {
		return
	}
	now := time.Now().UTC()
	cols := map[string]interface{}{
		"status":            status,
		"records_processed": processed,
		"finished_at":       now,
	}
	if cause != nil {
		cols["error_message"] = cause.Error()
	}
	if err := s.db.WithContext(ctx).Model(run).Updates(cols).Error; err != nil {
		s.log.WithError(err).WithField("execution_id", run.ExecutionID).Warn("erro ao finalizar execucao")
	}
}
