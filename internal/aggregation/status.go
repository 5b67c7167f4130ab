package aggregation

import (
	"time"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
)

// Status classifica uma armadilha ou uma leitura. Missing só aparece em
// células de leitura ainda não registrada.
type Status string

const (
	Positive Status = "positive"
	Negative Status = "negative"
	Missing  Status = "missing"
)

// SyncStatus indica se a coleta já foi enviada ao Conta Ovos.
type SyncStatus string

const (
	Synced  SyncStatus = "synced"
	Pending SyncStatus = "pending"
)

// ReadingStatus é a célula de uma leitura na tabela de histórico. Sem
// coleta, só Status vem preenchido, com Missing.
type ReadingStatus struct {
	CollectionID    uint                    `json:"coleta_id,omitempty"`
	CollectedAt     *time.Time              `json:"data_coleta,omitempty"`
	EggCount        int                     `json:"numero_ovos"`
	ObservationCode *models.ObservationCode `json:"observacao_codigo,omitempty"`
	Status          Status                  `json:"status"`
	Sync            SyncStatus              `json:"sync,omitempty"`
}

// TrapStatus é uma linha da tabela: a armadilha, sua classificação e a
// leitura mais recente de cada tipo.
type TrapStatus struct {
	TrapID  uint          `json:"ovitrampa_id"`
	Number  string        `json:"numero"`
	Address string        `json:"endereco"`
	Status  Status        `json:"status"`
	First   ReadingStatus `json:"primeira"`
	Second  ReadingStatus `json:"segunda"`
}

// CollectionStatusTable projeta as coletas por armadilha e tipo de leitura.
// As linhas seguem a ordem de traps.
func CollectionStatusTable(traps []models.Trap, collections []models.Collection) ([]TrapStatus, error) {
	positive, err := classify(traps, collections)
	if err != nil {
		return nil, err
	}

	latest := make(map[uint]map[models.ReadingType]models.Collection, len(traps))
	for _, c := range collections {
		byType, ok := latest[c.TrapID]
		if !ok {
			byType = make(map[models.ReadingType]models.Collection, 2)
			latest[c.TrapID] = byType
		}
		cur, seen := byType[c.ReadingType]
		if !seen || newer(c, cur) {
			byType[c.ReadingType] = c
		}
	}

	rows := make([]TrapStatus, 0, len(traps))
	for _, t := range traps {
		row := TrapStatus{
			TrapID:  t.ID,
			Number:  t.Number,
			Address: t.Address,
			Status:  statusOf(positive[t.ID]),
			First:   readingStatus(latest[t.ID], models.FirstReading),
			Second:  readingStatus(latest[t.ID], models.SecondReading),
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func newer(a, b models.Collection) bool {
	if a.CollectedAt.Equal(b.CollectedAt) {
		return a.ID > b.ID
	}
	return a.CollectedAt.After(b.CollectedAt)
}

func readingStatus(byType map[models.ReadingType]models.Collection, rt models.ReadingType) ReadingStatus {
	c, ok := byType[rt]
	if !ok {
		return ReadingStatus{Status: Missing}
	}
	sync := Pending
	if c.SyncedContaOvos {
		sync = Synced
	}
	at := c.CollectedAt
	return ReadingStatus{
		CollectionID:    c.ID,
		CollectedAt:     &at,
		EggCount:        c.EggCount,
		ObservationCode: c.ObservationCode,
		Status:          statusOf(c.Positive()),
		Sync:            sync,
	}
}

func statusOf(positive bool) Status {
	if positive {
		return Positive
	}
	return Negative
}
