package models

import (
	"time"

	"gorm.io/datatypes"
)

// Tipos de execução de integração.
const (
	RunExportPDF     = "export_pdf"
	RunExportWord    = "export_word"
	RunSyncContaOvos = "sync_conta_ovos"
)

// Status de uma execução.
const (
	RunRunning = "running"
	RunSuccess = "success"
	RunFailed  = "failed"
)

// IntegrationRun registra cada exportação ou sincronização disparada pela API.
type IntegrationRun struct {
	ID               uint           `json:"id" gorm:"primaryKey;autoIncrement;column:id"`
	ExecutionID      string         `json:"execution_id" gorm:"column:execution_id;size:36;uniqueIndex;not null"`
	Kind             string         `json:"kind" gorm:"column:kind;size:30;not null;index"`
	Status           string         `json:"status" gorm:"column:status;size:20;not null;index"`
	UserID           uint           `json:"user_id" gorm:"column:user_id;not null"`
	RecordsProcessed int            `json:"records_processed" gorm:"column:records_processed;not null;default:0"`
	Payload          datatypes.JSON `json:"payload" gorm:"column:payload"`
	ErrorMessage     *string        `json:"error_message" gorm:"column:error_message"`
	StartedAt        time.Time      `json:"started_at" gorm:"column:started_at;not null;index"`
	FinishedAt       *time.Time     `json:"finished_at" gorm:"column:finished_at"`
}

func (IntegrationRun) TableName() string {
	return "integration_runs"
}

// All lista os modelos persistidos, na ordem usada pelo AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Municipality{},
		&Locality{},
		&Block{},
		&Trap{},
		&Collection{},
		&Bulletin{},
		&IntegrationRun{},
	}
}
