package models

import "time"

// ReadingType identifica se a coleta é a primeira ou a segunda leitura da paleta.
type ReadingType string

const (
	FirstReading  ReadingType = "primeira"
	SecondReading ReadingType = "segunda"
)

// ReadingTypes na ordem em que aparecem no boletim.
var ReadingTypes = []ReadingType{FirstReading, SecondReading}

func (r ReadingType) Valid() bool {
	return r == FirstReading || r == SecondReading
}

// Collection é uma leitura de uma ovitrampa. Registros de coleta não são
// editados depois de criados; só o flag de sincronização muda.
type Collection struct {
	ID              uint             `json:"id" gorm:"primaryKey;column:id"`
	TrapID          uint             `json:"ovitrampa_id" gorm:"column:ovitrampa_id;not null;index"`
	CollectedAt     time.Time        `json:"data_coleta" gorm:"column:data_coleta;not null;index"`
	EggCount        int              `json:"numero_ovos" gorm:"column:numero_ovos;not null;default:0;check:numero_ovos >= 0"`
	ObservationCode *ObservationCode `json:"observacao_codigo" gorm:"column:observacao_codigo;size:1"`
	ObservationText *string          `json:"observacao_texto" gorm:"column:observacao_texto"`
	ReadingType     ReadingType      `json:"tipo_coleta" gorm:"column:tipo_coleta;size:10;not null"`
	UserID          uint             `json:"user_id" gorm:"column:user_id;not null"`
	SyncedContaOvos bool             `json:"sincronizado_conta_ovos" gorm:"column:sincronizado_conta_ovos;not null;index"`
	CreatedAt       time.Time        `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	Trap            *Trap            `json:"ovitrampa,omitempty" gorm:"foreignKey:TrapID"`
}

func (Collection) TableName() string {
	return "coletas"
}

// Positive indica presença de ovos na paleta.
func (c Collection) Positive() bool {
	return c.EggCount > 0
}
