package models

import "time"

// Bulletin é o boletim de um município (ou de uma localidade) para a janela
// entre instalação e leitura. Os totais são uma fotografia do momento da
// emissão e não são recalculados depois.
type Bulletin struct {
	ID               uint          `json:"id" gorm:"primaryKey;column:id"`
	MunicipalityID   uint          `json:"municipio_id" gorm:"column:municipio_id;not null;index"`
	LocalityID       *uint         `json:"localidade_id" gorm:"column:localidade_id;index"`
	ResponsibleAgent string        `json:"agente_responsavel" gorm:"column:agente_responsavel;not null"`
	ReadAt           time.Time     `json:"data_leitura" gorm:"column:data_leitura;not null"`
	InstalledAt      time.Time     `json:"data_instalacao" gorm:"column:data_instalacao;not null"`
	TotalTraps       int           `json:"total_armadilhas" gorm:"column:total_armadilhas;not null;default:0"`
	NegativePaddles  int           `json:"paletas_negativas" gorm:"column:paletas_negativas;not null;default:0"`
	PositivePaddles  int           `json:"paletas_positivas" gorm:"column:paletas_positivas;not null;default:0"`
	TotalEggs        int           `json:"total_ovos" gorm:"column:total_ovos;not null;default:0"`
	UserID           uint          `json:"user_id" gorm:"column:user_id;not null"`
	CreatedAt        time.Time     `json:"created_at" gorm:"column:created_at;autoCreateTime;index"`
	Municipality     *Municipality `json:"municipio,omitempty" gorm:"foreignKey:MunicipalityID"`
	Locality         *Locality     `json:"localidade,omitempty" gorm:"foreignKey:LocalityID"`
}

func (Bulletin) TableName() string {
	return "boletins"
}
