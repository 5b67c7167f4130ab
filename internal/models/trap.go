package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trap representa uma ovitrampa instalada em um endereço.
// Latitude e longitude seguem a precisão decimal(10,8)/decimal(11,8) do cadastro.
type Trap struct {
	ID              uint                `json:"id" gorm:"primaryKey;column:id"`
	Number          string              `json:"numero" gorm:"column:numero;not null"`
	Address         string              `json:"endereco" gorm:"column:endereco;not null"`
	ResidentName    *string             `json:"nome_morador" gorm:"column:nome_morador"`
	InstallLocation *string             `json:"local_instalacao" gorm:"column:local_instalacao"`
	Latitude        decimal.NullDecimal `json:"latitude" gorm:"column:latitude;type:decimal(10,8)"`
	Longitude       decimal.NullDecimal `json:"longitude" gorm:"column:longitude;type:decimal(11,8)"`
	InstalledAt     *time.Time          `json:"data_instalacao" gorm:"column:data_instalacao"`
	BlockID         uint                `json:"quarteirao_id" gorm:"column:quarteirao_id;not null;index"`
	MunicipalityID  uint                `json:"municipio_id" gorm:"column:municipio_id;not null;index"`
	UserID          uint                `json:"user_id" gorm:"column:user_id;not null"`
	Active          bool                `json:"ativo" gorm:"column:ativo;not null;index"`
	CreatedAt       time.Time           `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	Block           *Block              `json:"quarteirao,omitempty" gorm:"foreignKey:BlockID"`
	Municipality    *Municipality       `json:"municipio,omitempty" gorm:"foreignKey:MunicipalityID"`
}

func (Trap) TableName() string {
	return "ovitrampas"
}
