package models

import "time"

// Municipality é uma cidade participante do programa de monitoramento.
type Municipality struct {
	ID        uint      `json:"id" gorm:"primaryKey;column:id"`
	Name      string    `json:"nome" gorm:"column:nome;not null"`
	State     string    `json:"estado" gorm:"column:estado;size:2;not null"`
	IBGECode  *string   `json:"codigo_ibge" gorm:"column:codigo_ibge;size:7"`
	Active    bool      `json:"ativo" gorm:"column:ativo;not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (Municipality) TableName() string {
	return "municipios"
}

// Locality é um bairro ou distrito dentro de um município.
type Locality struct {
	ID             uint          `json:"id" gorm:"primaryKey;column:id"`
	Name           string        `json:"nome" gorm:"column:nome;not null"`
	MunicipalityID uint          `json:"municipio_id" gorm:"column:municipio_id;not null;index"`
	Active         bool          `json:"ativo" gorm:"column:ativo;not null"`
	CreatedAt      time.Time     `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	Municipality   *Municipality `json:"municipio,omitempty" gorm:"foreignKey:MunicipalityID"`
}

func (Locality) TableName() string {
	return "localidades"
}

// Block é um quarteirão de uma localidade.
type Block struct {
	ID         uint      `json:"id" gorm:"primaryKey;column:id"`
	Number     string    `json:"numero" gorm:"column:numero;not null"`
	LocalityID uint      `json:"localidade_id" gorm:"column:localidade_id;not null;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	Locality   *Locality `json:"localidade,omitempty" gorm:"foreignKey:LocalityID"`
}

func (Block) TableName() string {
	return "quarteiroes"
}
