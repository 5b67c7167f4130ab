package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Corpos JSON recebidos do front-end. As tags validate são aplicadas antes
// de qualquer acesso ao banco.

type CreateUserRequest struct {
	Username       string `json:"username" validate:"required,max=60"`
	Name           string `json:"name" validate:"required"`
	Role           string `json:"role" validate:"omitempty,oneof=agente supervisor administrador"`
	MunicipalityID *uint  `json:"municipio_id" validate:"omitempty,min=1"`
}

type CreateMunicipalityRequest struct {
	Name     string  `json:"nome" validate:"required"`
	State    string  `json:"estado" validate:"omitempty,len=2,alpha"`
	IBGECode *string `json:"codigo_ibge" validate:"omitempty,numeric,len=7"`
	Active   *bool   `json:"ativo"`
}

type CreateLocalityRequest struct {
	Name           string `json:"nome" validate:"required"`
	MunicipalityID uint   `json:"municipio_id" validate:"required"`
	Active         *bool  `json:"ativo"`
}

type CreateBlockRequest struct {
	Number     string `json:"numero" validate:"required"`
	LocalityID uint   `json:"localidade_id" validate:"required"`
}

type CreateTrapRequest struct {
	Number          string           `json:"numero" validate:"required"`
	Address         string           `json:"endereco" validate:"required"`
	ResidentName    *string          `json:"nome_morador"`
	InstallLocation *string          `json:"local_instalacao"`
	Latitude        *decimal.Decimal `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude       *decimal.Decimal `json:"longitude" validate:"omitempty,min=-180,max=180"`
	InstalledAt     *string          `json:"data_instalacao" validate:"omitempty,data"`
	BlockID         uint             `json:"quarteirao_id" validate:"required"`
	MunicipalityID  uint             `json:"municipio_id" validate:"required"`
	Active          *bool            `json:"ativo"`
}

// TrapUpdate é a atualização parcial de uma ovitrampa: só os campos
// presentes no corpo são gravados. Um null no JSON equivale a campo
// ausente; para voltar um campo opcional a NULL use Clear ("limpar").
type TrapUpdate struct {
	Number          *string          `json:"numero" validate:"omitempty,min=1"`
	Address         *string          `json:"endereco" validate:"omitempty,min=1"`
	ResidentName    *string          `json:"nome_morador"`
	InstallLocation *string          `json:"local_instalacao"`
	Latitude        *decimal.Decimal `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude       *decimal.Decimal `json:"longitude" validate:"omitempty,min=-180,max=180"`
	InstalledAt     *string          `json:"data_instalacao" validate:"omitempty,data"`
	BlockID         *uint            `json:"quarteirao_id" validate:"omitempty,min=1"`
	Active          *bool            `json:"ativo"`
	Clear           []string         `json:"limpar" validate:"omitempty,dive,oneof=nome_morador local_instalacao latitude longitude data_instalacao"`
}

// Empty indica que nenhum campo foi enviado.
func (u TrapUpdate) Empty() bool {
	return u.Number == nil && u.Address == nil && u.ResidentName == nil &&
		u.InstallLocation == nil && u.Latitude == nil && u.Longitude == nil &&
		u.InstalledAt == nil && u.BlockID == nil && u.Active == nil &&
		len(u.Clear) == 0
}

type CreateCollectionRequest struct {
	TrapID          uint    `json:"ovitrampa_id" validate:"required"`
	CollectedAt     string  `json:"data_coleta" validate:"required,data"`
	EggCount        *int    `json:"numero_ovos" validate:"omitempty,min=0"`
	ObservationCode *string `json:"observacao_codigo" validate:"omitempty,observacao"`
	ObservationText *string `json:"observacao_texto"`
	ReadingType     string  `json:"tipo_coleta" validate:"required,oneof=primeira segunda"`
}

// BulletinScope delimita o conjunto de armadilhas e coletas de um boletim.
// Serve tanto para o corpo do POST quanto para a query da prévia.
type BulletinScope struct {
	MunicipalityID uint   `json:"municipio_id" query:"municipioId" validate:"required"`
	LocalityID     *uint  `json:"localidade_id" query:"localidadeId" validate:"omitempty,min=1"`
	InstalledAt    string `json:"data_instalacao" query:"dataInstalacao" validate:"required,data"`
	ReadAt         string `json:"data_leitura" query:"dataLeitura" validate:"required,data"`
}

type CreateBulletinRequest struct {
	BulletinScope
	ResponsibleAgent string `json:"agente_responsavel" validate:"required"`
}

// ExportRequest filtra os boletins enviados ao formatador.
type ExportRequest struct {
	MunicipalityID *uint  `json:"municipio_id" validate:"omitempty,min=1"`
	BulletinIDs    []uint `json:"boletim_ids" validate:"omitempty,dive,min=1"`
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// ParseDate aceita RFC3339 ou só a data (AAAA-MM-DD). Datas sem fuso são UTC.
func ParseDate(s string) (time.Time, error) {
	return ParseDateIn(s, time.UTC)
}

// ParseDateIn interpreta datas sem fuso em loc. O resultado sempre volta
// em UTC, que é como as datas são gravadas.
func ParseDateIn(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("data invalida: %q", s)
}
