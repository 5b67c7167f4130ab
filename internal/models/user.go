package models

import "time"

// Perfis de usuário aceitos no cadastro.
const (
	RoleAgent      = "agente"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "administrador"
)

// User é o agente de campo que registra armadilhas, coletas e boletins.
// Não há autenticação: o usuário só identifica quem executou a ação.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey;column:id"`
	Username       string    `json:"username" gorm:"column:username;not null;uniqueIndex"`
	Name           string    `json:"name" gorm:"column:name;not null"`
	Role           string    `json:"role" gorm:"column:role;not null"`
	MunicipalityID *uint     `json:"municipio_id" gorm:"column:municipio_id"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
