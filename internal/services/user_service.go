package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
)

// UserService cadastra os agentes que aparecem como autores dos registros.
type UserService interface {
	CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

type userService struct {
	db  *gorm.DB
	log *logrus.Entry
}

// NewUserService cria o serviço de usuários.
func NewUserService(db *gorm.DB, log *logrus.Entry) UserService {
	return &userService{db: db, log: log}
}

func (s *userService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	u := &models.User{
		Username:       req.Username,
		Name:           req.Name,
		Role:           req.Role,
		MunicipalityID: req.MunicipalityID,
	}
	if u.Role == "" {
		u.Role = models.RoleAgent
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("username = ?", u.Username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return &ConflictError{Message: "username ja cadastrado"}
		}
		if u.MunicipalityID != nil {
			if err := mustExist(tx, &models.Municipality{}, *u.MunicipalityID, "municipio"); err != nil {
				return err
			}
		}
		return tx.Create(u).Error
	})
	if err != nil {
		return nil, storeErr("criando usuario", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("usuario criado")
	return u, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := mustExist(s.db.WithContext(ctx), &u, id, "usuario"); err != nil {
		return nil, storeErr("buscando usuario", err)
	}
	return &u, nil
}
