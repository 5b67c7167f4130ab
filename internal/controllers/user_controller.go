package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/services"
)

// UserController cadastra os agentes que aparecem como autores das
// operações.
type UserController struct {
	svc services.UserService
}

// NewUserController recebe o UserService e devolve o controller pronto
// para ser registrado.
func NewUserController(svc services.UserService) *UserController {
	return &UserController{svc: svc}
}

// Register associa as rotas de usuários ao grupo recebido.
func (ctr *UserController) Register(g *echo.Group) {
	g.POST("/usuarios", ctr.CreateUser)
	g.GET("/usuarios/:id", ctr.GetUser)
}

// CreateUser trata POST "/usuarios". Não exige X-User-ID: é assim que o
// primeiro agente é criado.
func (ctr *UserController) CreateUser(c echo.Context) error {
	req := new(models.CreateUserRequest)
	if err := bindAndValidate(c, req); err != nil {
		return respondError(c, err)
	}
	u, err := ctr.svc.CreateUser(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

// GetUser trata GET "/usuarios/:id".
func (ctr *UserController) GetUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	u, err := ctr.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}
