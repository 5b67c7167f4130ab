package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/services"
)

// TrapController agrupa as rotas de ovitrampas.
type TrapController struct {
	svc services.TrapService
}

// NewTrapController recebe o TrapService e devolve o controller pronto para
// ser registrado.
func NewTrapController(svc services.TrapService) *TrapController {
	return &TrapController{svc: svc}
}

// Register associa as rotas de ovitrampas ao grupo recebido. DELETE só
// desativa a armadilha.
func (ctr *TrapController) Register(g *echo.Group) {
	g.GET("/ovitrampas", ctr.ListTraps)
	g.POST("/ovitrampas", ctr.CreateTrap)
	g.GET("/ovitrampas/:id", ctr.GetTrap)
	g.PUT("/ovitrampas/:id", ctr.UpdateTrap)
	g.DELETE("/ovitrampas/:id", ctr.DeactivateTrap)
}

// ListTraps aceita ?municipioId= para filtrar por município.
func (ctr *TrapController) ListTraps(c echo.Context) error {
	municipio, err := queryID(c, "municipioId")
	if err != nil {
		return respondError(c, err)
	}
	list, err := ctr.svc.ListTraps(c.Request().Context(), municipio)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// CreateTrap trata POST "/ovitrampas". Espera um
// models.CreateTrapRequest no corpo; o quarteirão precisa pertencer ao
// município informado. Exige X-User-ID e devolve 201 com a armadilha.
func (ctr *TrapController) CreateTrap(c echo.Context) error {
	req := new(models.CreateTrapRequest)
	if err := bindAndValidate(c, req); err != nil {
		return respondError(c, err)
	}
	t, err := ctr.svc.CreateTrap(c.Request().Context(), actorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// GetTrap trata GET "/ovitrampas/:id" e devolve a armadilha com o
// quarteirão carregado, ou 404.
func (ctr *TrapController) GetTrap(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	t, err := ctr.svc.GetTrap(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// UpdateTrap aplica atualização parcial: só os campos enviados mudam.
func (ctr *TrapController) UpdateTrap(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	upd := new(models.TrapUpdate)
	if err := bindAndValidate(c, upd); err != nil {
		return respondError(c, err)
	}
	t, err := ctr.svc.UpdateTrap(c.Request().Context(), actorFrom(c), id, upd)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// DeactivateTrap trata DELETE "/ovitrampas/:id" e responde 204. As
// coletas da armadilha são mantidas.
func (ctr *TrapController) DeactivateTrap(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := ctr.svc.DeactivateTrap(c.Request().Context(), actorFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
