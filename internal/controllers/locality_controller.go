package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/services"
)

// LocalityController agrupa as rotas de localidades.
type LocalityController struct {
	svc services.LocalityService
}

// NewLocalityController recebe o LocalityService e devolve o controller
// pronto para ser registrado.
func NewLocalityController(svc services.LocalityService) *LocalityController {
	return &LocalityController{svc: svc}
}

// Register associa as rotas de localidades ao grupo recebido.
func (ctr *LocalityController) Register(g *echo.Group) {
	g.GET("/municipios/:id/localidades", ctr.ListByMunicipality)
	g.POST("/localidades", ctr.CreateLocality)
	g.DELETE("/localidades/:id", ctr.DeactivateLocality)
}

// ListByMunicipality trata GET "/municipios/:id/localidades" e devolve só
// as localidades ativas.
func (ctr *LocalityController) ListByMunicipality(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	list, err := ctr.svc.ListLocalitiesByMunicipality(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// CreateLocality trata POST "/localidades".
func (ctr *LocalityController) CreateLocality(c echo.Context) error {
	req := new(models.CreateLocalityRequest)
	if err := bindAndValidate(c, req); err != nil {
		return respondError(c, err)
	}
	l, err := ctr.svc.CreateLocality(c.Request().Context(), actorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, l)
}

// DeactivateLocality trata DELETE "/localidades/:id" e responde 204.
func (ctr *LocalityController) DeactivateLocality(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := ctr.svc.DeactivateLocality(c.Request().Context(), actorFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
