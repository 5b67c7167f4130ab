package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/services"
)

// MunicipalityController agrupa as rotas de municípios.
type MunicipalityController struct {
	svc services.MunicipalityService
}

// NewMunicipalityController recebe o MunicipalityService e devolve o
// controller pronto para ser registrado.
func NewMunicipalityController(svc services.MunicipalityService) *MunicipalityController {
	return &MunicipalityController{svc: svc}
}

// Register associa as rotas de municípios ao grupo /api.
func (ctr *MunicipalityController) Register(g *echo.Group) {
	g.GET("/municipios", ctr.ListMunicipalities)
	g.POST("/municipios", ctr.CreateMunicipality)
	g.GET("/municipios/:id", ctr.GetMunicipality)
	g.DELETE("/municipios/:id", ctr.DeactivateMunicipality)
}

// ListMunicipalities trata GET "/municipios" e devolve os ativos.
func (ctr *MunicipalityController) ListMunicipalities(c echo.Context) error {
	list, err := ctr.svc.ListMunicipalities(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// CreateMunicipality trata POST "/municipios". Sem estado informado o
// município é gravado como RS.
func (ctr *MunicipalityController) CreateMunicipality(c echo.Context) error {
	req := new(models.CreateMunicipalityRequest)
	if err := bindAndValidate(c, req); err != nil {
		return respondError(c, err)
	}
	m, err := ctr.svc.CreateMunicipality(c.Request().Context(), actorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

// GetMunicipality trata GET "/municipios/:id".
func (ctr *MunicipalityController) GetMunicipality(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	m, err := ctr.svc.GetMunicipality(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// DeactivateMunicipality desliga o flag ativo; o registro continua no banco.
func (ctr *MunicipalityController) DeactivateMunicipality(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := ctr.svc.DeactivateMunicipality(c.Request().Context(), actorFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
