package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/services"
)

// BulletinController emite e lista boletins. Os totais nunca vêm do
// cliente: são calculados no servidor a partir do escopo.
type BulletinController struct {
	svc services.BulletinService
}

// NewBulletinController recebe o BulletinService e devolve o controller
// pronto para ser registrado.
func NewBulletinController(svc services.BulletinService) *BulletinController {
	return &BulletinController{svc: svc}
}

// Register associa as rotas de boletins ao grupo recebido.
func (ctr *BulletinController) Register(g *echo.Group) {
	g.GET("/boletins", ctr.ListBulletins)
	g.POST("/boletins", ctr.CreateBulletin)
	g.GET("/boletins/previa", ctr.PreviewBulletin)
	g.GET("/boletins/:id", ctr.GetBulletin)
}

// ListBulletins trata GET "/boletins", com filtro opcional ?municipioId=.
// Os mais recentes vêm primeiro.
func (ctr *BulletinController) ListBulletins(c echo.Context) error {
	municipio, err := queryID(c, "municipioId")
	if err != nil {
		return respondError(c, err)
	}
	list, err := ctr.svc.ListBulletins(c.Request().Context(), municipio)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// CreateBulletin trata POST "/boletins". Qualquer total enviado no corpo é
// ignorado; a resposta 201 traz os totais calculados.
func (ctr *BulletinController) CreateBulletin(c echo.Context) error {
	req := new(models.CreateBulletinRequest)
	if err := bindAndValidate(c, req); err != nil {
		return respondError(c, err)
	}
	b, err := ctr.svc.CreateBulletin(c.Request().Context(), actorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// PreviewBulletin lê o escopo da query string:
// ?municipioId=&localidadeId=&dataInstalacao=&dataLeitura=
func (ctr *BulletinController) PreviewBulletin(c echo.Context) error {
	scope := new(models.BulletinScope)
	if err := bindAndValidate(c, scope); err != nil {
		return respondError(c, err)
	}
	p, err := ctr.svc.PreviewBulletin(c.Request().Context(), scope)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// GetBulletin trata GET "/boletins/:id".
func (ctr *BulletinController) GetBulletin(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	b, err := ctr.svc.GetBulletin(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}
