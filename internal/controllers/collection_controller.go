package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/services"
)

// CollectionController agrupa as rotas de coletas e a tabela de status.
type CollectionController struct {
	svc services.CollectionService
}

// NewCollectionController recebe o CollectionService e devolve o
// controller pronto para ser registrado.
func NewCollectionController(svc services.CollectionService) *CollectionController {
	return &CollectionController{svc: svc}
}

// Register associa as rotas de coletas ao grupo recebido.
func (ctr *CollectionController) Register(g *echo.Group) {
	g.GET("/ovitrampas/:id/coletas", ctr.ListByTrap)
	g.POST("/coletas", ctr.CreateCollection)
	g.GET("/coletas/status", ctr.StatusTable)
}

// ListByTrap devolve as coletas mais recentes primeiro.
func (ctr *CollectionController) ListByTrap(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	list, err := ctr.svc.ListByTrap(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// CreateCollection trata POST "/coletas". Responde 409 quando a armadilha
// já tem leitura do mesmo tipo no ciclo atual.
func (ctr *CollectionController) CreateCollection(c echo.Context) error {
	req := new(models.CreateCollectionRequest)
	if err := bindAndValidate(c, req); err != nil {
		return respondError(c, err)
	}
	col, err := ctr.svc.CreateCollection(c.Request().Context(), actorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, col)
}

// StatusTable trata GET "/coletas/status", com filtro opcional
// ?municipioId=.
func (ctr *CollectionController) StatusTable(c echo.Context) error {
	municipio, err := queryID(c, "municipioId")
	if err != nil {
		return respondError(c, err)
	}
	rows, err := ctr.svc.StatusTable(c.Request().Context(), municipio)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}
