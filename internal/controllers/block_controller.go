package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/services"
)

// BlockController trata quarteirões.
type BlockController struct {
	svc services.BlockService
}

// NewBlockController recebe o BlockService e devolve o controller pronto
// para ser registrado.
func NewBlockController(svc services.BlockService) *BlockController {
	return &BlockController{svc: svc}
}

// Register associa as rotas de quarteirões ao grupo recebido,
// normalmente o prefixo "/api".
func (ctr *BlockController) Register(g *echo.Group) {
	g.GET("/localidades/:id/quarteiroes", ctr.ListByLocality)
	g.POST("/quarteiroes", ctr.CreateBlock)
}

// ListByLocality trata GET "/localidades/:id/quarteiroes".
func (ctr *BlockController) ListByLocality(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	list, err := ctr.svc.ListBlocksByLocality(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// CreateBlock trata POST "/quarteiroes". Exige o cabeçalho X-User-ID e
// devolve 201 com o quarteirão criado.
func (ctr *BlockController) CreateBlock(c echo.Context) error {
	req := new(models.CreateBlockRequest)
	if err := bindAndValidate(c, req); err != nil {
		return respondError(c, err)
	}
	b, err := ctr.svc.CreateBlock(c.Request().Context(), actorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}
