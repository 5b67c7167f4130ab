package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/services"
)

// IntegrationController expõe exportação de boletins e sincronização com o Conta Ovos.
type IntegrationController struct {
	svc services.IntegrationService
}

// NewIntegrationController recebe o IntegrationService e devolve o
// controller pronto para ser registrado.
func NewIntegrationController(svc services.IntegrationService) *IntegrationController {
	return &IntegrationController{svc: svc}
}

// Register associa as rotas de exportação, sincronização e histórico de
// execuções ao grupo recebido.
func (ctr *IntegrationController) Register(g *echo.Group) {
	g.POST("/export/pdf", ctr.export(services.FormatPDF))
	g.POST("/export/word", ctr.export(services.FormatWord))
	g.POST("/sync/conta-ovos", ctr.SyncContaOvos)
	g.GET("/integracoes", ctr.ListRuns)
}

func (ctr *IntegrationController) export(format string) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(models.ExportRequest)
		if err := bindAndValidate(c, req); err != nil {
			return respondError(c, err)
		}
		res, err := ctr.svc.Export(c.Request().Context(), actorFrom(c), format, req)
		if err != nil {
			return respondError(c, err)
		}
		c.Response().Header().Set("X-Execution-ID", res.ExecutionID)
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+res.Filename+`"`)
		return c.Blob(http.StatusOK, res.ContentType, res.Content)
	}
}

// SyncContaOvos trata POST "/sync/conta-ovos". Responde 503 quando o
// Conta Ovos não está configurado.
func (ctr *IntegrationController) SyncContaOvos(c echo.Context) error {
	res, err := ctr.svc.SyncContaOvos(c.Request().Context(), actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// ListRuns aceita ?limit= (padrão 50).
func (ctr *IntegrationController) ListRuns(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	runs, err := ctr.svc.ListRuns(c.Request().Context(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, runs)
}
