package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/services"
)

// StatsController serve o painel e as rotas auxiliares de leitura.
type StatsController struct {
	svc  services.StatsService
	ping func() error
}

// NewStatsController recebe o StatsService e a função de ping do banco
// usada por "/health".
func NewStatsController(svc services.StatsService, ping func() error) *StatsController {
	return &StatsController{svc: svc, ping: ping}
}

// Register associa as rotas de painel, saúde e legenda ao grupo recebido.
func (ctr *StatsController) Register(g *echo.Group) {
	g.GET("/stats", ctr.GetStats)
	g.GET("/health", ctr.Health)
	g.GET("/observacoes", ctr.ListObservations)
}

// GetStats trata GET "/stats". Com o banco vazio todos os contadores
// vêm zerados.
func (ctr *StatsController) GetStats(c echo.Context) error {
	st, err := ctr.svc.GetDashboardStats(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

// Health trata GET "/health": 200 com o banco respondendo, 503 caso
// contrário.
func (ctr *StatsController) Health(c echo.Context) error {
	if ctr.ping != nil {
		if err := ctr.ping(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "database": err.Error()})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// ListObservations devolve a legenda dos códigos de observação.
func (ctr *StatsController) ListObservations(c echo.Context) error {
	return c.JSON(http.StatusOK, models.ObservationLegends())
}
