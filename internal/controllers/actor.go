package controllers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/services"
)

// HeaderUserID identifica o agente que executa a ação. Não há autenticação.
const HeaderUserID = "X-User-ID"

const actorKey = "actor"

// ActorMiddleware lê o X-User-ID e guarda o ator no contexto da requisição.
// Ausente, o ator fica zerado e as escritas respondem 400.
func ActorMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(HeaderUserID)
			if raw == "" {
				return next(c)
			}
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return respondError(c, services.NewValidationError(HeaderUserID, "deve ser numerico"))
			}
			c.Set(actorKey, services.Actor{UserID: uint(id)})
			return next(c)
		}
	}
}

func actorFrom(c echo.Context) services.Actor {
	a, _ := c.Get(actorKey).(services.Actor)
	return a
}
