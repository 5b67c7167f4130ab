package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/aggregation"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/services"
)

// respondError traduz os erros dos serviços para status HTTP. Erros sem
// tradução viram 500 e são devolvidos ao Echo, sem detalhes no corpo.
func respondError(c echo.Context, err error) error {
	var (
		ve *services.ValidationError
		nf *services.NotFoundError
		ce *services.ConflictError
		ie *services.IntegrationError
		ae *aggregation.InputError
		he *echo.HTTPError
	)
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dados invalidos", "details": ve.Fields})
	case errors.As(err, &nf):
		return c.JSON(http.StatusNotFound, echo.Map{"error": nf.Error()})
	case errors.As(err, &ce):
		return c.JSON(http.StatusConflict, echo.Map{"error": ce.Error()})
	case errors.As(err, &ae):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": ae.Error()})
	case errors.Is(err, services.ErrUnsupportedFormat):
		return c.JSON(http.StatusNotImplemented, echo.Map{"error": err.Error()})
	case errors.Is(err, services.ErrIntegrationUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
	case errors.As(err, &ie):
		return c.JSON(http.StatusBadGateway, echo.Map{"error": ie.Error()})
	case errors.As(err, &he):
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}

	// O erro original segue em Internal para o log de requisições.
	return &echo.HTTPError{
		Code:     http.StatusInternalServerError,
		Message:  echo.Map{"error": "erro interno"},
		Internal: err,
	}
}

// bindAndValidate faz o Bind do corpo e aplica as tags validate.
func bindAndValidate(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return services.NewValidationError("body", "formato da requisicao invalido")
	}
	return c.Validate(dst)
}

func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, services.NewValidationError(name, "id invalido")
	}
	return uint(id), nil
}

// queryID lê um filtro numérico opcional da query string.
func queryID(c echo.Context, name string) (*uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, services.NewValidationError(name, "id invalido")
	}
	v := uint(id)
	return &v, nil
}
