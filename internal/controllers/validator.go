package controllers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/services"
)

// RequestValidator implementa echo.Validator sobre o go-playground/validator.
type RequestValidator struct {
	v *validator.Validate
}

// NewRequestValidator registra as validações próprias do domínio:
// "data" (AAAA-MM-DD ou RFC3339) e "observacao" (códigos 1 a 8).
func NewRequestValidator() *RequestValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	// min/max de latitude e longitude comparam o valor como float64
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("data", validateDate)
	_ = v.RegisterValidation("observacao", validateObservation)

	return &RequestValidator{v: v}
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := models.ParseDate(fl.Field().String())
	return err == nil
}

func validateObservation(fl validator.FieldLevel) bool {
	return models.ObservationCode(fl.Field().String()).Valid()
}

// Validate devolve *services.ValidationError com um item por campo inválido.
func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &services.ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, services.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obrigatorio"
	case "data":
		return "data invalida, use AAAA-MM-DD"
	case "observacao":
		return "codigo de observacao deve ser de 1 a 8"
	case "oneof":
		return "deve ser um de: " + fe.Param()
	case "min":
		return "minimo " + fe.Param()
	case "max":
		return "maximo " + fe.Param()
	case "len":
		return "deve ter " + fe.Param() + " caracteres"
	default:
		return "valor invalido (" + fe.Tag() + ")"
	}
}
