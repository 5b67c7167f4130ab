package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/aggregation"
)

// ErrIntegrationUnavailable indica que o sistema externo não está configurado.
var ErrIntegrationUnavailable = errors.New("integracao nao configurada")

// ErrUnsupportedFormat indica que não há formatador registrado para o formato pedido.
var ErrUnsupportedFormat = errors.New("formato de exportacao nao suportado")

// FieldError descreve um campo rejeitado.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError agrupa os campos inválidos de uma requisição.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError cria um ValidationError com um único campo.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "dados invalidos: " + strings.Join(parts, "; ")
}

// NotFoundError indica que o registro referenciado não existe.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d nao encontrado", e.Entity, e.ID)
}

// ConflictError indica uma violação de unicidade de negócio, como uma
// segunda coleta do mesmo tipo no mesmo ciclo.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// StoreError envolve falhas do banco. Não há nova tentativa automática.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IntegrationError é a falha reportada pelo sistema externo.
type IntegrationError struct {
	Kind string
	Err  error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("falha na integracao %s: %v", e.Kind, e.Err)
}

func (e *IntegrationError) Unwrap() error {
	return e.Err
}

// storeErr envolve err num StoreError, a não ser que já seja um erro de
// domínio (validação, não encontrado, conflito, escopo inconsistente).
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		ve *ValidationError
		nf *NotFoundError
		ce *ConflictError
		se *StoreError
		ie *IntegrationError
		ae *aggregation.InputError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &nf), errors.As(err, &ce),
		errors.As(err, &se), errors.As(err, &ie), errors.As(err, &ae),
		errors.Is(err, ErrIntegrationUnavailable), errors.Is(err, ErrUnsupportedFormat):
		return err
	}
	return &StoreError{Op: op, Err: err}
}
