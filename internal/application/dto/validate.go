package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/vendofy-api/internal/domain"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Usar el nombre JSON del campo en los mensajes.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				name = strings.SplitN(f.Tag.Get("query"), ",", 2)[0]
			}
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate valida s según sus tags `validate` y devuelve un domain.ValidationError
// con el primer campo inválido.
func Validate(s any) error {
	err := validatorInstance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &domain.ValidationError{Field: fe.Field(), Message: describe(fe)}
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "email":
		return "debe ser un email válido"
	case "min":
		return "debe ser al menos " + fe.Param()
	case "max":
		return "debe ser como máximo " + fe.Param()
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "gt":
		return "debe ser mayor que " + fe.Param()
	case "gte":
		return "debe ser mayor o igual que " + fe.Param()
	case "uuid":
		return "debe ser un UUID"
	}
	return "valor inválido (" + fe.Tag() + ")"
}
