package postgres

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/vendofy-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// constraintFields campo de dominio afectado por cada índice único.
var constraintFields = map[string]string{
	"users_email_key":           "email",
	"orders_order_number_key":   "order_number",
	"products_sku_key":          "sku",
	"admin_product_pricing_key": "product_id",
	"customer_pricing_key":      "product_id",
	"revoked_tokens_pkey":       "jti",
}

// writeError traduce errores de escritura: unicidad → *domain.DuplicateError con el campo.
func writeError(op string, err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		field := "id"
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if f, ok := constraintFields[pgErr.ConstraintName]; ok {
				field = f
			}
		}
		return &domain.DuplicateError{Field: field}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// nullIfEmpty "" → NULL para columnas opcionales.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// utc normaliza un puntero de tiempo para escritura.
func utc(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
