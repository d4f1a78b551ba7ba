package postgres

import (
	"fmt"
	"strings"

	"github.com/jhoicas/vendofy-api/internal/domain/query"
)

// Columns lista blanca campo lógico → columna SQL. Un campo ausente es un error,
// nunca se interpola texto del cliente en la consulta.
type Columns map[string]string

// RenderSQL traduce e a una condición WHERE con placeholders desde $startArg.
func RenderSQL(e query.Expr, cols Columns, startArg int) (string, []any, error) {
	r := &sqlRenderer{cols: cols, next: startArg}
	sql, err := r.render(e)
	if err != nil {
		return "", nil, err
	}
	return sql, r.args, nil
}

type sqlRenderer struct {
	cols Columns
	args []any
	next int
}

func (r *sqlRenderer) arg(v any) string {
	r.args = append(r.args, v)
	p := fmt.Sprintf("$%d", r.next)
	r.next++
	return p
}

func (r *sqlRenderer) column(field string) (string, error) {
	col, ok := r.cols[field]
	if !ok {
		return "", fmt.Errorf("filtro: campo no permitido %q", field)
	}
	return col, nil
}

func (r *sqlRenderer) render(e query.Expr) (string, error) {
	switch v := e.(type) {
	case nil, query.True:
		return "TRUE", nil
	case query.False:
		return "FALSE", nil
	case query.Eq:
		col, err := r.column(v.Field)
		if err != nil {
			return "", err
		}
		if v.Value == nil {
			return col + " IS NULL", nil
		}
		return col + " = " + r.arg(v.Value), nil
	case query.In:
		col, err := r.column(v.Field)
		if err != nil {
			return "", err
		}
		if len(v.Values) == 0 {
			return "FALSE", nil
		}
		return col + " = ANY(" + r.arg(v.Values) + ")", nil
	case query.IsNull:
		col, err := r.column(v.Field)
		if err != nil {
			return "", err
		}
		if v.Not {
			return col + " IS NOT NULL", nil
		}
		return col + " IS NULL", nil
	case query.Search:
		if len(v.Fields) == 0 || strings.TrimSpace(v.Text) == "" {
			return "TRUE", nil
		}
		cols := make([]string, 0, len(v.Fields))
		for _, f := range v.Fields {
			col, err := r.column(f)
			if err != nil {
				return "", err
			}
			cols = append(cols, col)
		}
		p := r.arg("%" + escapeLike(strings.TrimSpace(v.Text)) + "%")
		parts := make([]string, 0, len(cols))
		for _, col := range cols {
			parts = append(parts, col+" ILIKE "+p)
		}
		return "(" + strings.Join(parts, " OR ") + ")", nil
	case query.And:
		return r.join([]query.Expr(v), " AND ", "TRUE")
	case query.Or:
		return r.join([]query.Expr(v), " OR ", "FALSE")
	}
	return "", fmt.Errorf("filtro: expresión no soportada %T", e)
}

func (r *sqlRenderer) join(exprs []query.Expr, op, empty string) (string, error) {
	if len(exprs) == 0 {
		return empty, nil
	}
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		s, err := r.render(e)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return "(" + strings.Join(parts, op) + ")", nil
}

// escapeLike escapa los comodines de LIKE para que el texto se busque literalmente.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
