// Package query define un árbol de expresiones de filtrado independiente del almacenamiento.
//
// Los filtros por rol, por texto de búsqueda y por campos se combinan siempre con AllOf,
// de modo que la búsqueda nunca amplía el alcance de visibilidad del usuario.
// La traducción a SQL vive en infrastructure/postgres.
package query

import "strings"

// Expr nodo del árbol de filtrado.
type Expr interface {
	isExpr()
}

// Eq Field = Value.
type Eq struct {
	Field string
	Value any
}

// In Field IN (Values). Con Values vacío no coincide con nada.
type In struct {
	Field  string
	Values []string
}

// IsNull Field IS NULL (o IS NOT NULL si Not).
type IsNull struct {
	Field string
	Not   bool
}

// Search coincidencia parcial, sin distinguir mayúsculas, de Text en cualquiera de Fields.
type Search struct {
	Fields []string
	Text   string
}

// And conjunción.
type And []Expr

// Or disyunción.
type Or []Expr

// True coincide con todo.
type True struct{}

// False no coincide con nada.
type False struct{}

func (Eq) isExpr()     {}
func (In) isExpr()     {}
func (IsNull) isExpr() {}
func (Search) isExpr() {}
func (And) isExpr()    {}
func (Or) isExpr()     {}
func (True) isExpr()   {}
func (False) isExpr()  {}

// AllOf conjunción simplificada: ignora nil y True, cortocircuita con False.
func AllOf(exprs ...Expr) Expr {
	out := make(And, 0, len(exprs))
	for _, e := range exprs {
		switch v := e.(type) {
		case nil, True:
			continue
		case False:
			return False{}
		case And:
			inner := AllOf(v...)
			switch iv := inner.(type) {
			case True:
				continue
			case False:
				return False{}
			case And:
				out = append(out, iv...)
			default:
				out = append(out, iv)
			}
		default:
			out = append(out, e)
		}
	}
	switch len(out) {
	case 0:
		return True{}
	case 1:
		return out[0]
	}
	return out
}

// AnyOf disyunción simplificada: ignora nil y False, cortocircuita con True.
func AnyOf(exprs ...Expr) Expr {
	out := make(Or, 0, len(exprs))
	for _, e := range exprs {
		switch e.(type) {
		case nil, False:
			continue
		case True:
			return True{}
		default:
			out = append(out, e)
		}
	}
	switch len(out) {
	case 0:
		return False{}
	case 1:
		return out[0]
	}
	return out
}

// TextSearch devuelve un Search sobre fields, o True si text está vacío.
func TextSearch(text string, fields ...string) Expr {
	text = strings.TrimSpace(text)
	if text == "" || len(fields) == 0 {
		return True{}
	}
	return Search{Fields: fields, Text: text}
}

// FieldEq devuelve Eq, o True si value está vacío (filtro opcional de query string).
func FieldEq(field, value string) Expr {
	if value == "" {
		return True{}
	}
	return Eq{Field: field, Value: value}
}
