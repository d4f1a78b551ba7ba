package ports

import "context"

// Mailer puerto de salida para correo transaccional.
// Contrato: send(to, subject, html) → éxito | fallo (no fatal para quien llama).
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}
