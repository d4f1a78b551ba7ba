package ports

// Metrics contadores de negocio. Las implementaciones deben ser seguras para uso concurrente.
type Metrics interface {
	// OrderTransition cuenta n pedidos que pasaron por la transición indicada.
	OrderTransition(transition string, n int)
	// Notification cuenta un intento de notificación con su resultado (sent | failed).
	Notification(kind, result string)
}

// NopMetrics implementación vacía.
type NopMetrics struct{}

func (NopMetrics) OrderTransition(string, int)  {}
func (NopMetrics) Notification(string, string) {}
