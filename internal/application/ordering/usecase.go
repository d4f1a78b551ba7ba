// Package ordering casos de uso del ciclo de vida de pedidos: creación, transiciones
// masivas del distribuidor/admin, recepción y pago del cliente, consultas y nota de entrega.
package ordering

import (
	"time"

	"github.com/jhoicas/vendofy-api/internal/application/access"
	"github.com/jhoicas/vendofy-api/internal/application/ports"
	"github.com/jhoicas/vendofy-api/internal/domain/repository"
	"github.com/jhoicas/vendofy-api/pkg/logger"
)

// Nombres de transición usados en métricas.
const (
	TransitionCreated         = "created"
	TransitionMarkedForToday  = "marked_for_today"
	TransitionDeliveryDate    = "delivery_date_updated"
	TransitionSentToAdmin     = "sent_to_admin"
	TransitionReceived        = "received"
	TransitionCustomerReceipt = "customer_received"
	TransitionPayment         = "payment_updated"
)

// UseCase casos de uso de pedidos.
type UseCase struct {
	txRunner TxRunner
	orders   repository.OrderRepository
	users    repository.UserRepository
	products repository.ProductRepository
	prices   PriceResolver
	scoper   *access.Scoper
	notifier Notifier
	metrics  ports.Metrics
	pdf      ports.OrderPDFGenerator
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso. metrics y log pueden ser nil.
func NewUseCase(
	txRunner TxRunner,
	orders repository.OrderRepository,
	users repository.UserRepository,
	products repository.ProductRepository,
	prices PriceResolver,
	scoper *access.Scoper,
	notifier Notifier,
	pdf ports.OrderPDFGenerator,
	metrics ports.Metrics,
	log *logger.Logger,
) *UseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		txRunner: txRunner,
		orders:   orders,
		users:    users,
		products: products,
		prices:   prices,
		scoper:   scoper,
		notifier: notifier,
		pdf:      pdf,
		metrics:  metrics,
		log:      log.Component("ordering"),
		now:      time.Now,
	}
}

// SetClock reemplaza el reloj (tests).
func (uc *UseCase) SetClock(now func() time.Time) {
	uc.now = now
}
