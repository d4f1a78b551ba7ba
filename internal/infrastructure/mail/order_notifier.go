package mail

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/vendofy-api/internal/application/ordering"
	"github.com/jhoicas/vendofy-api/internal/application/ports"
	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	lifecycle "github.com/jhoicas/vendofy-api/internal/domain/ordering"
	"github.com/jhoicas/vendofy-api/pkg/logger"
)

const defaultSendTimeout = 15 * time.Second

var _ ordering.Notifier = (*OrderNotifier)(nil)

// OrderNotifier renderiza los correos de pedidos y los envía en segundo plano.
// Los fallos se registran y se cuentan; nunca llegan a quien dispara el evento.
type OrderNotifier struct {
	mailer      ports.Mailer
	tpl         *template.Template
	log         *logger.Logger
	metrics     ports.Metrics
	frontendURL string
	timeout     time.Duration
	wg          sync.WaitGroup
}

// NewOrderNotifier parsea las plantillas embebidas. Error solo si alguna plantilla es inválida.
func NewOrderNotifier(mailer ports.Mailer, log *logger.Logger, metrics ports.Metrics, frontendURL string) (*OrderNotifier, error) {
	tpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("mail: plantillas: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &OrderNotifier{
		mailer:      mailer,
		tpl:         tpl,
		log:         log.Component("notifier"),
		metrics:     metrics,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		timeout:     defaultSendTimeout,
	}, nil
}

// SetTimeout límite por envío.
func (n *OrderNotifier) SetTimeout(d time.Duration) { n.timeout = d }

type orderPlacedData struct {
	Subject     string
	Distributor *entity.User
	Customer    *entity.User
	Order       *entity.Order
	Link        string
}

// OrderPlaced avisa al distribuidor de un pedido nuevo.
func (n *OrderNotifier) OrderPlaced(distributor, customer *entity.User, order *entity.Order) {
	if distributor == nil || distributor.Email == "" {
		n.log.Warn().Str("order", order.OrderNumber).Msg("distribuidor sin email, no se notifica el pedido")
		return
	}
	subject := fmt.Sprintf("Nuevo pedido %s de %s", order.OrderNumber, customer.Name)
	n.dispatch(KindOrderPlaced, distributor.Email, subject, orderPlacedData{
		Subject:     subject,
		Distributor: distributor,
		Customer:    customer,
		Order:       order,
		Link:        n.frontendURL + "/orders/" + order.ID,
	})
}

type deliveryDateData struct {
	Subject  string
	Customer *entity.User
	Order    *entity.Order
	Link     string
}

// DeliveryDateChanged avisa al cliente de la nueva fecha de entrega.
func (n *OrderNotifier) DeliveryDateChanged(customer *entity.User, order *entity.Order) {
	if customer == nil || customer.Email == "" {
		return
	}
	subject := fmt.Sprintf("Tu pedido %s tiene nueva fecha de entrega", order.OrderNumber)
	n.dispatch(KindDeliveryDateChanged, customer.Email, subject, deliveryDateData{
		Subject:  subject,
		Customer: customer,
		Order:    order,
		Link:     n.frontendURL + "/orders/" + order.ID,
	})
}

type quantityRequestData struct {
	Subject     string
	Admin       *entity.User
	Distributor *entity.User
	Summary     lifecycle.Summary
	Link        string
}

// QuantityRequest envía al admin el resumen agregado de cantidades.
func (n *OrderNotifier) QuantityRequest(admin, distributor *entity.User, summary lifecycle.Summary) {
	if admin == nil || admin.Email == "" {
		return
	}
	subject := fmt.Sprintf("Solicitud de cantidades de %s", distributor.Name)
	n.dispatch(KindQuantityRequest, admin.Email, subject, quantityRequestData{
		Subject:     subject,
		Admin:       admin,
		Distributor: distributor,
		Summary:     summary,
		Link:        n.frontendURL + "/orders?sent_to_admin=true",
	})
}

// dispatch renderiza en el goroutine de quien llama (los datos pueden cambiar después)
// y envía en segundo plano.
func (n *OrderNotifier) dispatch(kind, to, subject string, data any) {
	html, err := render(n.tpl, kind, data)
	if err != nil {
		n.metrics.Notification(kind, "failed")
		n.log.Error().Err(err).Str("kind", kind).Str("to", to).Msg("no se pudo renderizar el correo")
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.mailer.Send(ctx, to, subject, html); err != nil {
			n.metrics.Notification(kind, "failed")
			n.log.Error().Err(err).Str("kind", kind).Str("to", to).Msg("fallo enviando correo")
			return
		}
		n.metrics.Notification(kind, "sent")
		n.log.Debug().Str("kind", kind).Str("to", to).Msg("correo enviado")
	}()
}

// Wait espera los envíos pendientes o hasta que ctx expire (apagado ordenado).
func (n *OrderNotifier) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
