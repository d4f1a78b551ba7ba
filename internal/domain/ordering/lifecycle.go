// Package ordering contiene las reglas puras del ciclo de vida de un pedido:
//
//	pending ──(marcar para hoy)──▶ in-transit ──(recibir)──▶ delivered
//
// Sub-estados ortogonales: SentToAdmin (se limpia al fijar AdminReceivedAt o ReceivedAt)
// y PaymentStatus (solo tras la recepción, derivado de AmountPaid vs TotalAmount).
// Un pedido recibido solo admite cambios en los campos de pago.
package ordering

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/vendofy-api/internal/domain"
	"github.com/jhoicas/vendofy-api/internal/domain/entity"
)

func errAlreadyReceived(o *entity.Order) error {
	return domain.Invalid("order", "el pedido %s ya fue recibido", o.OrderNumber)
}

// MarkForToday pone el pedido en tránsito con fecha operativa = now.
func MarkForToday(o *entity.Order, now time.Time) error {
	if o.Received() {
		return errAlreadyReceived(o)
	}
	o.MarkedForToday = true
	o.CurrentDeliveryDate = now
	o.Status = entity.OrderStatusInTransit
	o.UpdatedAt = now
	return nil
}

// UpdateDeliveryDate cambia solo la fecha operativa; DesiredDeliveryDate no se toca.
func UpdateDeliveryDate(o *entity.Order, date, now time.Time) error {
	if o.Received() {
		return errAlreadyReceived(o)
	}
	if date.IsZero() {
		return domain.Invalid("current_delivery_date", "fecha requerida")
	}
	o.CurrentDeliveryDate = date
	o.UpdatedAt = now
	return nil
}

// SendToAdmin marca el pedido como escalado al admin.
func SendToAdmin(o *entity.Order, now time.Time) error {
	if o.Received() {
		return errAlreadyReceived(o)
	}
	o.SentToAdmin = true
	o.SentToAdminAt = &now
	o.AdminReceivedAt = nil
	o.UpdatedAt = now
	return nil
}

// MarkReceivedByStaff recepción registrada por distribuidor o admin.
// Requiere pedido marcado para hoy y aún sin recibir.
func MarkReceivedByStaff(o *entity.Order, now time.Time) error {
	if o.Received() {
		return errAlreadyReceived(o)
	}
	if !o.MarkedForToday {
		return domain.Invalid("order", "el pedido %s no está marcado para entrega hoy", o.OrderNumber)
	}
	receive(o, now)
	return nil
}

// MarkReceivedByCustomer recepción confirmada por el cliente; no depende de MarkedForToday.
func MarkReceivedByCustomer(o *entity.Order, now time.Time) error {
	if o.Received() {
		return errAlreadyReceived(o)
	}
	receive(o, now)
	return nil
}

func receive(o *entity.Order, now time.Time) {
	o.ReceivedAt = &now
	o.AdminReceivedAt = &now
	o.SentToAdmin = false
	o.Status = entity.OrderStatusDelivered
	o.UpdatedAt = now
}

// UpdatePayment fija el monto pagado y recalcula PaymentStatus.
func UpdatePayment(o *entity.Order, amountPaid decimal.Decimal, now time.Time) error {
	if !o.Received() {
		return domain.Invalid("amount_paid", "el pedido %s aún no ha sido recibido", o.OrderNumber)
	}
	if amountPaid.IsNegative() {
		return domain.Invalid("amount_paid", "el monto pagado no puede ser negativo")
	}
	o.AmountPaid = amountPaid
	o.PaymentStatus = PaymentStatus(amountPaid, o.TotalAmount)
	o.UpdatedAt = now
	return nil
}

// PaymentStatus 0 → pending; 0 < pagado < total → partial; pagado >= total → paid.
func PaymentStatus(paid, total decimal.Decimal) string {
	switch {
	case paid.LessThanOrEqual(decimal.Zero):
		return entity.PaymentStatusPending
	case paid.LessThan(total):
		return entity.PaymentStatusPartial
	default:
		return entity.PaymentStatusPaid
	}
}
