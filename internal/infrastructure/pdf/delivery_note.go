// Package pdf genera la nota de entrega de un pedido.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Vendofy + N° de pedido  │  Fechas                  │
//	│  CLIENTE / DISTRIBUIDOR                                     │
//	│  TABLA: Cant | Producto | P.Unit | Subtotal                 │
//	│  TOTALES: Total / Pagado / Saldo                            │
//	│  FIRMA DE RECIBIDO + QR con el número de pedido             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/vendofy-api/internal/application/dto"
	"github.com/jhoicas/vendofy-api/internal/application/ports"
	"github.com/jhoicas/vendofy-api/pkg/money"
)

var (
	colorPrimary = &props.Color{Red: 31, Green: 111, Blue: 235}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var statusLabels = map[string]string{
	"pending":    "Pendiente",
	"in-transit": "En camino",
	"delivered":  "Entregado",
	"partial":    "Parcial",
	"paid":       "Pagado",
}

var _ ports.OrderPDFGenerator = (*DeliveryNoteGenerator)(nil)

// DeliveryNoteGenerator implementa ports.OrderPDFGenerator con Maroto v2.
type DeliveryNoteGenerator struct{}

// NewDeliveryNoteGenerator construye el generador.
func NewDeliveryNoteGenerator() *DeliveryNoteGenerator { return &DeliveryNoteGenerator{} }

// GenerateDeliveryNote genera el PDF y devuelve sus bytes.
func (g *DeliveryNoteGenerator) GenerateDeliveryNote(ctx context.Context, order *dto.OrderResponse) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Nota de entrega "+order.OrderNumber, true).
		WithAuthor(order.Distributor.Name, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(order.Items)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(order))
	if order.Notes != "" {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Notas: "+order.Notes, props.Text{Size: 8, Top: 2, Color: colorGray}),
		)))
	}
	m.AddRows(line.NewRow(6))
	m.AddRows(signatureRow(order))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(o *dto.OrderResponse) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New("VENDOFY", props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1}),
			text.New("NOTA DE ENTREGA", props.Text{Style: fontstyle.Bold, Size: 9, Top: 9, Color: colorGray}),
			text.New(o.OrderNumber, props.Text{Style: fontstyle.Bold, Size: 11, Top: 14}),
		),
		col.New(5).Add(
			text.New("Fecha de pedido: "+o.CreatedAt.Format("02/01/2006"), props.Text{Size: 8, Align: align.Right, Top: 2}),
			text.New("Entrega solicitada: "+o.DesiredDeliveryDate.Format("02/01/2006"), props.Text{Size: 8, Align: align.Right, Top: 7}),
			text.New("Entrega programada: "+o.CurrentDeliveryDate.Format("02/01/2006"), props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 12}),
			text.New("Estado: "+label(o.Status), props.Text{Size: 8, Align: align.Right, Top: 17, Color: colorGray}),
		),
	)
}

func partiesRow(o *dto.OrderResponse) core.Row {
	party := func(title string, u dto.UserRef) []core.Component {
		return []core.Component{
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(u.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(nonEmpty(u.Email, "-"), props.Text{Size: 8, Top: 12, Color: colorGray}),
		}
	}
	return row.New(18).Add(
		col.New(6).Add(party("CLIENTE", o.Customer)...),
		col.New(6).Add(party("DISTRIBUIDOR", o.Distributor)...),
	)
}

func tableHeaderRow() core.Row {
	h := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Color: colorPrimary}))
	}
	return row.New(8).Add(
		h("Cant.", 2, align.Center),
		h("Producto", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

func itemRows(items []dto.OrderItemResponse) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		name := it.Product.Name
		if it.Product.Unit != "" {
			name += " (" + it.Product.Unit + ")"
		}
		rows = append(rows, row.New(7).Add(
			col.New(2).Add(text.New(strconv.Itoa(it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(name, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(money.Format(it.Price), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(3).Add(text.New(money.Format(it.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func totalsRow(o *dto.OrderResponse) core.Row {
	lbl := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	val := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	balance := o.TotalAmount.Sub(o.AmountPaid)
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(lbl("TOTAL:", 1), lbl("Pagado:", 7), lbl("Saldo ("+label(o.PaymentStatus)+"):", 13)),
		col.New(3).Add(
			text.New(money.Format(o.TotalAmount), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 1, Top: 1, Color: colorPrimary}),
			val(money.Format(o.AmountPaid), 7),
			val(money.Format(balance), 13),
		),
	)
}

func signatureRow(o *dto.OrderResponse) core.Row {
	return row.New(35).Add(
		col.New(4).Add(code.NewQr(o.OrderNumber, props.Rect{Percent: 90, Center: true})),
		col.New(8).Add(
			text.New("Recibido por: ______________________________", props.Text{Size: 9, Top: 10, Left: 3}),
			text.New("Fecha: ______________", props.Text{Size: 9, Top: 20, Left: 3}),
		),
	)
}

func label(status string) string {
	if l, ok := statusLabels[status]; ok {
		return l
	}
	return status
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
