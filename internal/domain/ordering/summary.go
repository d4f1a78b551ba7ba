package ordering

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/vendofy-api/internal/domain/entity"
)

// ProductQuantity cantidad agregada de un producto sobre varios pedidos.
type ProductQuantity struct {
	ProductID   string
	ProductName string
	Quantity    int
	Amount      decimal.Decimal
}

// Summary resumen de una solicitud de cantidades enviada al admin.
type Summary struct {
	OrderNumbers []string
	Products     []ProductQuantity
	TotalUnits   int
	TotalAmount  decimal.Decimal
}

// Aggregate suma cantidades por producto. Products sale ordenado por nombre.
func Aggregate(orders []*entity.Order) Summary {
	byProduct := make(map[string]*ProductQuantity)
	s := Summary{TotalAmount: decimal.Zero}
	for _, o := range orders {
		s.OrderNumbers = append(s.OrderNumbers, o.OrderNumber)
		for _, it := range o.Items {
			pq, ok := byProduct[it.ProductID]
			if !ok {
				pq = &ProductQuantity{ProductID: it.ProductID, ProductName: it.ProductName, Amount: decimal.Zero}
				byProduct[it.ProductID] = pq
			}
			pq.Quantity += it.Quantity
			pq.Amount = pq.Amount.Add(it.Subtotal())
			s.TotalUnits += it.Quantity
			s.TotalAmount = s.TotalAmount.Add(it.Subtotal())
		}
	}
	for _, pq := range byProduct {
		s.Products = append(s.Products, *pq)
	}
	sort.Slice(s.Products, func(i, j int) bool {
		if s.Products[i].ProductName == s.Products[j].ProductName {
			return s.Products[i].ProductID < s.Products[j].ProductID
		}
		return s.Products[i].ProductName < s.Products[j].ProductName
	})
	return s
}
