package model

// LineItem is any order or cart line that can price itself.
type LineItem interface {
	LineTotal() float64
}

// LineTotal returns quantity times the captured unit price.
func (i CartItem) LineTotal() float64 {
	return float64(i.Quantity) * i.Price
}

func (i OrderItem) LineTotal() float64 {
	return float64(i.Quantity) * i.Price
}

// Total derives the price of a set of line items. It is the only source
// of truth for cart total_price and order total_amount; client-supplied
// totals are never persisted. An empty set totals zero.
func Total[T LineItem](items []T) float64 {
	var total float64
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}
