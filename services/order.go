package services

import (
	"fmt"
	"strings"

	"food-console/config"
)

const (
	defaultFreeDeliveryOver = 2000
	defaultDeliveryFee      = 200
)

// CalcDeliveryFee returns the surcharge for a delivered order: free when the
// subtotal is strictly above the threshold, the flat fee otherwise.
// Zero policy values fall back to 2000 / 200.
func CalcDeliveryFee(subtotal int64, policy config.DeliveryConfig) int64 {
	freeOver, fee := policy.FreeOver, policy.Fee
	if freeOver == 0 {
		freeOver = defaultFreeDeliveryOver
	}
	if fee == 0 {
		fee = defaultDeliveryFee
	}
	if subtotal > freeOver {
		return 0
	}
	return fee
}

// FormatPrice renders minor units as pounds, e.g. 600 -> "£6.00".
func FormatPrice(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s£%d.%02d", sign, minor/100, minor%100)
}

// Order collects line items for one customer. Items keep insertion order.
type Order struct {
	CustomerName string
	IsDelivery   bool
	Address      string // only set for delivery orders
	Delivery     config.DeliveryConfig
	items        []LineItem
}

func NewOrder(customerName string, isDelivery bool, address string) *Order {
	o := &Order{CustomerName: customerName, IsDelivery: isDelivery}
	if isDelivery {
		o.Address = address
	}
	return o
}

// AddItem appends item. Duplicates are kept and priced separately.
func (o *Order) AddItem(item LineItem) {
	o.items = append(o.items, item)
}

func (o *Order) Items() []LineItem {
	out := make([]LineItem, len(o.items))
	copy(out, o.items)
	return out
}

func (o *Order) Len() int { return len(o.items) }

// Total is the sum of item prices before any delivery charge.
func (o *Order) Total() int64 {
	var total int64
	for _, it := range o.items {
		total += it.Price()
	}
	return total
}

// DeliveryCharge is 0 for collection orders.
func (o *Order) DeliveryCharge() int64 {
	if !o.IsDelivery {
		return 0
	}
	return CalcDeliveryFee(o.Total(), o.Delivery)
}

func (o *Order) GrandTotal() int64 {
	return o.Total() + o.DeliveryCharge()
}

// Summary renders the itemized order. Callers must not summarize an empty order.
func (o *Order) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order for %s\n", o.CustomerName)
	for _, it := range o.items {
		b.WriteString(it.String())
		b.WriteByte('\n')
	}
	if o.IsDelivery {
		fmt.Fprintf(&b, "Delivery Charge: %s\n", FormatPrice(o.DeliveryCharge()))
	}
	fmt.Fprintf(&b, "Total: %s", FormatPrice(o.GrandTotal()))
	return b.String()
}
