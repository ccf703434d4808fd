package services

// CheckoutView summarises a basket for payment. Nothing is submitted to
// the backend.
type CheckoutView struct {
	Basket       *Basket
	Total        float64
	CashPaid     float64
	ReturnAmount float64
}

func NewCheckoutView(b *Basket) *CheckoutView {
	v := &CheckoutView{Basket: b}
	v.CalculateTotal()
	return v
}

func (v *CheckoutView) CalculateTotal() {
	v.Total = 0
	if v.Basket != nil {
		v.Total = sumPrices(v.Basket.Items())
	}
}

// Pay records the cash handed over and the change due, if it covers the total.
func (v *CheckoutView) Pay(cash float64) {
	v.CashPaid = cash
	v.ReturnAmount = 0
	if cash >= v.Total {
		v.ReturnAmount = cash - v.Total
	}
}

func (v *CheckoutView) Covered() bool { return v.CashPaid >= v.Total }

func (v *CheckoutView) Shortfall() float64 {
	if v.Covered() {
		return 0
	}
	return v.Total - v.CashPaid
}
