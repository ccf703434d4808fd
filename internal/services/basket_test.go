package services

import (
	"testing"

	"fundraiser/internal/domain"
)

func TestBasketAddNeverTakesZeroPriceOrQuantity(t *testing.T) {
	zero, one := 0, 1
	b := NewBasket()
	cases := []domain.SaleItem{
		{Price: 0, Quantity: &one},
		{Price: 3, Quantity: &zero},
		{Price: 3, Quantity: nil},
		{Price: -1, Quantity: &one},
	}
	for _, it := range cases {
		if b.Add(it) {
			t.Fatalf("item %+v should be refused", it)
		}
	}
	if b.Len() != 0 {
		t.Fatalf("basket length changed to %d", b.Len())
	}
	if !b.Add(domain.SaleItem{Price: 3, Quantity: &one}) || b.CalculateTotal() != 3 {
		t.Fatal("valid item should be added and totaled")
	}
}

func TestCheckoutViewPay(t *testing.T) {
	one := 1
	b := NewBasket()
	b.Add(domain.SaleItem{Price: 7.5, Quantity: &one})
	b.Add(domain.SaleItem{Price: 2.5, Quantity: &one})

	v := NewCheckoutView(b)
	if v.Total != 10 {
		t.Fatalf("total %v", v.Total)
	}
	v.Pay(20)
	if v.ReturnAmount != 10 || !v.Covered() || v.Shortfall() != 0 {
		t.Fatalf("pay 20: %+v", v)
	}
	v.Pay(4)
	if v.ReturnAmount != 0 || v.Covered() || v.Shortfall() != 6 {
		t.Fatalf("pay 4: %+v", v)
	}
	v.CalculateTotal()
	if v.Total != 10 {
		t.Fatal("recomputing must not accumulate")
	}
}
