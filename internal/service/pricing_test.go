package service

import (
	"testing"

	"github.com/webmastershop/internal/models"

	"github.com/shopspring/decimal"
)

func moneyFromInt(v int64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromInt(v))
}

func TestComputeSubtotalPrefersDiscountedPrice(t *testing.T) {
	discounted := &models.Product{Price: moneyFromInt(100), PriceAfterDiscount: moneyFromInt(80)}
	regular := &models.Product{Price: moneyFromInt(25)}

	lines := []models.CartLine{
		{ProductID: 1, Quantity: 2, Product: discounted},
		{ProductID: 2, Quantity: 1, Product: regular},
	}

	got := computeSubtotal(lines, nil)
	if !got.Equal(decimal.NewFromInt(185)) {
		t.Fatalf("subtotal want 185.00 got %s", got.String())
	}
}

func TestComputeSubtotalSkipsUnresolvedProducts(t *testing.T) {
	lines := []models.CartLine{
		{ProductID: 9, Quantity: 3},
	}
	got := computeSubtotal(lines, nil)
	if !got.IsZero() {
		t.Fatalf("unresolved product should contribute zero, got %s", got.String())
	}

	products := map[uint]*models.Product{9: {Price: moneyFromInt(7)}}
	got = computeSubtotal(lines, products)
	if !got.Equal(decimal.NewFromInt(21)) {
		t.Fatalf("subtotal via product map want 21.00 got %s", got.String())
	}
}

func TestApplyCouponDiscount(t *testing.T) {
	total := moneyFromInt(100)

	fixed := &models.Coupon{Type: "fixed", Amount: moneyFromInt(30)}
	if got := applyCouponDiscount(total, fixed); !got.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("fixed discount want 70.00 got %s", got.String())
	}

	percent := &models.Coupon{Type: "percent", Amount: moneyFromInt(10)}
	if got := applyCouponDiscount(moneyFromInt(70), percent); !got.Equal(decimal.NewFromInt(63)) {
		t.Fatalf("percent discount want 63.00 got %s", got.String())
	}

	oversized := &models.Coupon{Type: "fixed", Amount: moneyFromInt(500)}
	if got := applyCouponDiscount(total, oversized); !got.IsZero() {
		t.Fatalf("discount should floor at zero, got %s", got.String())
	}

	unknown := &models.Coupon{Type: "mystery", Amount: moneyFromInt(50)}
	if got := applyCouponDiscount(total, unknown); !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unknown type should leave total, got %s", got.String())
	}
}
