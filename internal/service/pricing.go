package service

import (
	"strings"

	"github.com/webmastershop/internal/constants"
	"github.com/webmastershop/internal/models"

	"github.com/shopspring/decimal"
)

// computeSubtotal 按购物车行汇总小计：数量 × 生效单价（有折后价用折后价）。
func computeSubtotal(lines []models.CartLine, products map[uint]*models.Product) models.Money {
	total := decimal.Zero
	for _, line := range lines {
		product := line.Product
		if product == nil {
			product = products[line.ProductID]
		}
		if product == nil {
			continue
		}
		unit := product.EffectivePrice()
		total = total.Add(unit.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return models.NewMoneyFromDecimal(total)
}

// applyCouponDiscount 在当前总价上应用单张优惠券，返回扣减后的总价（最低为 0）。
// 固定金额券整单扣减一次，百分比券按当前总价的百分比扣减。
func applyCouponDiscount(total models.Money, coupon *models.Coupon) models.Money {
	result := total.Decimal
	switch strings.ToLower(strings.TrimSpace(coupon.Type)) {
	case constants.CouponTypeFixed:
		result = result.Sub(coupon.Amount.Decimal)
	case constants.CouponTypePercent:
		discount := result.Mul(coupon.Amount.Decimal).Div(decimal.NewFromInt(100))
		result = result.Sub(discount)
	}
	if result.IsNegative() {
		result = decimal.Zero
	}
	return models.NewMoneyFromDecimal(result)
}
