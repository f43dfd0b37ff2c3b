package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType selects how a bundle discount is applied.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
	DiscountTiered     DiscountType = "tiered"
)

// MinimumBundlePrice is the floor a discount can push a bundle down to. A
// bundle is never free.
var MinimumBundlePrice = decimal.RequireFromString("0.01")

var hundred = decimal.NewFromInt(100)

// tierMultipliers scale a tiered discount by the total unit count, highest
// threshold first.
var tierMultipliers = []struct {
	minUnits   int
	multiplier decimal.Decimal
}{
	{5, decimal.NewFromInt(2)},
	{3, decimal.RequireFromString("1.5")},
	{2, decimal.NewFromInt(1)},
}

// ProductBundle groups products sold together at a discount. Items reference
// products by id only.
type ProductBundle struct {
	ID           string             `json:"id"`
	Alias        string             `json:"alias,omitempty"`
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	Items        []BundleItem       `json:"items"`
	Pricing      BundlePricing      `json:"pricing"`
	Availability BundleAvailability `json:"availability"`
	Tags         []string           `json:"tags,omitempty"`
	IsActive     bool               `json:"isActive"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// BundleItem is one product line of a bundle.
type BundleItem struct {
	ProductID  string `json:"productId"`
	Quantity   int    `json:"quantity"`
	IsRequired bool   `json:"isRequired"`
}

// BundlePricing is the result of CalculatePricing plus the discount inputs.
type BundlePricing struct {
	BasePrice         decimal.Decimal `json:"basePrice"`
	DiscountType      DiscountType    `json:"discountType"`
	DiscountValue     decimal.Decimal `json:"discountValue"`
	FinalPrice        decimal.Decimal `json:"finalPrice"`
	Savings           decimal.Decimal `json:"savings"`
	SavingsPercentage decimal.Decimal `json:"savingsPercentage"`
}

// BundleAvailability is the sale window and stock of a bundle.
type BundleAvailability struct {
	StartDate      *time.Time `json:"startDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	StockQuantity  int        `json:"stockQuantity"`
	MaxPerCustomer int        `json:"maxPerCustomer,omitempty"`
}

// PriceLine is a product price multiplied by the quantity in the bundle.
type PriceLine struct {
	ProductID string
	UnitPrice decimal.Decimal
	Quantity  int
}

// ValidDiscountType reports whether t is a known discount type.
func ValidDiscountType(t DiscountType) bool {
	switch t {
	case DiscountPercentage, DiscountFixed, DiscountTiered:
		return true
	}
	return false
}

// CalculatePricing is a pure function of the product prices and the discount.
// Nothing is rounded.
func CalculatePricing(lines []PriceLine, discountType DiscountType, value decimal.Decimal) BundlePricing {
	base := decimal.Zero
	units := 0
	for _, l := range lines {
		base = base.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		units += l.Quantity
	}
	final := ApplyDiscount(base, discountType, value, units)
	savings := base.Sub(final)
	pct := decimal.Zero
	if base.IsPositive() {
		pct = savings.Mul(hundred).Div(base)
	}
	return BundlePricing{
		BasePrice:         base,
		DiscountType:      discountType,
		DiscountValue:     value,
		FinalPrice:        final,
		Savings:           savings,
		SavingsPercentage: pct,
	}
}

// ApplyDiscount returns the discounted price. Percentages are clamped to
// [0,100] and the result never drops below MinimumBundlePrice.
func ApplyDiscount(base decimal.Decimal, discountType DiscountType, value decimal.Decimal, units int) decimal.Decimal {
	if value.IsNegative() {
		value = decimal.Zero
	}
	var final decimal.Decimal
	switch discountType {
	case DiscountFixed:
		final = base.Sub(value)
	case DiscountTiered:
		pct := value.Mul(tierMultiplier(units))
		final = base.Sub(base.Mul(clampPercent(pct)).Div(hundred))
	case DiscountPercentage:
		final = base.Sub(base.Mul(clampPercent(value)).Div(hundred))
	default:
		final = base
	}
	if base.IsPositive() && final.LessThan(MinimumBundlePrice) {
		final = MinimumBundlePrice
	}
	return final
}

func tierMultiplier(units int) decimal.Decimal {
	for _, t := range tierMultipliers {
		if units >= t.minUnits {
			return t.multiplier
		}
	}
	return decimal.Zero
}

func clampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

// CheckRules enforces the bundle invariants on an already priced bundle.
func (b *ProductBundle) CheckRules() error {
	distinct := make(map[string]struct{}, len(b.Items))
	for i, it := range b.Items {
		if it.Quantity <= 0 {
			return ValidationFailed("bundle item quantity must be positive",
				FieldError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "must be positive"})
		}
		distinct[it.ProductID] = struct{}{}
	}
	if len(distinct) < 2 {
		return Validation(CodeBundleTooFew, "bundle must contain at least 2 products",
			FieldError{Field: "items", Message: "must reference at least 2 distinct products"})
	}
	if b.Pricing.DiscountType == DiscountPercentage && b.Pricing.DiscountValue.GreaterThan(hundred) {
		return ValidationFailed("percentage discount must be between 0 and 100",
			FieldError{Field: "pricing.discountValue", Message: "must be between 0 and 100"})
	}
	if !b.Pricing.FinalPrice.LessThan(b.Pricing.BasePrice) {
		return Validation(CodeBundlePriceExceeds, "bundle price cannot exceed sum of individual product prices",
			FieldError{Field: "pricing.finalPrice", Message: "must be below the sum of product prices"})
	}
	if a := b.Availability; a.StartDate != nil && a.EndDate != nil && !a.EndDate.After(*a.StartDate) {
		return ValidationFailed("availability end date must be after start date",
			FieldError{Field: "availability.endDate", Message: "must be after startDate"})
	}
	if b.Availability.StockQuantity < 0 {
		return ValidationFailed("stock quantity must not be negative",
			FieldError{Field: "availability.stockQuantity", Message: "must not be negative"})
	}
	return nil
}

// AdjustStock applies a signed delta and rejects over-draw.
func (b *ProductBundle) AdjustStock(delta int, at time.Time) error {
	next := b.Availability.StockQuantity + delta
	if next < 0 {
		return StateError(CodeInsufficientStock,
			fmt.Sprintf("insufficient stock for bundle %s: have %d, requested %d", b.ID, b.Availability.StockQuantity, -delta),
			"", "")
	}
	b.Availability.StockQuantity = next
	b.UpdatedAt = at
	return nil
}

// IsAvailable reports whether the bundle can be sold at now.
func (b *ProductBundle) IsAvailable(now time.Time) bool {
	if !b.IsActive || b.Availability.StockQuantity <= 0 {
		return false
	}
	if s := b.Availability.StartDate; s != nil && now.Before(*s) {
		return false
	}
	if e := b.Availability.EndDate; e != nil && !now.Before(*e) {
		return false
	}
	return true
}

// CloneAs copies the product and pricing payload under a new id. The alias is
// not carried over.
func (b ProductBundle) CloneAs(id string, at time.Time) ProductBundle {
	out := b.Clone()
	out.ID = id
	out.Alias = ""
	out.CreatedAt = at
	out.UpdatedAt = at
	return out
}

// Clone returns a deep copy.
func (b ProductBundle) Clone() ProductBundle {
	out := b
	out.Items = append([]BundleItem(nil), b.Items...)
	out.Tags = append([]string(nil), b.Tags...)
	if b.Availability.StartDate != nil {
		s := *b.Availability.StartDate
		out.Availability.StartDate = &s
	}
	if b.Availability.EndDate != nil {
		e := *b.Availability.EndDate
		out.Availability.EndDate = &e
	}
	return out
}
