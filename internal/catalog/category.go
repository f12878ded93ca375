package catalog

// Category groups products that share a weight-tolerance profile.
type Category string

const (
	CategoryBeverage   Category = "beverage"
	CategorySnack      Category = "snack"
	CategoryCandy      Category = "candy"
	CategoryFood       Category = "food"
	CategoryDairy      Category = "dairy"
	CategoryHealth     Category = "health"
	CategoryFrozen     Category = "frozen"
	CategoryEtc        Category = "etc"
	CategoryNonProduct Category = "non_product"
	CategoryUnknown    Category = "unknown"
)

// ParseCategory maps a raw catalog string onto a known category. Anything
// unrecognized becomes CategoryUnknown so the tolerance fallback is explicit.
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryBeverage, CategorySnack, CategoryCandy, CategoryFood,
		CategoryDairy, CategoryHealth, CategoryFrozen, CategoryEtc,
		CategoryNonProduct:
		return Category(s)
	default:
		return CategoryUnknown
	}
}

// Tolerance returns the allowed fractional weight deviation for the
// category. Unknown categories fall back to the caller-provided default.
func (c Category) Tolerance(fallback float64) float64 {
	switch c {
	case CategoryBeverage:
		return 0.05
	case CategorySnack, CategoryCandy, CategoryHealth:
		return 0.10
	case CategoryFood:
		return 0.08
	case CategoryDairy:
		return 0.07
	case CategoryFrozen, CategoryEtc:
		// frozen goods swing with ice buildup, misc items are irregular
		return 0.15
	default:
		return fallback
	}
}
