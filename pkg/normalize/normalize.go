// Package normalize maps free-text AI vocabulary onto the closed category
// and condition enumerations. Both functions are total: any input,
// including empty or unseen vocabulary, maps to a defined default.
package normalize

import (
	"strings"

	domain "github.com/donaldgifford/relister/pkg/types"
)

// categoryMap maps normalized raw category strings to domain categories.
var categoryMap = map[string]domain.Category{
	// canonical values (identity mappings)
	"clothing":    domain.CategoryClothing,
	"shoes":       domain.CategoryShoes,
	"accessories": domain.CategoryAccessories,
	"electronics": domain.CategoryElectronics,
	"home":        domain.CategoryHome,
	"toys":        domain.CategoryToys,
	"books":       domain.CategoryBooks,
	"sports":      domain.CategorySports,
	"beauty":      domain.CategoryBeauty,
	"other":       domain.CategoryOther,
	// AI / marketplace variants
	"apparel":          domain.CategoryClothing,
	"clothes":          domain.CategoryClothing,
	"fashion":          domain.CategoryClothing,
	"tops":             domain.CategoryClothing,
	"dresses":          domain.CategoryClothing,
	"outerwear":        domain.CategoryClothing,
	"footwear":         domain.CategoryShoes,
	"sneakers":         domain.CategoryShoes,
	"boots":            domain.CategoryShoes,
	"accessory":        domain.CategoryAccessories,
	"jewelry":          domain.CategoryAccessories,
	"bags":             domain.CategoryAccessories,
	"handbags":         domain.CategoryAccessories,
	"watches":          domain.CategoryAccessories,
	"electronic":       domain.CategoryElectronics,
	"tech":             domain.CategoryElectronics,
	"gadgets":          domain.CategoryElectronics,
	"computers":        domain.CategoryElectronics,
	"home goods":       domain.CategoryHome,
	"home & garden":    domain.CategoryHome,
	"kitchen":          domain.CategoryHome,
	"furniture":        domain.CategoryHome,
	"decor":            domain.CategoryHome,
	"toy":              domain.CategoryToys,
	"games":            domain.CategoryToys,
	"toys & games":     domain.CategoryToys,
	"collectibles":     domain.CategoryToys,
	"book":             domain.CategoryBooks,
	"media":            domain.CategoryBooks,
	"sporting goods":   domain.CategorySports,
	"sports & outdoor": domain.CategorySports,
	"outdoors":         domain.CategorySports,
	"fitness":          domain.CategorySports,
	"cosmetics":        domain.CategoryBeauty,
	"health & beauty":  domain.CategoryBeauty,
	"makeup":           domain.CategoryBeauty,
	"skincare":         domain.CategoryBeauty,
}

// conditionMap maps normalized raw condition strings to domain conditions.
var conditionMap = map[string]domain.Condition{
	// canonical values (identity mappings)
	"new":      domain.ConditionNew,
	"like_new": domain.ConditionLikeNew,
	"good":     domain.ConditionGood,
	"fair":     domain.ConditionFair,
	"poor":     domain.ConditionPoor,
	// AI / marketplace variants
	"brand new":          domain.ConditionNew,
	"new with tags":      domain.ConditionNew,
	"nwt":                domain.ConditionNew,
	"sealed":             domain.ConditionNew,
	"like new":           domain.ConditionLikeNew,
	"excellent":          domain.ConditionLikeNew,
	"new without tags":   domain.ConditionLikeNew,
	"nwot":               domain.ConditionLikeNew,
	"open box":           domain.ConditionLikeNew,
	"mint":               domain.ConditionLikeNew,
	"very good":          domain.ConditionGood,
	"used":               domain.ConditionGood,
	"pre-owned":          domain.ConditionGood,
	"gently used":        domain.ConditionGood,
	"acceptable":         domain.ConditionFair,
	"worn":               domain.ConditionFair,
	"visible wear":       domain.ConditionFair,
	"heavily used":       domain.ConditionPoor,
	"damaged":            domain.ConditionPoor,
	"for parts":          domain.ConditionPoor,
	"parts only":         domain.ConditionPoor,
	"needs repair":       domain.ConditionPoor,
	"significant damage": domain.ConditionPoor,
}

// Category maps a raw category string (from AI output or user input) to a
// normalized domain.Category. Returns CategoryOther if the input doesn't
// match any known category.
func Category(raw string) domain.Category {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return domain.CategoryOther
	}

	if c, ok := categoryMap[normalized]; ok {
		return c
	}

	return domain.CategoryOther
}

// Condition maps a raw condition string to a normalized domain.Condition.
// Returns ConditionGood if the input doesn't match any known condition.
func Condition(raw string) domain.Condition {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return domain.ConditionGood
	}

	if c, ok := conditionMap[normalized]; ok {
		return c
	}

	return domain.ConditionGood
}
