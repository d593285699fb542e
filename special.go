package cramomatic

// AnyItem in a special pattern accepts whatever is placed in that slot.
const AnyItem = "__any"

// SpecialRecipe is an exact pattern that overrides the type and score lookup.
type SpecialRecipe struct {
	Output  string
	Pattern Recipe
}

// specialRecipes are tried in order; the first match wins.
var specialRecipes = []SpecialRecipe{
	{"Ability Capsule", Recipe{"Rare Candy", AnyItem, "Rare Candy", "Rare Candy"}},
	{"Balm Mushroom", Recipe{"Big Mushroom", AnyItem, "Big Mushroom", "Big Mushroom"}},
	{"Big Mushroom", Recipe{"Tiny Mushroom", AnyItem, "Tiny Mushroom", "Tiny Mushroom"}},
	{"Big Nugget", Recipe{"Nugget", AnyItem, "Nugget", "Nugget"}},
	{"Big Pearl", Recipe{"Pearl", AnyItem, "Pearl", "Pearl"}},
	{"Comet Shard", Recipe{"Star Piece", AnyItem, "Star Piece", "Star Piece"}},
	{"Gold Bottle Cap", Recipe{"Bottle Cap", AnyItem, "Bottle Cap", "Bottle Cap"}},
	{"Pearl String", Recipe{"Big Pearl", AnyItem, "Big Pearl", "Big Pearl"}},
	{"PP Up", Recipe{"Armorite Ore", AnyItem, "Armorite Ore", "Armorite Ore"}},
	{"Star Piece", Recipe{"Stardust", AnyItem, "Stardust", "Stardust"}},
}

// SpecialRecipes returns a copy of the override table in match order.
func SpecialRecipes() []SpecialRecipe {
	out := make([]SpecialRecipe, len(specialRecipes))
	copy(out, specialRecipes)
	return out
}

func slotMatches(pattern, item string) bool {
	return pattern == AnyItem || pattern == item
}

// Matches is the forward check: order-sensitive, slot by slot.
func (s SpecialRecipe) Matches(r Recipe) bool {
	for i := range s.Pattern {
		if !slotMatches(s.Pattern[i], r[i]) {
			return false
		}
	}
	return true
}

// MatchesPartial treats unbound slots like wildcards.
func (s SpecialRecipe) MatchesPartial(p PartialRecipe) bool {
	for i := range s.Pattern {
		if p[i] == "" {
			continue
		}
		if !slotMatches(s.Pattern[i], p[i]) {
			return false
		}
	}
	return true
}

func matchSpecial(specials []SpecialRecipe, r Recipe) (SpecialRecipe, bool) {
	for _, s := range specials {
		if s.Matches(r) {
			return s, true
		}
	}
	return SpecialRecipe{}, false
}
