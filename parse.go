package cramomatic

import (
	"fmt"
	"slices"
)

// Tables holds the validated item and output tables plus the indexes built from
// them. It is read-only after Load and safe for concurrent use.
type Tables struct {
	cfg Config

	items      []Item
	itemByName map[string]int // index into items
	outputs    [numTypes][]Bucket

	// placements lists every (type, bucket) an output name appears in; some outputs
	// sit in more than one type's table.
	placements map[string][]placement

	specials        []SpecialRecipe
	specialByOutput map[string]int // index into specials

	inputNames  []string
	outputNames []string

	minScore int
	maxScore int
	slotMax  int // per-slot upper bound used by the cheap reachability check

	reach reachability
}

func newTables(items []Item, outputs [numTypes][]Bucket, specials []SpecialRecipe, cfg Config) (*Tables, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: item table is empty", ErrInvalidData)
	}
	t := &Tables{
		cfg:             cfg,
		items:           items,
		itemByName:      make(map[string]int, len(items)),
		outputs:         outputs,
		placements:      make(map[string][]placement),
		specials:        specials,
		specialByOutput: make(map[string]int, len(specials)),
		inputNames:      make([]string, 0, len(items)),
	}

	for i := range items {
		it := &items[i]
		if _, dup := t.itemByName[it.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate item %q", ErrInvalidData, it.Name)
		}
		if t.outputs[it.Type] == nil {
			return nil, fmt.Errorf("%w: item %q is %s but there is no %s output table", ErrInvalidData, it.Name, it.Type, it.Type)
		}
		t.itemByName[it.Name] = i
		t.inputNames = append(t.inputNames, it.Name)
		if i == 0 || it.Score < t.minScore {
			t.minScore = it.Score
		}
		if it.Score > t.maxScore {
			t.maxScore = it.Score
		}
	}
	slices.Sort(t.inputNames)

	// an override may loosen the bound but never drop below a real item's score
	t.slotMax = max(t.maxScore, cfg.MaxIngredientScore)

	seen := make(map[string]bool)
	for typ := TypeNormal; typ.valid(); typ++ {
		for bi, b := range t.outputs[typ] {
			t.placements[b.Output] = append(t.placements[b.Output], placement{Type: typ, Bucket: bi, Range: b.Range})
			if !seen[b.Output] {
				seen[b.Output] = true
				t.outputNames = append(t.outputNames, b.Output)
			}
		}
	}

	for i, s := range specials {
		for slot, name := range s.Pattern {
			if name == AnyItem {
				continue
			}
			if _, ok := t.itemByName[name]; !ok {
				return nil, fmt.Errorf("%w: special recipe for %q uses %q in slot %d: %w", ErrInvalidData, s.Output, name, slot, ErrUnknownItem)
			}
		}
		if _, dup := t.specialByOutput[s.Output]; !dup {
			t.specialByOutput[s.Output] = i
		}
		if !seen[s.Output] {
			seen[s.Output] = true
			t.outputNames = append(t.outputNames, s.Output)
		}
	}
	slices.Sort(t.outputNames)

	t.reach = buildReachability(items)
	return t, nil
}

// Config returns the bucket scheme the tables were loaded with.
func (t *Tables) Config() Config {
	return t.cfg
}

// Item looks up an ingredient by name.
func (t *Tables) Item(name string) (Item, error) {
	i, ok := t.itemByName[name]
	if !ok {
		return Item{}, fmt.Errorf("%w: %q", ErrUnknownItem, name)
	}
	return t.items[i], nil
}

// ItemType returns the type of the named ingredient.
func (t *Tables) ItemType(name string) (TypeTag, error) {
	it, err := t.Item(name)
	if err != nil {
		return TypeNone, err
	}
	return it.Type, nil
}

// ItemScore returns the score of the named ingredient.
func (t *Tables) ItemScore(name string) (int, error) {
	it, err := t.Item(name)
	if err != nil {
		return 0, err
	}
	return it.Score, nil
}

// Score sums the scores of the named ingredients.
func (t *Tables) Score(names ...string) (int, error) {
	total := 0
	for _, name := range names {
		s, err := t.ItemScore(name)
		if err != nil {
			return 0, err
		}
		total += s
	}
	return total, nil
}

// OutputTable returns a copy of the buckets for typ in ascending order.
func (t *Tables) OutputTable(typ TypeTag) ([]Bucket, error) {
	if !typ.valid() || t.outputs[typ] == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ.String())
	}
	return slices.Clone(t.outputs[typ]), nil
}

// OutputTypes lists every type whose table contains output, in type order.
func (t *Tables) OutputTypes(output string) []TypeTag {
	var out []TypeTag
	for _, p := range t.placements[output] {
		if !slices.Contains(out, p.Type) {
			out = append(out, p.Type)
		}
	}
	return out
}

// SpecialRecipe returns the override pattern that produces output, if any.
func (t *Tables) SpecialRecipe(output string) (SpecialRecipe, bool) {
	i, ok := t.specialByOutput[output]
	if !ok {
		return SpecialRecipe{}, false
	}
	return t.specials[i], true
}

// IsOutput reports whether any recipe, general or special, can produce name.
func (t *Tables) IsOutput(name string) bool {
	if _, ok := t.placements[name]; ok {
		return true
	}
	_, ok := t.specialByOutput[name]
	return ok
}

// MaxIngredientScore is the most one slot can contribute.
func (t *Tables) MaxIngredientScore() int {
	return t.slotMax
}

// MinIngredientScore is the least one slot can contribute.
func (t *Tables) MinIngredientScore() int {
	return t.minScore
}

// InputOptions returns every ingredient name, sorted.
func (t *Tables) InputOptions() []string {
	return slices.Clone(t.inputNames)
}

// OutputOptions returns every name a recipe can produce, sorted: the general
// table outputs plus the special recipe outputs.
func (t *Tables) OutputOptions() []string {
	return slices.Clone(t.outputNames)
}
