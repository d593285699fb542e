package cramomatic

import "fmt"

// CanProduce reports whether partial can still be completed into a recipe that
// yields output. It never fails: unknown names of any kind just make it false.
//
// Cheap checks run first (special pattern, slot-0 type, bound score against each
// bucket the output occupies). A bucket that survives them is confirmed exactly:
// by enumeration when one slot is open, by attainable totals when more are.
func (t *Tables) CanProduce(output string, partial PartialRecipe) bool {
	bound, err := t.Score(boundNames(partial)...)
	if err != nil {
		return false
	}
	if s, ok := t.SpecialRecipe(output); ok && s.MatchesPartial(partial) {
		return true
	}

	places := t.placements[output]
	if len(places) == 0 {
		return false
	}
	open := partial.Unbound()

	if r, ok := partial.Complete(); ok {
		res, err := t.Resolve(r)
		return err == nil && res.Output == output
	}

	var slot0 TypeTag
	if partial[0] != "" {
		slot0, err = t.ItemType(partial[0])
		if err != nil {
			return false
		}
	}

	candidates := false
	for _, p := range places {
		if slot0 != TypeNone && slot0 != p.Type {
			continue
		}
		if bound > p.Range.Max || bound+open*t.slotMax < p.Range.Min {
			continue
		}
		candidates = true
		if open == 1 {
			// settled below by trying every item in the open slot
			break
		}
		sums := t.reach.any[open]
		if slot0 == TypeNone {
			sums = t.reach.typed[p.Type][open]
		}
		if sums.anyIn(p.Range.Min-bound, p.Range.Max-bound) {
			return true
		}
	}
	if !candidates || open != 1 {
		return false
	}
	return t.completesWithOne(output, partial)
}

func (t *Tables) completesWithOne(output string, partial PartialRecipe) bool {
	slot := openSlot(partial)
	for _, name := range t.inputNames {
		r, _ := partial.With(slot, name).Complete()
		res, err := t.Resolve(r)
		if err == nil && res.Output == output {
			return true
		}
	}
	return false
}

func boundNames(p PartialRecipe) []string {
	names := make([]string, 0, len(p))
	for _, name := range p {
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

func openSlot(p PartialRecipe) int {
	for i, name := range p {
		if name == "" {
			return i
		}
	}
	return -1
}

// ValidOptions lists the ingredients that keep output reachable when placed in
// slot. With no output chosen every ingredient is valid.
func (t *Tables) ValidOptions(output string, partial PartialRecipe, slot int) ([]string, error) {
	if slot < 0 || slot >= len(partial) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	if output == "" {
		return t.InputOptions(), nil
	}
	var out []string
	for _, name := range t.inputNames {
		if t.CanProduce(output, partial.With(slot, name)) {
			out = append(out, name)
		}
	}
	return out, nil
}
