package cramomatic

// Resolution is the outcome of a complete recipe with the numbers behind it.
// For special recipes only Output and Special are set.
type Resolution struct {
	Output  string
	Special bool
	Type    TypeTag
	Score   int
	Bucket  int
	Range   Range
}

// ComputeRecipe returns the single item four ingredients produce.
func (t *Tables) ComputeRecipe(i1, i2, i3, i4 string) (string, error) {
	res, err := t.Resolve(Recipe{i1, i2, i3, i4})
	if err != nil {
		return "", err
	}
	return res.Output, nil
}

// Resolve runs the special recipes, then the type and score lookup keyed on slot 0.
// Every ingredient must be known even when a special pattern matches.
func (t *Tables) Resolve(r Recipe) (Resolution, error) {
	score, err := t.Score(r[:]...)
	if err != nil {
		return Resolution{}, err
	}
	if s, ok := matchSpecial(t.specials, r); ok {
		return Resolution{Output: s.Output, Special: true, Bucket: -1}, nil
	}

	typ, err := t.ItemType(r[0])
	if err != nil {
		return Resolution{}, err
	}
	bi, err := t.lookupBucket(typ, score)
	if err != nil {
		return Resolution{}, err
	}
	b := t.outputs[typ][bi]
	return Resolution{
		Output: b.Output,
		Type:   typ,
		Score:  score,
		Bucket: bi,
		Range:  b.Range,
	}, nil
}
