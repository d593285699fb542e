package cramomatic

import (
	"fmt"
	"slices"
)

// LookupOutputByScore returns the output of the first bucket of typ containing score.
func (t *Tables) LookupOutputByScore(typ TypeTag, score int) (string, error) {
	bi, err := t.lookupBucket(typ, score)
	if err != nil {
		return "", err
	}
	return t.outputs[typ][bi].Output, nil
}

func (t *Tables) lookupBucket(typ TypeTag, score int) (int, error) {
	if !typ.valid() || t.outputs[typ] == nil {
		return -1, fmt.Errorf("%w: %q", ErrUnknownType, typ.String())
	}
	for i, b := range t.outputs[typ] {
		if b.Range.Contains(score) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s has no bucket for %d", ErrScoreOutOfRange, typ, score)
}

// sumSet marks which totals are attainable; the index is the total.
type sumSet []bool

func (s sumSet) anyIn(lo, hi int) bool {
	lo = max(lo, 0)
	hi = min(hi, len(s)-1)
	for i := lo; i <= hi; i++ {
		if s[i] {
			return true
		}
	}
	return false
}

func (s sumSet) add(scores []int) sumSet {
	next := make(sumSet, len(s))
	for total, ok := range s {
		if !ok {
			continue
		}
		for _, sc := range scores {
			if total+sc < len(next) {
				next[total+sc] = true
			}
		}
	}
	return next
}

// reachability holds the totals attainable by filling k open slots.
type reachability struct {
	// any[k] is every total of k ingredients of any type.
	any [5]sumSet
	// typed[T][k] is every total of k ingredients where one of them, the one going
	// into slot 0, has type T.
	typed [numTypes][5]sumSet
}

func buildReachability(items []Item) reachability {
	var (
		r        reachability
		all      []int
		byType   [numTypes][]int
		maxScore int
	)
	for _, it := range items {
		if !slices.Contains(all, it.Score) {
			all = append(all, it.Score)
		}
		if !slices.Contains(byType[it.Type], it.Score) {
			byType[it.Type] = append(byType[it.Type], it.Score)
		}
		maxScore = max(maxScore, it.Score)
	}

	r.any[0] = make(sumSet, 4*maxScore+1)
	r.any[0][0] = true
	for k := 1; k <= 4; k++ {
		r.any[k] = r.any[k-1].add(all)
	}
	for typ := range byType {
		if len(byType[typ]) == 0 {
			continue
		}
		for k := 1; k <= 4; k++ {
			r.typed[typ][k] = r.any[k-1].add(byType[typ])
		}
	}
	return r
}
