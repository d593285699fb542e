package cramomatic

import (
	"fmt"
	"strings"
)

// FormatRecipe renders a resolved recipe on one line, e.g.
//
//	Hard Stone + Hard Stone + Big Nugget + Big Nugget -> Eviolite (Rock, 100 pts, 91-100)
func FormatRecipe(r Recipe, res Resolution) string {
	var b strings.Builder
	b.WriteString(strings.Join(r[:], " + "))
	b.WriteString(" -> ")
	b.WriteString(res.Output)
	if res.Special {
		b.WriteString(" (special recipe)")
		return b.String()
	}
	fmt.Fprintf(&b, " (%s, %d pts, %d-%d)", res.Type, res.Score, res.Range.Min, res.Range.Max)
	return b.String()
}

// FormatPartial renders unbound slots as "_".
func FormatPartial(p PartialRecipe) string {
	parts := make([]string, len(p))
	for i, name := range p {
		if name == "" {
			name = "_"
		}
		parts[i] = name
	}
	return strings.Join(parts, " + ")
}

// FormatTable renders one type's output table, one bucket per line.
func FormatTable(typ TypeTag, buckets []Bucket) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", typ)
	for _, bk := range buckets {
		fmt.Fprintf(&b, "  %3d-%-3d  %s\n", bk.Range.Min, bk.Range.Max, bk.Output)
	}
	return b.String()
}
