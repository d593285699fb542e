package cramomatic

import "fmt"

// Config describes the bucket scheme the output tables are laid out in.
type Config struct {
	// FirstMin and FirstMax bound the lowest bucket.
	FirstMin int
	FirstMax int
	// Width is the size of every bucket after the first.
	Width int
	// Count is the number of outputs each type's table must list.
	Count int
	// MaxIngredientScore caps what one unbound slot may add when checking whether a
	// bucket is still reachable. 0 derives it from the item table; values below the
	// table's highest score are raised to it.
	MaxIngredientScore int
}

// DefaultConfig returns the scheme used by the bundled tables: [2,20] then
// width-10 buckets up to 160.
func DefaultConfig() Config {
	return Config{
		FirstMin: 2,
		FirstMax: 20,
		Width:    10,
		Count:    15,
	}
}

func (c Config) validate() error {
	if c.FirstMin > c.FirstMax {
		return fmt.Errorf("%w: first bucket [%d,%d] is empty", ErrInvalidData, c.FirstMin, c.FirstMax)
	}
	if c.Width <= 0 {
		return fmt.Errorf("%w: bucket width %d", ErrInvalidData, c.Width)
	}
	if c.Count <= 0 {
		return fmt.Errorf("%w: bucket count %d", ErrInvalidData, c.Count)
	}
	if c.MaxIngredientScore < 0 {
		return fmt.Errorf("%w: max ingredient score %d", ErrInvalidData, c.MaxIngredientScore)
	}
	return nil
}

// Ranges expands the scheme into its contiguous buckets.
func (c Config) Ranges() []Range {
	out := make([]Range, 0, c.Count)
	if c.Count == 0 {
		return out
	}
	out = append(out, Range{Min: c.FirstMin, Max: c.FirstMax})
	for i := 1; i < c.Count; i++ {
		lo := out[i-1].Max + 1
		out = append(out, Range{Min: lo, Max: lo + c.Width - 1})
	}
	return out
}
