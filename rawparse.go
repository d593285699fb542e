package cramomatic

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// parseItems reads the ingredient table: [[name, type, score], ...]. Scores may be
// JSON numbers or numeric strings, as scraped.
func parseItems(raw string) ([]Item, error) {
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("%w: inputs are not valid JSON", ErrInvalidData)
	}
	root := gjson.Parse(raw)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: inputs must be an array of rows", ErrInvalidData)
	}

	var (
		items []Item
		err   error
	)
	root.ForEach(func(key, row gjson.Result) bool {
		var it Item
		it, err = parseItemRow(row)
		if err != nil {
			err = fmt.Errorf("inputs row %d: %w", key.Int(), err)
			return false
		}
		items = append(items, it)
		return true
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func parseItemRow(row gjson.Result) (Item, error) {
	if !row.IsArray() {
		return Item{}, fmt.Errorf("%w: row is not an array: %s", ErrInvalidData, row.Raw)
	}
	cols := row.Array()
	if len(cols) != 3 {
		return Item{}, fmt.Errorf("%w: want [name, type, score], got %s", ErrInvalidData, row.Raw)
	}
	name := strings.TrimSpace(cols[0].String())
	if cols[0].Type != gjson.String || name == "" {
		return Item{}, fmt.Errorf("%w: empty item name in %s", ErrInvalidData, row.Raw)
	}
	typ := ParseType(strings.TrimSpace(cols[1].String()))
	if typ == TypeNone {
		return Item{}, fmt.Errorf("%w: item %q has type %q", ErrUnknownType, name, cols[1].String())
	}
	score, err := parseScore(cols[2])
	if err != nil {
		return Item{}, fmt.Errorf("item %q: %w", name, err)
	}
	return Item{Name: name, Type: typ, Score: score}, nil
}

func parseScore(v gjson.Result) (int, error) {
	var score int
	switch v.Type {
	case gjson.Number:
		if v.Num != float64(int(v.Num)) {
			return 0, fmt.Errorf("%w: score %s is not an integer", ErrInvalidData, v.Raw)
		}
		score = int(v.Num)
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(v.Str))
		if err != nil {
			return 0, fmt.Errorf("%w: score %q is not an integer", ErrInvalidData, v.Str)
		}
		score = n
	default:
		return 0, fmt.Errorf("%w: score %s", ErrInvalidData, v.Raw)
	}
	if score <= 0 {
		return 0, fmt.Errorf("%w: score %d must be positive", ErrInvalidData, score)
	}
	return score, nil
}

// parseOutputs reads the output table: [[type, [name, ...]], ...], names listed by
// ascending bucket.
func parseOutputs(raw string, cfg Config) ([numTypes][]Bucket, error) {
	var tables [numTypes][]Bucket
	if !gjson.Valid(raw) {
		return tables, fmt.Errorf("%w: outputs are not valid JSON", ErrInvalidData)
	}
	root := gjson.Parse(raw)
	if !root.IsArray() {
		return tables, fmt.Errorf("%w: outputs must be an array of rows", ErrInvalidData)
	}

	ranges := cfg.Ranges()
	var err error
	root.ForEach(func(key, row gjson.Result) bool {
		cols := row.Array()
		if !row.IsArray() || len(cols) != 2 || !cols[1].IsArray() {
			err = fmt.Errorf("%w: outputs row %d: want [type, [names]], got %s", ErrInvalidData, key.Int(), row.Raw)
			return false
		}
		typ := ParseType(strings.TrimSpace(cols[0].String()))
		if typ == TypeNone {
			err = fmt.Errorf("%w: outputs row %d has type %q", ErrUnknownType, key.Int(), cols[0].String())
			return false
		}
		if tables[typ] != nil {
			err = fmt.Errorf("%w: duplicate output table for %s", ErrInvalidData, typ)
			return false
		}
		names := cols[1].Array()
		if len(names) != len(ranges) {
			err = fmt.Errorf("%w: %s table has %d outputs, want %d", ErrInvalidData, typ, len(names), len(ranges))
			return false
		}
		buckets := make([]Bucket, len(names))
		for i, n := range names {
			name := strings.TrimSpace(n.String())
			if n.Type != gjson.String || name == "" {
				err = fmt.Errorf("%w: %s table bucket %d has no output name", ErrInvalidData, typ, i)
				return false
			}
			buckets[i] = Bucket{Range: ranges[i], Output: name}
		}
		tables[typ] = buckets
		return true
	})
	return tables, err
}

// Load parses and validates both tables.
func Load(inputsJSON, outputsJSON string, cfg Config) (*Tables, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	items, err := parseItems(inputsJSON)
	if err != nil {
		return nil, err
	}
	outputs, err := parseOutputs(outputsJSON, cfg)
	if err != nil {
		return nil, err
	}
	return newTables(items, outputs, specialRecipes, cfg)
}

// LoadFiles is Load over two files on disk.
func LoadFiles(inputsPath, outputsPath string, cfg Config) (*Tables, error) {
	inputs, err := os.ReadFile(inputsPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", inputsPath, err)
	}
	outputs, err := os.ReadFile(outputsPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", outputsPath, err)
	}
	return Load(string(inputs), string(outputs), cfg)
}
