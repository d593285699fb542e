package cramomatic

import (
	_ "embed"
	"sync"
)

//go:embed data/inputs.json
var embeddedInputs string

//go:embed data/outputs.json
var embeddedOutputs string

var defaultTables = sync.OnceValue(func() *Tables {
	t, err := Load(embeddedInputs, embeddedOutputs, DefaultConfig())
	if err != nil {
		panic("cramomatic: bundled tables: " + err.Error())
	}
	return t
})

// Default returns the bundled tables, loaded on first use.
func Default() *Tables {
	return defaultTables()
}

// LoadEmbedded loads the bundled data under a different bucket scheme.
func LoadEmbedded(cfg Config) (*Tables, error) {
	return Load(embeddedInputs, embeddedOutputs, cfg)
}

// ComputeRecipe resolves four ingredients against the bundled tables.
func ComputeRecipe(i1, i2, i3, i4 string) (string, error) {
	return Default().ComputeRecipe(i1, i2, i3, i4)
}

// CanProduce checks a partial recipe against the bundled tables.
func CanProduce(output string, partial PartialRecipe) bool {
	return Default().CanProduce(output, partial)
}
