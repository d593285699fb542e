package cramomatic

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func partial(items ...string) PartialRecipe {
	var p PartialRecipe
	copy(p[:], items)
	return p
}

func TestCanProduce(t *testing.T) {
	tests := []struct {
		name   string
		output string
		items  []string
		want   bool
	}{
		{"complete recipe", "Strawberry Sweet", []string{"Flower Sweet", "Amulet Coin", "Air Balloon", "Focus Sash"}, true},
		{"complete recipe with the wrong total", "Strawberry Sweet", []string{"Flower Sweet", "Amulet Coin", "Adamant Mint", "Focus Sash"}, false},
		{"one missing", "Strawberry Sweet", []string{"Flower Sweet", "Amulet Coin", "Air Balloon"}, true},
		{"one missing with the wrong type", "Strawberry Sweet", []string{"Fighting Memory", "Amulet Coin", "Adamant Mint"}, false},
		{"first ingredient only", "Strawberry Sweet", []string{"Flower Sweet"}, true},
		{"first ingredient of the wrong type", "Strawberry Sweet", []string{"Fighting Memory"}, false},
		{"special recipe", "Big Mushroom", []string{"Tiny Mushroom", "King's Rock", "Tiny Mushroom", "Tiny Mushroom"}, true},
		{"special recipe in progress", "Big Mushroom", []string{"Tiny Mushroom"}, true},
		{"special recipe broken", "Big Mushroom", []string{"Tiny Mushroom", "King's Rock", "Pearl"}, false},
		{"electric", "Upgrade", []string{"Electric Memory"}, true},
		{"electric needs an electric first slot", "Upgrade", []string{"Fire Memory"}, false},
		{"nothing chosen", "Eviolite", nil, true},
		{"bound total already too high", "Eviolite", []string{"Comet Shard", "Big Nugget", "Big Nugget"}, false},
		{"bound total too low to catch up", "TR55 Flare Blitz", []string{"Burn Heal", "Burn Heal"}, false},
		{"any of several types", "Eject Button", []string{"Zoom Lens"}, true},
		{"second type of several", "Eject Button", []string{"Big Nugget"}, true},
		{"none of several types", "Eject Button", []string{"Hard Stone"}, false},
		{"special beats the table it also sits in", "Rare Candy", []string{"Rare Candy", "Rare Candy", "Rare Candy", "Rare Candy"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanProduce(tt.output, partial(tt.items...)))
		})
	}
}

func TestCanProduceFailsClosed(t *testing.T) {
	tables := Default()
	assert.False(t, tables.CanProduce("NotARealItem", PartialRecipe{}))
	assert.False(t, tables.CanProduce("NotARealItem", partial("Hard Stone", "Hard Stone", "Hard Stone", "Hard Stone")))
	assert.False(t, tables.CanProduce("", PartialRecipe{}))
	assert.False(t, tables.CanProduce("Eviolite", partial("Missingno")))
	assert.False(t, tables.CanProduce("Big Mushroom", partial("Tiny Mushroom", "Missingno")))
	assert.False(t, tables.CanProduce("Eviolite", partial("", "", "", "Missingno")))
}

func TestEveryOutputReachableFromScratch(t *testing.T) {
	tables := Default()
	for _, o := range tables.OutputOptions() {
		assert.True(t, tables.CanProduce(o, PartialRecipe{}), o)
	}
}

// Filling slots one at a time with whatever ValidOptions offers first must always
// end in a recipe that really produces the goal.
func TestValidatorClosesUnderCompletion(t *testing.T) {
	tables := Default()
	for _, o := range tables.OutputOptions() {
		var p PartialRecipe
		for slot := range p {
			opts, err := tables.ValidOptions(o, p, slot)
			require.NoError(t, err)
			require.NotEmpty(t, opts, "%s stuck at %s", o, FormatPartial(p))
			p[slot] = opts[0]
		}
		r, ok := p.Complete()
		require.True(t, ok)
		got, err := tables.ComputeRecipe(r[0], r[1], r[2], r[3])
		require.NoError(t, err)
		assert.Equal(t, o, got, FormatPartial(p))
	}
}

func TestValidatorIsSound(t *testing.T) {
	tables := Default()
	names := tables.InputOptions()
	rng := rand.New(rand.NewPCG(1, 2))

	for range 2000 {
		var r Recipe
		for i := range r {
			r[i] = names[rng.IntN(len(names))]
		}
		want, err := tables.ComputeRecipe(r[0], r[1], r[2], r[3])
		require.NoError(t, err)

		// every subset of the recipe's slots must still be able to produce it
		for mask := 0; mask < 16; mask++ {
			var p PartialRecipe
			for i := range r {
				if mask&(1<<i) != 0 {
					p[i] = r[i]
				}
			}
			require.True(t, tables.CanProduce(want, p), "%s from %s", want, FormatPartial(p))
		}
	}
}

func TestValidOptions(t *testing.T) {
	tables := Default()

	got, err := tables.ValidOptions("Upgrade", PartialRecipe{}, 0)
	require.NoError(t, err)
	want := []string{"Cell Battery", "Electirizer", "Electric Memory", "Light Ball", "Magnet", "Thunder Stone"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ValidOptions(Upgrade) mismatch (-want +got):\n%s", diff)
	}

	got, err = tables.ValidOptions("Big Mushroom", PartialRecipe{}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tiny Mushroom"}, got)

	got, err = tables.ValidOptions("Big Mushroom", partial("Tiny Mushroom"), 1)
	require.NoError(t, err)
	assert.Equal(t, tables.InputOptions(), got, "the wildcard slot takes anything")

	got, err = tables.ValidOptions("Eviolite", partial("Hard Stone", "Hard Stone", "Big Nugget"), 3)
	require.NoError(t, err)
	assert.Contains(t, got, "Big Nugget")
	assert.NotContains(t, got, "Hard Stone")
	for _, name := range got {
		score, _ := tables.ItemScore(name)
		assert.GreaterOrEqual(t, score, 31, name)
	}
}

func TestValidOptionsWithoutGoal(t *testing.T) {
	got, err := Default().ValidOptions("", partial("Hard Stone"), 2)
	require.NoError(t, err)
	assert.Equal(t, Default().InputOptions(), got)
}

func TestValidOptionsSlotRange(t *testing.T) {
	for _, slot := range []int{-1, 4} {
		_, err := Default().ValidOptions("Eviolite", PartialRecipe{}, slot)
		assert.ErrorIs(t, err, ErrInvalidSlot)
	}
}

func TestValidOptionsReplacesBoundSlot(t *testing.T) {
	// asking about a slot that is already filled considers swapping it out
	got, err := Default().ValidOptions("Strawberry Sweet", partial("Fighting Memory", "Amulet Coin", "Air Balloon", "Focus Sash"), 0)
	require.NoError(t, err)
	assert.Contains(t, got, "Flower Sweet")
	assert.NotContains(t, got, "Fighting Memory")
}

func TestPartialRecipeHelpers(t *testing.T) {
	p := partial("Hard Stone", "", "Pearl")
	assert.Equal(t, 2, p.Unbound())
	_, ok := p.Complete()
	assert.False(t, ok)

	q := p.With(1, "Pearl").With(3, "Pearl")
	assert.Equal(t, 2, p.Unbound(), "With does not modify the receiver")
	r, ok := q.Complete()
	require.True(t, ok)
	assert.Equal(t, Recipe{"Hard Stone", "Pearl", "Pearl", "Pearl"}, r)
}
