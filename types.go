package cramomatic

type TypeTag int

const (
	TypeNone TypeTag = iota
	TypeNormal
	TypeFighting
	TypeFlying
	TypePoison
	TypeGround
	TypeRock
	TypeBug
	TypeGhost
	TypeSteel
	TypeFire
	TypeWater
	TypeGrass
	TypeElectric
	TypePsychic
	TypeIce
	TypeDragon
	TypeDark
	TypeFairy
)

// numTypes sizes the per-type lookup arrays (index 0 is TypeNone).
const numTypes = int(TypeFairy) + 1

var typeNames = [numTypes]string{
	TypeNone:     "",
	TypeNormal:   "Normal",
	TypeFighting: "Fighting",
	TypeFlying:   "Flying",
	TypePoison:   "Poison",
	TypeGround:   "Ground",
	TypeRock:     "Rock",
	TypeBug:      "Bug",
	TypeGhost:    "Ghost",
	TypeSteel:    "Steel",
	TypeFire:     "Fire",
	TypeWater:    "Water",
	TypeGrass:    "Grass",
	TypeElectric: "Electric",
	TypePsychic:  "Psychic",
	TypeIce:      "Ice",
	TypeDragon:   "Dragon",
	TypeDark:     "Dark",
	TypeFairy:    "Fairy",
}

func (t TypeTag) String() string {
	if t < 0 || int(t) >= numTypes {
		return ""
	}
	return typeNames[t]
}

func (t TypeTag) valid() bool {
	return t > TypeNone && int(t) < numTypes
}

// ParseType returns TypeNone for anything that is not one of the 18 type names.
func ParseType(s string) TypeTag {
	switch s {
	case "Normal":
		return TypeNormal
	case "Fighting":
		return TypeFighting
	case "Flying":
		return TypeFlying
	case "Poison":
		return TypePoison
	case "Ground":
		return TypeGround
	case "Rock":
		return TypeRock
	case "Bug":
		return TypeBug
	case "Ghost":
		return TypeGhost
	case "Steel":
		return TypeSteel
	case "Fire":
		return TypeFire
	case "Water":
		return TypeWater
	case "Grass":
		return TypeGrass
	case "Electric":
		return TypeElectric
	case "Psychic":
		return TypePsychic
	case "Ice":
		return TypeIce
	case "Dragon":
		return TypeDragon
	case "Dark":
		return TypeDark
	case "Fairy":
		return TypeFairy
	}
	return TypeNone
}

// Item is one row of the ingredient table.
type Item struct {
	Name  string
	Type  TypeTag
	Score int
}

// Range is an inclusive score interval.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (r Range) Contains(score int) bool {
	return r.Min <= score && score <= r.Max
}

// Bucket maps one score range of a type's output table to its result.
type Bucket struct {
	Range  Range  `json:"range"`
	Output string `json:"output"`
}

// placement is one (type, bucket) position an output name occupies.
type placement struct {
	Type   TypeTag
	Bucket int
	Range  Range
}

// Recipe is a complete set of four ingredient names. Slot 0 decides the type.
type Recipe [4]string

// PartialRecipe is a recipe under construction; "" marks an unbound slot.
type PartialRecipe [4]string

// Unbound counts the empty slots.
func (p PartialRecipe) Unbound() int {
	n := 0
	for _, name := range p {
		if name == "" {
			n++
		}
	}
	return n
}

// Complete reports whether every slot is bound, returning the recipe if so.
func (p PartialRecipe) Complete() (Recipe, bool) {
	if p.Unbound() > 0 {
		return Recipe{}, false
	}
	return Recipe(p), true
}

// With returns a copy of p with slot set to name.
func (p PartialRecipe) With(slot int, name string) PartialRecipe {
	p[slot] = name
	return p
}
