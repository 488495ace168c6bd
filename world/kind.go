package world

import (
	"fmt"
	"sort"
	"strings"
)

// Medium selects which resource a route carries.
type Medium uint8

const (
	// Energy routes are chains of laser relays between powered structures.
	Energy Medium = iota
	// Liquid routes are conduits, junctions and bridge conduits.
	Liquid
	// Item routes are ducts, armored ducts and duct bridges.
	Item
)

// Media lists every medium.
var Media = [3]Medium{Energy, Liquid, Item}

// String implements fmt.Stringer.
func (m Medium) String() string {
	switch m {
	case Energy:
		return "energy"
	case Liquid:
		return "liquid"
	case Item:
		return "item"
	}
	return fmt.Sprintf("medium(%d)", m)
}

// ParseMedium converts a medium name back to a Medium.
func ParseMedium(s string) (Medium, error) {
	for _, m := range Media {
		if m.String() == strings.ToLower(s) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMedium, s)
}

// Trait is a bit set describing how a structure interacts with routing.
type Trait uint16

const (
	// Power structures conduct energy.
	Power Trait = 1 << iota
	// Tower structures forbid relays inside their laser range.
	Tower
	// EmitsLiquid structures push liquid into any adjacent acceptor.
	EmitsLiquid
	// EmitsItems structures push items into any adjacent acceptor.
	EmitsItems
	// Conduit is a single-cell directional liquid connector.
	Conduit
	// Junction passes liquid straight through on both axes.
	Junction
	// LiquidBridge jumps liquid over up to three cells.
	LiquidBridge
	// Duct is a single-cell directional item connector.
	Duct
	// Surge is a directional item connector that only feeds its front.
	Surge
	// ItemBridge jumps items over up to three cells.
	ItemBridge
)

// Has reports whether every bit of want is set.
func (t Trait) Has(want Trait) bool {
	return t&want == want
}

// Category groups structures for exclusion masks.
type Category uint8

const (
	// CategoryNone structures never produce a mask.
	CategoryNone Category = iota
	// CategoryBuild is any production structure holding items or liquids.
	CategoryBuild
	// CategoryCore is a base core.
	CategoryCore
	// CategoryLiquid is liquid logistics.
	CategoryLiquid
	// CategorySolid is item logistics.
	CategorySolid
)

var categoryNames = map[string]Category{
	"":       CategoryNone,
	"none":   CategoryNone,
	"build":  CategoryBuild,
	"core":   CategoryCore,
	"liquid": CategoryLiquid,
	"solid":  CategorySolid,
}

// ParseCategory converts a category name to a Category.
func ParseCategory(s string) (Category, error) {
	c, ok := categoryNames[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("%w: category %q", ErrUnknownKind, s)
	}
	return c, nil
}

var traitNames = map[string]Trait{
	"power":         Power,
	"tower":         Tower,
	"emits-liquid":  EmitsLiquid,
	"emits-items":   EmitsItems,
	"conduit":       Conduit,
	"junction":      Junction,
	"liquid-bridge": LiquidBridge,
	"duct":          Duct,
	"surge":         Surge,
	"item-bridge":   ItemBridge,
}

// ParseTraits folds a list of trait names into a Trait set.
func ParseTraits(names []string) (Trait, error) {
	var t Trait
	for _, n := range names {
		bit, ok := traitNames[strings.ToLower(n)]
		if !ok {
			return 0, fmt.Errorf("%w: trait %q", ErrUnknownKind, n)
		}
		t |= bit
	}
	return t, nil
}

// Kind describes a structure type.
type Kind struct {
	Name     string
	Size     int
	Traits   Trait
	Category Category
}

// Emits reports whether the kind pushes the resource of m into neighbours.
func (k Kind) Emits(m Medium) bool {
	switch m {
	case Liquid:
		return k.Traits.Has(EmitsLiquid)
	case Item:
		return k.Traits.Has(EmitsItems)
	}
	return false
}

// Connector reports whether the kind is a directional single-cell connector
// of m that a route may start from.
func (k Kind) Connector(m Medium) bool {
	switch m {
	case Liquid:
		return k.Traits.Has(Conduit)
	case Item:
		return k.Traits.Has(Duct)
	}
	return false
}

// Bridge reports whether the kind is the bridge piece of m.
func (k Kind) Bridge(m Medium) bool {
	switch m {
	case Liquid:
		return k.Traits.Has(LiquidBridge)
	case Item:
		return k.Traits.Has(ItemBridge)
	}
	return false
}

// Catalog maps kind names to kinds.
type Catalog struct {
	kinds map[string]Kind
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{kinds: make(map[string]Kind)}
}

// DefaultCatalog returns the built-in set of logistics pieces and
// buildings. Piece names match the names used in build instructions.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	for _, k := range []Kind{
		{Name: "beam-node", Size: 1, Traits: Power},
		{Name: "beam-tower", Size: 3, Traits: Power | Tower},
		{Name: "battery", Size: 1, Traits: Power},
		{Name: "generator", Size: 2, Traits: Power, Category: CategoryBuild},

		{Name: "conduit", Size: 1, Traits: Conduit | EmitsLiquid, Category: CategoryLiquid},
		{Name: "liquid-junction", Size: 1, Traits: Junction | EmitsLiquid, Category: CategoryLiquid},
		{Name: "bridge-conduit", Size: 1, Traits: LiquidBridge | EmitsLiquid, Category: CategoryLiquid},
		{Name: "liquid-router", Size: 1, Traits: EmitsLiquid, Category: CategoryLiquid},
		{Name: "pump", Size: 2, Traits: Power | EmitsLiquid, Category: CategoryBuild},

		{Name: "duct", Size: 1, Traits: Duct | EmitsItems, Category: CategorySolid},
		{Name: "armored-duct", Size: 1, Traits: Duct | EmitsItems, Category: CategorySolid},
		{Name: "duct-bridge", Size: 1, Traits: ItemBridge | EmitsItems, Category: CategorySolid},
		{Name: "surge-conveyor", Size: 1, Traits: Surge | EmitsItems, Category: CategorySolid},
		{Name: "duct-router", Size: 1, Traits: EmitsItems, Category: CategorySolid},
		{Name: "overflow-duct", Size: 1, Traits: EmitsItems, Category: CategorySolid},
		{Name: "underflow-duct", Size: 1, Traits: EmitsItems, Category: CategorySolid},
		{Name: "drill", Size: 2, Traits: Power | EmitsItems, Category: CategoryBuild},
		{Name: "factory", Size: 3, Traits: Power | EmitsItems | EmitsLiquid, Category: CategoryBuild},

		{Name: "core", Size: 4, Traits: EmitsItems, Category: CategoryCore},
		{Name: "wall", Size: 1},
	} {
		c.kinds[k.Name] = k
	}
	return c
}

// Register adds or replaces a kind.
// Returns ErrInvalidKind if the name is empty or the size is not positive.
func (c *Catalog) Register(k Kind) error {
	if k.Name == "" || k.Size <= 0 {
		return fmt.Errorf("%w: %q size %d", ErrInvalidKind, k.Name, k.Size)
	}
	c.kinds[k.Name] = k
	return nil
}

// Lookup returns the kind registered under name.
func (c *Catalog) Lookup(name string) (Kind, bool) {
	k, ok := c.kinds[name]
	return k, ok
}

// MustLookup is Lookup for built-in names; it panics on a miss.
func (c *Catalog) MustLookup(name string) Kind {
	k, ok := c.kinds[name]
	if !ok {
		panic(fmt.Sprintf("world: kind %q not in catalog", name))
	}
	return k
}

// Names returns the registered names in sorted order.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.kinds))
	for n := range c.kinds {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
