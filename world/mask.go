package world

// MaskCategories selects which own-team structures get an exclusion ring.
type MaskCategories struct {
	Build  bool
	Core   bool
	Liquid bool
	Solid  bool
}

// Any reports whether at least one category is selected.
func (c MaskCategories) Any() bool {
	return c.Build || c.Core || c.Liquid || c.Solid
}

func (c MaskCategories) selects(cat Category) bool {
	switch cat {
	case CategoryBuild:
		return c.Build
	case CategoryCore:
		return c.Core
	case CategoryLiquid:
		return c.Liquid
	case CategorySolid:
		return c.Solid
	}
	return false
}

// MaskAround returns a placement mask combining the snapshot mask with the
// outer ring of every own-team structure whose category is selected. The
// result is a fresh slice; nil is returned when there is nothing to mask.
// Complexity: O(W×H + Σ ring cells).
func (s *Snapshot) MaskAround(cats MaskCategories) []bool {
	if s.Mask == nil && !cats.Any() {
		return nil
	}
	out := make([]bool, s.Grid.Size())
	copy(out, s.Mask)
	if !cats.Any() {
		return out
	}
	for _, st := range s.Structures {
		if st.Team != s.Team || !cats.selects(st.Kind.Category) {
			continue
		}
		for _, p := range st.Footprint().OuterRing(s.Grid) {
			out[s.Grid.Index(p)] = true
		}
	}
	return out
}
