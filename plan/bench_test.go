package plan_test

import (
	"testing"

	"github.com/katalvlaran/gridroute/grid"
	"github.com/katalvlaran/gridroute/plan"
	"github.com/katalvlaran/gridroute/world"
)

func BenchmarkAssemble_Item(b *testing.B) {
	m := medium(b, 128, 128, world.Item, nil, place("drill", 40, 1, grid.Right))
	r := straight(world.Item, pt(0, 0), grid.Right, 127)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := plan.Assemble(m, r); err != nil {
			b.Fatal(err)
		}
	}
}
