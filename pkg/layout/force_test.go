package layout

import (
	"maps"
	"testing"

	"github.com/matzehuels/flowlayout/pkg/graph/graphtest"
)

func TestForce_StaysInCanvas(t *testing.T) {
	g := graphtest.FromInts(12, []int{0, 1, 1, 2, 2, 3, 3, 0, 4, 5, 6, 7, 8, 9, 10, 11})
	cfg := Config{Options: Options{Force: &ForceOptions{Width: 400, Height: 300, Padding: 20}}}

	pos := run(t, NewForce(), g, cfg)
	b := ComputeBounds(pos)
	if b.MinX < 20-eps || b.MaxX > 380+eps || b.MinY < 20-eps || b.MaxY > 280+eps {
		t.Errorf("bounds %+v escape the padded canvas", b)
	}
}

func TestForce_SeedChangesLayout(t *testing.T) {
	g := graphtest.FromInts(6, []int{0, 1, 1, 2, 3, 4})

	a := run(t, NewForce(), g, Config{Options: Options{Force: &ForceOptions{Seed: 1}}})
	b := run(t, NewForce(), g, Config{Options: Options{Force: &ForceOptions{Seed: 1}}})
	c := run(t, NewForce(), g, Config{Options: Options{Force: &ForceOptions{Seed: 2}}})

	if !maps.Equal(a, b) {
		t.Error("same seed produced different layouts")
	}
	if maps.Equal(a, c) {
		t.Error("different seeds produced identical layouts")
	}
}

func TestForce_SingleNodeCentered(t *testing.T) {
	pos := run(t, NewForce(), graphtest.Chain("solo"), Config{})
	if pos["solo"] != (Position{X: DefaultCanvasWidth / 2, Y: DefaultCanvasHeight / 2}) {
		t.Errorf("solo = %+v", pos["solo"])
	}
}

func TestForce_Validate(t *testing.T) {
	tests := []struct {
		name string
		opts ForceOptions
	}{
		{"too many iterations", ForceOptions{Iterations: MaxForceIterations + 1}},
		{"padding fills canvas", ForceOptions{Width: 100, Height: 100, Padding: 50}},
		{"negative width", ForceOptions{Width: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := tt.opts
			cfg := Merge(Config{Options: Options{Force: &o}}, NewForce().DefaultConfig())
			if err := NewForce().Validate(cfg); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
