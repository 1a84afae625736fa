package transform

import (
	"slices"
	"testing"
)

func TestAssignLayers_Diamond(t *testing.T) {
	ix := build([]string{"start", "a", "b", "end"},
		[2]string{"start", "a"}, [2]string{"start", "b"},
		[2]string{"a", "end"}, [2]string{"b", "end"})

	got := AssignLayers(ix)
	want := [][]int{{0}, {1, 2}, {3}}
	if len(got.Layers) != len(want) {
		t.Fatalf("Layers = %v, want %v", got.Layers, want)
	}
	for i := range want {
		if !slices.Equal(got.Layers[i], want[i]) {
			t.Errorf("layer %d = %v, want %v", i, got.Layers[i], want[i])
		}
	}
	if got.Cyclic {
		t.Error("Cyclic = true, want false")
	}
}

func TestAssignLayers_LongestPath(t *testing.T) {
	// a -> c directly and a -> b -> c: c must sit below b.
	ix := build([]string{"a", "b", "c"},
		[2]string{"a", "c"}, [2]string{"a", "b"}, [2]string{"b", "c"})

	got := AssignLayers(ix)
	if !slices.Equal(got.Rank, []int{0, 1, 2}) {
		t.Errorf("Rank = %v, want [0 1 2]", got.Rank)
	}
}

func TestAssignLayers_CycleTrailingLayer(t *testing.T) {
	ix := build([]string{"root", "x", "y", "z"},
		[2]string{"root", "x"}, [2]string{"x", "y"},
		[2]string{"y", "x"}, [2]string{"y", "z"})

	got := AssignLayers(ix)
	if !got.Cyclic {
		t.Fatal("Cyclic = false, want true")
	}
	last := got.Layers[len(got.Layers)-1]
	if !slices.Equal(last, []int{1, 2, 3}) {
		t.Errorf("trailing layer = %v, want [1 2 3]", last)
	}
	if got.Rank[3] != len(got.Layers)-1 {
		t.Errorf("Rank[z] = %d, want %d", got.Rank[3], len(got.Layers)-1)
	}
}

func TestAssignLayers_Empty(t *testing.T) {
	got := AssignLayers(build(nil))
	if len(got.Layers) != 0 {
		t.Errorf("Layers = %v, want none", got.Layers)
	}
}

func TestAssignLayers_EveryNodePlaced(t *testing.T) {
	ix := build([]string{"a", "b", "c", "d"},
		[2]string{"a", "b"}, [2]string{"b", "a"}, [2]string{"c", "c"})

	got := AssignLayers(ix)
	total := 0
	for _, l := range got.Layers {
		total += len(l)
	}
	if total != ix.Len() {
		t.Errorf("placed %d nodes, want %d", total, ix.Len())
	}
}
