package layout

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/matzehuels/flowlayout/pkg/errors"
)

func TestMergePrecedence(t *testing.T) {
	caller := Config{Algorithm: NameTree, LevelSpacing: Float(5)}
	defaults := Config{
		Algorithm:   NameHierarchical,
		Direction:   LeftRight,
		NodeSpacing: &Spacing{Horizontal: 1, Vertical: 2},
	}

	got := Merge(caller, defaults, GlobalDefaults())
	if got.Algorithm != NameTree {
		t.Errorf("Algorithm = %s, want caller's tree", got.Algorithm)
	}
	if got.Direction != LeftRight {
		t.Errorf("Direction = %s, want LR from defaults", got.Direction)
	}
	if *got.NodeSpacing != (Spacing{Horizontal: 1, Vertical: 2}) {
		t.Errorf("NodeSpacing = %+v", *got.NodeSpacing)
	}
	if *got.LevelSpacing != 5 {
		t.Errorf("LevelSpacing = %v, want 5", *got.LevelSpacing)
	}

	got.NodeSpacing.Horizontal = 99
	if defaults.NodeSpacing.Horizontal != 1 {
		t.Error("Merge result aliases its input")
	}
}

func TestMergeOptionsWhole(t *testing.T) {
	caller := Config{Options: Options{Grid: &GridOptions{Columns: 3}}}
	got := Merge(caller, NewGrid().DefaultConfig())
	if got.Options.Grid.Columns != 3 || got.Options.Grid.FillOrder != "" {
		t.Errorf("Grid options = %+v, want caller's struct", got.Options.Grid)
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		dir  Direction
		want Position
	}{
		{TopBottom, Position{1, 2}},
		{BottomTop, Position{1, -2}},
		{LeftRight, Position{2, 1}},
		{RightLeft, Position{-2, 1}},
		{"", Position{1, 2}},
	}
	for _, tt := range tests {
		if got := Apply(tt.dir, 1, 2); got != tt.want {
			t.Errorf("Apply(%q) = %+v, want %+v", tt.dir, got, tt.want)
		}
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		code errors.Code
	}{
		{"valid", Config{Algorithm: NameGrid}, ""},
		{"missing algorithm", Config{}, errors.ErrCodeInvalidAlgorithm},
		{"bad direction", Config{Algorithm: NameGrid, Direction: "UP"}, errors.ErrCodeInvalidDirection},
		{"negative spacing", Config{Algorithm: NameGrid, NodeSpacing: &Spacing{Horizontal: -1}}, errors.ErrCodeInvalidConfig},
		{"negative level", Config{Algorithm: NameGrid, LevelSpacing: Float(-3)}, errors.ErrCodeInvalidConfig},
		{"bad grid order", Config{Algorithm: NameGrid, Options: Options{Grid: &GridOptions{FillOrder: "spiral"}}}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(tt.cfg)
			if tt.code == "" {
				if err != nil {
					t.Errorf("ValidateConfig() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateConfig() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestConfigJSONRoundTrip(t *testing.T) {
	cfg := Config{
		Algorithm:    NameCircular,
		Direction:    RightLeft,
		NodeSpacing:  &Spacing{Horizontal: 12, Vertical: 34},
		LevelSpacing: Float(0),
		Animated:     true,
		Options: Options{Circular: &CircularOptions{
			StartAngle:   Float(0),
			EqualSpacing: Bool(false),
			CustomOrder:  []string{"b", "a"},
		}},
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var back Config
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, back) {
		t.Errorf("round trip changed config:\n got %+v\nwant %+v", back, cfg)
	}
}

func TestComputeBounds(t *testing.T) {
	b := ComputeBounds(map[string]Position{"a": {-1, 2}, "b": {3, -4}})
	want := Bounds{MinX: -1, MinY: -4, MaxX: 3, MaxY: 2, Width: 4, Height: 6}
	if b != want {
		t.Errorf("ComputeBounds() = %+v, want %+v", b, want)
	}
	if ComputeBounds(nil) != (Bounds{}) {
		t.Error("ComputeBounds(nil) should be zero")
	}
}
