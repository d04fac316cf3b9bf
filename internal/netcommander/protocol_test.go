package netcommander

import "testing"

func TestStatusPosition(t *testing.T) {
	tests := []struct {
		outlet int
		total  int
		want   int
	}{
		{1, 5, 4},
		{5, 5, 0},
		{3, 5, 2},
		{1, 8, 7},
		{8, 8, 0},
	}

	for _, tt := range tests {
		if got := StatusPosition(tt.outlet, tt.total); got != tt.want {
			t.Errorf("StatusPosition(%d, %d) = %d, want %d", tt.outlet, tt.total, got, tt.want)
		}
	}
}

func TestToggleIndex(t *testing.T) {
	for outlet := 1; outlet <= 5; outlet++ {
		if got := ToggleIndex(outlet); got != outlet-1 {
			t.Errorf("ToggleIndex(%d) = %d, want %d", outlet, got, outlet-1)
		}
	}
}

func TestValidOutlet(t *testing.T) {
	tests := []struct {
		outlet int
		want   bool
	}{
		{0, false},
		{1, true},
		{5, true},
		{6, false},
		{-1, false},
	}

	for _, tt := range tests {
		if got := ValidOutlet(tt.outlet, 5); got != tt.want {
			t.Errorf("ValidOutlet(%d, 5) = %v, want %v", tt.outlet, got, tt.want)
		}
	}
}

func TestSetOutletCommand(t *testing.T) {
	tests := []struct {
		outlet int
		on     bool
		want   string
	}{
		{1, true, "$A3 1 1"},
		{1, false, "$A3 1 0"},
		{5, true, "$A3 5 1"},
	}

	for _, tt := range tests {
		if got := SetOutletCommand(tt.outlet, tt.on); got != tt.want {
			t.Errorf("SetOutletCommand(%d, %v) = %q, want %q", tt.outlet, tt.on, got, tt.want)
		}
	}
}

func TestToggleOutletCommand(t *testing.T) {
	if got := ToggleOutletCommand(1); got != "rly=0" {
		t.Errorf("ToggleOutletCommand(1) = %q, want %q", got, "rly=0")
	}
	if got := ToggleOutletCommand(5); got != "rly=4" {
		t.Errorf("ToggleOutletCommand(5) = %q, want %q", got, "rly=4")
	}
}
