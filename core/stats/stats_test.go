package stats

import "testing"

func TestGrowth(t *testing.T) {
	tests := []struct {
		name   string
		prev30 int
		last30 int
		want   int
	}{
		{"no baseline", 0, 5, 0},
		{"half up", 10, 15, 50},
		{"flat", 10, 10, 0},
		{"doubling", 5, 10, 100},
		{"decline", 10, 5, -50},
		{"rounding", 3, 4, 33},
		{"collapse", 8, 0, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Growth(tt.prev30, tt.last30); got != tt.want {
				t.Fatalf("Growth(%d, %d) = %d, want %d", tt.prev30, tt.last30, got, tt.want)
			}
		})
	}
}
