package review

import "testing"

func TestClamp(t *testing.T) {
	tests := []struct {
		rating int
		want   int
	}{
		{7, 5},
		{6, 5},
		{5, 5},
		{3, 3},
		{1, 1},
		{0, 1},
		{-4, 1},
	}

	for _, tt := range tests {
		if got := Clamp(tt.rating); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.rating, got, tt.want)
		}
	}
}
