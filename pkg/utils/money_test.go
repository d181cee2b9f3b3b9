package utils

import "testing"

func TestRound2(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1.005, 1.0}, // 1.005 is stored just under the half cent
		{80.997, 81.00},
		{59.998, 60.00},
		{620.977, 620.98},
		{2.674, 2.67},
		{2.675, 2.67}, // float representation again
		{2.676, 2.68},
		{-2.676, -2.68},
		{-0.004, -0},
		{100, 100},
	}

	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMoneyEquals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b float64
		want bool
	}{
		{719.98, 719.98, true},
		{719.98, 719.984, true},
		{719.98, 720.00, false},
		{719.98, 719.96, false},
		{0, 0.009, true},
		{0, 0.02, false},
		{100.00, 99.995, true},
	}

	for _, tt := range tests {
		if got := MoneyEquals(tt.a, tt.b); got != tt.want {
			t.Errorf("MoneyEquals(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
