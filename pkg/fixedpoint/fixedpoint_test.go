package fixedpoint

import (
	"testing"

	"github.com/holiman/uint256"
)

func TestMul(t *testing.T) {
	tests := []struct {
		name string
		a, b uint64
		want uint64
	}{
		{"one times one", Scale, Scale, Scale},
		{"half times two", Scale / 2, 2 * Scale, Scale},
		{"zero", 0, 12345, 0},
		{"truncates", 3, 3, 0},
		{"truncates toward zero", 1_500_000_001, 2, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Mul(uint256.NewInt(tt.a), uint256.NewInt(tt.b))
			if got.Uint64() != tt.want {
				t.Errorf("Mul(%d, %d) = %d, want %d", tt.a, tt.b, got.Uint64(), tt.want)
			}
		})
	}
}

func TestDiv(t *testing.T) {
	tests := []struct {
		name string
		a, b uint64
		want uint64
	}{
		{"one over one", Scale, Scale, Scale},
		{"one over two", Scale, 2 * Scale, Scale / 2},
		{"one over three", Scale, 3 * Scale, 333_333_333},
		{"zero divisor", Scale, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Div(uint256.NewInt(tt.a), uint256.NewInt(tt.b))
			if got.Uint64() != tt.want {
				t.Errorf("Div(%d, %d) = %d, want %d", tt.a, tt.b, got.Uint64(), tt.want)
			}
		})
	}
}

func TestSquare_WideOperand(t *testing.T) {
	// denom for t = 2^64-1 seconds at rate 3 exceeds 64 bits; its square
	// must still be exact.
	a := new(uint256.Int).Mul(uint256.NewInt(^uint64(0)), uint256.NewInt(3))
	a.Add(a, One())

	want := new(uint256.Int).Mul(a, a)
	want.Div(want, One())

	if got := Square(a); !got.Eq(want) {
		t.Errorf("Square() = %s, want %s", got.Dec(), want.Dec())
	}
}

func TestRatio(t *testing.T) {
	haircut := Ratio{Num: 95, Den: 100}

	if got := haircut.Apply(uint256.NewInt(1000)).Uint64(); got != 950 {
		t.Errorf("Apply(1000) = %d, want 950", got)
	}
	if got := haircut.Invert(uint256.NewInt(950)).Uint64(); got != 1000 {
		t.Errorf("Invert(950) = %d, want 1000", got)
	}
	// 7*95/100 = 6 (6.65 truncated), 6*100/95 = 6 (6.31 truncated).
	if got := haircut.Invert(haircut.Apply(uint256.NewInt(7))).Uint64(); got != 6 {
		t.Errorf("Invert(Apply(7)) = %d, want 6", got)
	}
}

func TestRatio_NoOverflowOnLargeAmounts(t *testing.T) {
	r := Ratio{Num: 100, Den: 95}
	x := uint256.NewInt(^uint64(0))
	got := r.Apply(x)

	want := new(uint256.Int).Mul(x, uint256.NewInt(100))
	want.Div(want, uint256.NewInt(95))
	if !got.Eq(want) {
		t.Errorf("Apply(max) = %s, want %s", got.Dec(), want.Dec())
	}
}

func TestSaturate(t *testing.T) {
	if got := Saturate(uint256.NewInt(42)); got != 42 {
		t.Errorf("Saturate(42) = %d", got)
	}
	big := new(uint256.Int).Lsh(uint256.NewInt(1), 70)
	if got := Saturate(big); got != ^uint64(0) {
		t.Errorf("Saturate(2^70) = %d, want max uint64", got)
	}
}
