// Package fixedpoint implements exact scaled-integer arithmetic.
//
// A real number x is represented by the integer x * Scale. Every operation
// truncates toward zero at each step, the same way the on-chain contract
// evaluates its integer expressions, so results computed here match the
// chain bit for bit.
//
// Inputs are non-negative by construction. 256 bits hold every intermediate
// produced from uint64 operands (the widest is a squared 66-bit value).
package fixedpoint

import (
	"github.com/holiman/uint256"
)

// Scale is the fixed-point scaling factor (10^9).
const Scale = 1_000_000_000

var scale = uint256.NewInt(Scale)

// One returns Scale as a fresh value (the fixed-point representation of 1).
func One() *uint256.Int {
	return new(uint256.Int).Set(scale)
}

// Mul returns a*b / Scale.
func Mul(a, b *uint256.Int) *uint256.Int {
	z, _ := new(uint256.Int).MulDivOverflow(a, b, scale)
	return z
}

// Div returns a*Scale / b. Division by zero yields zero.
func Div(a, b *uint256.Int) *uint256.Int {
	z, _ := new(uint256.Int).MulDivOverflow(a, scale, b)
	return z
}

// Square returns a*a / Scale.
func Square(a *uint256.Int) *uint256.Int {
	return Mul(a, a)
}

// MulDiv returns a*num / den using a 512-bit intermediate.
func MulDiv(a, num, den *uint256.Int) *uint256.Int {
	z, _ := new(uint256.Int).MulDivOverflow(a, num, den)
	return z
}

// Ratio is an exact rational factor Num/Den applied with integer arithmetic.
type Ratio struct {
	Num uint64
	Den uint64
}

// Apply returns x*Num/Den.
func (r Ratio) Apply(x *uint256.Int) *uint256.Int {
	return MulDiv(x, uint256.NewInt(r.Num), uint256.NewInt(r.Den))
}

// Invert returns x*Den/Num, undoing Apply up to truncation.
func (r Ratio) Invert(x *uint256.Int) *uint256.Int {
	return MulDiv(x, uint256.NewInt(r.Den), uint256.NewInt(r.Num))
}

// Saturate converts x to uint64, clamping values that do not fit.
func Saturate(x *uint256.Int) uint64 {
	if !x.IsUint64() {
		return ^uint64(0)
	}
	return x.Uint64()
}
