package runtime

import "math/big"

func bigIntSetInt64(n int64) *big.Int {
	return big.NewInt(n)
}

func bigIntSetUint64(n uint64) *big.Int {
	return new(big.Int).SetUint64(n)
}

// BigIntAsIntN implements BigInt.asIntN(bits, bigint): the bits-wide
// two's-complement reduction of bigint (spec.md §4.F's BigInt64
// wraparound rule, generalized to arbitrary widths for the BigInt
// namespace function).
func BigIntAsIntN(bits uint, v *big.Int) *big.Int {
	mod := new(big.Int).Lsh(big.NewInt(1), bits)
	r := new(big.Int).Mod(v, mod)
	if r.Sign() < 0 {
		r.Add(r, mod)
	}
	half := new(big.Int).Lsh(big.NewInt(1), bits-1)
	if r.Cmp(half) >= 0 {
		r.Sub(r, mod)
	}
	return r
}

// BigIntAsUintN implements BigInt.asUintN(bits, bigint).
func BigIntAsUintN(bits uint, v *big.Int) *big.Int {
	mod := new(big.Int).Lsh(big.NewInt(1), bits)
	r := new(big.Int).Mod(v, mod)
	if r.Sign() < 0 {
		r.Add(r, mod)
	}
	return r
}
