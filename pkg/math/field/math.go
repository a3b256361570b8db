package field

import "math/bits"

// GCD returns the greatest common divisor of a and b.
func GCD(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// mulMod returns a ⋅ b mod n for arbitrary n, used by the primality check.
func mulMod(a, b, n uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, rem := bits.Div64(hi, lo, n)
	return rem
}

func expMod(base, exponent, n uint64) uint64 {
	result := uint64(1 % n)
	base %= n
	for exponent > 0 {
		if exponent&1 == 1 {
			result = mulMod(result, base, n)
		}
		base = mulMod(base, base, n)
		exponent >>= 1
	}
	return result
}

// IsPrime reports whether n is prime, using the Miller-Rabin test with a
// base set that is deterministic for all 64-bit integers.
func IsPrime(n uint64) bool {
	switch {
	case n < 2:
		return false
	case n%2 == 0:
		return n == 2
	}

	d := n - 1
	r := 0
	for d%2 == 0 {
		d /= 2
		r++
	}

	for _, a := range []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37} {
		if a%n == 0 {
			continue
		}
		x := expMod(a, d, n)
		if x == 1 || x == n-1 {
			continue
		}
		composite := true
		for i := 0; i < r-1; i++ {
			x = mulMod(x, x, n)
			if x == n-1 {
				composite = false
				break
			}
		}
		if composite {
			return false
		}
	}
	return true
}
