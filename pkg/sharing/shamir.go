// Package sharing implements Shamir's (t, n) threshold secret sharing and
// an additive n-of-n scheme over GF(p).
//
// A secret s is hidden as the constant term of a random polynomial f of
// degree t−1; party i holds the share (xᵢ, f(xᵢ)). Any t shares recover s
// by Lagrange interpolation at zero, while t−1 shares reveal nothing.
// Sharings are linear: shares of x+y, x−y and c⋅x are obtained by operating
// on the shares locally.
package sharing

import (
	"fmt"

	"github.com/shardsec/mpc/pkg/math/field"
	"github.com/shardsec/mpc/pkg/math/polynomial"
)

// Split splits secret into parties shares with reconstruction threshold
// threshold, using sequential coordinates x = 1, …, n.
func Split(secret field.Element, threshold, parties int) ([]Share, error) {
	return SplitWith(Sequential{}, secret, threshold, parties)
}

// SplitWith splits secret like Split, with the coordinates and coefficient
// randomness chosen by the given strategy.
func SplitWith(strategy CoordinateStrategy, secret field.Element, threshold, parties int) ([]Share, error) {
	if threshold < 1 || parties < 1 || threshold > parties {
		return nil, ErrInvalidThreshold
	}
	if !field.IsValid(secret) {
		return nil, ErrSecretTooLarge
	}

	xs, rand, err := strategy.Coordinates(parties)
	if err != nil {
		return nil, err
	}

	f := polynomial.NewPolynomial(threshold-1, secret, rand)
	shares := make([]Share, parties)
	for i, x := range xs {
		shares[i] = Share{X: x, Y: f.Evaluate(x)}
	}
	return shares, nil
}

// Reconstruct recovers the secret from at least threshold shares. Extra
// shares beyond the threshold are ignored.
func Reconstruct(shares []Share, threshold int) (field.Element, error) {
	if threshold < 1 {
		return 0, ErrInvalidThreshold
	}
	if len(shares) < threshold {
		return 0, ErrInsufficientShares
	}

	subset := shares[:threshold]
	xs := make([]field.Element, threshold)
	ys := make([]field.Element, threshold)
	for i, s := range subset {
		xs[i] = s.X
		ys[i] = s.Y
	}

	secret, err := polynomial.InterpolateAtZero(xs, ys)
	if err != nil {
		return 0, fmt.Errorf("sharing: reconstruct: %w", err)
	}
	return secret, nil
}
