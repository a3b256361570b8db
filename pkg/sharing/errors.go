package sharing

import "errors"

var (
	// ErrInvalidThreshold is returned when the threshold is zero or larger
	// than the number of parties.
	ErrInvalidThreshold = errors.New("sharing: threshold must be in [1, parties]")
	// ErrInsufficientShares is returned when fewer shares than the
	// reconstruction threshold are supplied.
	ErrInsufficientShares = errors.New("sharing: insufficient shares for reconstruction")
	// ErrInvalidShare is returned when operating on shares that do not
	// belong to the same party.
	ErrInvalidShare = errors.New("sharing: shares belong to different parties")
	// ErrSecretTooLarge is returned when the secret is not a reduced field
	// element.
	ErrSecretTooLarge = errors.New("sharing: secret is not a field element")
)
