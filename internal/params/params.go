package params

const (
	SecParam = 256
	SecBytes = SecParam / 8

	// Prime is the modulus of the scalar field GF(p) shared by every scheme
	// in this module: p = 2⁶⁴ − 2³² + 1.
	//
	// The prime is small enough that field elements fit in a machine word,
	// and close enough to 2⁶⁴ that rejection sampling from 8 uniform bytes
	// almost never rejects (probability ≈ 2⁻³²).
	Prime uint64 = 18446744069414584321

	// FieldBytes is the size of a serialized field element.
	FieldBytes = 8
)
