package cpu

// Quirks selects between the interpretations historical interpreters
// disagree on. The zero value selects the CHIP-48 behaviour most
// programs expect.
type Quirks struct {
	// ShiftUsesVY makes 8XY6 and 8XYE shift VY into VX,
	// instead of shifting VX in place.
	ShiftUsesVY bool

	// LoadStoreIncrementsI makes FX55 and FX65 leave I pointing
	// past the last register transferred.
	LoadStoreIncrementsI bool
}
