package domain

// Zero overwrites b in place so key material does not linger in memory
// after use. Safe on nil and empty slices.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
