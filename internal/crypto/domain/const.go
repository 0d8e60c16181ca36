package domain

// Algorithm represents the cryptographic algorithm used for encryption.
//
// All supported algorithms provide Authenticated Encryption with Associated Data (AEAD),
// ensuring both confidentiality and authenticity of encrypted data. AEAD prevents both
// unauthorized reading and tampering with encrypted data.
//
// Algorithm selection guidelines:
//   - Use AESGCM on modern CPUs with AES-NI hardware acceleration
//   - Use ChaCha20 on systems without AES-NI
//   - Both provide equivalent 256-bit security when used correctly
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	//
	// AES-GCM (Advanced Encryption Standard in Galois/Counter Mode) combines
	// AES encryption with GMAC authentication. It uses a 256-bit key and
	// provides excellent performance on hardware with AES-NI acceleration.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption algorithm.
	//
	// ChaCha20-Poly1305 combines the ChaCha20 stream cipher with the Poly1305 MAC
	// for authentication. It's designed for high performance on platforms without
	// AES hardware acceleration and is resistant to timing attacks.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// Wire identifiers for each algorithm, stored as the first byte of every
// sealed blob so stored values remain readable after the default algorithm
// changes.
const (
	// AlgorithmIDAESGCM identifies AES-256-GCM in a sealed blob.
	AlgorithmIDAESGCM byte = 0x01

	// AlgorithmIDChaCha20 identifies ChaCha20-Poly1305 in a sealed blob.
	AlgorithmIDChaCha20 byte = 0x02
)

// ID returns the wire identifier for the algorithm, or 0 if unknown.
func (a Algorithm) ID() byte {
	switch a {
	case AESGCM:
		return AlgorithmIDAESGCM
	case ChaCha20:
		return AlgorithmIDChaCha20
	default:
		return 0
	}
}

// AlgorithmFromID resolves a wire identifier back to an Algorithm.
func AlgorithmFromID(id byte) (Algorithm, bool) {
	switch id {
	case AlgorithmIDAESGCM:
		return AESGCM, true
	case AlgorithmIDChaCha20:
		return ChaCha20, true
	default:
		return "", false
	}
}
