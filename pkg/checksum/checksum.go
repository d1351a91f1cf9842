// Package checksum implements the two checksums used on the serial links:
// an XOR fold for the BY8301 command frames and an 8 bit additive sum for
// the weight bridge frames.
package checksum

// Strategy selects a checksum algorithm
type Strategy int

const (
	StrategyXOR Strategy = iota
	StrategyAdditive
)

// XOR folds all bytes with exclusive-or
func XOR(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum ^= b
	}
	return sum
}

// Additive sums all bytes modulo 256
func Additive(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}

// Compute returns the checksum of data for the given strategy
func Compute(data []byte, strategy Strategy) byte {
	if strategy == StrategyAdditive {
		return Additive(data)
	}
	return XOR(data)
}

// Verify recomputes the checksum of data and compares it with expected
func Verify(data []byte, expected byte, strategy Strategy) bool {
	return Compute(data, strategy) == expected
}
