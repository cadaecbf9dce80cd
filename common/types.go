package common

// Hash is a fixed-width digest value used to address nodes and values
// in the content store and to link tree nodes to their children.
type Hash [32]byte

// HashLength is the width of a Hash in bytes.
const HashLength = 32

// Serializer converts a type to/from its canonical byte representation.
type Serializer[T any] interface {

	// ToBytes serializes the value to a byte slice of length Size
	ToBytes(T) []byte

	// FromBytes deserializes a value from the given byte slice
	FromBytes([]byte) T

	// Size provides the length of the serialized form in bytes
	Size() int
}

// HashSerializer is a Serializer of the Hash type
type HashSerializer struct{}

func (a HashSerializer) ToBytes(hash Hash) []byte {
	return hash[:]
}
func (a HashSerializer) FromBytes(bytes []byte) Hash {
	var hash Hash
	copy(hash[:], bytes)
	return hash
}
func (a HashSerializer) Size() int {
	return HashLength
}

// MemoryFootprintProvider is implemented by components able to report
// the amount of memory they consume.
type MemoryFootprintProvider interface {
	GetMemoryFootprint() *MemoryFootprint
}
