package common

import (
	"crypto/sha256"
	"hash"
	"sync"

	"golang.org/x/crypto/sha3"
)

// HashProvider is a capability handle for a digest algorithm. A tree and the
// content store it writes into must be constructed with the same provider,
// since store keys are derived from the stored content.
//
// Implementations must be deterministic and safe for concurrent use.
type HashProvider interface {

	// HashOf computes the digest of the given data.
	HashOf(data []byte) Hash
}

// GetHash computes a Hash of the given data using the given hashing algorithm.
// The hasher is reset before use.
func GetHash(hasher hash.Hash, data []byte) Hash {
	hasher.Reset()
	hasher.Write(data)
	var h Hash
	copy(h[:], hasher.Sum(nil))
	return h
}

// Sha256Provider provides a HashProvider computing SHA-256 digests.
func Sha256Provider() HashProvider {
	return sha256Provider{}
}

type sha256Provider struct{}

func (sha256Provider) HashOf(data []byte) Hash {
	return Hash(sha256.Sum256(data))
}

// Keccak256Provider provides a HashProvider computing legacy Keccak-256
// digests as used by Ethereum. Hasher instances are pooled to avoid
// an allocation per call.
func Keccak256Provider() HashProvider {
	return &keccak256Provider{
		pool: sync.Pool{New: func() any { return sha3.NewLegacyKeccak256() }},
	}
}

type keccak256Provider struct {
	pool sync.Pool
}

type keccakState interface {
	Reset()
	Write(in []byte) (int, error)
	Read(out []byte) (int, error)
}

func (p *keccak256Provider) HashOf(data []byte) Hash {
	hasher := p.pool.Get().(keccakState)
	hasher.Reset()
	hasher.Write(data)
	var h Hash
	hasher.Read(h[:])
	p.pool.Put(hasher)
	return h
}
