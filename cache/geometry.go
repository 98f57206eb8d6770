package cache

import (
	"github.com/sarchlab/softcache/cl"
)

// Organisation selects how host pointers map onto line-table sets.
type Organisation int

// Supported cache organisations.
const (
	DirectMapping Organisation = iota
	SetAssociative
	FullyAssociative
)

func (o Organisation) String() string {
	switch o {
	case DirectMapping:
		return "DIRECT_MAPPING"
	case SetAssociative:
		return "SET_ASSOCIATIVE"
	case FullyAssociative:
		return "FULLY_ASSOCIATIVE"
	default:
		return "INVALID"
	}
}

// geometry is the resolved shape of the line table.
type geometry struct {
	organisation Organisation
	numSets      int
	numLines     int
	linesPerSet  int
}

func makeGeometry(org Organisation, cacheSize, requestedSets int) geometry {
	g := geometry{organisation: org}

	switch org {
	case DirectMapping:
		g.numSets = tableSize(cacheSize)
		g.numLines = g.numSets
		g.linesPerSet = 1
	case FullyAssociative:
		g.numSets = 1
		g.numLines = cacheSize
		g.linesPerSet = cacheSize
	case SetAssociative:
		g.numSets = tableSize(requestedSets)
		g.linesPerSet = cacheSize / g.numSets
		g.numLines = g.numSets * g.linesPerSet
	}

	return g
}

// setIndex hashes a host pointer onto a set by modular division. The table
// size is prime, so the unsigned pointer value spreads evenly.
func (g geometry) setIndex(tag cl.HostPtr) int {
	return int(uintptr(tag) % uintptr(g.numSets))
}

// setBounds returns the half-open line-index range of a set.
func (g geometry) setBounds(setIndex int) (lo, hi int) {
	lo = setIndex * g.linesPerSet
	hi = lo + g.linesPerSet

	return lo, hi
}

// isPrime reports whether n is an odd prime. 2 is rejected on purpose: a
// power-of-two table size degenerates the modular hash.
func isPrime(n int) bool {
	if n <= 1 {
		return false
	}

	if n == 2 {
		return false
	}

	if n <= 3 {
		return true
	}

	if n%2 == 0 || n%3 == 0 {
		return false
	}

	for i := 5; i*i <= n; i += 6 {
		if n%i == 0 || n%(i+2) == 0 {
			return false
		}
	}

	return true
}

// tableSize returns the smallest prime >= n usable as a modular hash table
// size. The extra constraint rejects primes p where the address-space
// modulus satisfies maxUint % p == 1; such tables collapse many keys onto
// the same index.
func tableSize(n int) int {
	if n <= 2 {
		return 3
	}

	const maxAddr = ^uintptr(0)

	p := n
	for {
		if isPrime(p) && maxAddr%uintptr(p) != 1 {
			return p
		}

		p++
	}
}
