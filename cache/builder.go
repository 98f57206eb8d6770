package cache

import (
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/text/language"

	"github.com/sarchlab/softcache/cl"
)

// Builder can build caches.
type Builder struct {
	driver        cl.Driver
	organisation  Organisation
	policy        ReplacementPolicy
	cacheSize     int
	requestedSets int
	writeBack     bool

	profileLogPath string
	locale         language.Tag
	randSeed       int64
	seeded         bool
}

// MakeBuilder creates a builder with the default configuration: a
// direct-mapped, write-through cache of 64 candidate lines, logging
// profiles to log.txt with a decimal comma.
func MakeBuilder() Builder {
	return Builder{
		organisation:   DirectMapping,
		policy:         LRU,
		cacheSize:      64,
		profileLogPath: "log.txt",
		locale:         language.Dutch,
	}
}

// WithDriver sets the underlying runtime the cache forwards to.
func (b Builder) WithDriver(driver cl.Driver) Builder {
	b.driver = driver
	return b
}

// WithOrganisation sets the cache organisation.
func (b Builder) WithOrganisation(org Organisation) Builder {
	b.organisation = org
	return b
}

// WithReplacementPolicy sets the eviction policy. Ignored under direct
// mapping, which has no choice to make.
func (b Builder) WithReplacementPolicy(policy ReplacementPolicy) Builder {
	b.policy = policy
	return b
}

// WithCacheSize sets the total number of lines, or, under direct mapping,
// the candidate set count before prime rounding.
func (b Builder) WithCacheSize(size int) Builder {
	b.cacheSize = size
	return b
}

// WithRequestedSets sets the requested set count for the set-associative
// organisation. The actual set count is the smallest suitable prime >= the
// request; lines per set follow as cacheSize / setCount.
func (b Builder) WithRequestedSets(sets int) Builder {
	b.requestedSets = sets
	return b
}

// WithWriteBack switches the cache from write-through to write-back.
func (b Builder) WithWriteBack(writeBack bool) Builder {
	b.writeBack = writeBack
	return b
}

// WithProfileLogPath sets the append-only profile log file.
func (b Builder) WithProfileLogPath(path string) Builder {
	b.profileLogPath = path
	return b
}

// WithLocale sets the locale used to render decimals in the profile log.
func (b Builder) WithLocale(tag language.Tag) Builder {
	b.locale = tag
	return b
}

// WithRandSeed fixes the seed of the random replacement source. Without it
// the cache seeds from the clock.
func (b Builder) WithRandSeed(seed int64) Builder {
	b.randSeed = seed
	b.seeded = true
	return b
}

// Build builds a cache. Invalid configurations panic with a diagnostic.
func (b Builder) Build(name string) *Comp {
	b.mustBeValid()

	seed := b.randSeed
	if !b.seeded {
		seed = time.Now().UnixNano()
	}

	geom := makeGeometry(b.organisation, b.cacheSize, b.requestedSets)

	tableWide := &randomVictimFinder{rng: rand.New(rand.NewSource(seed))}

	c := &Comp{
		name:           name,
		driver:         b.driver,
		geom:           geom,
		policy:         b.policy,
		finder:         b.createVictimFinder(geom, tableWide),
		tableWide:      tableWide,
		writeBack:      b.writeBack,
		lines:          make([]Line, geom.numLines),
		kernelArgs:     make(map[cl.Kernel]map[cl.HostPtr]struct{}),
		profileLogPath: b.profileLogPath,
		locale:         b.locale,
	}

	return c
}

func (b Builder) createVictimFinder(
	geom geometry,
	tableWide *randomVictimFinder,
) victimFinder {
	switch b.policy {
	case LRU:
		return &lruVictimFinder{fallback: tableWide}
	case FIFO:
		return newFIFOVictimFinder(geom.numSets)
	case Random:
		return tableWide
	case Smallest:
		return &smallestVictimFinder{fallback: tableWide}
	default:
		panic(fmt.Sprintf("unknown replacement policy %d", b.policy))
	}
}

func (b Builder) mustBeValid() {
	if b.driver == nil {
		panic("cache: no driver configured")
	}

	switch b.organisation {
	case DirectMapping, SetAssociative, FullyAssociative:
	default:
		panic(fmt.Sprintf("cache: invalid organisation %d", b.organisation))
	}

	if b.cacheSize <= 0 {
		panic(fmt.Sprintf("cache: non-positive cache size %d", b.cacheSize))
	}

	if b.organisation == SetAssociative {
		if b.requestedSets <= 0 {
			panic("cache: set-associative organisation needs a positive set count")
		}

		if b.cacheSize < tableSize(b.requestedSets) {
			panic(fmt.Sprintf(
				"cache: cache size %d cannot fill %d sets",
				b.cacheSize, tableSize(b.requestedSets)))
		}
	}
}
