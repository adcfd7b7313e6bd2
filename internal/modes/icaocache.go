package modes

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// cacheSlots must be a power of two; the slot index is addr hashed and
// masked, never modulo'd, so non-power-of-two sizes would bias the index.
const cacheSlots = 1024
const cacheMask = cacheSlots - 1

// icaoTTL is how long an address stays valid in the recency whitelist.
const icaoTTL = 60 * time.Second

type icaoSlot struct {
	addr     uint32
	seenUnix int64
	valid    bool
}

// IcaoCache is the fixed-size, direct-mapped whitelist of recently seen
// ICAO addresses used to validate AP-checksummed replies (spec §4.2).
// Collisions overwrite silently; a stale or colliding lookup is a false
// negative, which is fine because the next DF11/DF17 from the same
// aircraft re-seeds the slot.
//
// Alongside the direct-mapped array we keep a patrickmn/go-cache instance
// with the same TTL: the array gives us the exact collision semantics the
// spec requires, the go-cache instance gives callers (debug/--stats) a way
// to count recently-seen addresses (Len) without walking 1024 slots.
type IcaoCache struct {
	slots [cacheSlots]icaoSlot
	seen  *gocache.Cache
	now   func() time.Time
}

// NewIcaoCache builds an empty recency cache.
func NewIcaoCache() *IcaoCache {
	return &IcaoCache{
		seen: gocache.New(icaoTTL, icaoTTL/6),
		now:  time.Now,
	}
}

// hash mixes a 32-bit address per spec §4.2.
func hash(a uint32) uint32 {
	a = ((a >> 16) ^ a) * 0x45d9f3b
	a = ((a >> 16) ^ a) * 0x45d9f3b
	a = (a >> 16) ^ a
	return a
}

func slotIndex(addr uint32) uint32 {
	return hash(addr) & cacheMask
}

// Insert records addr as seen at the current time, unconditionally
// overwriting whatever was in its slot.
func (c *IcaoCache) Insert(addr uint32) {
	now := c.now().Unix()
	c.slots[slotIndex(addr)] = icaoSlot{addr: addr, seenUnix: now, valid: true}
	c.seen.SetDefault(fmt.Sprintf("%06X", addr), now)
}

// ContainsRecent reports whether addr occupies its slot and was inserted
// no more than the TTL ago.
func (c *IcaoCache) ContainsRecent(addr uint32) bool {
	s := c.slots[slotIndex(addr)]
	if !s.valid || s.addr != addr {
		return false
	}
	return c.now().Unix()-s.seenUnix <= int64(icaoTTL/time.Second)
}

// Len reports the number of addresses currently tracked by the
// introspection side-cache (bounded by its own TTL, not the 1024 slots).
func (c *IcaoCache) Len() int {
	return c.seen.ItemCount()
}
