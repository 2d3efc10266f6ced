package macrocell

import lru "github.com/hashicorp/golang-lru"

// NodeCache holds immutable values that are expensive to rebuild: decoded
// macrocells keyed by structural hash, and loaded boards keyed by content
// name. One cache can be shared by any number of decoders and stores.
type NodeCache interface {
	// Add adds a value to the cache.
	Add(key, value interface{})
	// Contains indicates the key is present.
	Contains(key interface{}) bool
	// Get retrieves the value with the given key, if cached.
	Get(key interface{}) (value interface{}, ok bool)
}

// NewNodeCache creates a new ARC-based node cache of the given size.
func NewNodeCache(size int) NodeCache {
	cache, err := lru.NewARC(size)
	if err != nil {
		panic(err)
	}
	return cache
}
