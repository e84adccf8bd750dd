package store

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	lru "github.com/hashicorp/golang-lru/v2"
)

// SentSet is the in-memory accelerator over the persisted sent track keys.
// The bloom filter answers definite misses without touching the map; a hit
// is confirmed against the exact set, and callers re-verify against the
// track store before skipping a delivery.
type SentSet struct {
	keys                   map[string]struct{}
	bloom                  *bloom.BloomFilter
	lru                    *lru.Cache[string, struct{}]
	mutex                  sync.RWMutex
	maxKeys                int
	bloomFalsePositiveRate float64
}

func NewSentSet(maxKeys int, bloomFalsePositiveRate float64) *SentSet {
	lruCache, _ := lru.New[string, struct{}](maxKeys)

	if maxKeys < 0 || maxKeys > int(^uint(0)>>1) {
		panic("maxKeys value out of range for uint conversion")
	}
	bloomFilter := bloom.NewWithEstimates(uint(maxKeys), bloomFalsePositiveRate)

	return &SentSet{
		keys:                   make(map[string]struct{}),
		bloom:                  bloomFilter,
		lru:                    lruCache,
		maxKeys:                maxKeys,
		bloomFalsePositiveRate: bloomFalsePositiveRate,
	}
}

func (s *SentSet) Has(key string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.bloom.TestString(key) {
		return false
	}

	_, exists := s.keys[key]
	return exists
}

// MayContain probes the bloom filter only. A false result is definitive.
// A true result may be a false positive or a key evicted from the exact
// set; the bloom filter never evicts, so evicted keys still answer true.
func (s *SentSet) MayContain(key string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.bloom.TestString(key)
}

func (s *SentSet) Add(key string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.keys[key]; exists {
		return
	}

	s.keys[key] = struct{}{}
	s.bloom.AddString(key)
	s.lru.Add(key, struct{}{})

	if len(s.keys) > s.maxKeys {
		s.evictOldest()
	}
}

func (s *SentSet) Remove(key string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.keys[key]; !exists {
		return
	}

	delete(s.keys, key)
	s.lru.Remove(key)
	// The bloom filter does not support removal; a stale positive is
	// acceptable because hits are confirmed against the exact set.
}

// Load clears the set and loads the provided keys, typically the persisted
// sent ids at startup.
func (s *SentSet) Load(keys []string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.clear()

	for _, key := range keys {
		if key != "" {
			s.keys[key] = struct{}{}
			s.bloom.AddString(key)
			s.lru.Add(key, struct{}{})
		}
	}

	for len(s.keys) > s.maxKeys {
		s.evictOldest()
	}
}

func (s *SentSet) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.keys)
}

func (s *SentSet) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.clear()
}

func (s *SentSet) clear() {
	s.keys = make(map[string]struct{})
	if s.maxKeys < 0 || s.maxKeys > int(^uint(0)>>1) {
		panic("maxKeys value out of range for uint conversion")
	}
	s.bloom = bloom.NewWithEstimates(uint(s.maxKeys), s.bloomFalsePositiveRate)
	s.lru.Purge()
}

// evictOldest drops the least recently inserted key so the exact set stays
// bounded. The persisted store remains authoritative for evicted keys.
func (s *SentSet) evictOldest() {
	if s.lru.Len() == 0 {
		return
	}

	oldestKey, _, ok := s.lru.GetOldest()
	if !ok {
		return
	}

	delete(s.keys, oldestKey)
	s.lru.Remove(oldestKey)
}
