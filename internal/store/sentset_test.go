package store

import (
	"fmt"
	"testing"
)

func TestSentSet_Basic(t *testing.T) {
	set := NewSentSet(100, 0.001)

	if set.Has("pl1:track1") {
		t.Error("Empty set should not have any keys")
	}

	if set.Size() != 0 {
		t.Errorf("Empty set size should be 0, got %d", set.Size())
	}

	set.Add("pl1:track1")
	if !set.Has("pl1:track1") {
		t.Error("Set should have key after adding")
	}

	if set.Size() != 1 {
		t.Errorf("Set size should be 1 after adding one key, got %d", set.Size())
	}

	// duplicate add is a no-op
	set.Add("pl1:track1")
	if set.Size() != 1 {
		t.Errorf("Set size should still be 1 after adding duplicate, got %d", set.Size())
	}

	set.Add("pl1:track2")
	set.Add("pl2:track1")

	if set.Size() != 3 {
		t.Errorf("Set size should be 3 after adding three keys, got %d", set.Size())
	}

	if !set.Has("pl1:track2") || !set.Has("pl2:track1") {
		t.Error("Set should have all added keys")
	}
}

func TestSentSet_SameTrackDifferentPlaylists(t *testing.T) {
	set := NewSentSet(100, 0.001)

	set.Add("pl1:track1")

	if set.Has("pl2:track1") {
		t.Error("Sending a track for one playlist must not mark it sent for another")
	}
}

func TestSentSet_Load(t *testing.T) {
	set := NewSentSet(100, 0.001)

	keys := []string{"pl1:track1", "pl1:track2", "pl2:track3"}
	set.Load(keys)

	if set.Size() != 3 {
		t.Errorf("Set size should be 3 after loading, got %d", set.Size())
	}

	for _, key := range keys {
		if !set.Has(key) {
			t.Errorf("Set should have loaded key %s", key)
		}
	}

	// reload replaces the previous contents
	newKeys := []string{"pl3:track4", "pl3:track5"}
	set.Load(newKeys)

	if set.Size() != 2 {
		t.Errorf("Set size should be 2 after reloading, got %d", set.Size())
	}

	for _, key := range keys {
		if set.Has(key) {
			t.Errorf("Set should not have old key %s after reload", key)
		}
	}

	for _, key := range newKeys {
		if !set.Has(key) {
			t.Errorf("Set should have new key %s", key)
		}
	}
}

func TestSentSet_LoadWithEmptyStrings(t *testing.T) {
	set := NewSentSet(100, 0.001)

	keys := []string{"pl1:track1", "", "pl1:track2", "", "pl1:track3"}
	set.Load(keys)

	if set.Size() != 3 {
		t.Errorf("Set size should be 3 after loading (ignoring empty strings), got %d", set.Size())
	}

	expected := []string{"pl1:track1", "pl1:track2", "pl1:track3"}
	for _, key := range expected {
		if !set.Has(key) {
			t.Errorf("Set should have key %s", key)
		}
	}
}

func TestSentSet_Clear(t *testing.T) {
	set := NewSentSet(100, 0.001)

	keys := []string{"pl1:track1", "pl1:track2", "pl1:track3"}
	for _, key := range keys {
		set.Add(key)
	}

	if set.Size() != 3 {
		t.Errorf("Set size should be 3 before clear, got %d", set.Size())
	}

	set.Clear()

	if set.Size() != 0 {
		t.Errorf("Set size should be 0 after clear, got %d", set.Size())
	}

	for _, key := range keys {
		if set.Has(key) {
			t.Errorf("Set should not have key %s after clear", key)
		}
	}
}

func TestSentSet_MaxCapacity(t *testing.T) {
	maxKeys := 5
	set := NewSentSet(maxKeys, 0.001)

	for i := 0; i < maxKeys+3; i++ {
		set.Add(fmt.Sprintf("pl1:track%d", i))
	}

	if set.Size() > maxKeys {
		t.Errorf("Set size should not exceed %d, got %d", maxKeys, set.Size())
	}

	// the most recently added keys survive eviction
	recent := []string{"pl1:track5", "pl1:track6", "pl1:track7"}
	for _, key := range recent {
		if !set.Has(key) {
			t.Errorf("Set should have recent key %s", key)
		}
	}
}

func TestSentSet_MayContainSurvivesEviction(t *testing.T) {
	set := NewSentSet(1, 0.001)

	set.Add("pl1:track1")
	set.Add("pl1:track2") // evicts track1 from the exact set

	if set.Has("pl1:track1") {
		t.Error("Evicted key should not be an exact member")
	}
	if !set.MayContain("pl1:track1") {
		t.Error("Bloom filter should still answer true for an evicted key")
	}
	if !set.Has("pl1:track2") || !set.MayContain("pl1:track2") {
		t.Error("Surviving key should be both an exact and a bloom member")
	}

	// removal also leaves the bloom bit set
	set.Remove("pl1:track2")
	if set.Has("pl1:track2") {
		t.Error("Removed key should not be an exact member")
	}
	if !set.MayContain("pl1:track2") {
		t.Error("Bloom filter should still answer true for a removed key")
	}
}

func TestSentSet_MayContainMissIsDefinitive(t *testing.T) {
	set := NewSentSet(100, 0.001)
	set.Add("pl1:track1")

	if set.MayContain("pl1:never-added") {
		t.Error("Bloom filter should answer false for an unseen key")
	}
}

func TestSentSet_BloomFilterEffectiveness(t *testing.T) {
	set := NewSentSet(1000, 0.001)

	numKeys := 500
	for i := 0; i < numKeys; i++ {
		set.Add(fmt.Sprintf("pl1:track_%d", i))
	}

	for i := 0; i < numKeys; i++ {
		key := fmt.Sprintf("pl1:track_%d", i)
		if !set.Has(key) {
			t.Errorf("Set should have key %s", key)
		}
	}

	falsePositives := 0
	testCount := 1000

	for i := numKeys; i < numKeys+testCount; i++ {
		if set.Has(fmt.Sprintf("pl1:nonexistent_%d", i)) {
			falsePositives++
		}
	}

	falsePositiveRate := float64(falsePositives) / float64(testCount)
	if falsePositiveRate > 0.01 {
		t.Errorf("Bloom filter false positive rate too high: %f (expected < 0.01)", falsePositiveRate)
	}
}

func BenchmarkSentSet_Add(b *testing.B) {
	set := NewSentSet(10000, 0.001)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		set.Add(fmt.Sprintf("pl1:track_%d", i))
	}
}

func BenchmarkSentSet_Has(b *testing.B) {
	set := NewSentSet(10000, 0.001)

	for i := 0; i < 1000; i++ {
		set.Add(fmt.Sprintf("pl1:track_%d", i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		set.Has(fmt.Sprintf("pl1:track_%d", i%1000))
	}
}

func BenchmarkSentSet_Load(b *testing.B) {
	set := NewSentSet(10000, 0.001)

	keys := make([]string, 1000)
	for i := 0; i < 1000; i++ {
		keys[i] = fmt.Sprintf("pl1:track_%d", i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		set.Load(keys)
	}
}
