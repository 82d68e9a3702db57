package frame

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/docker/docker/pkg/locker"
	lru "github.com/hashicorp/golang-lru"
	"github.com/imera88/datatable"
	"github.com/klauspost/compress/zstd"
)

// GroupCache memoizes Frame.Group results keyed by caller-supplied
// cache keys (typically a hash of the sorted columns' actual content
// plus the SortSpec list -- never a pointer or other object identity,
// since a key must stay valid for the life of a fresh, single-use
// column too). It mirrors the two-tier hot/cold shape of a
// Partition cache: a bounded in-memory LRU of raw results, backed by a
// second, larger zstd-compressed tier for entries the hot tier evicts.
// There is no disk tier -- a groupby result is orders of magnitude
// smaller than a Partition, so spilling to disk never pays for itself
// here.
type GroupCache struct {
	locks        *locker.Locker
	hot          *lru.Cache
	coldMu       sync.Mutex
	cold         map[string][]byte
	coldCap      int
	compressor   *zstd.Encoder
	decompressor *zstd.Decoder
}

type groupResult struct {
	RowIndex datatable.RowIndex
	Offsets  []int32
}

// NewGroupCache builds a GroupCache with hotSize entries held
// uncompressed and up to coldSize additional entries held
// zstd-compressed.
func NewGroupCache(hotSize, coldSize int) (*GroupCache, error) {
	hot, err := lru.New(hotSize)
	if err != nil {
		return nil, fmt.Errorf("groupcache: %w", err)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("groupcache: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("groupcache: %w", err)
	}
	return &GroupCache{
		locks:        locker.New(),
		hot:          hot,
		cold:         make(map[string][]byte, coldSize),
		coldCap:      coldSize,
		compressor:   enc,
		decompressor: dec,
	}, nil
}

// GetOrCompute returns the cached (RowIndex, Groupby) for key, computing
// it via compute and populating the cache on a miss. Concurrent callers
// racing on the same key block on a per-key lock rather than duplicating
// the (potentially O(n log n)) computation.
func (c *GroupCache) GetOrCompute(key string, compute func() (datatable.RowIndex, datatable.Groupby, error)) (datatable.RowIndex, datatable.Groupby, error) {
	c.locks.Lock(key)
	defer c.locks.Unlock(key)

	if v, ok := c.hot.Get(key); ok {
		r := v.(groupResult)
		return r.RowIndex, datatable.Groupby{Offsets: r.Offsets}, nil
	}
	if buf, ok := c.getCold(key); ok {
		r, err := c.decode(buf)
		if err == nil {
			c.hot.Add(key, r)
			return r.RowIndex, datatable.Groupby{Offsets: r.Offsets}, nil
		}
	}

	ri, gb, err := compute()
	if err != nil {
		return nil, datatable.Groupby{}, err
	}
	r := groupResult{RowIndex: ri, Offsets: gb.Offsets}
	evicted := c.hot.Add(key, r)
	if evicted {
		c.demote()
	}
	return ri, gb, nil
}

func (c *GroupCache) getCold(key string) ([]byte, bool) {
	c.coldMu.Lock()
	defer c.coldMu.Unlock()
	buf, ok := c.cold[key]
	if ok {
		delete(c.cold, key)
	}
	return buf, ok
}

// demote writes a compressed copy of the hot tier's current oldest
// entry into the cold tier; the entry also stays in the hot tier.
// golang-lru does not expose the evicted value directly, so the hot
// tier's own Add return (a bool) only tells us an eviction happened;
// the entry that was actually evicted is not the one copied, so the
// cold tier is a best-effort second tier.
func (c *GroupCache) demote() {
	keys := c.hot.Keys()
	if len(keys) == 0 {
		return
	}
	oldest := keys[0]
	v, ok := c.hot.Peek(oldest)
	if !ok {
		return
	}
	r := v.(groupResult)
	buf, err := c.encode(r)
	if err != nil {
		return
	}
	c.coldMu.Lock()
	defer c.coldMu.Unlock()
	if len(c.cold) >= c.coldCap {
		for k := range c.cold {
			delete(c.cold, k)
			break
		}
	}
	c.cold[oldest.(string)] = buf
}

func (c *GroupCache) encode(r groupResult) ([]byte, error) {
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(r); err != nil {
		return nil, err
	}
	return c.compressor.EncodeAll(raw.Bytes(), nil), nil
}

func (c *GroupCache) decode(compressed []byte) (groupResult, error) {
	raw, err := c.decompressor.DecodeAll(compressed, nil)
	if err != nil {
		return groupResult{}, err
	}
	var r groupResult
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&r); err != nil {
		return groupResult{}, err
	}
	return r, nil
}
