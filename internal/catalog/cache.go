package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/gonzalo9292/myworkout/internal/telemetry/metrics"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	listCacheKey  = "exercises:list"
	listCacheSize = 32 * 1024 * 1024
	// freecache refuses entries larger than 1/1024 of its size
	listChunkMaxBytes = listCacheSize / 1024 / 2
)

// ListCache keeps the GET /exercises answer in process memory. The list is split in chunks
// that fit a freecache entry, and an index entry points at the chunks of the last Set.
type ListCache struct {
	cache          *freecache.Cache
	ttl            time.Duration
	metricsManager *metrics.Manager
	generation     atomic.Uint64
}

type listIndex struct {
	Generation uint64 `json:"generation"`
	Chunks     int    `json:"chunks"`
}

func NewListCache(ttl time.Duration, metricsManager *metrics.Manager) *ListCache {
	return &ListCache{
		cache:          freecache.NewCache(listCacheSize),
		ttl:            ttl,
		metricsManager: metricsManager,
	}
}

func (c *ListCache) Get() ([]ExerciseListItem, bool) {
	index, err := c.index()
	if err != nil {
		if !errors.Is(err, freecache.ErrNotFound) {
			log.Errorf("catalog cache get index: %s", err)
		}
		c.count("miss")
		return nil, false
	}

	items := []ExerciseListItem{}
	for i := 0; i < index.Chunks; i++ {
		chunk, err := c.cache.Get(chunkKey(index.Generation, i))
		if err != nil {
			// evicted or replaced by a newer Set
			c.count("miss")
			return nil, false
		}
		var chunkItems []ExerciseListItem
		if err := json.Unmarshal(chunk, &chunkItems); err != nil {
			log.Errorf("catalog cache unmarshal chunk %d: %s", i, err)
			c.count("miss")
			return nil, false
		}
		items = append(items, chunkItems...)
	}

	c.count("hit")
	return items, true
}

func (c *ListCache) Set(items []ExerciseListItem) {
	if c.ttl <= 0 {
		return
	}

	chunks, err := splitInChunks(items, listChunkMaxBytes)
	if err != nil {
		log.Errorf("catalog cache marshal: %s", err)
		return
	}

	expireSeconds := ttlSeconds(c.ttl)
	generation := c.generation.Add(1)
	for i, chunk := range chunks {
		if err := c.cache.Set(chunkKey(generation, i), chunk, expireSeconds); err != nil {
			log.Errorf("catalog cache set chunk %d (%d bytes): %s", i, len(chunk), err)
			return
		}
	}

	indexBytes, err := json.Marshal(listIndex{Generation: generation, Chunks: len(chunks)})
	if err != nil {
		log.Errorf("catalog cache marshal index: %s", err)
		return
	}
	if err := c.cache.Set([]byte(listCacheKey), indexBytes, expireSeconds); err != nil {
		log.Errorf("catalog cache set index: %s", err)
	}
}

func (c *ListCache) Invalidate() {
	c.cache.Del([]byte(listCacheKey))
}

func (c *ListCache) index() (*listIndex, error) {
	indexBytes, err := c.cache.Get([]byte(listCacheKey))
	if err != nil {
		return nil, err
	}
	var index listIndex
	if err := json.Unmarshal(indexBytes, &index); err != nil {
		return nil, fmt.Errorf("unmarshal index: %w", err)
	}
	return &index, nil
}

func (c *ListCache) count(result string) {
	if c.metricsManager != nil {
		c.metricsManager.CounterCatalogCache.WithLabelValues(result).Inc()
	}
}

func chunkKey(generation uint64, i int) []byte {
	return []byte(fmt.Sprintf("%s:%d:%d", listCacheKey, generation, i))
}

// ttlSeconds rounds up, freecache reads 0 as no expiry.
func ttlSeconds(ttl time.Duration) int {
	return int(math.Ceil(ttl.Seconds()))
}

// splitInChunks encodes items as JSON arrays of at most maxBytes each. A single item above
// maxBytes gets a chunk of its own.
func splitInChunks(items []ExerciseListItem, maxBytes int) ([][]byte, error) {
	var chunks [][]byte
	var current bytes.Buffer
	flush := func() {
		if current.Len() == 0 {
			return
		}
		current.WriteByte(']')
		chunks = append(chunks, bytes.Clone(current.Bytes()))
		current.Reset()
	}

	for _, item := range items {
		itemBytes, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		if current.Len() > 0 && current.Len()+len(itemBytes)+2 > maxBytes {
			flush()
		}
		if current.Len() == 0 {
			current.WriteByte('[')
		} else {
			current.WriteByte(',')
		}
		current.Write(itemBytes)
	}
	flush()

	return chunks, nil
}
