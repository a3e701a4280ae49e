package garmin

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/2beens/fitassist/internal/ingest"
	"github.com/2beens/fitassist/internal/jsonvalue"
	"github.com/2beens/fitassist/internal/telemetry/metrics"
	"github.com/2beens/fitassist/pkg"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	megabyte          = 1024 * 1024
	DefaultMemorySize = 16 * megabyte
	// seconds
	memoryCacheExpire = 60 * 60
)

// CacheKey identifies one remote query.
type CacheKey struct {
	Metric string
	Start  time.Time
	End    time.Time
	Limit  int
}

func (k CacheKey) canonical() string {
	return k.Metric + "|" + k.Start.Format(dateLayout) + "|" + k.End.Format(dateLayout) + "|" + strconv.Itoa(k.Limit)
}

// Hash is the hex sha256 of the key's canonical form.
func (k CacheKey) Hash() string {
	sum := sha256.Sum256([]byte(k.canonical()))
	return hex.EncodeToString(sum[:])
}

// FileName is the name of the key's cache file.
func (k CacheKey) FileName() string {
	return fmt.Sprintf("%s_%s.json", k.Metric, k.Hash()[:16])
}

// Cache keeps normalized remote results: an in-memory layer in front of a
// directory of JSON files. Files never expire; delete them to refetch.
type Cache struct {
	dir     string
	memory  *freecache.Cache
	metrics *metrics.Manager
}

func NewCache(dir string, memorySize int, metricsManager *metrics.Manager) (*Cache, error) {
	if err := pkg.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("ensure cache dir: %w", err)
	}
	return &Cache{
		dir:     dir,
		memory:  freecache.NewCache(memorySize),
		metrics: metricsManager,
	}, nil
}

// Get returns the cached rows for key, if any.
func (c *Cache) Get(key CacheKey) ([]*jsonvalue.Map, bool) {
	hash := []byte(key.Hash())
	if data, err := c.memory.Get(hash); err == nil {
		if rows, err := ingest.DecodeRows(data); err == nil {
			c.metrics.CounterFetchCache.WithLabelValues("memory", "hit").Inc()
			return rows, true
		} else {
			log.Errorf("decode memory cached %s: %s", key.Metric, err)
		}
	}
	c.metrics.CounterFetchCache.WithLabelValues("memory", "miss").Inc()

	path := filepath.Join(c.dir, key.FileName())
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Errorf("read cache file %s: %s", path, err)
		}
		c.metrics.CounterFetchCache.WithLabelValues("file", "miss").Inc()
		return nil, false
	}

	rows, err := ingest.DecodeRows(data)
	if err != nil {
		log.Errorf("decode cache file %s: %s", path, err)
		c.metrics.CounterFetchCache.WithLabelValues("file", "miss").Inc()
		return nil, false
	}

	c.metrics.CounterFetchCache.WithLabelValues("file", "hit").Inc()
	c.setMemory(hash, data)
	log.Debugf("%s loaded from cache file %s", key.Metric, path)
	return rows, true
}

// Set stores the table rows under key. Time values are written as RFC 3339 text.
func (c *Cache) Set(key CacheKey, t *ingest.Table) error {
	data, err := t.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal %s rows: %w", key.Metric, err)
	}

	path := filepath.Join(c.dir, key.FileName())
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename cache file: %w", err)
	}

	c.setMemory([]byte(key.Hash()), data)
	log.Debugf("%s cached in %s", key.Metric, path)
	return nil
}

func (c *Cache) setMemory(hash, data []byte) {
	if err := c.memory.Set(hash, data, memoryCacheExpire); err != nil {
		// larger than a freecache entry allows, the file layer still has it
		log.Debugf("memory cache set: %s", err)
	}
}
