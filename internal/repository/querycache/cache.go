// Package querycache caches assembled search responses in the key-value
// store so repeated identical queries skip ranking entirely. Entries carry
// a short TTL because catalog snapshots refresh on a timer.
package querycache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/localmart/khoj/internal/db"
	"github.com/localmart/khoj/internal/domain"
	"github.com/localmart/khoj/internal/domain/search/query"
	"github.com/localmart/khoj/internal/logger"
	"github.com/localmart/khoj/internal/usecase/search"
)

const defaultTTL = 60 * time.Second

type Cache struct {
	store     db.KVStore
	keyPrefix string
	ttl       time.Duration
}

func New(store db.KVStore, keyPrefix string, ttl time.Duration) *Cache {
	if keyPrefix == "" {
		keyPrefix = domain.KeyPrefix
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{store: store, keyPrefix: keyPrefix, ttl: ttl}
}

// Get returns a cached response for the query, or (nil, false) on a miss.
// Store errors are logged and reported as a miss.
func (c *Cache) Get(ctx context.Context, q *query.Query) (*search.Response, bool) {
	data, err := c.store.Get(ctx, c.key(q))
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			logger.FromContext(ctx).Warn("query cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var resp search.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		logger.FromContext(ctx).Warn("query cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return &resp, true
}

// Put stores the response. Failures are logged, never surfaced.
func (c *Cache) Put(ctx context.Context, q *query.Query, resp *search.Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		logger.FromContext(ctx).Warn("query cache encode failed", zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, c.key(q), data, c.ttl); err != nil {
		logger.FromContext(ctx).Warn("query cache write failed", zap.Error(err))
	}
}

// key derives a stable cache key from every parameter that affects the
// response. Text is lowercased so case variants share an entry.
func (c *Cache) key(q *query.Query) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(q.Text()))
	b.WriteByte('|')
	for _, k := range q.Kinds() {
		b.WriteString(string(k))
		b.WriteByte(',')
	}
	b.WriteByte('|')
	b.WriteString(strings.ToLower(q.Category()))
	b.WriteByte('|')
	if pr := q.PriceRange(); pr != nil {
		fmt.Fprintf(&b, "%.2f-%.2f", pr.Min, pr.Max)
	}
	b.WriteByte('|')
	if loc := q.Location(); loc != nil {
		fmt.Fprintf(&b, "%.4f,%.4f,%.1f", loc.Point.Lat, loc.Point.Lng, loc.RadiusKm)
	}
	b.WriteByte('|')
	b.WriteString(string(q.Sort()))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(q.Limit()))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(q.Offset()))
	b.WriteByte('|')
	b.WriteString(strconv.FormatBool(q.IncludeOutOfStock()))

	sum := sha256.Sum256([]byte(b.String()))
	return c.keyPrefix + "qcache:" + hex.EncodeToString(sum[:])
}
