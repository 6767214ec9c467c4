package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type CacheObserver interface {
	TrackCacheHit(cache string)
	TrackCacheMiss(cache string)
}

// ResponseCache stores successful GET responses in redis under one key prefix.
// A nil client turns it into a passthrough.
type ResponseCache struct {
	rdb      *redis.Client
	name     string
	ttl      time.Duration
	observer CacheObserver
	log      *zap.Logger
}

func NewResponseCache(rdb *redis.Client, name string, ttl time.Duration, observer CacheObserver, log *zap.Logger) *ResponseCache {
	return &ResponseCache{rdb: rdb, name: name, ttl: ttl, observer: observer, log: log}
}

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// captureWriter keeps a copy of the body while forwarding it to the client.
type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// key hashes the concrete request path so /catalogo/1 and /catalogo/2 never share an entry.
func (rc *ResponseCache) key(c *gin.Context) string {
	sum := sha1.Sum([]byte(c.Request.URL.Path + "?" + c.Request.URL.RawQuery))
	return fmt.Sprintf("%s:%x", rc.prefix(), sum[:])
}

func (rc *ResponseCache) prefix() string {
	return "oficina:cache:" + rc.name
}

// Middleware serves cached GET responses to anonymous callers. Authenticated
// responses carry per-caller fields and are never cached.
func (rc *ResponseCache) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rc.rdb == nil || c.Request.Method != http.MethodGet || c.GetInt64(ctxUserID) != 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := rc.key(c)

		if raw, err := rc.rdb.Get(ctx, key).Bytes(); err == nil {
			var cached cachedResponse
			if json.Unmarshal(raw, &cached) == nil {
				rc.track(true)
				c.Header("X-Cache", "HIT")
				c.Data(cached.Status, cached.ContentType, cached.Body)
				c.Abort()
				return
			}
		}

		rc.track(false)
		cw := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = cw
		c.Header("X-Cache", "MISS")

		c.Next()

		if cw.Status() != http.StatusOK {
			return
		}
		payload, err := json.Marshal(cachedResponse{
			Status:      cw.Status(),
			ContentType: cw.Header().Get("Content-Type"),
			Body:        cw.buf.Bytes(),
		})
		if err != nil {
			return
		}
		if err := rc.rdb.Set(context.WithoutCancel(ctx), key, payload, rc.ttl).Err(); err != nil {
			rc.log.Warn("cache store failed", zap.String("cache", rc.name), zap.Error(err))
		}
	}
}

// Invalidate drops every entry of this cache.
func (rc *ResponseCache) Invalidate(ctx context.Context) error {
	if rc.rdb == nil {
		return nil
	}

	iter := rc.rdb.Scan(ctx, 0, rc.prefix()+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return rc.rdb.Del(ctx, keys...).Err()
}

func (rc *ResponseCache) track(hit bool) {
	if rc.observer == nil {
		return
	}
	if hit {
		rc.observer.TrackCacheHit(rc.name)
	} else {
		rc.observer.TrackCacheMiss(rc.name)
	}
}
