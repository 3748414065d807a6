package cache

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const feedPrefix = "listings:feed"

// ListingCache guarda el feed público ya serializado por unos segundos.
// Es completamente opcional: sin Redis todo sigue funcionando contra la
// base, solo más caro.
type ListingCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewListingCache(addr string) *ListingCache {
	if addr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ [cache] Redis no disponible (%v), feed sin caché", err)
		return nil
	}

	return &ListingCache{rdb: rdb, ttl: 30 * time.Second}
}

func FeedKey(city string) string {
	if city == "" {
		return feedPrefix
	}
	return feedPrefix + ":" + city
}

func (c *ListingCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	val, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Printf("⚠️ [cache] error en GET %s: %v", key, err)
		return nil, false
	}
	return val, true
}

func (c *ListingCache) Set(ctx context.Context, key string, val []byte) {
	if c == nil {
		return
	}

	if err := c.rdb.Set(ctx, key, val, c.ttl).Err(); err != nil {
		log.Printf("⚠️ [cache] error en SET %s: %v", key, err)
	}
}

// Invalidate borra todas las variantes del feed (por ciudad incluidas).
// Se llama al publicar o cambiar de estado un plato.
func (c *ListingCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}

	iter := c.rdb.Scan(ctx, 0, feedPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("⚠️ [cache] error al invalidar %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("⚠️ [cache] error al escanear claves: %v", err)
	}
}

// Ping para el health check.
func (c *ListingCache) Ping(ctx context.Context) error {
	if c == nil {
		return errors.New("no configurado")
	}
	return c.rdb.Ping(ctx).Err()
}
