package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// BalanceCache is a read-through cache for account balances. Write paths
// call Invalidate after commit; only reads populate entries via Set, so a
// racing writer can never pin an older balance over a newer commit.
type BalanceCache struct {
	cache *cache.Cache
}

func NewBalanceCache() *BalanceCache {
	// Short default expiration keeps a missed invalidation from lingering.
	c := cache.New(30*time.Second, 5*time.Minute)
	return &BalanceCache{
		cache: c,
	}
}

func (r *BalanceCache) Set(accountId uuid.UUID, balance int) {
	r.cache.Set(accountId.String(), balance, cache.DefaultExpiration)
}

func (r *BalanceCache) Get(accountId uuid.UUID) (int, bool) {
	if x, found := r.cache.Get(accountId.String()); found {
		return x.(int), true
	}
	return 0, false
}

func (r *BalanceCache) Invalidate(accountId uuid.UUID) {
	r.cache.Delete(accountId.String())
}
