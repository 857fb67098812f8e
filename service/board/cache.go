package board

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/coocood/freecache"
	"github.com/twmb/murmur3"
)

// viewCache holds marshaled board views. Keys hash the campaign, the seller
// and the caller's token so two sellers never share an entry.
type viewCache struct {
	cache *freecache.Cache
	ttl   time.Duration
}

func newViewCache(sizeMB int, ttl time.Duration) *viewCache {
	if sizeMB <= 0 {
		sizeMB = 32
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &viewCache{
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:   ttl,
	}
}

func cacheKey(campaignID int64, sellerID string, token string) []byte {
	sum := murmur3.StringSum64(fmt.Sprintf("board:%d:%s:%s", campaignID, sellerID, token))

	var key [8]byte
	binary.LittleEndian.PutUint64(key[:], sum)
	return key[:]
}

func (c *viewCache) Get(campaignID int64, sellerID string, token string) (BoardView, bool) {
	data, err := c.cache.Get(cacheKey(campaignID, sellerID, token))
	if err != nil {
		return BoardView{}, false
	}

	var view BoardView
	if json.Unmarshal(data, &view) != nil {
		return BoardView{}, false
	}
	return view, true
}

func (c *viewCache) Set(campaignID int64, sellerID string, token string, view BoardView) {
	data, err := json.Marshal(view)
	if err != nil {
		return
	}
	_ = c.cache.Set(cacheKey(campaignID, sellerID, token), data, int(c.ttl.Seconds()))
}

func (c *viewCache) Del(campaignID int64, sellerID string, token string) {
	_ = c.cache.Del(cacheKey(campaignID, sellerID, token))
}

// Clear drops every cached view. Used after an admin decision changes
// submission state, since the affected boards cannot be enumerated from a
// submission id alone.
func (c *viewCache) Clear() {
	c.cache.Clear()
}

func rawKey(key string) []byte {
	sum := murmur3.StringSum64(key)

	var out [8]byte
	binary.LittleEndian.PutUint64(out[:], sum)
	return out[:]
}

// GetJSON and SetJSON cache passthrough read models under a caller-built key
func (c *viewCache) GetJSON(key string, out interface{}) bool {
	data, err := c.cache.Get(rawKey(key))
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

// SetJSON ...
func (c *viewCache) SetJSON(key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.cache.Set(rawKey(key), data, int(c.ttl.Seconds()))
}
