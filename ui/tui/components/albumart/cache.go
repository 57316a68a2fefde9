package albumart

import (
	"fmt"
	"image"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache keeps decoded cover images by song URI so revisiting a track does
// not refetch its art. A nil image records that the song has no art.
// It is safe for concurrent use.
type Cache struct {
	images *lru.Cache[string, image.Image]
}

// NewCache returns a cache holding up to size images.
func NewCache(size int) (*Cache, error) {
	images, err := lru.New[string, image.Image](size)
	if err != nil {
		return nil, fmt.Errorf("album art cache: %w", err)
	}
	return &Cache{images: images}, nil
}

// Get returns the cached image for uri. ok is false on a miss.
func (c *Cache) Get(uri string) (img image.Image, ok bool) {
	return c.images.Get(uri)
}

// Add stores img for uri, evicting the least recently used entry when full.
func (c *Cache) Add(uri string, img image.Image) {
	c.images.Add(uri, img)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int { return c.images.Len() }
