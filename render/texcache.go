package render

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DefaultRetentionFrames is how many frames an unused cache entry
// survives before it is destroyed.
const DefaultRetentionFrames = 1

// TextureDescriptor is the cache key. Two requests share a texture only
// when every field matches.
type TextureDescriptor struct {
	Label         string
	Width         uint32
	Height        uint32
	Format        gputypes.TextureFormat
	Usage         gputypes.TextureUsage
	SampleCount   uint32
	MipLevelCount uint32
}

// CachedTexture is a pooled texture together with its default view.
// Both are owned by the cache; consumers must not destroy them.
type CachedTexture struct {
	Texture hal.Texture
	View    hal.TextureView
	desc    TextureDescriptor
}

// Descriptor returns the descriptor the texture was created with.
func (t *CachedTexture) Descriptor() TextureDescriptor { return t.desc }

type cacheEntry struct {
	tex      *CachedTexture
	lastUsed uint64
}

// TextureCache pools render targets across frames, keyed by their full
// descriptor. Lifetime policy lives entirely here: a texture requested
// this frame is guaranteed to survive the frame, and an entry that goes
// unrequested for longer than the retention window is destroyed at
// EndFrame.
//
// Safe for concurrent use, so per-view preparation may run in parallel.
type TextureCache struct {
	mu        sync.Mutex
	device    hal.Device
	retention uint64
	frame     uint64
	entries   map[TextureDescriptor]*cacheEntry
	destroyed bool

	allocs uint64
	hits   uint64
}

// NewTextureCache creates a cache on device. A retention of 0 or less
// selects DefaultRetentionFrames.
func NewTextureCache(device hal.Device, retention int) *TextureCache {
	if retention <= 0 {
		retention = DefaultRetentionFrames
	}
	return &TextureCache{
		device:    device,
		retention: uint64(retention),
		entries:   make(map[TextureDescriptor]*cacheEntry),
	}
}

// Get returns the texture for desc, creating it on first use. Repeated
// calls with the same descriptor in the same frame return the same
// texture without touching the device.
func (c *TextureCache) Get(desc TextureDescriptor) (*CachedTexture, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return nil, ErrCacheDestroyed
	}

	if e, ok := c.entries[desc]; ok {
		e.lastUsed = c.frame
		c.hits++
		return e.tex, nil
	}

	tex, err := c.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: desc.MipLevelCount,
		SampleCount:   desc.SampleCount,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         desc.Usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create cached texture %q: %w", desc.Label, err)
	}
	view, err := c.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: desc.Label + "_view",
	})
	if err != nil {
		c.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create cached texture view %q: %w", desc.Label, err)
	}

	entry := &cacheEntry{
		tex:      &CachedTexture{Texture: tex, View: view, desc: desc},
		lastUsed: c.frame,
	}
	c.entries[desc] = entry
	c.allocs++
	slogger().Debug("texture allocated",
		"label", desc.Label, "width", desc.Width, "height", desc.Height,
		"format", desc.Format)
	return entry.tex, nil
}

// EndFrame advances the frame counter and destroys entries that have
// gone unused past the retention window.
func (c *TextureCache) EndFrame() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return
	}
	c.frame++
	for desc, e := range c.entries {
		if c.frame-e.lastUsed > c.retention {
			c.destroyEntry(e)
			delete(c.entries, desc)
			slogger().Debug("texture evicted", "label", desc.Label)
		}
	}
}

// Len returns the number of live entries.
func (c *TextureCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Allocations returns how many textures the cache has created.
func (c *TextureCache) Allocations() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.allocs
}

// Hits returns how many requests were served from the cache.
func (c *TextureCache) Hits() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}

// Destroy releases every entry. The cache rejects further Get calls.
func (c *TextureCache) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return
	}
	for _, e := range c.entries {
		c.destroyEntry(e)
	}
	clear(c.entries)
	c.destroyed = true
}

func (c *TextureCache) destroyEntry(e *cacheEntry) {
	if e.tex.View != nil {
		c.device.DestroyTextureView(e.tex.View)
	}
	if e.tex.Texture != nil {
		c.device.DestroyTexture(e.tex.Texture)
	}
}
