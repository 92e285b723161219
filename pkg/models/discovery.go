package models

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/RunanywhereAI/sdks-sub010/pkg/logging"
)

// RemoteProvider supplies descriptors that are not present on local disk,
// such as a catalog service listing models available for download (spec
// §4.2's "registered remote providers"). Grounded on the teacher's
// huggingface.Client as the shape a concrete implementation takes.
type RemoteProvider interface {
	Name() string
	ListModels(ctx context.Context) ([]Descriptor, error)
}

// Discovery scans local directories, bundled resources, and registered
// remote providers for model descriptors, deduplicating by id and caching
// the merged result for a configurable TTL. Concurrent callers that arrive
// while a scan is already running share its result via singleflight rather
// than each triggering a redundant filesystem walk or network round trip.
type Discovery struct {
	dirs      []string
	bundled   []Descriptor
	providers []RemoteProvider
	ttl       time.Duration
	log       logging.Logger

	group singleflight.Group

	mu        sync.Mutex
	cached    []Descriptor
	cachedAt  time.Time
}

// NewDiscovery constructs a Discovery over the given local directories and
// bundled descriptors. Remote providers are added with AddProvider.
func NewDiscovery(dirs []string, bundled []Descriptor, ttl time.Duration, log logging.Logger) *Discovery {
	if log == nil {
		log = logging.Discard()
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Discovery{
		dirs:    dirs,
		bundled: bundled,
		ttl:     ttl,
		log:     logging.WithComponent(log, "models.discovery"),
	}
}

// AddProvider registers a remote descriptor source.
func (d *Discovery) AddProvider(p RemoteProvider) {
	d.providers = append(d.providers, p)
}

// Discover returns the merged, deduplicated set of descriptors from every
// configured source. Results are served from cache within the TTL window;
// a forced refresh is available via Refresh.
func (d *Discovery) Discover(ctx context.Context) ([]Descriptor, error) {
	d.mu.Lock()
	if d.cached != nil && time.Since(d.cachedAt) < d.ttl {
		cached := d.cached
		d.mu.Unlock()
		return cached, nil
	}
	d.mu.Unlock()

	v, err, _ := d.group.Do("discover", func() (interface{}, error) {
		return d.scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Descriptor), nil
}

// Refresh forces a rescan regardless of TTL and replaces the cache.
func (d *Discovery) Refresh(ctx context.Context) ([]Descriptor, error) {
	v, err, _ := d.group.Do("discover", func() (interface{}, error) {
		return d.scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Descriptor), nil
}

func (d *Discovery) scan(ctx context.Context) ([]Descriptor, error) {
	seen := make(map[string]struct{})
	merged := make([]Descriptor, 0)

	add := func(list []Descriptor) {
		for _, desc := range list {
			if _, exists := seen[desc.ID]; exists {
				continue
			}
			seen[desc.ID] = struct{}{}
			merged = append(merged, desc)
		}
	}

	add(d.bundled)

	for _, dir := range d.dirs {
		found, err := d.scanDir(dir)
		if err != nil {
			d.log.WithField("dir", dir).WithError(err).Warn("skipping unreadable model directory")
			continue
		}
		add(found)
	}

	for _, p := range d.providers {
		found, err := p.ListModels(ctx)
		if err != nil {
			d.log.WithField("provider", p.Name()).WithError(err).Warn("remote provider listing failed")
			continue
		}
		add(found)
	}

	d.mu.Lock()
	d.cached = merged
	d.cachedAt = time.Now()
	d.mu.Unlock()

	return merged, nil
}

func (d *Discovery) scanDir(dir string) ([]Descriptor, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read model directory: %w", err)
	}

	var out []Descriptor
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		format, err := DetectFormat(path)
		if err != nil || format == FormatUnknown {
			continue
		}
		metadata, _ := ExtractMetadata(path, format)
		id := idFromPath(path)
		out = append(out, Descriptor{
			ID:          id,
			DisplayName: entry.Name(),
			Format:      format,
			LocalPath:   path,
			Metadata:    metadata,
			Source:      SourceLocal,
			UpdatedAt:   time.Now(),
		})
	}
	return out, nil
}

func idFromPath(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}
