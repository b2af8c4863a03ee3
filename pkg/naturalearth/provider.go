package naturalearth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/beetlebugorg/cartomap/internal/metrics"
)

// Provider resolves Natural Earth resources to indexed layers.
//
// Lookups go through three tiers: the in-memory LRU cache, the disk cache
// and finally an HTTP download. Concurrent requests for the same resource
// share a single load. A Provider is safe for concurrent use.
type Provider struct {
	cacheDir      string
	baseURL       string
	client        *http.Client
	keepExtracted bool
	log           *zap.Logger

	cache *LayerCache
	group singleflight.Group

	manifestMu sync.Mutex

	downloads     atomic.Int64
	downloadBytes atomic.Int64
}

// ProviderOptions configures a Provider.
type ProviderOptions struct {
	// CacheDir holds downloaded datasets and the manifest.
	// If empty, uses DefaultCacheDir().
	CacheDir string

	// BaseURL overrides the download mirror.
	// Default: DefaultBaseURL
	BaseURL string

	// HTTPClient is used for downloads.
	// Default: a client with a 5 minute timeout.
	HTTPClient *http.Client

	// CacheSize sets the in-memory layer cache limit in bytes; 0 is unlimited.
	// Default: 256MB
	CacheSize int64

	// KeepExtracted extracts downloaded archives to disk and removes the zip.
	// If false, layers are decoded straight from the zip archive.
	// Default: true
	KeepExtracted bool

	// Logger receives download and cache events.
	// Default: zap.NewNop()
	Logger *zap.Logger
}

// DefaultProviderOptions returns provider options with defaults.
func DefaultProviderOptions() ProviderOptions {
	return ProviderOptions{
		BaseURL:       DefaultBaseURL,
		CacheSize:     256 * 1024 * 1024,
		KeepExtracted: true,
	}
}

// DefaultCacheDir returns the XDG-compliant cache directory,
// e.g. ~/.cache/cartomap.
func DefaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return filepath.Join(base, "cartomap"), nil
}

// NewProvider creates a provider. The cache directory is created if needed.
func NewProvider(opts ProviderOptions) (*Provider, error) {
	cacheDir := opts.CacheDir
	if cacheDir == "" {
		var err error
		cacheDir, err = DefaultCacheDir()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Provider{
		cacheDir:      cacheDir,
		baseURL:       baseURL,
		client:        client,
		keepExtracted: opts.KeepExtracted,
		log:           log.Named("naturalearth"),
		cache:         NewLayerCache(opts.CacheSize),
	}, nil
}

// CacheDir returns the disk cache location.
func (p *Provider) CacheDir() string {
	return p.cacheDir
}

// Layer returns the decoded layer for a resource, loading it on first use.
func (p *Provider) Layer(ctx context.Context, r Resource) (*Layer, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	key := r.Key()

	if layer, ok := p.cache.Get(key); ok {
		metrics.LayerLoads.WithLabelValues(metrics.SourceMemory).Inc()
		return layer, nil
	}

	v, err, shared := p.group.Do(key, func() (any, error) {
		if layer, ok := p.cache.Get(key); ok {
			return layer, nil
		}

		path, source, err := p.ensureLocal(ctx, r)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		layer, err := OpenLayer(r, path)
		if err != nil {
			return nil, err
		}
		metrics.LayerLoads.WithLabelValues(source).Inc()
		p.log.Debug("decoded layer",
			zap.String("resource", r.String()),
			zap.String("source", source),
			zap.Int("features", layer.Len()),
			zap.Int("vertices", layer.Vertices()),
			zap.Duration("elapsed", time.Since(start)))

		if err := p.cache.Add(key, layer); err != nil {
			p.log.Warn("layer not cached", zap.Error(err))
		}
		return layer, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", r, err)
	}
	if shared {
		p.log.Debug("shared layer load", zap.String("resource", r.String()))
	}
	return v.(*Layer), nil
}

// Prefetch downloads resources into the disk cache without decoding them.
// Up to four downloads run at once.
func (p *Provider) Prefetch(ctx context.Context, resources ...Resource) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, r := range resources {
		g.Go(func() error {
			if err := r.Validate(); err != nil {
				return err
			}
			_, err, _ := p.group.Do("fetch:"+r.Key(), func() (any, error) {
				_, _, err := p.ensureLocal(ctx, r)
				return nil, err
			})
			if err != nil {
				return fmt.Errorf("prefetch %s: %w", r, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// ensureLocal returns the path of a decodable copy of r on disk, downloading
// it if necessary, and the tier that served it.
func (p *Provider) ensureLocal(ctx context.Context, r Resource) (string, string, error) {
	extractDir := filepath.Join(p.cacheDir, string(r.Scale), r.Key())
	zipPath := filepath.Join(p.cacheDir, string(r.Scale), r.Key()+".zip")

	if shpPath, err := findShapefile(extractDir); err == nil {
		return shpPath, metrics.SourceDisk, nil
	}
	if _, err := os.Stat(zipPath); err == nil {
		if !p.keepExtracted {
			return zipPath, metrics.SourceDisk, nil
		}
		shpPath, err := p.extract(r, zipPath, extractDir)
		return shpPath, metrics.SourceDisk, err
	}

	url := r.URL(p.baseURL)
	p.log.Info("downloading dataset", zap.String("resource", r.String()), zap.String("url", url))
	start := time.Now()
	n, err := download(ctx, p.client, url, zipPath)
	if err != nil {
		metrics.DownloadErrors.Inc()
		return "", "", err
	}
	p.downloads.Add(1)
	p.downloadBytes.Add(n)
	metrics.DownloadBytes.Add(float64(n))
	p.log.Info("downloaded dataset",
		zap.String("resource", r.String()),
		zap.Int64("bytes", n),
		zap.Duration("elapsed", time.Since(start)))

	path := zipPath
	if p.keepExtracted {
		path, err = p.extract(r, zipPath, extractDir)
		if err != nil {
			return "", "", err
		}
	}

	if err := p.record(ManifestEntry{
		Key:       r.Key(),
		Resource:  r,
		URL:       url,
		Path:      path,
		Bytes:     n,
		Extracted: p.keepExtracted,
		FetchedAt: time.Now().UTC(),
	}); err != nil {
		p.log.Warn("manifest not updated", zap.Error(err))
	}
	return path, metrics.SourceNetwork, nil
}

// extract unpacks zipPath into dir and removes the archive.
func (p *Provider) extract(r Resource, zipPath, dir string) (string, error) {
	if err := extractZip(zipPath, dir); err != nil {
		os.RemoveAll(dir)
		return "", &ErrMalformedShapefile{Path: zipPath, Err: err}
	}
	shpPath, err := findShapefile(dir)
	if err != nil {
		return "", &ErrMalformedShapefile{Path: zipPath, Err: err}
	}
	if err := os.Remove(zipPath); err != nil {
		p.log.Warn("remove archive", zap.String("path", zipPath), zap.Error(err))
	}
	p.log.Debug("extracted dataset", zap.String("resource", r.String()), zap.String("path", shpPath))
	return shpPath, nil
}

func (p *Provider) manifestPath() string {
	return filepath.Join(p.cacheDir, manifestName)
}

func (p *Provider) record(entry ManifestEntry) error {
	p.manifestMu.Lock()
	defer p.manifestMu.Unlock()

	m, err := readManifest(p.manifestPath())
	if err != nil {
		// Start over from a corrupt manifest.
		p.log.Warn("discarding manifest", zap.Error(err))
		m = newManifest()
	}
	m.Entries[entry.Key] = entry
	return m.write(p.manifestPath())
}

// CachedResources lists the datasets recorded in the disk cache manifest,
// ordered by key. Entries whose files were removed are skipped.
func (p *Provider) CachedResources() ([]ManifestEntry, error) {
	p.manifestMu.Lock()
	defer p.manifestMu.Unlock()

	m, err := readManifest(p.manifestPath())
	if err != nil {
		return nil, err
	}
	var out []ManifestEntry
	for _, e := range m.sorted() {
		if _, err := os.Stat(e.Path); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Purge removes every cached dataset from memory and disk.
func (p *Provider) Purge() error {
	p.manifestMu.Lock()
	defer p.manifestMu.Unlock()

	p.cache.Clear()

	entries, err := os.ReadDir(p.cacheDir)
	if err != nil {
		return fmt.Errorf("read cache dir: %w", err)
	}
	var errs []error
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(p.cacheDir, e.Name())); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ProviderStats summarises provider activity.
type ProviderStats struct {
	Cache         CacheStats
	Downloads     int64
	DownloadBytes int64
}

// Stats returns provider statistics.
func (p *Provider) Stats() ProviderStats {
	return ProviderStats{
		Cache:         p.cache.Stats(),
		Downloads:     p.downloads.Load(),
		DownloadBytes: p.downloadBytes.Load(),
	}
}
