package cartomap

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/beetlebugorg/cartomap/pkg/naturalearth"
)

// Composer creates and configures map artifacts and renders them.
//
// A Composer holds no per-map state and is safe to share between
// goroutines; each artifact must stay with one goroutine.
//
// Example:
//
//	composer, err := cartomap.NewComposer(cartomap.DefaultComposerOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m, err := composer.CreateSurface(cartomap.Equirectangular(-75), cartomap.Size{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	composer.AddFeature(m, cartomap.Feature(cartomap.Coastline))
//
//	img, err := composer.Render(ctx, m)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	img.SavePNG("coastlines.png")
type Composer struct {
	source      FeatureSource
	defaultSize Size
	margin      float64
	log         *zap.Logger
}

// NewComposer creates a composer.
func NewComposer(opts ComposerOptions) (*Composer, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	source := opts.Source
	if source == nil {
		popts := naturalearth.DefaultProviderOptions()
		popts.Logger = log
		provider, err := naturalearth.NewProvider(popts)
		if err != nil {
			return nil, fmt.Errorf("create feature provider: %w", err)
		}
		source = provider
	}

	size := opts.DefaultSize
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultComposerOptions().DefaultSize
	}
	margin := opts.Margin
	if margin < 0 {
		margin = 0
	}

	return &Composer{
		source:      source,
		defaultSize: size,
		margin:      margin,
		log:         log.Named("composer"),
	}, nil
}

// CreateSurface allocates an artifact bound to a projection.
//
// Returns ErrInvalidProjection if a parameter is outside its domain and
// ErrInvalidSize for negative or oversized dimensions. A zero Size takes
// the composer's default.
func (c *Composer) CreateSurface(p ProjectionSpec, size Size) (*MapArtifact, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if size.Width < 0 || size.Height < 0 || size.Width > MaxSurfaceSide || size.Height > MaxSurfaceSide {
		return nil, &ErrInvalidSize{Width: size.Width, Height: size.Height}
	}
	if size.Width == 0 && size.Height == 0 {
		size = c.defaultSize
	} else if size.Width == 0 || size.Height == 0 {
		return nil, &ErrInvalidSize{Width: size.Width, Height: size.Height}
	}

	a := &MapArtifact{
		id:         uuid.New(),
		projection: p,
		size:       size,
	}
	c.log.Debug("created surface",
		zap.String("artifact", a.ID()),
		zap.Stringer("projection", p),
		zap.Int("width", size.Width),
		zap.Int("height", size.Height))
	return a, nil
}

// RestrictExtent limits the visible region. On error the artifact keeps its
// previous extent. Setting the same extent again has no further effect.
func (c *Composer) RestrictExtent(a *MapArtifact, e Extent) error {
	if err := e.Validate(); err != nil {
		return err
	}
	ext := e
	a.extent = &ext
	return nil
}

// ClearExtent removes any extent restriction, returning to the global view.
func (c *Composer) ClearExtent(a *MapArtifact) {
	a.extent = nil
}

// AddFeature appends an overlay. Overlays are never merged or reordered;
// each is drawn on top of the ones added before it.
func (c *Composer) AddFeature(a *MapArtifact, req FeatureOverlayRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	a.overlays = append(a.overlays, req)
	return nil
}

// SetGrid records the coordinate grid, replacing any previous grid.
//
// Labels are drawn for equirectangular and Mercator surfaces only; for
// other projections the rendered image carries a warning instead.
func (c *Composer) SetGrid(a *MapArtifact, g GridConfig) error {
	if err := g.Validate(); err != nil {
		return err
	}
	grid := g.clone()
	a.grid = &grid
	return nil
}

// ClearGrid removes the grid.
func (c *Composer) ClearGrid(a *MapArtifact) {
	a.grid = nil
}

// SetTitle sets the title drawn above the map. An empty title removes it.
func (c *Composer) SetTitle(a *MapArtifact, title string) {
	a.title = title
}
