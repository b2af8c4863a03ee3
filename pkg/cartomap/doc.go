// Package cartomap composes georeferenced maps from Natural Earth data.
//
// A map is built in a fixed order: bind a drawing surface to a projection,
// optionally restrict the visible extent, add feature overlays (drawn in the
// order they were added), optionally add a coordinate grid and a title, then
// render to a raster image.
//
// # Basic Usage
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
//	img.SavePNG("world.png")
//
// # Regional Maps
//
// Extents are given in longitudes and latitudes. Overlays left at Auto
// resolution pick a finer Natural Earth scale for smaller extents:
//
//	composer.RestrictExtent(m, cartomap.NewExtent(-140, -40, 15, 65))
//	composer.AddFeature(m, cartomap.Feature(cartomap.Border).At(cartomap.Coarse))
//	composer.AddFeature(m, cartomap.Feature(cartomap.State).At(cartomap.Coarse))
//
// Named presets are available through Regions and RegionByName.
//
// # Projections
//
// Equirectangular, Mercator, Mollweide, Lambert conformal conic,
// stereographic (including the polar variants), Lambert azimuthal
// equal-area and orthographic projections are supported. Geometry crossing
// the seam of a cylindrical projection is split; geometry beyond the horizon
// of an azimuthal projection is clipped to it.
//
// # Styling
//
// Every category has a default style. A Style overrides individual fields;
// zero fields keep the default and None disables an edge or fill:
//
//	composer.AddFeature(m, cartomap.Feature(cartomap.Land).WithStyle(cartomap.Style{
//	    FaceColor: color.NRGBA{R: 0xe0, G: 0xd8, B: 0xb0, A: 0xff},
//	    EdgeColor: cartomap.None,
//	}))
//
// # Errors
//
// Configuration calls validate their input and return ErrInvalidProjection,
// ErrInvalidExtent, ErrInvalidSize, ErrInvalidFeature or ErrInvalidGrid
// without changing the artifact. Render returns ErrRenderFailure, which
// wraps the underlying error:
//
//	img, err := composer.Render(ctx, m)
//	var rf *cartomap.ErrRenderFailure
//	if errors.As(err, &rf) {
//	    log.Printf("stage %s, overlay %d: %v", rf.Stage, rf.Overlay, rf.Err)
//	}
package cartomap
