package cartomap

import (
	"context"

	"go.uber.org/zap"

	"github.com/beetlebugorg/cartomap/pkg/naturalearth"
)

// FeatureSource supplies decoded feature layers. *naturalearth.Provider
// implements it.
type FeatureSource interface {
	Layer(ctx context.Context, r naturalearth.Resource) (*naturalearth.Layer, error)
}

// ComposerOptions configures a Composer.
type ComposerOptions struct {
	// Source supplies feature data.
	// If nil, a naturalearth.Provider with default options is created.
	Source FeatureSource

	// DefaultSize applies to surfaces created with a zero Size.
	// Default: 800x600
	DefaultSize Size

	// Margin is the blank border around the map frame, in pixels.
	// Default: 10
	Margin float64

	// Logger receives render events.
	// Default: zap.NewNop()
	Logger *zap.Logger
}

// DefaultComposerOptions returns composer options with defaults.
func DefaultComposerOptions() ComposerOptions {
	return ComposerOptions{
		DefaultSize: Size{Width: 800, Height: 600},
		Margin:      10,
	}
}
