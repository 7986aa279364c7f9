package render

import (
	"go.uber.org/zap"

	"github.com/Faultbox/wardrobe/internal/animation"
	"github.com/Faultbox/wardrobe/internal/compositor"
	"github.com/Faultbox/wardrobe/internal/config"
	"github.com/Faultbox/wardrobe/internal/layer"
	"github.com/Faultbox/wardrobe/internal/palette"
	"github.com/Faultbox/wardrobe/internal/registry"
)

// NewFromConfig wires a Context and an empty registry from render settings.
func NewFromConfig(cfg config.RenderConfig, skin palette.SkinTable, log *zap.Logger) (*Context, error) {
	return New(
		registry.New(log),
		animation.NewTracker(animation.Options{
			MaxTrackedMs:           cfg.MaxTrackedMs,
			DefaultFrameDurationMs: cfg.FrameDuration,
		}, log),
		palette.NewResolver(cfg.PrismaticMs, log),
		layer.NewOrderer(cfg.LayerDepthStep),
		compositor.New(compositor.Options{
			Scale:       cfg.Scale,
			SwimOffsetY: cfg.SwimOffsetY,
		}, log),
		Options{Skin: skin, DefaultFrameDurationMs: cfg.FrameDuration},
		log,
	)
}
