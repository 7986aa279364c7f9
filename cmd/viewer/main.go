// Package main is the interactive wardrobe viewer.
package main

import (
	"fmt"
	"os"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/wardrobe/internal/compositor"
	"github.com/Faultbox/wardrobe/internal/config"
	"github.com/Faultbox/wardrobe/internal/demo"
	"github.com/Faultbox/wardrobe/internal/engine/input"
	"github.com/Faultbox/wardrobe/internal/engine/sdlcanvas"
	"github.com/Faultbox/wardrobe/internal/engine/window"
	"github.com/Faultbox/wardrobe/internal/logger"
	"github.com/Faultbox/wardrobe/internal/render"
	"github.com/Faultbox/wardrobe/internal/state"
)

const entityID = "viewer"

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Wardrobe Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}

func run(cfg *config.Config) error {
	ctx, err := render.NewFromConfig(cfg.Render, demo.Skin(), logger.Log)
	if err != nil {
		return err
	}
	ctx.Reload(demo.Packs())

	s := demo.Entity(entityID)
	var save func(*state.EntityAppearanceState) error
	if cfg.Store.Path != "" {
		st, err := state.Open(cfg.Store.Path, logger.Log)
		if err != nil {
			return err
		}
		defer st.Close()
		if loaded, _, err := st.Load(entityID); err == nil {
			s = loaded
			s.OnSaveLoaded()
		}
		save = st.Save
	}

	win, err := window.New(window.Config{
		Title:  "Wardrobe",
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		VSync:  cfg.Window.VSync,
	}, logger.Log)
	if err != nil {
		return err
	}
	defer win.Close()

	canvas := sdlcanvas.New(win.Renderer(), logger.Log)
	defer canvas.Close()

	in := input.New()
	v := newViewer(ctx, s, cfg.Render.Scale, logger.Log)
	v.save = save

	last := sdl.GetTicks()
	for {
		if in.Update() {
			return nil
		}
		for _, a := range in.Actions() {
			v.apply(a)
		}

		now := sdl.GetTicks()
		v.update(int(now - last))
		last = now

		w, h := win.GetSize()
		win.Clear(48, 56, 72)
		canvas.BeginFrame()
		if err := compositor.Execute(canvas, ctx.Compose(v.s, v.frame(w, h))); err != nil {
			logger.Warn("Draw failed", zap.Error(err))
		}
		canvas.EndFrame()
		win.Present()
	}
}
