// wardrobe is a CLI utility for previewing appearance composites and
// inspecting saved entity appearance state.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/wardrobe/internal/compositor"
	"github.com/Faultbox/wardrobe/internal/compositor/raster"
	"github.com/Faultbox/wardrobe/internal/config"
	"github.com/Faultbox/wardrobe/internal/demo"
	"github.com/Faultbox/wardrobe/internal/logger"
	"github.com/Faultbox/wardrobe/internal/render"
	"github.com/Faultbox/wardrobe/internal/state"
	"github.com/Faultbox/wardrobe/pkg/appearance"
	"github.com/Faultbox/wardrobe/pkg/math"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

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

	command := args[0]
	rest := args[1:]

	switch command {
	case "preview":
		cmdPreview(cfg, rest)
	case "layers":
		cmdLayers(cfg, rest)
	case "packs", "ls":
		cmdPacks(cfg)
	case "state":
		cmdState(cfg, rest)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`wardrobe - appearance compositing utility

Usage:
  wardrobe [global options] <command> [options]

Global options:
  -config <file>   Config file (default ./wardrobe.yaml)
  -store <file>    Entity state database (default in-memory)
  -scale <n>       Sprite scale
  -debug           Enable debug logging

Commands:
  preview [-entity id] [-dir n] [-frames n] [-walk] [-swim] [-out dir]
                                     Render animation frames to PNG
  layers [-entity id] [-dir n]       Print the draw order of an entity
  packs                              List registered appearance packs
  state list                         List saved entities
  state seed <entity>                Save a dressed demo entity
  state show <entity>                Print a saved entity
  state export <entity>              Print a saved entity's host bag as YAML
  state import <entity> <file.yaml>  Save a host bag, healing bad values
  state normalize <entity>           Apply the day-start normalization
  state delete <entity>              Remove a saved entity

Examples:
  wardrobe preview -dir 1 -walk -frames 12
  wardrobe -store wardrobe.db state seed alice
  wardrobe -store wardrobe.db layers -entity alice -dir 0`)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func newContext(cfg *config.Config) *render.Context {
	ctx, err := render.NewFromConfig(cfg.Render, demo.Skin(), logger.Log)
	if err != nil {
		fail(err)
	}
	report := ctx.Reload(demo.Packs())
	logger.Debug("Demo packs loaded", zap.Int("loaded", report.Loaded))
	if len(report.Rejected) > 0 {
		logger.Warn("Some packs were rejected", zap.Int("count", len(report.Rejected)))
	}
	return ctx
}

func openStore(cfg *config.Config) *state.Store {
	st, err := state.Open(cfg.Store.Path, logger.Log)
	if err != nil {
		fail(err)
	}
	return st
}

// loadEntity reads a saved entity, or dresses a demo one when id is empty.
func loadEntity(cfg *config.Config, id string) *state.EntityAppearanceState {
	if id == "" {
		return demo.Entity("demo")
	}
	st := openStore(cfg)
	defer st.Close()
	s, healed, err := st.Load(id)
	if err != nil {
		fail(err)
	}
	for _, h := range healed {
		fmt.Fprintf(os.Stderr, "healed: %v\n", h)
	}
	return s
}

func frameFor(cfg *config.Config, dir appearance.Direction, swimming bool) render.Frame {
	scale := cfg.Render.Scale
	return render.Frame{
		Frame: compositor.Frame{
			Position:   math.Vec2{X: demo.FrameW * scale, Y: 8 * scale},
			Scale:      scale,
			Facing:     dir,
			HostFlip:   dir == appearance.Left,
			Swimming:   swimming,
			BaseSource: demo.BaseSource(),
		},
		Base: demo.HostLayers(),
	}
}

func cmdPreview(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	entity := fs.String("entity", "", "Saved entity id (default: demo entity)")
	dir := fs.Int("dir", cfg.Preview.Direction, "Facing direction 0-3 (back, right, front, left)")
	frames := fs.Int("frames", cfg.Preview.Frames, "Number of frames to render")
	delta := fs.Int("delta", cfg.Preview.DeltaMs, "Milliseconds between frames")
	walk := fs.Bool("walk", false, "Render as moving")
	swim := fs.Bool("swim", false, "Render as swimming")
	out := fs.String("out", cfg.Preview.OutputDir, "Output directory")
	fs.Parse(args)

	ctx := newContext(cfg)
	s := loadEntity(cfg, *entity)
	facing := appearance.DirectionFromInt(*dir)

	if err := os.MkdirAll(*out, 0o755); err != nil {
		fail(err)
	}

	scale := cfg.Render.Scale
	w := int(3 * demo.FrameW * scale)
	h := int((demo.FrameH + 16) * scale)
	if *swim {
		h += int(cfg.Render.SwimOffsetY)
	}
	canvas := raster.New(w, h, logger.Log)

	var clock int64
	for i := 0; i < *frames; i++ {
		ctx.Tick(s, render.TickInput{
			TickID:    uint64(i + 1),
			DeltaMs:   *delta,
			Facing:    facing,
			HostFlip:  facing == appearance.Left,
			Moving:    *walk,
			HostFrame: i,
		})
		clock += int64(*delta)

		f := frameFor(cfg, facing, *swim)
		f.ClockMs = clock
		f.HostFrame = i
		plan := ctx.Compose(s, f)
		if plan.Fallback {
			fmt.Println("Nothing equipped; the host would draw natively.")
			return
		}

		canvas.Clear(color.Transparent)
		if err := compositor.Execute(canvas, plan); err != nil {
			fail(err)
		}
		path := filepath.Join(*out, fmt.Sprintf("%s_%s_%03d.png", s.EntityID, facing, i))
		if err := canvas.WritePNG(path); err != nil {
			fail(err)
		}
		fmt.Println(path)
	}
}

func cmdLayers(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("layers", flag.ExitOnError)
	entity := fs.String("entity", "", "Saved entity id (default: demo entity)")
	dir := fs.Int("dir", cfg.Preview.Direction, "Facing direction 0-3")
	fs.Parse(args)

	ctx := newContext(cfg)
	s := loadEntity(cfg, *entity)
	plan := ctx.Compose(s, frameFor(cfg, appearance.DirectionFromInt(*dir), false))
	if plan.Fallback {
		fmt.Println("fallback: host draws natively")
		return
	}

	fmt.Printf("%-4s %-44s %-10s %-12s %s\n", "#", "LAYER", "KIND", "DEPTH", "SOURCE")
	for i, cmd := range plan.Commands {
		fmt.Printf("%-4d %-44s %-10s %-12.6f %dx%d+%d+%d\n",
			i, cmd.Name, cmd.Kind, cmd.Depth, cmd.Source.W, cmd.Source.H, cmd.Source.X, cmd.Source.Y)
	}
	if plan.UseBaldBase {
		fmt.Println("host base: bald")
	}
}

func cmdPacks(cfg *config.Config) {
	ctx := newContext(cfg)
	snap := ctx.Registry().Snapshot()
	for _, id := range snap.IDs(appearance.KindCount) {
		p, err := snap.Lookup(id)
		if err != nil {
			continue
		}
		fmt.Println(p)
	}
	fmt.Printf("\nTotal: %d packs\n", snap.Len())
}

func cmdState(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: wardrobe state <list|seed|show|export|import|normalize|delete> [entity]")
		os.Exit(1)
	}
	sub := args[0]
	args = args[1:]

	st := openStore(cfg)
	defer st.Close()

	if sub == "list" {
		ids, err := st.List()
		if err != nil {
			fail(err)
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return
	}

	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: wardrobe state %s <entity>\n", sub)
		os.Exit(1)
	}
	id := args[0]

	switch sub {
	case "seed":
		if err := st.Save(demo.Entity(id)); err != nil {
			fail(err)
		}
		fmt.Printf("Saved demo entity %s\n", id)

	case "show":
		s := mustLoad(st, id)
		printState(s)

	case "export":
		s := mustLoad(st, id)
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(s.ToModData()); err != nil {
			fail(err)
		}

	case "import":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: wardrobe state import <entity> <file.yaml>")
			os.Exit(1)
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			fail(err)
		}
		bag := map[string]string{}
		if err := yaml.Unmarshal(data, &bag); err != nil {
			fail(fmt.Errorf("parse %s: %w", args[1], err))
		}
		ctx := newContext(cfg)
		s := ctx.LoadState(id, demo.HairColor, bag)
		if err := st.Save(s); err != nil {
			fail(err)
		}
		fmt.Printf("Imported %s\n", id)

	case "normalize":
		s := mustLoad(st, id)
		s.NormalizeDayStart()
		if err := st.Save(s); err != nil {
			fail(err)
		}
		fmt.Printf("Normalized %s\n", id)

	case "delete", "rm":
		if err := st.Delete(id); err != nil {
			fail(err)
		}
		fmt.Printf("Deleted %s\n", id)

	default:
		fmt.Fprintf(os.Stderr, "Unknown state command: %s\n", sub)
		os.Exit(1)
	}
}

func mustLoad(st *state.Store, id string) *state.EntityAppearanceState {
	s, healed, err := st.Load(id)
	if errors.Is(err, state.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "No saved state for %s\n", id)
		os.Exit(1)
	}
	if err != nil {
		fail(err)
	}
	for _, h := range healed {
		fmt.Fprintf(os.Stderr, "healed: %v\n", h)
	}
	return s
}

func printState(s *state.EntityAppearanceState) {
	fmt.Printf("Entity:    %s\n", s.EntityID)
	fmt.Printf("Hair:      %s\n", s.HairColor)
	fmt.Printf("Facing:    %s\n", s.Facing)
	fmt.Printf("Last tick: %d\n", s.LastTick)
	fmt.Println()
	for _, k := range appearance.Kinds() {
		if k == appearance.KindAccessory {
			continue
		}
		a := s.Animations[k]
		fmt.Printf("  %-9s %-40s color=%s frame=%d elapsed=%dms %s\n",
			k, s.EquippedID(k), s.OverrideColor(k), a.Iterator, a.ElapsedMs, a.Type)
	}
	for i, slot := range s.Accessories {
		fmt.Printf("  slot %-4d %-40s color=%s frame=%d elapsed=%dms %s\n",
			i, slot.ID, s.AccessoryColor(i), slot.Animation.Iterator, slot.Animation.ElapsedMs, slot.Animation.Type)
	}
}
