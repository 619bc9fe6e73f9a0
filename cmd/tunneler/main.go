// Package main is the entry point for Tunneler.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/tdewolff/argp"

	"github.com/samdwyer/tunneler/internal/game"
	"github.com/samdwyer/tunneler/internal/gamedata"
	"github.com/samdwyer/tunneler/internal/telemetry"
	"github.com/samdwyer/tunneler/internal/world"
)

// Generate builds a tunnel network and prints it or opens the viewer.
type Generate struct {
	Seed    int64   `short:"s" desc:"Root junction seed (0 picks one at random)"`
	Profile string  `short:"p" desc:"Generation profile (classic, dense, sparse, radial)"`
	Depth   int     `short:"d" default:"1" desc:"Levels of junctions to build, starting at the root"`
	Physics bool    `desc:"Generate collision primitives"`
	Workers int     `short:"w" default:"4" desc:"Background build workers"`
	View    bool    `short:"v" desc:"Open the interactive viewer"`
	Cell    float64 `default:"40" desc:"World length per terminal cell in the viewer"`
}

// Profiles lists the embedded generation profiles.
type Profiles struct{}

func main() {
	// Load .env file for local development
	// This makes TUNNELER_SEED, TUNNELER_PROFILE and the OTEL_* settings available
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	root := argp.NewCmd(&Generate{}, "Procedural tunnel network generator")
	root.AddCmd(&Profiles{}, "profiles", "List generation profiles")
	root.Parse()
	root.PrintHelp()
}

func (cmd *Profiles) Run() error {
	registry, err := gamedata.LoadProfileRegistry()
	if err != nil {
		return err
	}
	for _, p := range registry.All() {
		fmt.Printf("%-8s %-7s connections [%d,%d) distance [%g,%g)  %s\n",
			p.ID, p.Shaper, p.MinConnections, p.MaxConnections,
			p.MinConnectionDistance, p.MaxConnectionDistance, p.Description)
	}
	return nil
}

func (cmd *Generate) Run() error {
	ctx := context.Background()

	// Initialize telemetry
	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		log.Printf("Warning: telemetry setup failed: %v", err)
		log.Printf("Generation will run without observability")
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}

	cfg := cmd.config()

	registry, err := gamedata.LoadProfileRegistry()
	if err != nil {
		return err
	}
	profile := registry.GetByID(cfg.Profile)
	if profile == nil {
		return fmt.Errorf("unknown profile %q", cfg.Profile)
	}

	worldCfg := world.ConfigFromProfile(profile)
	worldCfg.GeneratePhysics = cfg.GeneratePhysics
	net := world.NewNetwork(cfg.Seed, worldCfg)

	if cmd.View {
		g, err := game.New(net, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize viewer: %w", err)
		}
		return g.Run(ctx)
	}

	visited, err := net.Expand(ctx, cmd.Depth, cfg.PreloadWorkers)
	if err != nil {
		return err
	}

	fmt.Printf("network %s  seed %d  profile %s  junctions %d\n", net.ID(), cfg.Seed, profile.ID, net.Len())
	for _, h := range visited {
		j := net.Junction(h)
		if !j.HasBuiltConnections() {
			continue
		}
		printJunction(ctx, j)
	}
	return nil
}

// config merges flags with environment fallbacks.
func (cmd *Generate) config() game.Config {
	cfg := game.DefaultConfig()

	cfg.Seed = cmd.Seed
	if cfg.Seed == 0 {
		if s, err := strconv.ParseInt(os.Getenv("TUNNELER_SEED"), 10, 64); err == nil {
			cfg.Seed = s
		}
	}
	if cfg.Seed == 0 {
		cfg.Seed = int64(rand.Uint32())
	}

	switch {
	case cmd.Profile != "":
		cfg.Profile = cmd.Profile
	case os.Getenv("TUNNELER_PROFILE") != "":
		cfg.Profile = os.Getenv("TUNNELER_PROFILE")
	}

	cfg.GeneratePhysics = cmd.Physics
	if cmd.Workers > 0 {
		cfg.PreloadWorkers = cmd.Workers
	}
	if cmd.Cell > 0 {
		cfg.CellSize = cmd.Cell
	}
	return cfg
}

func printJunction(ctx context.Context, j *world.Junction) {
	segments, err := j.Segments(ctx)
	if err != nil {
		log.Printf("junction %d: %v", j.Handle(), err)
		return
	}
	fingerprint, err := world.Fingerprint(ctx, j)
	if err != nil {
		log.Printf("junction %d: %v", j.Handle(), err)
		return
	}
	shape, _ := j.InternalShape(ctx)
	physics, _ := j.PhysicsShapes(ctx)

	fmt.Printf("junction %-4d seed %-10d distance %8.1f  points %4d  segments %d  mobiles %2d  physics %3d  fingerprint %016x\n",
		j.Handle(), j.Seed(), j.Distance(), shape.PointCount(), len(segments), len(j.Mobiles()), len(physics), fingerprint)
	for _, s := range segments {
		fmt.Printf("    -> %-4d offset (%8.1f, %8.1f)  length %7.1f  centre points %3d\n",
			s.Child, s.ChildOffset[0], s.ChildOffset[1], s.Length(), len(s.CenterPoints))
	}
}
