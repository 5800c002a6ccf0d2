// Command ecs-stress runs the game schedule headless over a large generated world
// and prints a timing and memory report.
package main

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/plus3/caffeinated/asset"
	"github.com/plus3/caffeinated/campaign"
	"github.com/plus3/caffeinated/ecs"
	"github.com/plus3/caffeinated/game"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	sheetID   = "stress"
	sheetSize = 8
)

type options struct {
	duration   time.Duration
	entities   int
	controlled float64
	parallel   bool
	workers    int
	seed       int64
	gcMetrics  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:          "ecs-stress",
		Short:        "Stress the game schedule with many animated sprites",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer log.Sync()

			report, err := run(cmd.Context(), opts, log)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "\n\n--- Stress Test Report ---")
			if err := report.Generate(out); err != nil {
				return eris.Wrap(err, "generate report")
			}
			fmt.Fprintln(out, "--- End of Report ---")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.DurationVar(&opts.duration, "duration", 10*time.Second, "total duration of the run")
	flags.IntVar(&opts.entities, "entities", 10000, "number of sprites to spawn")
	flags.Float64Var(&opts.controlled, "controlled", 0.1, "share of sprites following the input")
	flags.BoolVar(&opts.parallel, "parallel", true, "run independent systems concurrently")
	flags.IntVar(&opts.workers, "workers", 0, "bound on concurrently running systems, 0 for none")
	flags.Int64Var(&opts.seed, "seed", 1, "random seed")
	flags.BoolVar(&opts.gcMetrics, "gc-pause-metrics", false, "include GC pause metrics in the report")
	return cmd
}

// countingTarget counts the draws it receives instead of drawing them.
type countingTarget struct {
	ops int64
}

func (t *countingTarget) Reset() {}

func (t *countingTarget) Submit(batch asset.DrawBatch) {
	t.ops += int64(len(batch.Ops))
}

// stressSheet is an in-memory sprite sheet with one eight-frame animation per row.
func stressSheet() (*asset.Registry, error) {
	atlas, err := asset.NewAtlas(image.Rect(0, 0, 32*sheetSize, 32*sheetSize), sheetSize, sheetSize)
	if err != nil {
		return nil, err
	}

	names := []string{game.AnimIdle, game.AnimWalkRight, game.AnimWalkLeft, game.AnimWalkDown, game.AnimWalkUp}
	for row, name := range names {
		frames := make([]asset.GridPos, sheetSize)
		for col := range frames {
			frames[col] = asset.GridPos{Row: row + 1, Column: col + 1}
		}
		atlas.AddAnimation(name, frames)
	}

	registry := asset.NewRegistry()
	registry.Add(sheetID, atlas)
	return registry, nil
}

// wanderingInput presses a random set of directions, changing every second.
func wanderingInput(rng *rand.Rand) game.InputSource {
	var (
		pressed [4]bool
		changed time.Time
	)
	return game.InputSourceFunc(func(d game.Direction) bool {
		if time.Since(changed) > time.Second {
			changed = time.Now()
			for i := range pressed {
				pressed[i] = rng.Intn(3) == 0
			}
		}
		return pressed[d]
	})
}

func populate(storage *ecs.Storage, opts *options, rng *rand.Rand) {
	for range opts.entities {
		spec := campaign.EntitySpec{
			Asset:    sheetID,
			Position: []float32{rng.Float32() * 1280, rng.Float32() * 1024},
			Animation: &campaign.AnimationSpec{
				Name:          game.AnimIdle,
				FramesPerStep: rng.Intn(4) + 1,
			},
		}
		if rng.Float64() < opts.controlled {
			spec.Controller = &campaign.ControllerSpec{Speed: 2}
		}
		game.Spawn(storage, spec)
	}
}

func run(ctx context.Context, opts *options, log *zap.Logger) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log.Info("starting stress test", zap.Int("entities", opts.entities), zap.Bool("parallel", opts.parallel))

	registry, err := stressSheet()
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(opts.seed))
	target := &countingTarget{}
	storage := game.NewWorld(game.Resources{
		Assets: registry,
		Input:  wanderingInput(rng),
		Target: target,
	})

	scheduler := game.NewScheduler(storage)
	scheduler.SetParallel(opts.parallel)
	scheduler.SetWorkers(opts.workers)
	if err := scheduler.Build(); err != nil {
		return nil, err
	}

	populate(storage, opts, rng)
	log.Info("population complete", zap.Int("archetypes", len(storage.Archetypes())))

	report := &Report{
		Duration:       opts.duration,
		Entities:       opts.entities,
		Controlled:     opts.controlled,
		Parallel:       opts.parallel,
		Workers:        opts.workers,
		GCPauseMetrics: opts.gcMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(ctx, opts.duration)
	defer cancel()

	startTime := time.Now()
	lastFrameTime := startTime

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			scheduler.Once(deltaTime.Seconds())
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			report.TotalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.DrawOps = target.ops
	report.Systems = scheduler.GetStats().Systems
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Info("stress test finished", zap.Int64("updates", report.TotalUpdates))
	return report, nil
}
