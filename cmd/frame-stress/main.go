package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"

	"github.com/plus3/framecore/ecs"
	"github.com/plus3/framecore/ecs/pipeline"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	systemCount := flag.Int("systems", 50, "The number of systems in the generated pipeline.")
	layerCount := flag.Int("layers", 5, "The number of dependency layers the systems are spread over.")
	workers := flag.Int("workers", runtime.GOMAXPROCS(0), "Maximum systems of one stage running at once.")
	seed := flag.Int64("seed", 1, "Random seed for entity and system generation.")
	profileMode := flag.String("profile", "", "Write a profile to the working directory: cpu, mem or trace.")
	logLevel := flag.String("log-level", "warn", "Engine log level: debug, info, warn or error.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	if stop := startProfile(*profileMode); stop != nil {
		defer stop()
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		log.Fatalf("Invalid log level %q: %v", *logLevel, err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	log.Println("Starting frame pipeline stress test...")

	// 1. Setup Context and compile the pipeline
	ctx := ecs.NewContext(ecs.WithLogger(logger))
	plan, err := BuildPipeline(*systemCount, *layerCount, *seed).Build()
	if err != nil {
		log.Fatalf("Failed to compile pipeline: %v", err)
	}
	log.Printf("Compiled %d systems into %d stages.\n", len(plan.Systems()), plan.Len())

	var frameErrors int64
	executor := pipeline.NewExecutor(ctx, plan, pipeline.WithWorkers(*workers))
	defer func() {
		if err := executor.Close(); err != nil {
			log.Printf("Teardown failed: %v", err)
		}
	}()

	// 2. Populate the directory with initial entities
	log.Printf("Populating directory with %d entities...\n", *entityCount)
	rng := rand.New(rand.NewSource(*seed))
	for i := 0; i < *entityCount; i++ {
		// Spawn an entity with 1 to 5 random components
		if _, err := SpawnRandomEntity(ctx, rng, rng.Intn(5)+1); err != nil {
			log.Fatalf("Failed to spawn entity: %v", err)
		}
	}
	log.Println("Population complete.")

	// 3. Run the simulation loop
	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Systems:        len(plan.Systems()),
		Stages:         plan.Len(),
		Workers:        *workers,
		Layout:         plan.String(),
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	runCtx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-runCtx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			if err := executor.Tick(deltaTime.Seconds()); err != nil {
				frameErrors++
			}
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.FrameErrors = frameErrors
	report.UpdateTime.Finalize()
	report.Executor = executor.Stats()
	report.Directory = ctx.Components.CollectStats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Simulation finished.")

	// 4. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Stress test complete.")
}

// startProfile starts the requested profiler and returns its stop function,
// or nil when profiling is off.
func startProfile(mode string) func() {
	var kind func(*profile.Profile)
	switch mode {
	case "":
		return nil
	case "cpu":
		kind = profile.CPUProfile
	case "mem":
		kind = profile.MemProfileAllocs
	case "trace":
		kind = profile.TraceProfile
	default:
		log.Fatalf("Unknown profile mode %q", mode)
	}
	return profile.Start(kind, profile.ProfilePath("."), profile.NoShutdownHook).Stop
}
