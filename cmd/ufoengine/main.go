// Command ufoengine runs a small built-in source/identity/sink pipeline
// end to end, the way sublrun drove a compiled Sublation model from the
// command line. There is no .subs-style DSL here (see SPEC_FULL.md
// Non-goals): the pipeline is wired in code in buildPipeline below, and
// this binary exists to exercise config loading, GPU mapping, and
// the scheduler together in one runnable program.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/srgblnch/ufoengine/config"
	"github.com/srgblnch/ufoengine/plugin"
	"github.com/srgblnch/ufoengine/profile"
	"github.com/srgblnch/ufoengine/sched"
	"github.com/srgblnch/ufoengine/task"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to a YAML configuration file (optional)")
		frames      = flag.Int("frames", 8, "Number of synthetic frames to push through the pipeline")
		elements    = flag.Int("elements", 16, "Number of float32 elements per frame")
		gpuCount    = flag.Int("gpus", 0, "Number of GPU resources to map capable nodes onto")
		metricsOn   = flag.Bool("metrics", false, "Serve Prometheus metrics on -metrics-addr")
		metricsAddr = flag.String("metrics-addr", ":9090", "Address to serve /metrics on")
		version     = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *version {
		fmt.Println("ufoengine - dataflow execution engine")
		fmt.Printf("Built with Go %s\n", runtime.Version())
		return
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	var sink *profile.Sink
	if *metricsOn || cfg.ProfileLevel != config.ProfileLevelNone {
		sink = profile.NewSink("ufoengine", prometheus.DefaultRegisterer)
	}
	if *metricsOn {
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				log.Printf("metrics server stopped: %v", err)
			}
		}()
		log.Printf("serving metrics on %s/metrics", *metricsAddr)
	}

	out, g, err := buildPipeline(*frames, *elements)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	if *gpuCount > 0 {
		arch := task.NewArchGraph(*gpuCount)
		if err := task.Map(g, arch); err != nil {
			log.Fatalf("Failed to map graph onto architecture: %v", err)
		}
	}

	opts := sched.DefaultEngineOptions()
	if sink != nil {
		opts.Profiler = sink
	}

	engine := sched.NewEngine(g, opts)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	if err := engine.Run(ctx); err != nil {
		log.Fatalf("Engine run failed: %v", err)
	}
	log.Printf("processed %d of %d frames in %s", len(out.Frames), *frames, time.Since(start))

	writer := bufio.NewWriter(os.Stdout)
	defer writer.Flush()
	for i, frame := range out.Frames {
		fmt.Fprintf(writer, "frame %d: %v\n", i, frame)
	}
}

// buildPipeline assembles a fixed source -> identity -> sink graph over
// synthetic data, returning the sink so the caller can report on what it
// collected.
func buildPipeline(frameCount, elementCount int) (*plugin.Sink, *task.Graph, error) {
	frames := make([][]float32, frameCount)
	for i := range frames {
		frame := make([]float32, elementCount)
		for j := range frame {
			frame[j] = float32(i*elementCount + j)
		}
		frames[i] = frame
	}

	src := plugin.NewSource(frames)
	id := plugin.Identity{}
	snk := &plugin.Sink{}

	b := task.NewGraphBuilder()
	srcID, err := b.AddNode("source", src, task.CapabilityCPU)
	if err != nil {
		return nil, nil, err
	}
	idID, err := b.AddNode("identity", id, task.CapabilityCPU|task.CapabilityGPU)
	if err != nil {
		return nil, nil, err
	}
	snkID, err := b.AddNode("sink", snk, task.CapabilityCPU)
	if err != nil {
		return nil, nil, err
	}
	if err := b.Connect(srcID, idID, "default"); err != nil {
		return nil, nil, err
	}
	if err := b.Connect(idID, snkID, "default"); err != nil {
		return nil, nil, err
	}
	return snk, b.Graph(), nil
}
