// Package workload builds the integer arrays summed by the benchmark.
package workload

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultSizes are the workload lengths benchmarked by default.
var DefaultSizes = []int{100_000, 1_000_000, 10_000_000}

const (
	// DefaultMin is the smallest generated value (inclusive).
	DefaultMin = 1
	// DefaultMax is the upper bound on generated values (exclusive).
	DefaultMax = 100

	// minChunkLen keeps tiny workloads on a single goroutine.
	minChunkLen = 64 * 1024
)

// Options controls workload generation.
type Options struct {
	// Min and Max bound the values to [Min, Max).
	Min, Max int32
	// Seed makes the output reproducible. Zero picks a time-based seed.
	Seed uint64
	// Chunks is the number of independently seeded chunks. Zero picks one
	// chunk per logical CPU, reduced for small sizes.
	Chunks int
}

// DefaultOptions returns Options with the default value range and a
// time-based seed.
func DefaultOptions() Options {
	return Options{Min: DefaultMin, Max: DefaultMax}
}

// Generator produces workloads. It exists so the harness can be tested with
// fixed arrays.
type Generator interface {
	Generate(ctx context.Context, size int) ([]int32, error)
}

// RandomGenerator is the production Generator backed by Generate.
type RandomGenerator struct {
	Options Options
}

// NewRandomGenerator resolves a zero seed once, so every size generated by
// the returned value shares the same seed.
func NewRandomGenerator(opts Options) *RandomGenerator {
	if opts.Seed == 0 {
		opts.Seed = uint64(time.Now().UnixNano())
	}
	return &RandomGenerator{Options: opts}
}

// Generate implements Generator.
func (g *RandomGenerator) Generate(ctx context.Context, size int) ([]int32, error) {
	return Generate(ctx, size, g.Options)
}

// Seed returns the effective seed.
func (g *RandomGenerator) Seed() uint64 { return g.Options.Seed }

// Generate returns size pseudo-random values drawn uniformly from
// [opts.Min, opts.Max). Chunk k is filled by its own PCG source seeded with
// (opts.Seed, k), so the result depends only on (size, Seed, Chunks).
func Generate(ctx context.Context, size int, opts Options) ([]int32, error) {
	if size < 0 {
		return nil, fmt.Errorf("invalid workload size %d: must be >= 0", size)
	}
	if opts.Min >= opts.Max {
		return nil, fmt.Errorf("invalid value range [%d, %d): min must be < max", opts.Min, opts.Max)
	}
	if opts.Seed == 0 {
		opts.Seed = uint64(time.Now().UnixNano())
	}

	out := make([]int32, size)
	if size == 0 {
		return out, nil
	}

	chunks := resolveChunks(size, opts.Chunks)
	chunkLen := size / chunks
	span := uint32(opts.Max - opts.Min)

	g, ctx := errgroup.WithContext(ctx)
	for k := 0; k < chunks; k++ {
		start := k * chunkLen
		end := start + chunkLen
		if k == chunks-1 {
			end = size
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(opts.Seed, uint64(k)))
			part := out[start:end]
			for i := range part {
				part[i] = opts.Min + int32(rng.Uint32N(span))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func resolveChunks(size, requested int) int {
	chunks := requested
	if chunks <= 0 {
		chunks = runtime.NumCPU()
		if limit := size / minChunkLen; limit < chunks {
			chunks = limit
		}
	}
	if chunks > size {
		chunks = size
	}
	if chunks < 1 {
		chunks = 1
	}
	return chunks
}
