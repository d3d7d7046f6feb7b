// Command relidx-fuzz runs a seeded, reproducible stress sequence against
// package flowcache: insert, lookup and free operations driven by a
// seeded math/rand source, reporting throughput and final occupancy.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/rpcpool/relidx/flowcache"
)

func main() {
	app := &cli.App{
		Name:      "relidx-fuzz",
		Usage:     "stress-test the flow cache with a reproducible random operation sequence",
		ArgsUsage: "<seed> <N> <ops>",
		Flags:     NewKlogFlagSet(),
		Action:    runFuzz,
	}
	if err := app.Run(os.Args); err != nil {
		klog.Exitf("relidx-fuzz: %s", err)
	}
}

func runFuzz(c *cli.Context) error {
	if c.NArg() != 3 {
		return fmt.Errorf("expected 3 positional arguments (seed, N, ops), got %d", c.NArg())
	}
	seed, err := strconv.ParseInt(c.Args().Get(0), 10, 64)
	if err != nil {
		return fmt.Errorf("parsing seed: %w", err)
	}
	n, err := strconv.Atoi(c.Args().Get(1))
	if err != nil {
		return fmt.Errorf("parsing N: %w", err)
	}
	ops, err := strconv.Atoi(c.Args().Get(2))
	if err != nil {
		return fmt.Errorf("parsing ops: %w", err)
	}

	buckets := nextPow2(n / 16)
	if buckets < 2 {
		buckets = 2
	}
	cfg := flowcache.Config{
		Name:       "relidx-fuzz",
		Buckets:    buckets,
		OnNodeInit: func() any { return struct{}{} },
	}
	klog.Infof("creating flow cache: requested N=%d buckets=%d estimated size=%s",
		n, buckets, humanize.Bytes(uint64(flowcache.Sizeof(cfg))))

	cache, err := flowcache.Create(cfg)
	if err != nil {
		return fmt.Errorf("creating cache: %w", err)
	}
	defer cache.Free()

	rng := rand.New(rand.NewSource(seed))
	live := make([][flowcache.KeySize]byte, 0, ops)

	startedAt := time.Now()
	var inserts, finds, frees, fails int
	for i := 0; i < ops; i++ {
		switch roll := rng.Intn(3); {
		case roll == 0 || len(live) == 0:
			key := randomKey(rng)
			outcome := cache.Insert(key)
			inserts++
			if outcome == "inserted" {
				live = append(live, key.Payload)
			} else if outcome == "full" || outcome == "kickout_exhausted" {
				fails++
			}
		case roll == 1:
			key := &flowcache.Key{Payload: live[rng.Intn(len(live))]}
			if _, ok := cache.FindOneshot(key); !ok {
				klog.Warningf("expected hit for a previously inserted key")
			}
			finds++
		default:
			idx := rng.Intn(len(live))
			key := &flowcache.Key{Payload: live[idx]}
			cache.FreeNode(key)
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]
			frees++
		}
	}
	elapsed := time.Since(startedAt)

	klog.Infof("completed %d ops (%d inserts, %d finds, %d frees, %d fails) in %s (%.0f ops/s)",
		ops, inserts, finds, frees, fails, elapsed, float64(ops)/elapsed.Seconds())
	klog.Infof("final node count: %d", cache.NodeCount())
	return nil
}

func randomKey(rng *rand.Rand) *flowcache.Key {
	var k flowcache.Key
	rng.Read(k.Payload[:])
	return &k
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
