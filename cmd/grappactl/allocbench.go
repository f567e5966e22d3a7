package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hhjcobra/grappa/heap"
	"github.com/hhjcobra/grappa/pkg/types"
)

var (
	allocHeapSize int64
	allocOps      int
	allocMaxSize  int
	allocSeed     int64
)

var allocBenchCmd = &cobra.Command{
	Use:   "alloc-bench",
	Short: "Churn the buddy allocator and report throughput and state",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := heap.New(0, allocHeapSize)
		if err != nil {
			return err
		}
		defer h.Close()

		rng := rand.New(rand.NewSource(allocSeed))
		var live []types.GlobalAddress
		start := time.Now()
		for i := 0; i < allocOps; i++ {
			if len(live) == 0 || rng.Intn(2) == 0 {
				addr, err := h.Alloc(int64(1 + rng.Intn(allocMaxSize)))
				if err != nil {
					continue // out of memory is expected under churn
				}
				live = append(live, addr)
			} else {
				k := rng.Intn(len(live))
				if err := h.Free(live[k]); err != nil {
					return err
				}
				live[k] = live[len(live)-1]
				live = live[:len(live)-1]
			}
		}
		elapsed := time.Since(start)

		s := h.Stats()
		fmt.Printf("%d ops in %v (%.0f ops/s)\n", allocOps, elapsed,
			float64(allocOps)/elapsed.Seconds())
		fmt.Printf("mallocs %d, frees %d, splits %d, merges %d\n",
			s.MallocCalls, s.FreeCalls, s.Splits, s.Merges)
		fmt.Printf("chunks %d, in use %d B, free %d B\n", s.Chunks, s.BytesInUse, s.BytesFree)
		dumpOnVerbose(h)
		return nil
	},
}

func init() {
	allocBenchCmd.Flags().Int64Var(&allocHeapSize, "heap-size", 64<<20, "Local heap size in bytes")
	allocBenchCmd.Flags().IntVar(&allocOps, "ops", 1_000_000, "Operations to run")
	allocBenchCmd.Flags().IntVar(&allocMaxSize, "max-size", 4096, "Largest request size")
	allocBenchCmd.Flags().Int64Var(&allocSeed, "seed", 1, "Churn RNG seed")
	rootCmd.AddCommand(allocBenchCmd)
}

// dumpOnVerbose prints allocator state when --verbose is set.
func dumpOnVerbose(h *heap.Heap) {
	if !verbose {
		return
	}
	fmt.Fprintln(os.Stderr, "final heap state:")
	s := h.Stats()
	fmt.Fprintf(os.Stderr, "  chunks %d, total %d B\n", s.Chunks, s.BytesTotal)
}
