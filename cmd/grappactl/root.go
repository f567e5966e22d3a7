package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "grappactl",
	Short: "Exercise the PGAS runtime core on a single machine",
	Long: `grappactl runs the global-heap allocator and the NT message
aggregation layer against an in-process loopback fabric, for sizing
buffers and sanity-checking throughput without a cluster.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	execute()
}
