package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/hhjcobra/grappa/ntmsg"
	"github.com/hhjcobra/grappa/pkg/types"
	"github.com/hhjcobra/grappa/transport"
)

var (
	msgCount   int
	msgStride  int64
	msgBufSize int
)

var msgBenchCmd = &cobra.Command{
	Use:   "msg-bench",
	Short: "Measure aggregation density for a pointer-bump workload",
	Long: `msg-bench sends address-targeted increments with a constant
stride, the workload NT messaging is built for, and reports how many
messages collapsed into each 16-byte descriptor.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := ntmsg.NewRegistry()
		var invoked int64
		code, err := reg.Register(ntmsg.HandlerSpec{
			Shape:    ntmsg.ShapeAddr,
			ElemSize: 8,
			Fn:       ntmsg.AddrFunc(func(types.LocalAddr, []byte) { invoked++ }),
		})
		if err != nil {
			return err
		}

		fab := transport.NewFabric(2)
		sender, err := fab.Endpoint(0)
		if err != nil {
			return err
		}
		receiver, err := fab.Endpoint(1)
		if err != nil {
			return err
		}
		agg := ntmsg.New(sender, ntmsg.WithRegistry(reg), ntmsg.WithBufferSize(msgBufSize))

		metrics := prometheus.NewRegistry()
		if err := metrics.Register(ntmsg.NewCollector(0, agg)); err != nil {
			return err
		}

		start := time.Now()
		off := types.LocalAddr(0)
		for i := 0; i < msgCount; i++ {
			if err := agg.SendAddr(types.NewGlobalAddress(1, off), code, nil); err != nil {
				return err
			}
			off += types.LocalAddr(msgStride)
		}
		if err := agg.Drain(); err != nil {
			return err
		}
		for {
			b, ok := receiver.RecvPoll()
			if !ok {
				break
			}
			if err := ntmsg.Deserialize(reg, b); err != nil {
				return err
			}
		}
		elapsed := time.Since(start)

		s := agg.Stats()
		fmt.Printf("%d messages in %v (%.0f msg/s)\n", msgCount, elapsed,
			float64(msgCount)/elapsed.Seconds())
		fmt.Printf("descriptors %d, combined %d (%.1f msgs/descriptor)\n",
			s.Headers, s.Combined, float64(s.Sends)/float64(s.Headers))
		fmt.Printf("flushes %d, %d bytes on the wire, handler ran %d times\n",
			s.Flushes, s.FlushedBytes, invoked)

		if verbose {
			mfs, err := metrics.Gather()
			if err != nil {
				return err
			}
			for _, mf := range mfs {
				for _, m := range mf.GetMetric() {
					if c := m.GetCounter(); c != nil {
						fmt.Printf("%s %v\n", mf.GetName(), c.GetValue())
					}
				}
			}
		}
		return nil
	},
}

func init() {
	msgBenchCmd.Flags().IntVar(&msgCount, "count", 1_000_000, "Messages to send")
	msgBenchCmd.Flags().Int64Var(&msgStride, "stride", 8, "Byte stride between target addresses")
	msgBenchCmd.Flags().IntVar(&msgBufSize, "buf-size", ntmsg.DefaultBufferSize, "Aggregation buffer size")
	rootCmd.AddCommand(msgBenchCmd)
}
