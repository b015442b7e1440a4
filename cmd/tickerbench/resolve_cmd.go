package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	runner "TickerBench/internal/bench/runners"
	"TickerBench/pkg/validator"

	"github.com/spf13/cobra"
)

func newResolveCmd(root *rootOptions) *cobra.Command {
	var (
		recordType string
		connect    bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve every endpoint host before benchmarking",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}

			registry, err := cfg.Registry()
			if err != nil {
				return err
			}

			if recordType == "" {
				recordType = cfg.DNS.RecordType
			}
			resolver := runner.NewDNSRunner(cfg.DNS.Server, cfg.DNS.Timeout)
			dialer := runner.NewTCPRunner(cfg.Benchmark.Timeout)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TARGET\tHOST\tTYPE\tRECORDS\tRTT\tCONNECT\tERROR")

			failed := 0
			seen := make(map[string]bool)
			for _, ep := range registry.Endpoints() {
				// one lookup per target host, categories often share it
				key := ep.Name + "|" + validator.HostOf(ep.URL)
				if seen[key] {
					continue
				}
				seen[key] = true

				res := resolver.ResolveEndpoint(cmd.Context(), ep, recordType)
				if res.Error != "" {
					failed++
					log.Warn("DNS resolution failed", "target", res.Target, "host", res.Host, "error", res.Error)
				}

				connectTime, errText := "-", res.Error
				if connect && res.Error == "" {
					conn := dialer.Connect(cmd.Context(), ep)
					if conn.Open() {
						connectTime = conn.ConnectTime.Round(100 * time.Microsecond).String()
					} else {
						failed++
						errText = conn.Error
						log.Warn("TCP connect failed", "target", conn.Target, "address", conn.Address, "error", conn.Error)
					}
				}

				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					res.Target, res.Host, res.RecordType,
					strings.Join(res.Records, ","), res.RTT.Round(100*time.Microsecond), connectTime, errText)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if failed > 0 {
				return fmt.Errorf("%d endpoint host(s) failed the pre-flight check", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&recordType, "type", "", "record type (A|AAAA|CNAME)")
	cmd.Flags().BoolVar(&connect, "connect", false, "also measure the TCP handshake to every endpoint")
	return cmd
}
