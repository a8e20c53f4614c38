package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/dom"
	"github.com/vango-dev/reactor/pkg/metrics"
	"github.com/vango-dev/reactor/pkg/vdom"
)

func diffCmd(configDir *string) *cobra.Command {
	var withMetrics bool

	cmd := &cobra.Command{
		Use:   "diff <old-keys> <new-keys>",
		Short: "Trace the host operations of a keyed list update",
		Long: `Mount a keyed list, patch it to a new key order and print every
host operation the patch engine performs.

Keys are comma separated:

  reactor diff a,b,c,d,e a,c,b,e,f

With --metrics (or metrics.enabled in the config) the renderer also feeds a
Prometheus collector and the gathered samples are printed at the end.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*configDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			for _, arg := range args {
				if len(splitKeys(arg)) == 0 {
					return errors.New("R410").WithDetailf("no keys in %q", arg)
				}
			}

			doc := dom.NewDocument()
			container := doc.CreateElement("div")
			doc.Insert(container, doc.Body(), nil)
			rec := dom.NewRecorder(doc)

			var host dom.Host = rec
			opts := []vdom.Option{vdom.WithLogger(logger)}
			var reg *prometheus.Registry
			if withMetrics || cfg.Metrics.Enabled {
				reg = prometheus.NewRegistry()
				collector := metrics.New(metrics.WithRegistry(reg), metrics.WithNamespace(cfg.Metrics.Namespace))
				host = metrics.InstrumentHost(rec, collector)
				opts = append(opts, vdom.WithObserver(collector))
			}
			r := vdom.NewRenderer(host, opts...)

			r.Render(keyedList(splitKeys(args[0])), container)
			rec.Reset()
			r.Render(keyedList(splitKeys(args[1])), container)

			out := cmd.OutOrStdout()
			for _, call := range rec.Calls() {
				fmt.Fprintf(out, "%-16s %s\n", call.Op, describeCall(call))
			}
			var counts []string
			for _, op := range rec.Summary() {
				counts = append(counts, fmt.Sprintf("%s=%d", op, rec.Count(op)))
			}
			fmt.Fprintf(out, "\n%d ops (%s)\n", rec.Total(), strings.Join(counts, ", "))
			fmt.Fprintln(out, dom.InnerHTML(container))

			if reg != nil {
				fmt.Fprintln(out, "\nmetrics (both renders):")
				return printMetrics(out, reg)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withMetrics, "metrics", false, "Collect Prometheus metrics for the patch and print them")
	return cmd
}

// printMetrics writes every counter and histogram sample in reg, one per
// line, in the order Gather returns them.
func printMetrics(w io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(w, "  %s %g\n", name, m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				fmt.Fprintf(w, "  %s count=%d sum=%g\n", name, m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum())
			}
		}
	}
	return nil
}

func splitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func keyedList(keys []string) *vdom.VNode {
	items := make([]*vdom.VNode, len(keys))
	for i, k := range keys {
		items[i] = vdom.Keyed(k, vdom.Li(nil, k))
	}
	return vdom.Ul(nil, items)
}

func describeCall(c dom.Call) string {
	if c.Node == nil {
		return c.Arg
	}
	desc := dom.OuterHTML(c.Node)
	if c.Arg != "" {
		desc += " " + c.Arg
	}
	return desc
}
