package replay

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/vango-dev/substate/pkg/reactive"
	"github.com/vango-dev/substate/pkg/substate"
)

// Report summarizes a script run.
type Report struct {
	Script    string
	Mode      reactive.Mode
	Steps     int
	Store     map[string]any
	Consumers []ConsumerReport
}

// ConsumerReport describes one consumer after a run.
type ConsumerReport struct {
	ID  string
	Key substate.Key

	// Renders counts the mount render and every re-render caused by a
	// notification.
	Renders int

	// Value is what the consumer last rendered with.
	Value any

	Unmounted bool
}

// Consumer returns the report of consumer id.
func (r *Report) Consumer(id string) (ConsumerReport, bool) {
	for _, c := range r.Consumers {
		if c.ID == id {
			return c, true
		}
	}
	return ConsumerReport{}, false
}

// Write prints the report as a table.
func (r *Report) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s: %d steps (%s)\n\n", r.Script, r.Steps, r.Mode); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CONSUMER\tKEY\tRENDERS\tVALUE\t")
	for _, c := range r.Consumers {
		value := render(c.Value)
		if c.Unmounted {
			value += " (unmounted)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t\n", c.ID, c.Key, c.Renders, value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nstore: %s\n", render(r.Store))
	return err
}

// WriteMetrics writes every metric family gathered from g in the Prometheus
// text exposition format.
func WriteMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
