// Package report renders the structured records a simulation run emits
// (des.BlockCloseEvent, des.RunSummary) as human-facing progress output.
// It is a consumer of the core, never imported back by it.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	colorable "github.com/mattn/go-colorable"
	"github.com/olekukonko/tablewriter"

	"github.com/gossimlabs/gossipdes/des"
)

// Reporter renders per-block progress and the final run summary.
type Reporter struct {
	out   io.Writer
	quiet bool
}

// New returns a Reporter writing to a colorable stdout. When quiet is
// true, per-block progress is suppressed but the final summary still
// renders.
func New(quiet bool) *Reporter {
	return &Reporter{out: colorable.NewColorableStdout(), quiet: quiet}
}

// NewWithWriter returns a Reporter writing to an arbitrary writer, mainly
// for tests.
func NewWithWriter(w io.Writer, quiet bool) *Reporter {
	return &Reporter{out: w, quiet: quiet}
}

var (
	heightColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	warnColor   = color.New(color.FgYellow).SprintFunc()
)

// OnBlockClose renders one BlockCloseEvent. It matches the
// des.OnBlockClose signature and can be passed directly to Scheduler.Run.
func (r *Reporter) OnBlockClose(ev des.BlockCloseEvent) {
	if r.quiet {
		return
	}
	fmt.Fprintf(r.out, "(t:%s) Block #%s has been closed by agent %d\n",
		Humanize(ev.VirtualTime), heightColor(ev.BlockHeight), ev.ClosingAgentID)
	fmt.Fprintf(r.out, "      It took %s and %d epoch(s) to close the block.\n",
		Humanize(ev.DeltaSincePrevClose), ev.EpochsSincePrevClose)
	fmt.Fprintf(r.out, "      The current global model has %s of experience.\n",
		Humanize(ev.CumulativeExperience))
	fmt.Fprintf(r.out, "      There were %d direct messages sent over the network.\n",
		ev.DirectMessagesSinceStart)
}

// OnComplete renders the simulation-complete summary as a table.
func (r *Reporter) OnComplete(summary des.RunSummary) {
	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{"metric", "value"})
	table.Append([]string{"wall clock", Humanize(summary.WallClock.Seconds())})
	table.Append([]string{"simulated time", Humanize(summary.VirtualTimeTotal)})
	table.Append([]string{"completed blocks", fmt.Sprintf("%d", summary.CompletedBlockCount)})
	table.Append([]string{"avg time per block", Humanize(summary.MeanTimePerBlock)})
	table.Append([]string{"avg epochs per block", fmt.Sprintf("%.2f", summary.MeanEpochsPerBlock)})
	table.Append([]string{"experience accumulated", Humanize(summary.CumulativeExperience)})
	table.Append([]string{"avg direct messages per block", fmt.Sprintf("%.2f", summary.MeanDirectMessagesPerBlock)})
	if summary.TerminatedEarly {
		table.Append([]string{"note", warnColor("event queue drained before the requested block count was reached")})
	}
	table.Render()
}

// Stdout is the writer New() would otherwise construct; exposed so
// cmd/gossipsim can default to it without importing go-colorable itself.
func Stdout() io.Writer { return colorable.NewColorableStdout() }
