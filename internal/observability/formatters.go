// Package observability provides formatted output utilities for the
// CLI status commands.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/44frames/stage-vision/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
)

// Printer handles formatted output for the CLI.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJob outputs a human-readable summary of a staging job.
func (p *Printer) PrintJob(job *types.Job) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Address:   %s\n", job.Address))
	sb.WriteString(fmt.Sprintf("Client:    %s <%s>\n", job.Contact.Name, job.Contact.Email))
	sb.WriteString(fmt.Sprintf("Style:     %s\n", job.Style.DisplayName()))
	sb.WriteString(fmt.Sprintf("Stage:     %s\n", job.Stage))
	sb.WriteString(fmt.Sprintf("Delivered: %v\n", job.Delivered))
	if job.LastError != "" {
		sb.WriteString(fmt.Sprintf("Error:     %s\n", job.LastError))
	}

	if len(job.Units) > 0 {
		sb.WriteString("\nPhotos:\n")
		for i := range job.Units {
			unit := &job.Units[i]
			sb.WriteString(fmt.Sprintf("  %-8s %-12s", unit.ID, unit.Status))
			if unit.RoomType != "" {
				sb.WriteString(fmt.Sprintf(" %-14s", unit.RoomType))
			}
			if unit.Attempts > 0 {
				sb.WriteString(fmt.Sprintf(" attempts=%d", unit.Attempts))
			}
			sb.WriteString("\n")
			if unit.LastError != "" {
				sb.WriteString(fmt.Sprintf("           %s\n", unit.LastError))
			}
		}
	}

	p.printBox(fmt.Sprintf("JOB %s", job.ID), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobList outputs one line per job summary, newest first.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintJobList(summaries []types.JobSummary) {
	if len(summaries) == 0 {
		fmt.Fprintln(p.out, "no jobs found")
		return
	}

	fmt.Fprintf(p.out, "%-36s %-12s %6s  %-19s %s\n", "JOB", "STAGE", "PHOTOS", "UPDATED", "ADDRESS")
	for _, s := range summaries {
		fmt.Fprintf(p.out, "%-36s %-12s %6d  %-19s %s\n",
			s.ID, s.Stage, s.Units, s.UpdatedAt.Format("2006-01-02 15:04:05"), s.Address)
	}
}
