package services

import (
	"io"
	"log"
)

// Phase identifies where in its lifecycle an upload currently is.
type Phase string

const (
	PhaseValidating Phase = "validating"
	PhaseUploading  Phase = "uploading"
	PhaseFinalizing Phase = "finalizing"
	PhaseSigning    Phase = "signing"
	PhaseDone       Phase = "done"
)

// ProgressEvent is one completion signal pushed during an upload. Percent is
// non-decreasing within a single upload's lifetime.
type ProgressEvent struct {
	Phase   Phase   `json:"phase"`
	Percent float64 `json:"percent"`
}

// ProgressReporter receives progress events. It is write-only from the
// orchestrator's perspective; implementations may log, forward to the
// protocol layer, or no-op. Report is called synchronously, so
// implementations should return quickly.
type ProgressReporter interface {
	Report(event ProgressEvent)
}

// ReporterFunc adapts a function to the ProgressReporter interface.
type ReporterFunc func(event ProgressEvent)

// Report calls f(event).
func (f ReporterFunc) Report(event ProgressEvent) {
	f(event)
}

// NopReporter discards all events.
type NopReporter struct{}

func (NopReporter) Report(ProgressEvent) {}

// LogReporter writes progress events to the process log, tagged with the
// object key.
type LogReporter struct {
	Key string
}

func (r LogReporter) Report(event ProgressEvent) {
	log.Printf("📊 Upload %s: %s %.1f%%", r.Key, event.Phase, event.Percent)
}

// monotonicReporter clamps percentages so that no event ever reports a lower
// value than a previously pushed one, regardless of what the wrapped
// reporter's caller does.
type monotonicReporter struct {
	next ProgressReporter
	last float64
}

func newMonotonicReporter(next ProgressReporter) *monotonicReporter {
	return &monotonicReporter{next: next}
}

func (m *monotonicReporter) Report(event ProgressEvent) {
	if event.Percent < m.last {
		event.Percent = m.last
	} else {
		m.last = event.Percent
	}
	m.next.Report(event)
}

// milestoneReader wraps an io.Reader and invokes the callback with the
// percentage of total bytes read whenever a milestone threshold is crossed.
// Milestones must be sorted ascending.
type milestoneReader struct {
	reader     io.Reader
	total      int64
	read       int64
	milestones []float64
	next       int
	callback   func(percent float64)
}

func newMilestoneReader(r io.Reader, total int64, milestones []float64, callback func(percent float64)) *milestoneReader {
	return &milestoneReader{
		reader:     r,
		total:      total,
		milestones: milestones,
		callback:   callback,
	}
}

func (mr *milestoneReader) Read(p []byte) (int, error) {
	n, err := mr.reader.Read(p)
	if n > 0 && mr.total > 0 && mr.callback != nil {
		mr.read += int64(n)
		percent := float64(mr.read) / float64(mr.total) * 100
		for mr.next < len(mr.milestones) && percent >= mr.milestones[mr.next] {
			mr.callback(mr.milestones[mr.next])
			mr.next++
		}
	}
	return n, err
}
