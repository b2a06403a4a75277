// Package stats tracks timings and throughput for a conversion run.
// It captures how long each phase took, how much text went in and out,
// and memory usage at the end of the run.
package stats

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Stats holds performance metrics for a conversion run.
type Stats struct {
	// Timing for each phase
	ScanStart    time.Time
	ScanEnd      time.Time
	ConvertStart time.Time
	ConvertEnd   time.Time

	// Counts
	FilesScanned int
	Converted    int
	Failed       int
	Links        int
	Images       int
	Ignored      int
	Written      int
	BytesIn      int
	BytesOut     int

	// Memory stats (captured at end)
	HeapAlloc    uint64
	TotalAlloc   uint64
	NumGC        uint32
	NumGoroutine int
}

// New creates a new Stats instance.
func New() *Stats {
	return &Stats{}
}

// StartScan marks the beginning of the file scanning phase.
func (s *Stats) StartScan() {
	s.ScanStart = time.Now()
}

// EndScan marks the end of the file scanning phase.
func (s *Stats) EndScan(filesFound int) {
	s.ScanEnd = time.Now()
	s.FilesScanned = filesFound
}

// StartConvert marks the beginning of the conversion phase.
func (s *Stats) StartConvert() {
	s.ConvertStart = time.Now()
}

// Totals are the per-run counts recorded when conversion ends.
type Totals struct {
	Converted int
	Failed    int
	Links     int
	Images    int
	Ignored   int
	Written   int
	BytesIn   int
	BytesOut  int
}

// EndConvert marks the end of the conversion phase and captures memory stats.
func (s *Stats) EndConvert(t Totals) {
	s.ConvertEnd = time.Now()
	s.Converted = t.Converted
	s.Failed = t.Failed
	s.Links = t.Links
	s.Images = t.Images
	s.Ignored = t.Ignored
	s.Written = t.Written
	s.BytesIn = t.BytesIn
	s.BytesOut = t.BytesOut
	s.captureMemoryStats()
}

func (s *Stats) captureMemoryStats() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	s.HeapAlloc = m.HeapAlloc
	s.TotalAlloc = m.TotalAlloc
	s.NumGC = m.NumGC
	s.NumGoroutine = runtime.NumGoroutine()
}

// ScanDuration returns the time spent scanning for files.
func (s *Stats) ScanDuration() time.Duration {
	if s.ScanEnd.IsZero() {
		return 0
	}
	return s.ScanEnd.Sub(s.ScanStart)
}

// ConvertDuration returns the time spent converting files.
func (s *Stats) ConvertDuration() time.Duration {
	if s.ConvertEnd.IsZero() {
		return 0
	}
	return s.ConvertEnd.Sub(s.ConvertStart)
}

// TotalDuration returns the total time from scan start to convert end.
func (s *Stats) TotalDuration() time.Duration {
	if s.ConvertEnd.IsZero() || s.ScanStart.IsZero() {
		return 0
	}
	return s.ConvertEnd.Sub(s.ScanStart)
}

// FilesPerSecond returns the conversion throughput.
func (s *Stats) FilesPerSecond() float64 {
	d := s.ConvertDuration()
	if d == 0 || s.Converted == 0 {
		return 0
	}
	return float64(s.Converted) / d.Seconds()
}

// Reduction returns the share of input bytes removed by conversion, in percent.
func (s *Stats) Reduction() float64 {
	if s.BytesIn == 0 {
		return 0
	}
	return float64(s.BytesIn-s.BytesOut) / float64(s.BytesIn) * 100
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%.1fs", int(d.Minutes()), d.Seconds()-float64(int(d.Minutes())*60))
}

// FormatBytes formats a byte count using IEC units (KiB, MiB, ...).
func FormatBytes(bytes uint64) string {
	return humanize.IBytes(bytes)
}

func (s *Stats) share(d time.Duration) string {
	total := s.TotalDuration()
	if total <= 0 {
		return ""
	}
	return fmt.Sprintf("  (%4.1f%%)", float64(d)/float64(total)*100)
}

// String returns a formatted string representation of the stats.
func (s *Stats) String() string {
	var b strings.Builder

	b.WriteString("\n=== Performance Statistics ===\n\n")

	b.WriteString("Timing:\n")
	b.WriteString(fmt.Sprintf("  Scan files:    %8s%s\n", FormatDuration(s.ScanDuration()), s.share(s.ScanDuration())))
	b.WriteString(fmt.Sprintf("  Convert:       %8s%s\n",
		FormatDuration(s.ConvertDuration()), s.share(s.ConvertDuration())))
	b.WriteString("  ─────────────────────────\n")
	b.WriteString(fmt.Sprintf("  Total:         %8s\n", FormatDuration(s.TotalDuration())))

	b.WriteString("\nThroughput:\n")
	b.WriteString(fmt.Sprintf("  Files scanned:     %5d\n", s.FilesScanned))
	b.WriteString(fmt.Sprintf("  Converted:         %5d\n", s.Converted))
	if s.Failed > 0 {
		b.WriteString(fmt.Sprintf("  Failed:            %5d\n", s.Failed))
	}
	b.WriteString(fmt.Sprintf("  Links:             %5d\n", s.Links))
	b.WriteString(fmt.Sprintf("  Images:            %5d\n", s.Images))
	if s.Ignored > 0 {
		b.WriteString(fmt.Sprintf("  Ignored:           %5d\n", s.Ignored))
	}
	if s.Written > 0 {
		b.WriteString(fmt.Sprintf("  Written:           %5d\n", s.Written))
	}
	b.WriteString(fmt.Sprintf("  Files/second:      %5.1f\n", s.FilesPerSecond()))

	b.WriteString("\nText:\n")
	b.WriteString(fmt.Sprintf("  Bytes in:      %8s\n", humanize.Bytes(uint64(max(s.BytesIn, 0)))))
	b.WriteString(fmt.Sprintf("  Bytes out:     %8s\n", humanize.Bytes(uint64(max(s.BytesOut, 0)))))
	b.WriteString(fmt.Sprintf("  Reduction:     %7.1f%%\n", s.Reduction()))

	b.WriteString("\nMemory:\n")
	b.WriteString(fmt.Sprintf("  Heap in use:   %8s\n", FormatBytes(s.HeapAlloc)))
	b.WriteString(fmt.Sprintf("  Total alloc:   %8s\n", FormatBytes(s.TotalAlloc)))
	b.WriteString(fmt.Sprintf("  GC cycles:     %8s\n", humanize.Comma(int64(s.NumGC))))
	b.WriteString(fmt.Sprintf("  Goroutines:    %8d\n", s.NumGoroutine))

	return b.String()
}

// ToJSON returns a map suitable for JSON serialization.
func (s *Stats) ToJSON() map[string]any {
	return map[string]any{
		"timing": map[string]any{
			"scan_ms":    s.ScanDuration().Milliseconds(),
			"convert_ms": s.ConvertDuration().Milliseconds(),
			"total_ms":   s.TotalDuration().Milliseconds(),
		},
		"throughput": map[string]any{
			"files_scanned":    s.FilesScanned,
			"converted":        s.Converted,
			"failed":           s.Failed,
			"links":            s.Links,
			"images":           s.Images,
			"ignored":          s.Ignored,
			"written":          s.Written,
			"files_per_second": s.FilesPerSecond(),
		},
		"text": map[string]any{
			"bytes_in":      s.BytesIn,
			"bytes_out":     s.BytesOut,
			"reduction_pct": s.Reduction(),
		},
		"memory": map[string]any{
			"heap_bytes":  s.HeapAlloc,
			"total_bytes": s.TotalAlloc,
			"gc_cycles":   s.NumGC,
			"goroutines":  s.NumGoroutine,
		},
	}
}
