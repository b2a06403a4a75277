package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// finished returns stats for a run that scanned for 100ms and converted for 400ms.
func finished() *Stats {
	base := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	s := New()
	s.ScanStart = base
	s.ScanEnd = base.Add(100 * time.Millisecond)
	s.ConvertStart = s.ScanEnd
	s.EndConvert(Totals{Converted: 4, Links: 10, Images: 2, BytesIn: 2000, BytesOut: 1500})
	s.ConvertEnd = s.ConvertStart.Add(400 * time.Millisecond)
	return s
}

func TestNew(t *testing.T) {
	t.Parallel()

	s := New()

	require.NotNil(t, s)
	assert.True(t, s.ScanStart.IsZero())
	assert.True(t, s.ScanEnd.IsZero())
	assert.True(t, s.ConvertStart.IsZero())
	assert.True(t, s.ConvertEnd.IsZero())
	assert.Equal(t, 0, s.FilesScanned)
	assert.Equal(t, 0, s.Converted)
	assert.Equal(t, 0, s.BytesIn)
}

func TestScanPhase(t *testing.T) {
	t.Parallel()

	t.Run("StartScan", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.StartScan()

		assert.False(t, s.ScanStart.IsZero())
		assert.True(t, s.ScanEnd.IsZero())
		assert.Equal(t, time.Duration(0), s.ScanDuration())
	})

	t.Run("EndScan", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.StartScan()
		s.EndScan(25)

		assert.False(t, s.ScanEnd.IsZero())
		assert.Equal(t, 25, s.FilesScanned)
		assert.GreaterOrEqual(t, s.ScanDuration(), time.Duration(0))
	})
}

func TestConvertPhase(t *testing.T) {
	t.Parallel()

	t.Run("EndConvertRecordsTotals", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.StartConvert()
		s.EndConvert(Totals{
			Converted: 3, Failed: 1, Links: 7, Images: 2,
			Ignored: 1, Written: 3, BytesIn: 900, BytesOut: 600,
		})

		assert.Equal(t, 3, s.Converted)
		assert.Equal(t, 1, s.Failed)
		assert.Equal(t, 7, s.Links)
		assert.Equal(t, 2, s.Images)
		assert.Equal(t, 1, s.Ignored)
		assert.Equal(t, 3, s.Written)
		assert.Equal(t, 900, s.BytesIn)
		assert.Equal(t, 600, s.BytesOut)
		assert.Positive(t, s.NumGoroutine)
		assert.Positive(t, s.TotalAlloc)
	})

	t.Run("Durations", func(t *testing.T) {
		t.Parallel()
		s := finished()

		assert.Equal(t, 100*time.Millisecond, s.ScanDuration())
		assert.Equal(t, 400*time.Millisecond, s.ConvertDuration())
		assert.Equal(t, 500*time.Millisecond, s.TotalDuration())
	})

	t.Run("TotalZeroWhenIncomplete", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.StartScan()
		s.EndScan(1)

		assert.Equal(t, time.Duration(0), s.TotalDuration())
	})
}

func TestFilesPerSecond(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.0, New().FilesPerSecond(), 0.001)
	assert.InDelta(t, 10.0, finished().FilesPerSecond(), 0.001)
}

func TestReduction(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.0, New().Reduction(), 0.001)
	assert.InDelta(t, 25.0, finished().Reduction(), 0.001)
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{name: "Zero", duration: 0, expected: "0µs"},
		{name: "Microseconds", duration: 500 * time.Microsecond, expected: "500µs"},
		{name: "Milliseconds", duration: 500 * time.Millisecond, expected: "500ms"},
		{name: "Seconds", duration: 2500 * time.Millisecond, expected: "2.5s"},
		{name: "Minutes", duration: 65 * time.Second, expected: "1m5.0s"},
		{name: "MultipleMinutes", duration: 125 * time.Second, expected: "2m5.0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FormatDuration(tt.duration))
		})
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bytes    uint64
		expected string
	}{
		{name: "Zero", bytes: 0, expected: "0 B"},
		{name: "Bytes", bytes: 500, expected: "500 B"},
		{name: "Kibibytes", bytes: 1536, expected: "1.5 KiB"},
		{name: "Mebibytes", bytes: 1572864, expected: "1.5 MiB"},
		{name: "Gibibytes", bytes: 1610612736, expected: "1.5 GiB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FormatBytes(tt.bytes))
		})
	}
}

func TestString(t *testing.T) {
	t.Parallel()

	t.Run("ContainsAllSections", func(t *testing.T) {
		t.Parallel()

		output := finished().String()

		assert.Contains(t, output, "Performance Statistics")
		assert.Contains(t, output, "Scan files:")
		assert.Contains(t, output, "(20.0%)")
		assert.Contains(t, output, "(80.0%)")
		assert.Contains(t, output, "Converted:")
		assert.Contains(t, output, "Files/second:")
		assert.Contains(t, output, "2.0 kB")
		assert.Contains(t, output, "Reduction:")
		assert.Contains(t, output, "Heap in use:")
		assert.Contains(t, output, "Goroutines:")
	})

	t.Run("OptionalCountsHiddenWhenZero", func(t *testing.T) {
		t.Parallel()

		output := New().String()
		assert.NotContains(t, output, "Failed:")
		assert.NotContains(t, output, "Ignored:")
		assert.NotContains(t, output, "Written:")
	})

	t.Run("OptionalCountsShownWhenPresent", func(t *testing.T) {
		t.Parallel()

		s := New()
		s.Failed, s.Ignored, s.Written = 1, 2, 3

		output := s.String()
		assert.Contains(t, output, "Failed:")
		assert.Contains(t, output, "Ignored:")
		assert.Contains(t, output, "Written:")
	})
}

func TestToJSON(t *testing.T) {
	t.Parallel()

	m := finished().ToJSON()

	timing, ok := m["timing"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(100), timing["scan_ms"])
	assert.Equal(t, int64(400), timing["convert_ms"])

	throughput, ok := m["throughput"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 4, throughput["converted"])
	assert.Equal(t, 10, throughput["links"])

	text, ok := m["text"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 2000, text["bytes_in"])
	assert.Contains(t, m, "memory")
}
