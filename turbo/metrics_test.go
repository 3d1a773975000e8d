package turbo

import (
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestEbN0Label(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1"},
		{1.5, "1.5"},
		{1.001, "1.001"},
		{-0.25, "-0.25"},
		{2.6, "2.6"},
	}
	for _, tt := range tests {
		if got := ebn0Label(tt.in); got != tt.want {
			t.Errorf("ebn0Label(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMetricsNearbyPoints(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	points := []PointResult{
		{EbN0dB: 1, BER: []float64{0.1, 0.01}},
		{EbN0dB: 1.001, BER: []float64{0.2, 0.02}},
	}
	for i := range points {
		for range i + 1 {
			m.blockDone(points[i].EbN0dB, 3)
		}
		m.pointDone(&points[i])
	}
	for i, p := range points {
		l := ebn0Label(p.EbN0dB)
		if got := gatheredValue(t, reg, "pccc_blocks_total", map[string]string{"ebn0_db": l}); got != float64(i+1) {
			t.Errorf("Eb/N0 %s: blocks_total %v, want %d", l, got, i+1)
		}
		if got := gatheredValue(t, reg, "pccc_bit_errors_total", map[string]string{"ebn0_db": l}); got != float64(3*(i+1)) {
			t.Errorf("Eb/N0 %s: bit_errors_total %v, want %d", l, got, 3*(i+1))
		}
		for n, want := range p.BER {
			labels := map[string]string{"ebn0_db": l, "iteration": strconv.Itoa(n + 1)}
			if got := gatheredValue(t, reg, "pccc_ber", labels); got != want {
				t.Errorf("Eb/N0 %s iteration %d: ber %v, want %v", l, n+1, got, want)
			}
		}
	}
}

func TestMetricsNil(t *testing.T) {
	var m *Metrics
	m.blockDone(1, 5)
	m.pointDone(&PointResult{EbN0dB: 1, BER: []float64{0.5}})
}
