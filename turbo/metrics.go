package turbo

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes sweep progress. A nil *Metrics records nothing.
type Metrics struct {
	blocks    *prometheus.CounterVec
	bitErrors *prometheus.CounterVec
	ber       *prometheus.GaugeVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		blocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pccc",
			Name:      "blocks_total",
			Help:      "Blocks decoded per operating point.",
		}, []string{"ebn0_db"}),
		bitErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pccc",
			Name:      "bit_errors_total",
			Help:      "Information bit errors at the final iteration per operating point.",
		}, []string{"ebn0_db"}),
		ber: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "pccc",
			Name:      "ber",
			Help:      "Averaged bit error rate of a finished operating point.",
		}, []string{"ebn0_db", "iteration"}),
	}
	reg.MustRegister(m.blocks, m.bitErrors, m.ber)
	return m
}

// shortest exact form, so nearby operating points never share a label
func ebn0Label(ebn0dB float64) string {
	return strconv.FormatFloat(ebn0dB, 'g', -1, 64)
}

func (m *Metrics) blockDone(ebn0dB float64, errors int) {
	if m == nil {
		return
	}
	l := ebn0Label(ebn0dB)
	m.blocks.WithLabelValues(l).Inc()
	m.bitErrors.WithLabelValues(l).Add(float64(errors))
}

func (m *Metrics) pointDone(p *PointResult) {
	if m == nil {
		return
	}
	l := ebn0Label(p.EbN0dB)
	for i, v := range p.BER {
		m.ber.WithLabelValues(l, strconv.Itoa(i+1)).Set(v)
	}
}
