package turbo

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// PointResult is the averaged BER curve of one operating point.
type PointResult struct {
	EbN0dB float64   `yaml:"ebn0_db"`
	Sigma2 float64   `yaml:"sigma2"`
	Blocks int       `yaml:"blocks"`
	Bits   int       `yaml:"bits"`
	Errors int       `yaml:"errors"` // at the final iteration
	BER    []float64 `yaml:"ber"`    // one value per iteration
}

// Results is the outcome of a sweep plus the parameters that produced it.
type Results struct {
	RunID            string        `yaml:"run_id"`
	Rate             float64       `yaml:"rate"`
	Generators       []string      `yaml:"generators"`
	ConstraintLength int           `yaml:"constraint_length"`
	Puncturing       string        `yaml:"puncturing"`
	MAPMetric        string        `yaml:"map_metric"`
	Iterations       int           `yaml:"nb_iter"`
	PermLen          int           `yaml:"perm_len"`
	ErrorsLimit      int           `yaml:"nb_errors_lim"`
	BitsLimit        int           `yaml:"nb_bits_lim"`
	Seed             uint64        `yaml:"seed"`
	Points           []PointResult `yaml:"points"`
}

func newResults(s *Sweep) *Results {
	r := &Results{
		RunID:            uuid.NewString(),
		Rate:             s.Code.Rate,
		Generators:       FormatGenerators(s.Code.Encoder.Generators()),
		ConstraintLength: s.Code.Encoder.ConstraintLength(),
		Puncturing:       s.Code.Pattern.String(),
		MAPMetric:        s.Metric.String(),
		Iterations:       s.Iterations,
		PermLen:          s.Code.PermLen,
		ErrorsLimit:      s.ErrorsLimit,
		BitsLimit:        s.BitsLimit,
		Seed:             s.Seed,
		Points:           make([]PointResult, len(s.EbN0dB)),
	}
	for i, e := range s.EbN0dB {
		r.Points[i] = PointResult{
			EbN0dB: e,
			Sigma2: NoiseVariance(e, s.Ec, s.Code.Rate),
			BER:    make([]float64, s.Iterations),
		}
	}
	return r
}

// BER returns the averaged bit error rate at (iteration, operating point).
func (r *Results) BER(iteration, point int) float64 {
	return r.Points[point].BER[iteration]
}

func (r *Results) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return enc.Close()
}

// Save writes the results as YAML, creating the parent directory.
func (r *Results) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create results directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create results file '%s': %w", path, err)
	}
	if err := r.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteTable prints one row per operating point and one BER column per
// iteration.
func (r *Results) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	hdr := []string{"Eb/N0", "blocks", "errors"}
	for i := 0; i < r.Iterations; i++ {
		hdr = append(hdr, fmt.Sprintf("it%d", i+1))
	}
	fmt.Fprintln(tw, strings.Join(hdr, "\t")+"\t")
	for _, p := range r.Points {
		row := []string{fmt.Sprintf("%.2f", p.EbN0dB), fmt.Sprint(p.Blocks), fmt.Sprint(p.Errors)}
		for _, b := range p.BER {
			row = append(row, fmt.Sprintf("%.3e", b))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	return tw.Flush()
}
