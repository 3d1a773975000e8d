package turbo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every parameter of a simulation run.
type Config struct {
	// [code]
	Generators       []uint
	ConstraintLength int
	PermLen          int // bits per block, tail included
	Pattern          PuncturePattern
	Metric           MAPMetric

	// [channel]
	EbN0dB []float64
	Ec     float64 // coded bit energy

	// [run]
	Iterations  int
	ErrorsLimit int
	BitsLimit   int
	Seed        uint64
	Workers     int
	Output      string
}

func DefaultConfig() Config {
	return Config{
		Generators:       append([]uint(nil), DefaultGenerators...),
		ConstraintLength: DefaultConstraintLength,
		PermLen:          4096,
		Pattern:          DefaultPuncturePattern,
		Metric:           MaxLogMAP,
		EbN0dB:           mustRange("1:0.1:2.6"),
		Ec:               1.0,
		Iterations:       10,
		ErrorsLimit:      3000,
		BitsLimit:        1e6,
		Workers:          1,
	}
}

// LoadConfig reads an INI file (or []byte / io.Reader, anything ini.Load
// accepts) on top of DefaultConfig. Comments must start a line.
//
//	[code]
//	generators = 07 05
//	constraint_length = 3
//	perm_len = 4096
//	puncturing = 1 0 1; 1 1 0
//	map_metric = maxlogMAP
//	[channel]
//	ebn0_db = 1:0.1:2.6
//	ec = 1.0
//	[run]
//	iterations = 10
//	errors_limit = 3000
//	bits_limit = 1e6
//	seed = 0
//	workers = 1
//	output = Res/pccc.yaml
func LoadConfig(source any) (Config, error) {
	cfg := DefaultConfig()
	// ';' separates puncturing rows, so it can't start a comment
	f, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, source)
	if err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	code := f.Section("code")
	if code.HasKey("generators") {
		cfg.Generators, err = ParseGenerators(code.Key("generators").String())
		if err != nil {
			return cfg, err
		}
	}
	if err = intKey(code, "constraint_length", &cfg.ConstraintLength); err != nil {
		return cfg, err
	}
	if err = intKey(code, "perm_len", &cfg.PermLen); err != nil {
		return cfg, err
	}
	if code.HasKey("puncturing") {
		cfg.Pattern, err = ParsePuncturePattern(code.Key("puncturing").String())
		if err != nil {
			return cfg, err
		}
	}
	if code.HasKey("map_metric") {
		cfg.Metric, err = ParseMAPMetric(code.Key("map_metric").String())
		if err != nil {
			return cfg, err
		}
	}

	channel := f.Section("channel")
	if channel.HasKey("ebn0_db") {
		cfg.EbN0dB, err = ParseRange(channel.Key("ebn0_db").String())
		if err != nil {
			return cfg, err
		}
	}
	if channel.HasKey("ec") {
		cfg.Ec, err = channel.Key("ec").Float64()
		if err != nil {
			return cfg, fmt.Errorf("%w: [channel] ec: %v", ErrInvalidConfig, err)
		}
	}

	run := f.Section("run")
	if err = intKey(run, "iterations", &cfg.Iterations); err != nil {
		return cfg, err
	}
	if err = intKey(run, "errors_limit", &cfg.ErrorsLimit); err != nil {
		return cfg, err
	}
	if err = intKey(run, "bits_limit", &cfg.BitsLimit); err != nil {
		return cfg, err
	}
	if err = intKey(run, "workers", &cfg.Workers); err != nil {
		return cfg, err
	}
	if run.HasKey("seed") {
		cfg.Seed, err = run.Key("seed").Uint64()
		if err != nil {
			return cfg, fmt.Errorf("%w: [run] seed: %v", ErrInvalidConfig, err)
		}
	}
	cfg.Output = run.Key("output").MustString(cfg.Output)

	return cfg, nil
}

// intKey accepts plain integers as well as exponent forms like 1e6.
func intKey(sec *ini.Section, name string, dst *int) error {
	if !sec.HasKey(name) {
		return nil
	}
	v, err := sec.Key(name).Float64()
	if err != nil || v != math.Trunc(v) {
		return fmt.Errorf("%w: [%s] %s=%q is not an integer", ErrInvalidConfig, sec.Name(), name, sec.Key(name).String())
	}
	*dst = int(v)
	return nil
}

// Validate reports configuration errors that would make rates or block
// lengths meaningless. It runs before any block is processed.
func (c Config) Validate() error {
	if _, err := c.NewCode(); err != nil {
		return err
	}
	switch {
	case c.Iterations < 1:
		return fmt.Errorf("%w: iterations must be at least 1", ErrInvalidConfig)
	case c.ErrorsLimit < 1:
		return fmt.Errorf("%w: errors limit must be positive", ErrInvalidConfig)
	case c.BitsLimit < 1:
		return fmt.Errorf("%w: bits limit must be positive", ErrInvalidConfig)
	case len(c.EbN0dB) == 0:
		return fmt.Errorf("%w: no Eb/N0 operating point", ErrInvalidConfig)
	case c.Ec <= 0:
		return fmt.Errorf("%w: coded bit energy must be positive", ErrInvalidConfig)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidConfig)
	}
	return nil
}

func (c Config) NewCode() (*Code, error) {
	enc, err := NewRSC(c.Generators, c.ConstraintLength)
	if err != nil {
		return nil, err
	}
	return NewCode(enc, c.Pattern, c.PermLen)
}

// ParseRange reads either "start:step:stop" (stop included, within rounding)
// or a list of values separated by spaces or commas.
func ParseRange(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("%w: range %q must be start:step:stop", ErrInvalidConfig, s)
		}
		var v [3]float64
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: range %q: %v", ErrInvalidConfig, s, err)
			}
			v[i] = f
		}
		start, step, stop := v[0], v[1], v[2]
		if step == 0 || (stop-start)/step < 0 {
			return nil, fmt.Errorf("%w: range %q is empty", ErrInvalidConfig, s)
		}
		n := int(math.Floor((stop-start)/step+1e-9)) + 1
		out := make([]float64, n)
		for i := range out {
			// round away the accumulated binary error of the step
			out[i] = math.Round((start+float64(i)*step)*1e9) / 1e9
		}
		return out, nil
	}
	var out []float64
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' }) {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: value %q: %v", ErrInvalidConfig, f, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty value list", ErrInvalidConfig)
	}
	return out, nil
}

func mustRange(s string) []float64 {
	r, err := ParseRange(s)
	if err != nil {
		panic(err)
	}
	return r
}
