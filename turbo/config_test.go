package turbo

import (
	"errors"
	"reflect"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	data := []byte(`
[code]
generators = 013 015
constraint_length = 4
perm_len = 1028
puncturing = 1 1 0; 1 0 0; 1 0 1; 1 0 0
map_metric = logMAP

[channel]
ebn0_db = 0.5 1 1.5
ec = 2

[run]
iterations = 6
errors_limit = 500
bits_limit = 2e5
seed = 99
workers = 4
output = out/res.yaml
`)
	got, err := LoadConfig(data)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	want := Config{
		Generators:       []uint{013, 015},
		ConstraintLength: 4,
		PermLen:          1028,
		Pattern:          rate23Pattern,
		Metric:           LogMAP,
		EbN0dB:           []float64{0.5, 1, 1.5},
		Ec:               2,
		Iterations:       6,
		ErrorsLimit:      500,
		BitsLimit:        200000,
		Seed:             99,
		Workers:          4,
		Output:           "out/res.yaml",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadConfig() = %+v\nwant %+v", got, want)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	got, err := LoadConfig([]byte("[run]\nseed = 3\n"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	want := DefaultConfig()
	want.Seed = 3
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadConfig() = %+v\nwant %+v", got, want)
	}
	if len(want.EbN0dB) != 17 || want.EbN0dB[0] != 1 || want.EbN0dB[16] != 2.6 {
		t.Errorf("default Eb/N0 range = %v", want.EbN0dB)
	}
	if err := want.Validate(); err != nil {
		t.Errorf("default configuration is invalid: %v", err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"fractional perm_len", "[code]\nperm_len = 10.5\n", ErrInvalidConfig},
		{"bad metric", "[code]\nmap_metric = SOVA\n", ErrInvalidCode},
		{"bad pattern", "[code]\npuncturing = 1 1\n", ErrInvalidPattern},
		{"bad generator", "[code]\ngenerators = 9 5\n", ErrInvalidCode},
		{"bad range", "[channel]\nebn0_db = 2:0:3\n", ErrInvalidConfig},
		{"bad seed", "[run]\nseed = -1\n", ErrInvalidConfig},
		{"bad ec", "[channel]\nec = high\n", ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig([]byte(tt.data)); !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadConfig() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    []float64
		wantErr bool
	}{
		{"0:0.5:2", []float64{0, 0.5, 1, 1.5, 2}, false},
		{"1:0.1:1.3", []float64{1, 1.1, 1.2, 1.3}, false},
		{"3:-1:1", []float64{3, 2, 1}, false},
		{"2", []float64{2}, false},
		{"1, 2.5,4", []float64{1, 2.5, 4}, false},
		{"1:0:2", nil, true},
		{"2:1:1", nil, true},
		{"1:2", nil, true},
		{"a b", nil, true},
		{"", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRange(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRange() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseRange() = %v, want %v", got, tt.want)
			}
		})
	}
}
