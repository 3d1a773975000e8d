package turbo

import (
	"math"
	"math/rand/v2"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/stat"
)

func TestBPSK(t *testing.T) {
	var bpsk BPSK
	bits := []byte{0, 1, 1, 0}
	sym := bpsk.Modulate(bits)
	if want := []float64{1, -1, -1, 1}; !reflect.DeepEqual(sym, want) {
		t.Errorf("Modulate() = %v, want %v", sym, want)
	}
	if got := bpsk.Demodulate(sym); !reflect.DeepEqual(got, bits) {
		t.Errorf("Demodulate() = %v, want %v", got, bits)
	}
}

func TestHardDecision(t *testing.T) {
	// ln(P1/P0) > 0 favours bit 1
	got := HardDecision([]float64{3.2, -0.1, 1e-9, -7})
	if want := []byte{1, 0, 1, 0}; !reflect.DeepEqual(got, want) {
		t.Errorf("HardDecision() = %v, want %v", got, want)
	}
}

func TestNoiseVariance(t *testing.T) {
	tests := []struct {
		ebn0, ec, r float64
		want        float64
	}{
		{0, 1, 0.5, 1},
		{10, 1, 0.5, 0.1},
		{0, 1, 1.0 / 3, 1.5},
		{3, 2, 0.5, 2 / math.Pow(10, 0.3)},
	}
	for _, tt := range tests {
		if got := NoiseVariance(tt.ebn0, tt.ec, tt.r); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("NoiseVariance(%v, %v, %v) = %v, want %v", tt.ebn0, tt.ec, tt.r, got, tt.want)
		}
	}
	if got := ChannelLLRScale(0.5); got != -4 {
		t.Errorf("ChannelLLRScale(0.5) = %v, want -4", got)
	}
}

func TestAWGN(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 3))
	ch := NewAWGN(0.25, rng)
	if ch.Noise() != 0.25 {
		t.Errorf("Noise() = %v", ch.Noise())
	}
	rx := ch.Transmit(make([]float64, 100000))
	mean, std := stat.MeanStdDev(rx, nil)
	if math.Abs(mean) > 0.01 || math.Abs(std-0.5) > 0.01 {
		t.Errorf("noise mean %v std %v, want 0 and 0.5", mean, std)
	}

	ch.SetNoise(0)
	sym := []float64{1, -1, 1}
	if got := ch.Transmit(sym); !reflect.DeepEqual(got, sym) {
		t.Errorf("noiseless Transmit() = %v", got)
	}
}
