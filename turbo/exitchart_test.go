package turbo

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestTransferCurve(t *testing.T) {
	cfg := TransferConfig{
		Generators:       DefaultGenerators,
		ConstraintLength: DefaultConstraintLength,
		Metric:           MaxLogMAP,
		Length:           1000,
		Blocks:           2,
		EbN0dB:           0.5,
		SigmaA:           []float64{0, 1, 2, 4, 8},
		Bins:             50,
	}
	points, err := TransferCurve(cfg, rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatalf("TransferCurve() error = %v", err)
	}
	if len(points) != len(cfg.SigmaA) {
		t.Fatalf("%d points, want %d", len(points), len(cfg.SigmaA))
	}
	if points[0].IA != 0 || points[0].IAMeasured != 0 {
		t.Errorf("no a-priori information gave IA %v / %v", points[0].IA, points[0].IAMeasured)
	}
	for i, p := range points {
		if p.IE < 0 || p.IE > 1 || p.IA < 0 || p.IA > 1 {
			t.Errorf("point %d out of range: %+v", i, p)
		}
		if i > 0 && p.IA <= points[i-1].IA {
			t.Errorf("IA does not grow with sigmaA: %v then %v", points[i-1].IA, p.IA)
		}
	}
	last := points[len(points)-1]
	if last.IE <= points[0].IE {
		t.Errorf("IE %v with strong a-priori is not above IE %v without", last.IE, points[0].IE)
	}
}

func TestTransferCurveInvalid(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	cfg := TransferConfig{
		Generators:       DefaultGenerators,
		ConstraintLength: DefaultConstraintLength,
		Length:           10,
		Blocks:           1,
		Bins:             10,
	}
	if _, err := TransferCurve(cfg, rng); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("empty sigmaA list error = %v, want ErrInvalidConfig", err)
	}
	cfg.SigmaA = []float64{1}
	cfg.Generators = []uint{07, 05, 03}
	if _, err := TransferCurve(cfg, rng); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("three generators error = %v, want ErrInvalidCode", err)
	}
}
