package turbo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidCode = errors.New("invalid convolutional code")

// DefaultGenerators is the (feedback, feedforward) pair 07, 05 in octal.
var DefaultGenerators = []uint{07, 05}

const DefaultConstraintLength = 3

// RSC is a recursive systematic convolutional encoder. The first generator
// is the feedback polynomial, the remaining ones produce parity bits. Its
// trellis is precomputed and shared with RSCDecoder.
type RSC struct {
	gens   []uint
	k      int // constraint length
	memory int
	states int

	nextState [][2]int
	outputs   [][2][]byte // systematic bit followed by the parity bits
	tailInput []byte      // input driving each state towards zero
}

// ParseGenerators reads space or comma separated octal polynomials, e.g. "07 05".
func ParseGenerators(s string) ([]uint, error) {
	var gens []uint
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' }) {
		g, err := strconv.ParseUint(f, 8, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: generator %q is not octal", ErrInvalidCode, f)
		}
		gens = append(gens, uint(g))
	}
	return gens, nil
}

// FormatGenerators renders generators back in octal.
func FormatGenerators(gens []uint) []string {
	out := make([]string, len(gens))
	for i, g := range gens {
		out[i] = fmt.Sprintf("%02o", g)
	}
	return out
}

func NewRSC(gens []uint, constraintLength int) (*RSC, error) {
	if constraintLength < 2 || constraintLength > 16 {
		return nil, fmt.Errorf("%w: constraint length %d out of range", ErrInvalidCode, constraintLength)
	}
	if len(gens) < 2 {
		return nil, fmt.Errorf("%w: need a feedback and at least one feedforward generator, got %d", ErrInvalidCode, len(gens))
	}
	m := constraintLength - 1
	for _, g := range gens {
		if g == 0 || g >= 1<<constraintLength {
			return nil, fmt.Errorf("%w: generator %o does not fit constraint length %d", ErrInvalidCode, g, constraintLength)
		}
	}
	if (gens[0]>>m)&1 == 0 {
		return nil, fmt.Errorf("%w: feedback generator %o has no delay-0 tap", ErrInvalidCode, gens[0])
	}
	c := &RSC{
		gens:   append([]uint(nil), gens...),
		k:      constraintLength,
		memory: m,
		states: 1 << m,
	}
	c.buildTrellis()
	return c, nil
}

// tap returns the coefficient of generator g for delay i (0 is the current bit).
func (c *RSC) tap(g uint, i int) byte {
	return byte((g >> (c.memory - i)) & 1)
}

// State bit i-1 holds the register content delayed by i.
func (c *RSC) buildTrellis() {
	c.nextState = make([][2]int, c.states)
	c.outputs = make([][2][]byte, c.states)
	c.tailInput = make([]byte, c.states)
	for s := 0; s < c.states; s++ {
		var fb byte
		for i := 1; i <= c.memory; i++ {
			fb ^= c.tap(c.gens[0], i) & byte(s>>(i-1)) & 1
		}
		c.tailInput[s] = fb
		for u := 0; u < 2; u++ {
			a := byte(u) ^ fb
			out := make([]byte, len(c.gens))
			out[0] = byte(u)
			for j, g := range c.gens[1:] {
				p := c.tap(g, 0) & a
				for i := 1; i <= c.memory; i++ {
					p ^= c.tap(g, i) & byte(s>>(i-1)) & 1
				}
				out[j+1] = p
			}
			c.outputs[s][u] = out
			c.nextState[s][u] = ((s << 1) | int(a)) & (c.states - 1)
		}
	}
}

func (c *RSC) parity(s int, u byte) []byte {
	return append([]byte(nil), c.outputs[s][u][1:]...)
}

func (c *RSC) ConstraintLength() int {
	return c.k
}

// TailLen is the number of bits needed to return to the zero state.
func (c *RSC) TailLen() int {
	return c.memory
}

// Outputs is the number of coded bits per step, systematic included.
func (c *RSC) Outputs() int {
	return len(c.gens)
}

func (c *RSC) States() int {
	return c.states
}

func (c *RSC) Generators() []uint {
	return append([]uint(nil), c.gens...)
}

// Encode runs the encoder from the zero state without termination and
// returns one row of parity bits per input bit.
func (c *RSC) Encode(bits []byte) [][]byte {
	parity := make([][]byte, len(bits))
	s := 0
	for n, u := range bits {
		parity[n] = c.parity(s, u)
		s = c.nextState[s][u]
	}
	return parity
}

// EncodeTail encodes bits and appends the tail that closes the trellis in
// the zero state. The parity matrix covers len(bits)+TailLen() rows.
func (c *RSC) EncodeTail(bits []byte) ([]byte, [][]byte) {
	parity := make([][]byte, 0, len(bits)+c.memory)
	tail := make([]byte, c.memory)
	s := 0
	for _, u := range bits {
		parity = append(parity, c.parity(s, u))
		s = c.nextState[s][u]
	}
	for i := range tail {
		u := c.tailInput[s]
		tail[i] = u
		parity = append(parity, c.parity(s, u))
		s = c.nextState[s][u]
	}
	return tail, parity
}
