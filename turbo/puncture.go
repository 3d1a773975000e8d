package turbo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Stream identifies one of the three logical PCCC output streams.
type Stream int

const (
	Systematic Stream = iota
	Parity1
	Parity2
	StreamCount
)

var ErrInvalidPattern = errors.New("invalid puncturing pattern")

// PuncturePattern is a depth x 3 matrix of flags, one row per position
// modulo depth and one column per Stream. A true entry means the bit is
// transmitted.
type PuncturePattern [][StreamCount]bool

// DefaultPuncturePattern transmits the systematic bit at every position and
// alternates the two parity streams.
var DefaultPuncturePattern = PuncturePattern{
	{true, false, true},
	{true, true, false},
}

// ParsePuncturePattern reads rows separated by ';' with three 0/1 entries
// each, e.g. "1 0 1; 1 1 0". A trailing ';' is ignored.
func ParsePuncturePattern(s string) (PuncturePattern, error) {
	var p PuncturePattern
	s = strings.TrimSuffix(strings.TrimSpace(s), ";")
	for i, row := range strings.Split(s, ";") {
		fields := strings.Fields(row)
		if len(fields) == 0 && strings.TrimSpace(s) == "" {
			break
		}
		if len(fields) != int(StreamCount) {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidPattern, i, len(fields), StreamCount)
		}
		var r [StreamCount]bool
		for j, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil || (v != 0 && v != 1) {
				return nil, fmt.Errorf("%w: row %d column %d is %q, want 0 or 1", ErrInvalidPattern, i, j, f)
			}
			r[j] = v == 1
		}
		p = append(p, r)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p PuncturePattern) String() string {
	rows := make([]string, len(p))
	for i, r := range p {
		cols := make([]string, len(r))
		for j, f := range r {
			cols[j] = "0"
			if f {
				cols[j] = "1"
			}
		}
		rows[i] = strings.Join(cols, " ")
	}
	return strings.Join(rows, "; ")
}

func (p PuncturePattern) Depth() int {
	return len(p)
}

// Ones returns the number of selected entries in the whole pattern.
func (p PuncturePattern) Ones() int {
	n := 0
	for _, r := range p {
		for _, f := range r {
			if f {
				n++
			}
		}
	}
	return n
}

// Validate checks the pattern can define a code rate.
func (p PuncturePattern) Validate() error {
	if p.Depth() < 1 {
		return fmt.Errorf("%w: depth must be at least 1", ErrInvalidPattern)
	}
	if p.Ones() == 0 {
		return fmt.Errorf("%w: no bit is ever transmitted", ErrInvalidPattern)
	}
	return nil
}

// Selects reports whether stream s is transmitted at global position n.
func (p PuncturePattern) Selects(n int, s Stream) bool {
	return p[n%len(p)][s]
}

// Rate is depth / ones, i.e. information positions per transmitted bit.
func (p PuncturePattern) Rate() float64 {
	return float64(p.Depth()) / float64(p.Ones())
}

// RecLen is floor(permLen / Rate()). It is computed on integers so rates
// like 2/3 don't round the wrong way.
func (p PuncturePattern) RecLen(permLen int) int {
	return permLen * p.Ones() / p.Depth()
}

// Transmitted counts the bits actually selected over permLen positions.
func (p PuncturePattern) Transmitted(permLen int) int {
	k := 0
	for n := 0; n < permLen; n++ {
		for s := Systematic; s < StreamCount; s++ {
			if p.Selects(n, s) {
				k++
			}
		}
	}
	return k
}
