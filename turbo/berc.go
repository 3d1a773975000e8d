package turbo

// BERCounter accumulates bit errors between reference and decided bits.
type BERCounter struct {
	errors   int
	corrects int
}

func (b *BERCounter) Clear() {
	b.errors = 0
	b.corrects = 0
}

// Count compares the overlapping part of two bit vectors.
func (b *BERCounter) Count(ref, got []byte) {
	n := min(len(ref), len(got))
	for i := 0; i < n; i++ {
		if ref[i] != got[i] {
			b.errors++
		} else {
			b.corrects++
		}
	}
}

func (b *BERCounter) Errors() int {
	return b.errors
}

func (b *BERCounter) Corrects() int {
	return b.corrects
}

func (b *BERCounter) ErrorRate() float64 {
	total := b.errors + b.corrects
	if total == 0 {
		return 0
	}
	return float64(b.errors) / float64(total)
}
