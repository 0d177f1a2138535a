package core

// Clone returns a freshly allocated copy of src.
func Clone(src []float64) []float64 {
	dst := make([]float64, len(src))
	copy(dst, src)
	return dst
}
