package interp

// Parabolic fits a parabola through three equally spaced points and returns
// the vertex position relative to the middle point together with the vertex
// height. For a local maximum at y0 the offset lies in [-0.5, 0.5]. When the
// points are collinear the middle point is returned unchanged.
func Parabolic(ym1, y0, y1 float64) (delta, height float64) {
	den := ym1 - 2*y0 + y1
	if den == 0 {
		return 0, y0
	}
	delta = 0.5 * (ym1 - y1) / den
	height = y0 - 0.25*(ym1-y1)*delta
	return delta, height
}

// CircularPeak refines the maximum at index i of a periodic sequence, such
// as the bins of a full complex DFT, by parabolic interpolation with its
// wrapped neighbours. It returns the fractional position in [0, len(values))
// and the interpolated height.
func CircularPeak(values []float64, i int) (pos, height float64) {
	n := len(values)
	if n == 0 || i < 0 || i >= n {
		return 0, 0
	}
	if n < 3 {
		return float64(i), values[i]
	}

	delta, height := Parabolic(values[(i-1+n)%n], values[i], values[(i+1)%n])
	pos = float64(i) + delta
	if pos < 0 {
		pos += float64(n)
	}
	if pos >= float64(n) {
		pos -= float64(n)
	}
	return pos, height
}
