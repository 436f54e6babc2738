package compare

import "gonum.org/v1/gonum/stat/distuv"

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// intervalDensity returns the cumulative density of a standard normal
// over the window's share of the interval. The interval is rescaled to
// [-3, 3], so overlap near the interval center counts for more than the
// same width at the edges. Widening the scale would flatten the
// drop-off at the extremes.
func intervalDensity(ivStart, ivEnd, wStart, wEnd int64) float64 {
	ivLen := float64(ivEnd - ivStart)
	if ivLen <= 0 {
		return 0
	}

	ws := rescale(float64(wStart-ivStart), 0, ivLen, -3, 3)
	we := rescale(float64(wEnd-ivStart), 0, ivLen, -3, 3)

	return stdNormal.CDF(we) - stdNormal.CDF(ws)
}

// rescale maps x from [fromLo, fromHi] onto [toLo, toHi], clamping at
// the edges.
func rescale(x, fromLo, fromHi, toLo, toHi float64) float64 {
	if x <= fromLo {
		return toLo
	}
	if x >= fromHi {
		return toHi
	}
	return toLo + (x-fromLo)/(fromHi-fromLo)*(toHi-toLo)
}
