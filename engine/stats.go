package engine

import "math"

// Stats is recomputed after every step.
type Stats struct {
	Step     int     `json:"step"`
	Mass     float64 `json:"mass"`
	CenterX  float64 `json:"centerX"`
	CenterY  float64 `json:"centerY"`
	Velocity float64 `json:"velocity"`
}

// tracker owns a Stats record and the centroid baseline used for velocity.
type tracker struct {
	stats   Stats
	hasPrev bool
}

// observe increments the step counter and measures field.
func (t *tracker) observe(n int, field []float64) {
	mass, cx, cy := centroid(n, field)
	t.record(n, mass, cx, cy)
}

// observeMean measures the per-cell average of several fields.
func (t *tracker) observeMean(n int, fields [][]float64) {
	mass, cx, cy := centroidMean(n, fields)
	t.record(n, mass, cx, cy)
}

func (t *tracker) record(n int, mass, cx, cy float64) {
	t.stats.Step++
	t.stats.Mass = mass

	if mass <= 0 {
		// Keep the last valid centroid; nothing moved
		t.stats.Velocity = 0
		return
	}

	if t.hasPrev {
		dx := torusShortest(cx-t.stats.CenterX, n)
		dy := torusShortest(cy-t.stats.CenterY, n)
		t.stats.Velocity = math.Sqrt(dx*dx + dy*dy)
	} else {
		t.stats.Velocity = 0
	}
	t.stats.CenterX = cx
	t.stats.CenterY = cy
	t.hasPrev = true
}

func (t *tracker) reset() {
	t.stats = Stats{}
	t.hasPrev = false
}

// restore installs imported statistics as the velocity baseline.
func (t *tracker) restore(s Stats) {
	t.stats = s
	t.hasPrev = s.Mass > 0
}

// centroid returns the mass and mass-weighted center of a field.
func centroid(n int, field []float64) (mass, cx, cy float64) {
	var sx, sy float64
	for y := 0; y < n; y++ {
		row := field[y*n : (y+1)*n]
		var rowMass, rowX float64
		for x, v := range row {
			rowMass += v
			rowX += float64(x) * v
		}
		mass += rowMass
		sx += rowX
		sy += float64(y) * rowMass
	}
	if mass > 0 {
		cx = sx / mass
		cy = sy / mass
	}
	return mass, cx, cy
}

func centroidMean(n int, fields [][]float64) (mass, cx, cy float64) {
	inv := 1 / float64(len(fields))
	var sx, sy float64
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			i := y*n + x
			var v float64
			for _, f := range fields {
				v += f[i]
			}
			v *= inv
			mass += v
			sx += float64(x) * v
			sy += float64(y) * v
		}
	}
	if mass > 0 {
		cx = sx / mass
		cy = sy / mass
	}
	return mass, cx, cy
}

// torusShortest folds a displacement onto the shorter way round a ring of
// circumference n.
func torusShortest(d float64, n int) float64 {
	half := float64(n) / 2
	if math.Abs(d) > half {
		d -= math.Copysign(float64(n), d)
	}
	return d
}
