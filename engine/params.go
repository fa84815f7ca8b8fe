package engine

// Params is the per-channel parameter record.
type Params struct {
	R           float64 `json:"R" yaml:"r"`                      // kernel radius in cells
	Mu          float64 `json:"mu" yaml:"mu"`                    // growth peak location
	Sigma       float64 `json:"sigma" yaml:"sigma"`              // growth peak width
	DT          float64 `json:"dt" yaml:"dt"`                    // Euler time step
	KernelMu    float64 `json:"kernelMu" yaml:"kernel_mu"`       // ring peak at normalized radius
	KernelSigma float64 `json:"kernelSigma" yaml:"kernel_sigma"` // ring width
}

// DefaultParams returns a parameter set that sustains a single glider.
func DefaultParams() Params {
	return Params{
		R:           13,
		Mu:          0.15,
		Sigma:       0.015,
		DT:          0.1,
		KernelMu:    0.5,
		KernelSigma: 0.15,
	}
}

// Update is a partial parameter record; nil fields are left unchanged.
type Update struct {
	R           *float64
	Mu          *float64
	Sigma       *float64
	DT          *float64
	KernelMu    *float64
	KernelSigma *float64
}

// Float returns a pointer to v, for building Updates.
func Float(v float64) *float64 {
	return &v
}

// UpdateFrom returns an Update that sets every field to p's values.
func UpdateFrom(p Params) Update {
	return Update{
		R:           Float(p.R),
		Mu:          Float(p.Mu),
		Sigma:       Float(p.Sigma),
		DT:          Float(p.DT),
		KernelMu:    Float(p.KernelMu),
		KernelSigma: Float(p.KernelSigma),
	}
}

// Apply merges the set fields of u into p.
func (p Params) Apply(u Update) Params {
	if u.R != nil {
		p.R = *u.R
	}
	if u.Mu != nil {
		p.Mu = *u.Mu
	}
	if u.Sigma != nil {
		p.Sigma = *u.Sigma
	}
	if u.DT != nil {
		p.DT = *u.DT
	}
	if u.KernelMu != nil {
		p.KernelMu = *u.KernelMu
	}
	if u.KernelSigma != nil {
		p.KernelSigma = *u.KernelSigma
	}
	return p
}

// dirty reports which cached structures a transition from old to next
// invalidates.
func dirty(old, next Params) (kernelDirty, tableDirty bool) {
	kernelDirty = old.R != next.R || old.KernelMu != next.KernelMu || old.KernelSigma != next.KernelSigma
	tableDirty = old.Mu != next.Mu || old.Sigma != next.Sigma
	return kernelDirty, tableDirty
}
