package pipeline

// Diagnostics chunking defaults.
const (
	// minChunkSamples is the smallest chunk a per-chunk regression can be
	// fitted on (slope standard error needs n-2 > 0).
	minChunkSamples = 3
)

// Post-processing guards.
const (
	// minGaussianSigma is the floor for the post-smoothing sigma in
	// sample units.
	minGaussianSigma = 2.0

	// minNormalisationArea is the smallest absolute curve area the
	// normalization step will divide by. Below it the step is skipped
	// and a warning is recorded instead.
	minNormalisationArea = 1e-12

	// minSimpsonSamples is the minimum series length for Simpson's rule;
	// shorter series fall back to the trapezoidal rule.
	minSimpsonSamples = 3
)
