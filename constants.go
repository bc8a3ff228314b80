package dqdv

// Default configuration values. See Config for the meaning of each
// parameter.
const (
	// DefaultPointsPerSplit is the target chunk size for the inspection
	// regression diagnostics.
	DefaultPointsPerSplit = 10

	// DefaultMinimumSplits is the minimum number of chunks required
	// before the regression diagnostics run at all.
	DefaultMinimumSplits = 3

	// DefaultSavGolWindowDivisor sizes the Savitzky-Golay window as a
	// fraction of the series length.
	DefaultSavGolWindowDivisor = 50

	// DefaultSavGolOrder is the Savitzky-Golay polynomial order.
	DefaultSavGolOrder = 3

	// DefaultVoltageFWHM is the full-width-half-max of the
	// post-processing Gaussian, in volts.
	DefaultVoltageFWHM = 0.01

	// DefaultGaussianTruncate is the Gaussian kernel radius in standard
	// deviations.
	DefaultGaussianTruncate = 4.0

	// maxGaussianOrder is the highest supported Gaussian derivative
	// order.
	maxGaussianOrder = 3

	// minFixedRangePoints is the smallest usable fixed-range grid.
	minFixedRangePoints = 2
)
