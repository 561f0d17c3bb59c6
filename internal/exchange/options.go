package exchange

// Options configures Bundle.
type Options struct {
	// Level is the level used for the complexity check when Validate is set.
	Level string
	// Validate runs validation before rendering and reports its warnings.
	Validate bool
	// Strict fails the bundle when validation reports an error.
	Strict bool
	// ComplexityThreshold overrides the default visible-element threshold (0 = default).
	ComplexityThreshold int
	// MaxParallel is the max number of formats rendered at once (0 = default).
	MaxParallel int
}

// DefaultOptions returns default bundle options.
func DefaultOptions() Options {
	return Options{
		Level:       "context",
		Validate:    true,
		MaxParallel: 0, // use runtime.NumCPU in Bundle
	}
}
