package model

const (
	DefaultMaxIterations = 250_000
	DefaultImprovePasses = 2
)

// CostWeights weights the soft-cost terms. A zero weight disables its term.
type CostWeights struct {
	Gap     float64 // idle gaps between an instructor's sessions on one day
	Balance float64 // load spread across instructors of the same role
	Venue   float64 // general-program lectures held outside theater or hall
}

func DefaultCostWeights() CostWeights {
	return CostWeights{Gap: 1, Balance: 0.5, Venue: 0.25}
}

// Config bounds and shapes one engine run.
type Config struct {
	// MaxIterations bounds the number of candidate trials before the run
	// stops with a Timeout outcome. Zero selects DefaultMaxIterations.
	MaxIterations int

	// SoftCostWeight scales the soft cost of complete schedules. Zero stops
	// the search at the first feasible schedule; a positive weight spends the
	// remaining budget looking for cheaper ones.
	SoftCostWeight float64

	// AllowPartial returns the best incomplete assignment instead of a bare
	// failure when the catalog cannot be scheduled completely.
	AllowPartial bool

	// Workers explores the first session's candidate branches concurrently
	// when greater than one. The catalog is shared read-only; reservation
	// state is private per worker.
	Workers int

	// CostThreshold stops sibling workers once any of them lands a complete
	// schedule at or below the threshold. A positive threshold trades
	// reproducibility for latency; zero keeps runs fully deterministic.
	CostThreshold float64

	// ImprovePasses bounds the hill-climb passes applied to the best found
	// schedule when SoftCostWeight is positive.
	ImprovePasses int

	Weights CostWeights
}

func DefaultConfig() Config {
	return Config{
		MaxIterations:  DefaultMaxIterations,
		SoftCostWeight: 1,
		Workers:        1,
		ImprovePasses:  DefaultImprovePasses,
		Weights:        DefaultCostWeights(),
	}
}

// WithDefaults fills unset fields. A zero SoftCostWeight is meaningful and
// is kept as is.
func (config Config) WithDefaults() Config {
	if config.MaxIterations <= 0 {
		config.MaxIterations = DefaultMaxIterations
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.ImprovePasses < 0 {
		config.ImprovePasses = 0
	}
	return config
}
