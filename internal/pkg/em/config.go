package em

import "github.com/pkg/errors"

const (
	// DefaultIterations is the default EM iteration budget
	DefaultIterations = 70
	// DefaultProgressEvery is the default batch of pairs between progress callbacks
	DefaultProgressEvery = 1000
)

// Config keeps engine settings
type Config struct {
	// Iterations is the fixed iteration budget K
	Iterations int
	// Workers is count of parallel E-step shards, 1 means sequential pass in corpus order
	Workers int
	// Epsilon stops the loop early when max |t'(e|f) - t(e|f)| <= Epsilon. Zero disables it
	Epsilon float64
	// ProgressEvery is count of processed pairs between PairsProcessed callbacks
	ProgressEvery int
}

// DefaultConfig returns config with defaults
func DefaultConfig() Config {
	return Config{Iterations: DefaultIterations, Workers: 1, ProgressEvery: DefaultProgressEvery}
}

// Validate checks config values
func (c Config) Validate() error {
	if c.Iterations < 1 {
		return errors.Errorf("wrong iterations %d, must be > 0", c.Iterations)
	}
	if c.Workers < 1 {
		return errors.Errorf("wrong workers %d, must be > 0", c.Workers)
	}
	if c.Epsilon < 0 {
		return errors.Errorf("wrong epsilon %g, must be >= 0", c.Epsilon)
	}
	if c.ProgressEvery < 0 {
		return errors.Errorf("wrong progress batch %d, must be >= 0", c.ProgressEvery)
	}
	return nil
}
