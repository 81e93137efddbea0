package machine

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

// DefaultAreaSize is the default size in bytes of the variable area.
const DefaultAreaSize = 65536

// Config holds the runtime configuration of a machine.
type Config struct {
	// AreaSize is the size in bytes of the variable area where declared
	// variables live at statically known offsets.
	AreaSize int64 `env:"AREA_SIZE" envDefault:"65536"`

	// MaxSteps aborts execution after that many executed instructions
	// when greater than zero.
	MaxSteps uint64 `env:"MAX_STEPS" envDefault:"0"`
}

// DefaultConfig returns the default machine configuration.
func DefaultConfig() Config {
	return Config{AreaSize: DefaultAreaSize}
}

// ConfigFromEnv returns the machine configuration read from the
// environment, with the VIREL_ prefix (e.g. VIREL_AREA_SIZE). Unset
// variables keep their default values.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg, env.Options{Prefix: "VIREL_"}); err != nil {
		return cfg, fmt.Errorf("invalid machine configuration: %w", err)
	}
	if cfg.AreaSize < 0 {
		return cfg, fmt.Errorf("invalid machine configuration: negative area size %d", cfg.AreaSize)
	}
	return cfg, nil
}
