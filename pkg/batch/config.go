// Package batch runs many module invocations concurrently against a
// shared Engine, bounding concurrency the way
// internal/wasm/sdk/opa/pool.go bounds its VM pool with a buffered
// channel of available slots — reused here via golang.org/x/sync/errgroup's
// SetLimit instead of a hand-rolled channel, since errgroup already
// carries first-error propagation and context cancellation.
package batch

import "github.com/spf13/viper"

// Config controls a batch run's concurrency and hash-verification
// policy. It is typically populated from a config file or environment
// via viper, giving an operator a single place to tune throughput
// without recompiling.
type Config struct {
	// Concurrency bounds how many invocations run at once. Zero means
	// unbounded.
	Concurrency int `mapstructure:"concurrency"`
	// SkipHashVerification is passed as registry.Options.SkipHashVerification
	// for every module in the batch; true disables the header-hash check.
	SkipHashVerification bool `mapstructure:"skip_hash_verification"`
}

// LoadConfig reads batch configuration from path using viper,
// defaulting Concurrency to 4 when unset.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("concurrency", 4)
	v.SetDefault("skip_hash_verification", false)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
