package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config carries the settings shared by the cmd tools.
type Config struct {
	DatabaseURL string
	// Force allows cmd/setup to drop and recreate an existing store.
	Force bool
	// Seed is the rng seed for the case generator; 0 means time-based.
	Seed int64
	// BaselineMin/Max bound the per-customer count of normal transactions.
	BaselineMin int
	BaselineMax int
}

// Load reads config.yaml from the working directory when present and
// falls back to defaults plus environment overrides (CHARGEFLOW_*).
func Load() Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("database.url", "")
	viper.SetDefault("setup.force", false)
	viper.SetDefault("seed.rng_seed", 0)
	viper.SetDefault("seed.baseline_min", 5)
	viper.SetDefault("seed.baseline_max", 10)

	viper.SetEnvPrefix("chargeflow")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file found, using defaults")
	}

	return Config{
		DatabaseURL: viper.GetString("database.url"),
		Force:       viper.GetBool("setup.force"),
		Seed:        viper.GetInt64("seed.rng_seed"),
		BaselineMin: viper.GetInt("seed.baseline_min"),
		BaselineMax: viper.GetInt("seed.baseline_max"),
	}
}
