// Package config loads check settings with Viper and builds the zap logger
// the checks log through.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/HerbHall/snmpcheck/internal/snmp"
)

// EnvPrefix prefixes every environment override: SNMPCHECK_SNMP_PORT=1161.
const EnvPrefix = "SNMPCHECK"

// Settings is the decoded configuration shared by all checks. Keys that
// only one check reads (bgp.*, iosxr.*) are looked up by that check.
type Settings struct {
	SNMP    snmp.Config     `mapstructure:"snmp"`
	Logging LoggingSettings `mapstructure:"logging"`
	Metrics MetricsSettings `mapstructure:"metrics"`
}

type LoggingSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsSettings struct {
	// Textfile is where run results are written in Prometheus text
	// format. Empty disables the export.
	Textfile string `mapstructure:"textfile"`
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(configPath string) (*viper.Viper, error) {
	v := viper.New()

	snmpDefaults := snmp.DefaultConfig()

	// Defaults. Every key gets one so environment overrides are seen by
	// Unmarshal.
	v.SetDefault("snmp.target", "")
	v.SetDefault("snmp.community", "")
	v.SetDefault("snmp.port", snmpDefaults.Port)
	v.SetDefault("snmp.version", snmpDefaults.Version)
	v.SetDefault("snmp.timeout", snmpDefaults.Timeout)
	v.SetDefault("snmp.retries", snmpDefaults.Retries)
	v.SetDefault("snmp.max_repetitions", 0)
	v.SetDefault("snmp.rate_limit", 0.0)
	v.SetDefault("snmp.v3.username", "")
	v.SetDefault("snmp.v3.auth_protocol", "")
	v.SetDefault("snmp.v3.auth_passphrase", "")
	v.SetDefault("snmp.v3.priv_protocol", "")
	v.SetDefault("snmp.v3.priv_passphrase", "")
	v.SetDefault("snmp.v3.security_level", "")
	v.SetDefault("snmp.v3.context_name", "")
	v.SetDefault("snmp.v3.authoritative_engine_id", "")
	v.SetDefault("logging.level", "error")
	v.SetDefault("logging.format", "console")
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("verbose", false)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("snmpcheck")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/snmpcheck")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is fine -- use defaults
	}

	return v, nil
}

// Decode unmarshals v into Settings.
func Decode(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &s, nil
}
