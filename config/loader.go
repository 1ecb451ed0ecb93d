package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/vitalvas/tppclient/logging"

	log "github.com/sirupsen/logrus"
)

const (
	// ConfigFileEnvVar names the variable holding the config file path.
	ConfigFileEnvVar = "TPPCLIENT_CONFIG_FILE"

	// DefaultConfigFile is read when no path is given and it exists.
	DefaultConfigFile = "/etc/tppclient/config.yml"

	envPrefix = "TPPCLIENT"
)

// keys lists every leaf setting so each can be overridden from the
// environment, e.g. TPPCLIENT_CERTIFICATES_SEAL_CERT_PASS.
var keys = []string{
	"logging.level",
	"gateway.url",
	"gateway.timeout",
	"gateway.generate_request_id",
	"certificates.keystore_path",
	"certificates.truststore_path",
	"certificates.truststore_password",
	"certificates.wac_cert_name",
	"certificates.wac_cert_pass",
	"certificates.wac_key_alias",
	"certificates.seal_cert_name",
	"certificates.seal_cert_pass",
	"certificates.seal_key_alias",
}

// Defaults returns the configuration used for unset keys.
func Defaults() Config {
	return Config{
		Logging: Logging{Level: logging.Info},
		Gateway: Gateway{Timeout: 30 * time.Second},
	}
}

func readConfig(configFilePath string) (*Config, error) {
	vp := viper.New()

	defaults := Defaults()
	vp.SetDefault("logging.level", string(defaults.Logging.Level))
	vp.SetDefault("gateway.timeout", defaults.Gateway.Timeout)

	vp.SetEnvPrefix(envPrefix)
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range keys {
		if err := vp.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if configFilePath != "" {
		vp.SetConfigFile(configFilePath)
		if err := vp.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error while processing config file: %w", err)
		}
	}

	var config Config
	err := vp.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	)))
	if err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	return &config, nil
}

// LoadConfig reads the configuration file at path. With an empty path the
// file named by TPPCLIENT_CONFIG_FILE is tried, then DefaultConfigFile.
// When none of them exists only defaults and environment variables apply.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return readConfig(path)
	}

	if configFileEnv := os.Getenv(ConfigFileEnvVar); configFileEnv != "" {
		log.Debugf("loading config file from %s", configFileEnv)

		conf, err := readConfig(configFileEnv)
		if err == nil {
			return conf, nil
		}

		log.Warnf("failed to load config file specified in ENV '%s' variable. will try to load from standard paths: %s", ConfigFileEnvVar, err)
	}

	if _, err := os.Stat(DefaultConfigFile); errors.Is(err, fs.ErrNotExist) {
		log.Debugf("%s not found, using defaults and environment", DefaultConfigFile)
		return readConfig("")
	}

	return readConfig(DefaultConfigFile)
}
