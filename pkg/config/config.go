// Package config turns flags, environment and config file values held by
// viper into a models.ClusterConfig.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/yasmagic/elasticrtc-tools/pkg/models"
)

const (
	EnvPrefix      = "ELASTICRTC"
	ConfigFileName = ".elasticrtc"
	DotEnvFile     = ".env"
)

// InitViper wires the config file and environment into v. An explicit
// cfgFile must exist; the default file in the home directory is optional.
// The logger is not configured yet, so nothing is logged here.
func InitViper(v *viper.Viper, cfgFile string) error {
	if _, err := os.Stat(DotEnvFile); err == nil {
		if err := godotenv.Load(DotEnvFile); err != nil {
			return fmt.Errorf("failed to load %s: %w", DotEnvFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		path, err := homedir.Expand(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to expand config path %s: %w", cfgFile, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	home, err := homedir.Dir()
	if err != nil {
		return nil
	}
	v.AddConfigPath(home)
	v.SetConfigType("yaml")
	v.SetConfigName(ConfigFileName)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Load builds the configuration record for command from v.
func Load(v *viper.Viper, command models.Command) (*models.ClusterConfig, error) {
	cfg := &models.ClusterConfig{
		Command:                command,
		Region:                 v.GetString(OptRegion),
		StackName:              v.GetString(OptStackName),
		AccessKeyID:            v.GetString(OptAccessKeyID),
		SecretAccessKey:        v.GetString(OptSecretAccessKey),
		Profile:                v.GetString(OptProfile),
		KeyName:                v.GetString(OptKeyName),
		S3BucketName:           v.GetString(OptS3BucketName),
		InstanceType:           v.GetString(OptInstanceType),
		InstanceTenancy:        v.GetString(OptInstanceTenancy),
		ControlOrigin:          v.GetString(OptControlOrigin),
		APIKey:                 v.GetString(OptAPIKey),
		APIOrigin:              v.GetString(OptAPIOrigin),
		HostedZoneID:           v.GetString(OptHostedZoneID),
		LogStorage:             v.GetString(OptLogStorage),
		TurnUsername:           v.GetString(OptTurnUsername),
		TurnPassword:           v.GetString(OptTurnPassword),
		HealthCheckGracePeriod: v.GetString(OptHealthCheckGracePeriod),
		ControllerURL:          v.GetString(OptControllerURL),
		TestMode:               v.GetString(OptTestMode),
		PollInterval:           v.GetDuration(OptPollInterval),
		WaitTimeout:            v.GetDuration(OptWaitTimeout),
	}

	output, err := loadOutput(v)
	if err != nil {
		return nil, err
	}
	cfg.Output = output

	for _, c := range []struct {
		name   string
		target *int
	}{
		{OptDesiredCapacity, &cfg.DesiredCapacity},
		{OptMinCapacity, &cfg.MinCapacity},
		{OptMaxCapacity, &cfg.MaxCapacity},
	} {
		n, err := loadCapacity(v, c.name)
		if err != nil {
			return nil, err
		}
		*c.target = n
	}

	if cfg.SSLCert, err = loadPath(v, OptSSLCert); err != nil {
		return nil, err
	}
	if cfg.SSLKey, err = loadPath(v, OptSSLKey); err != nil {
		return nil, err
	}
	if cfg.TemplatePath, err = loadPath(v, OptTemplate); err != nil {
		return nil, err
	}

	if cfg.TestMode == "" {
		cfg.TestMode = models.DefaultTestMode
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = models.DefaultPollInterval
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = models.DefaultWaitTimeout
	}
	return cfg, nil
}

func loadOutput(v *viper.Viper) (models.OutputFormat, error) {
	if v.GetBool(OptJSON) {
		return models.OutputJSON, nil
	}
	switch out := models.OutputFormat(strings.ToLower(v.GetString(OptOutput))); out {
	case "", models.OutputText:
		return models.OutputText, nil
	case models.OutputJSON, models.OutputYAML:
		return out, nil
	default:
		return "", models.NewUsageError(OptionUsage(OptOutput), "Unknown output format: %s", out)
	}
}

func loadCapacity(v *viper.Viper, name string) (int, error) {
	raw := strings.TrimSpace(v.GetString(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, models.NewUsageError(OptionUsage(name), "--%s must be a positive integer: %s", name, raw)
	}
	return n, nil
}

func loadPath(v *viper.Viper, name string) (string, error) {
	raw := v.GetString(name)
	if raw == "" {
		return "", nil
	}
	path, err := homedir.Expand(raw)
	if err != nil {
		return "", fmt.Errorf("failed to expand --%s %s: %w", name, raw, err)
	}
	return filepath.Clean(path), nil
}
