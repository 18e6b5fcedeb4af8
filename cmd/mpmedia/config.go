package main

import (
	"strings"
	"time"

	"github.com/go-shiori/mpmedia"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "MPMEDIA"

// loadSettings merges command line flags, MPMEDIA_* environment
// variables and the optional config file, in that order of priority.
func loadSettings(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, errors.Wrap(err, "failed to bind flags")
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config %s", path)
		}
	}

	return v, nil
}

func clientConfig(v *viper.Viper) mpmedia.Config {
	cfg := mpmedia.DefaultConfig
	if userAgent := v.GetString("user-agent"); userAgent != "" {
		cfg.UserAgent = userAgent
	}

	cfg.EnableLog = !v.GetBool("quiet")
	cfg.RequestTimeout = time.Duration(v.GetInt("timeout")) * time.Second
	cfg.Delay = v.GetDuration("delay")
	cfg.MaxRetries = v.GetInt("max-retries")
	cfg.SkipTLSVerification = v.GetBool("insecure")

	cfg.SkipCovers = v.GetBool("no-covers")
	cfg.StyleImages = v.GetBool("style-images")
	cfg.Naming = mpmedia.Naming(v.GetString("naming"))
	return cfg
}

func setupLogging(cmd *cobra.Command, v *viper.Viper) {
	logrus.SetOutput(cmd.OutOrStdout())
	logrus.SetLevel(logrus.InfoLevel)
	if v.GetBool("verbose") && !v.GetBool("quiet") {
		logrus.SetLevel(logrus.DebugLevel)
	}
}
