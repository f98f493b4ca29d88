// Package configuration loads the library's ambient Cfg from a YAML file
// named by an environment variable, the same envconfig/yaml.v2/creasty
// pattern used across the rest of the stack this module was adapted from.
package configuration

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/creasty/defaults"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/evannetwork/vade-evan-cl/pkg/helpers"
	"github.com/evannetwork/vade-evan-cl/pkg/logger"
	"github.com/evannetwork/vade-evan-cl/pkg/model"
)

type envVars struct {
	ConfigYAML string `envconfig:"CL_CONFIG_YAML" required:"true"`
}

// New parses the config file named by the CL_CONFIG_YAML environment
// variable into a model.Cfg, applying defaults before overlaying the file
// and validating the result against its struct tags.
func New(_ context.Context) (*model.Cfg, error) {
	log := logger.NewSimple("configuration")
	log.Info("reading CL_CONFIG_YAML")

	env := envVars{}
	if err := envconfig.Process("", &env); err != nil {
		return nil, err
	}

	cfg := &model.Cfg{}
	if err := defaults.Set(cfg); err != nil {
		return nil, err
	}

	configFile, err := os.ReadFile(filepath.Clean(env.ConfigYAML))
	if err != nil {
		return nil, err
	}

	fileInfo, err := os.Stat(env.ConfigYAML)
	if err != nil {
		return nil, err
	}
	if fileInfo.IsDir() {
		return nil, errors.New("config path is a directory")
	}

	if err := yaml.Unmarshal(configFile, cfg); err != nil {
		return nil, err
	}

	if err := helpers.CheckSimple(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
