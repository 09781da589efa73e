package util

import (
	"fmt"

	"github.com/imdario/mergo"
	"github.com/ohsu-comp-bio/accelfit/config"
)

// MergeConfigFileWithFlags builds the configuration used by a command.
// Defaults are overridden by the config file, if any, and file values are
// overridden by flags. The result is validated.
func MergeConfigFileWithFlags(file string, flagConf config.Config) (config.Config, error) {
	// parse config file if it exists
	conf := config.DefaultConfig()
	err := config.ParseFile(file, &conf)
	if err != nil {
		return conf, err
	}

	// file vals <- cli val
	err = mergo.MergeWithOverwrite(&conf, flagConf)
	if err != nil {
		return conf, err
	}

	if err := config.Validate(conf); err != nil {
		return conf, fmt.Errorf("invalid config: %v", err)
	}
	return conf, nil
}
