package config

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNoConfigFile = &ConfigError{Msg: "Configuration not initialized, please use '-c' to specify configuration file or '-gen' to generate one"}
)

// ConfigError invalid or missing configuration, fatal at startup.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return e.Msg
}

func configErrorf(format string, args ...any) error {
	return errors.WithStack(&ConfigError{Msg: fmt.Sprintf(format, args...)})
}

func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
