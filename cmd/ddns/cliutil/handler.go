package cliutil

import (
	"fmt"

	"github.com/jxo-me/cfddns/config"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const errorExitCode = 1

func Action(actionFunc cli.ActionFunc) cli.ActionFunc {
	return WithErrorHandler(actionFunc)
}

// WithErrorHandler turns startup errors into exit code 1. Configuration
// errors are printed without a stack trace.
func WithErrorHandler(actionFunc cli.ActionFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		err := actionFunc(c)
		if err == nil {
			return nil
		}
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			return err
		}
		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) {
			return cli.Exit(cfgErr.Error(), errorExitCode)
		}
		if c.Bool("debug") {
			return cli.Exit(fmt.Sprintf("%+v", err), errorExitCode)
		}
		return cli.Exit(err.Error(), errorExitCode)
	}
}
