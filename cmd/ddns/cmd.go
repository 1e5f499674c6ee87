package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jxo-me/cfddns/config"
	"github.com/jxo-me/cfddns/core/logger"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

// loadRoot returns the configuration to run with: the file given by -c (or
// DDNS_CONFIG_FILE_PATH), or the one built by -gen.
func loadRoot(c *cli.Context, log logger.ILogger) (root *config.Root, path string, err error) {
	path = config.GetConfigFilePath(c.String("c"))
	if c.Bool("gen") {
		if c.IsSet("c") {
			log.Infof("-gen is ignored because -c=%s is given", c.String("c"))
		} else {
			root, err = generate(c, log)
			return root, c.String("file"), err
		}
	}
	if path == "" {
		return nil, "", config.ErrNoConfigFile
	}
	log.Debugf("loading configuration from %s", path)
	root, err = config.Load(path)
	return root, path, err
}

func generate(c *cli.Context, log logger.ILogger) (*config.Root, error) {
	domain := strings.TrimSpace(c.String("domain"))
	zoneID := strings.TrimSpace(c.String("zoneId"))
	authKey := strings.TrimSpace(c.String("authKey"))
	if domain == "" {
		return nil, errors.WithStack(&config.ConfigError{Msg: "-gen requires -domain"})
	}
	if zoneID == "" {
		return nil, errors.WithStack(&config.ConfigError{Msg: "-gen requires -zoneId"})
	}
	if authKey == "" {
		key, err := promptAuthKey()
		if err != nil {
			return nil, err
		}
		authKey = key
	}

	root := config.Generate(domain, zoneID, authKey, c.Bool("v4"), c.Bool("v6"))
	if file := c.String("file"); file != "" {
		if err := root.SaveConfig(file); err != nil {
			return nil, err
		}
		log.Infof("configuration written to %s", file)
	}
	return root, nil
}

// promptAuthKey reads the api token without echo when stdin is a terminal.
func promptAuthKey() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.WithStack(&config.ConfigError{Msg: "-gen requires -authKey"})
	}
	fmt.Fprint(os.Stderr, "API token: ")
	key, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(err, "read api token")
	}
	if s := strings.TrimSpace(string(key)); s != "" {
		return s, nil
	}
	return "", errors.WithStack(&config.ConfigError{Msg: "-gen requires -authKey"})
}
