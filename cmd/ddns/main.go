package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/judwhite/go-svc"
	"github.com/jxo-me/cfddns/cmd/ddns/cliutil"
	"github.com/jxo-me/cfddns/config"
	"github.com/jxo-me/cfddns/config/parsing"
	"github.com/jxo-me/cfddns/core/logger"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var (
	Version   = "DEV"
	BuildTime = "unknown"
)

func main() {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintf(c.App.Writer, "cfddns %s built %s (%s %s/%s)\n",
			c.App.Version, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	}

	app := &cli.App{}
	app.Name = "cfddns"
	app.Usage = "keep Cloudflare A/AAAA records pointed at this host's public address"
	app.UsageText = "cfddns -c=config.yaml [-once | -purge] [-debug]\n   cfddns -gen -domain=home.example.com -zoneId=<zone> [-authKey=<token>] [-file=config.yaml]"
	app.Version = Version
	app.Flags = flags()
	app.Action = cliutil.Action(action)

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "c", Usage: "configuration `FILE` (.json, .json5, .yaml, .yml, .toml), defaults to $" + config.ConfigFilePathENV},
		&cli.BoolFlag{Name: "debug", Usage: "debug logging, raw API responses and stack traces"},
		&cli.BoolFlag{Name: "once", Usage: "run a single reconciliation pass and exit"},
		&cli.BoolFlag{Name: "purge", Usage: "delete the A and AAAA records of every configured domain and exit"},
		&cli.BoolFlag{Name: "gen", Usage: "generate a single domain configuration from the flags below"},
		&cli.StringFlag{Name: "zoneId", Usage: "zone id used by -gen"},
		&cli.StringFlag{Name: "authKey", Usage: "API token used by -gen, prompted for when omitted"},
		&cli.StringFlag{Name: "domain", Usage: "domain name used by -gen"},
		&cli.BoolFlag{Name: "v4", Value: true, Usage: "manage the A record (-gen)"},
		&cli.BoolFlag{Name: "v6", Value: false, Usage: "manage the AAAA record (-gen)"},
		&cli.StringFlag{Name: "file", Usage: "write the generated configuration to `FILE`, format by extension"},
		&cli.StringFlag{Name: "env-file", Usage: "load environment variables from a dotenv `FILE` first"},
		&cli.BoolFlag{Name: "watch", Usage: "reload when the configuration file changes"},
	}
}

func action(c *cli.Context) error {
	debug := c.Bool("debug")
	log := bootstrapLogger(debug)
	logger.SetDefault(log)

	if envFile := c.String("env-file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return errors.WithStack(&config.ConfigError{Msg: fmt.Sprintf("load env file %s: %v", envFile, err)})
		}
	}

	root, path, err := loadRoot(c, log)
	if err != nil {
		return err
	}
	log = logFromConfig(root.Log, debug)
	logger.SetDefault(log)

	settings, err := root.Resolve(log)
	if err != nil {
		return err
	}
	opts, err := buildOptions(root, log)
	if err != nil {
		return err
	}

	switch {
	case c.Bool("purge"):
		s, err := parsing.ParseScheduler(root, settings, opts)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		_, err = s.PurgeAll(ctx)
		return err
	case c.Bool("once"):
		s, err := parsing.ParseScheduler(root, settings, opts)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return s.RunOnce(ctx)
	}

	return svc.Run(&program{
		root:     root,
		settings: settings,
		path:     path,
		watch:    c.Bool("watch"),
		opts:     opts,
		log:      log,
	})
}
