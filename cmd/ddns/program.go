package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/judwhite/go-svc"
	"github.com/jxo-me/cfddns/config"
	"github.com/jxo-me/cfddns/config/parsing"
	"github.com/jxo-me/cfddns/core/logger"
	"github.com/jxo-me/cfddns/pkg/overwatch"
	"github.com/pkg/errors"
)

// program runs the continuous mode under go-svc.
type program struct {
	root     *config.Root
	settings []config.DomainSetting
	path     string
	watch    bool
	opts     parsing.Options
	log      logger.ILogger

	manager *overwatch.AppManager
	metrics *http.Server
}

func (p *program) Init(env svc.Environment) error {
	if env.IsWindowsService() {
		dir := filepath.Dir(os.Args[0])
		return os.Chdir(dir)
	}
	return nil
}

func (p *program) Start() error {
	s, err := parsing.ParseService(p.root, p.settings, p.opts)
	if err != nil {
		return err
	}
	p.manager = overwatch.NewAppManager(func(name, hash string, err error) {
		if err != nil {
			p.log.Errorf("%s service %s encountered an error: %v", name, hash, err)
		}
	})
	p.manager.Add(s)

	if p.metrics = newMetricsServer(p.root.Metrics, p.opts.Metrics); p.metrics != nil {
		p.log.Infof("serving metrics on %s%s", p.root.Metrics.Listen, p.root.Metrics.MetricsPath())
		go func() {
			if err := p.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				p.log.Errorf("metrics server: %v", err)
			}
		}()
	}

	if p.watch {
		if p.path == "" {
			p.log.Warn("-watch needs a configuration file, not watching")
		} else if err := config.Watch(p.path, p.log, config.NotifierFunc(p.reload)); err != nil {
			return err
		} else {
			p.log.Infof("monitoring config file at: %s", p.path)
		}
	}
	return nil
}

// reload swaps the running service when the relevant configuration changed.
// Invalid configurations are logged and the current service keeps running.
func (p *program) reload(root *config.Root) {
	settings, err := root.Resolve(p.log)
	if err != nil {
		p.log.Errorf("configuration not applied: %v", err)
		return
	}
	s, err := parsing.ParseService(root, settings, p.opts)
	if err != nil {
		p.log.Errorf("configuration not applied: %v", err)
		return
	}
	p.log.Infof("configuration reloaded, %d domain(s)", len(settings))
	p.manager.Add(s)
}

func (p *program) Stop() error {
	if p.manager != nil {
		p.manager.Shutdown()
	}
	if p.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = p.metrics.Shutdown(ctx)
	}
	p.log.Info("ddns service shutdown")
	return nil
}
