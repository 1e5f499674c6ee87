package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/jxo-me/cfddns/core/logger"
)

// Notifier receives every successfully decoded configuration.
type Notifier interface {
	ConfigDidUpdate(root *Root)
}

type NotifierFunc func(root *Root)

func (f NotifierFunc) ConfigDidUpdate(root *Root) {
	f(root)
}

// Watch watches path for changes and hands each decoded configuration to n.
// The watch lasts for the lifetime of the process.
func Watch(path string, log logger.ILogger, n Notifier) error {
	v, err := newViper(path)
	if err != nil {
		return err
	}
	if err := readConfig(v, path); err != nil {
		return err
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Infof("configuration file %s changed (%s)", e.Name, e.Op)
		// viper already re-read the file strictly, json is read again leniently
		if err := readConfig(v, path); err != nil {
			log.Errorf("reload configuration: %v", err)
			return
		}
		root, err := decode(v)
		if err != nil {
			log.Errorf("reload configuration: %v", err)
			return
		}
		n.ConfigDidUpdate(root)
	})
	v.WatchConfig()
	return nil
}
