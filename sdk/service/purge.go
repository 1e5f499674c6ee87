package service

import (
	"context"
	"runtime/debug"

	"github.com/jxo-me/cfddns/consts"
	"github.com/jxo-me/cfddns/core/logger"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// purgeWorkers bounds the concurrent delete calls of the purge command.
const purgeWorkers = 4

// safePurge never lets a panic out of the item and logs the outcome.
func safePurge(ctx context.Context, it *DdnsItem, loop bool, reason string, log logger.ILogger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			it.Destroy()
			err = errors.Errorf("purge %s panicked: %v", it, r)
			log.Errorf("%v\n%s", err, debug.Stack())
		}
	}()

	if err = it.Purge(ctx, loop, reason); err != nil {
		logError(log, err)
	}
	return err
}

// PurgeAll deletes the A and AAAA records of every configured domain once,
// whether the type is enabled or not. Failures are logged and counted.
func (s *Scheduler) PurgeAll(ctx context.Context) (failed int, err error) {
	var items []*DdnsItem
	for i := range s.settings {
		d := &s.settings[i]
		for _, typ := range consts.RecordTypes {
			it, err := s.newItem(d, typ)
			if err != nil {
				return 0, err
			}
			items = append(items, it)
		}
	}

	errs := make([]error, len(items))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(purgeWorkers)
	for i, it := range items {
		i, it := i, it
		eg.Go(func() error {
			errs[i] = safePurge(ctx, it, false, ReasonPurgeCommand, s.logger)
			return nil
		})
	}
	_ = eg.Wait()

	for _, e := range errs {
		if e != nil {
			failed++
		}
	}
	s.logger.Infof("purge finished: %d records processed, %d failed", len(items), failed)
	return failed, nil
}

// autoPurge removes the disabled record type of autoPurge domains. In
// continuous mode each item retries every ttl until it succeeds.
func (s *Scheduler) autoPurge(ctx context.Context, eg *errgroup.Group, loop bool) {
	for _, it := range s.purges {
		it := it
		eg.Go(func() error {
			_ = safePurge(ctx, it, loop, ReasonTypeDisabled, s.logger)
			return nil
		})
	}
}
