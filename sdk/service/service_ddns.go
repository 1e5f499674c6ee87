package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jxo-me/cfddns/consts"
	"github.com/jxo-me/cfddns/core/logger"
	"github.com/pkg/errors"
)

// DDNSService runs a scheduler in continuous mode until stopped.
type DDNSService struct {
	name      string
	hash      string
	scheduler *Scheduler
	status    int32 // status is the current service status.
	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	logger    logger.ILogger
}

func NewDDNS(name, hash string, scheduler *Scheduler, log logger.ILogger) *DDNSService {
	if log == nil {
		log = logger.Default()
	}
	return &DDNSService{
		name:      name,
		hash:      hash,
		scheduler: scheduler,
		status:    consts.StatusReady,
		logger:    log,
	}
}

func (s *DDNSService) String() string {
	return s.name
}

// Hash changes whenever the configuration the service was built from does.
func (s *DDNSService) Hash() string {
	return s.hash
}

func (s *DDNSService) Scheduler() *Scheduler {
	return s.scheduler
}

func (s *DDNSService) Status() int32 {
	return atomic.LoadInt32(&s.status)
}

// Start blocks until Stop is called. A stopped service cannot be restarted.
func (s *DDNSService) Start() error {
	s.mu.Lock()
	switch atomic.LoadInt32(&s.status) {
	case consts.StatusRunning:
		s.mu.Unlock()
		return errors.Errorf("%s DDNS service is already running", s.name)
	case consts.StatusClosed:
		s.mu.Unlock()
		s.logger.Debugf("%s DDNS service is closed!", s.name)
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel, s.done = cancel, done
	atomic.StoreInt32(&s.status, consts.StatusRunning)
	s.mu.Unlock()

	s.logger.Debugf("%s DDNS service is running!", s.name)
	defer func() {
		cancel()
		close(done)
		atomic.CompareAndSwapInt32(&s.status, consts.StatusRunning, consts.StatusStopped)
	}()
	return s.scheduler.Run(ctx)
}

// Stop cancels the running scheduler and waits for its tasks to return.
func (s *DDNSService) Stop() error {
	s.mu.Lock()
	atomic.StoreInt32(&s.status, consts.StatusClosed)
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	s.logger.Debugf("%s DDNS service has been manually stopped!", s.name)
	return nil
}
