package service

import (
	"testing"
	"time"

	"github.com/jxo-me/cfddns/config"
	"github.com/jxo-me/cfddns/consts"
	xlogger "github.com/jxo-me/cfddns/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDDNSServiceStartStop(t *testing.T) {
	env := newTestEnv()
	s := env.scheduler(t, []config.DomainSetting{setting("a.example.com", func(p *config.ResolvedProperties) { p.TTL = 5 })})
	svc := NewDDNS("default", "hash-1", s, xlogger.Nop())
	assert.Equal(t, "default", svc.String())
	assert.Equal(t, "hash-1", svc.Hash())
	assert.Equal(t, consts.StatusReady, svc.Status())

	errC := make(chan error, 1)
	go func() { errC <- svc.Start() }()

	r := env.resolver(consts.DefaultCheckURLV4, consts.RecordTypeA)
	require.Eventually(t, func() bool { return r.Calls() >= 2 }, 5*time.Second, time.Millisecond)
	assert.Equal(t, consts.StatusRunning, svc.Status())
	assert.Error(t, svc.Start())

	require.NoError(t, svc.Stop())
	select {
	case err := <-errC:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
	assert.Equal(t, consts.StatusClosed, svc.Status())

	// a closed service does not start again
	assert.NoError(t, svc.Start())
	calls := r.Calls()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, calls, r.Calls())
}

func TestDDNSServiceStopBeforeStart(t *testing.T) {
	s := newTestEnv().scheduler(t, []config.DomainSetting{setting("a.example.com")})
	svc := NewDDNS("default", "hash", s, nil)

	require.NoError(t, svc.Stop())
	assert.NoError(t, svc.Start())
	assert.Equal(t, consts.StatusClosed, svc.Status())
}
