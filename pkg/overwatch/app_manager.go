package overwatch

import (
	"sort"
	"sync"

	"github.com/jxo-me/cfddns/core/service"
)

// ServiceCallback is a service notify it's run loop finished.
// the first parameter is the service name,
// the second parameter is the service hash,
// the third parameter is an optional error if the service failed
type ServiceCallback func(string, string, error)

var _ Manager = (*AppManager)(nil)

// AppManager is the default implementation of over-watched service management
type AppManager struct {
	mu       sync.Mutex
	services map[string]service.IDDNSService
	callback ServiceCallback
	wg       sync.WaitGroup
}

// NewAppManager creates a new over-watched manager
func NewAppManager(callback ServiceCallback) *AppManager {
	return &AppManager{services: make(map[string]service.IDDNSService), callback: callback}
}

// Add takes in a new service to manage.
// It stops the service if it already exists in the manager and is running
// It then starts the newly added service
func (m *AppManager) Add(svc service.IDDNSService) {
	m.mu.Lock()
	current, ok := m.services[svc.String()]
	if ok && current.Hash() == svc.Hash() {
		m.mu.Unlock()
		return // the exact same service, no changes, so move along
	}
	m.services[svc.String()] = svc
	m.mu.Unlock()

	if ok {
		_ = current.Stop() // shutdown the old scheduler since a new one is starting
	}

	// start the service!
	m.wg.Add(1)
	go m.serviceRun(svc)
}

// Remove shutdowns the service by name and removes it from its current management list
func (m *AppManager) Remove(name string) {
	m.mu.Lock()
	current, ok := m.services[name]
	delete(m.services, name)
	m.mu.Unlock()

	if ok {
		_ = current.Stop()
	}
}

// Services returns all the current Services being managed, ordered by name
func (m *AppManager) Services() []service.IDDNSService {
	m.mu.Lock()
	defer m.mu.Unlock()
	values := make([]service.IDDNSService, 0, len(m.services))
	for _, value := range m.services {
		values = append(values, value)
	}
	sort.Slice(values, func(i, j int) bool { return values[i].String() < values[j].String() })
	return values
}

// Shutdown stops every service and waits for their run loops to return.
func (m *AppManager) Shutdown() {
	for _, svc := range m.Services() {
		m.Remove(svc.String())
	}
	m.wg.Wait()
}

func (m *AppManager) serviceRun(svc service.IDDNSService) {
	defer m.wg.Done()
	err := svc.Start()
	if m.callback != nil {
		m.callback(svc.String(), svc.Hash(), err)
	}
}
