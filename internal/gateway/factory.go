package gateway

import (
	"fmt"
	"sync"

	"school-payments-service/internal/models"
)

// Config carries the connection settings the factory builds clients from
type Config struct {
	BaseURL string
	APIKey  string
	PGKey   string
}

// Factory creates and caches gateway client instances
type Factory struct {
	mu      sync.RWMutex
	cfg     Config
	clients map[models.GatewayName]Client
}

// NewFactory creates a new gateway factory
func NewFactory(cfg Config) *Factory {
	return &Factory{
		cfg:     cfg,
		clients: make(map[models.GatewayName]Client),
	}
}

// ClientFor returns the client for a gateway, creating it on first use
func (f *Factory) ClientFor(name models.GatewayName) (Client, error) {
	if !models.IsValidGateway(name) {
		return nil, fmt.Errorf("unsupported gateway: %s", name)
	}

	f.mu.RLock()
	if c, exists := f.clients[name]; exists {
		f.mu.RUnlock()
		return c, nil
	}
	f.mu.RUnlock()

	c, err := NewEdvironClient(name, f.cfg.BaseURL, f.cfg.APIKey, f.cfg.PGKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s gateway client: %w", name, err)
	}

	f.mu.Lock()
	f.clients[name] = c
	f.mu.Unlock()

	return c, nil
}

// ClearCache removes all cached clients
func (f *Factory) ClearCache() {
	f.mu.Lock()
	f.clients = make(map[models.GatewayName]Client)
	f.mu.Unlock()
}
