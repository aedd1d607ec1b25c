package console

import (
	"errors"
	"fmt"

	"github.com/eventops/go-admin-console/pkg/backend"
)

// BootstrapConfig assembles a ready-to-serve console from a backend client.
type BootstrapConfig struct {
	Client        backend.Client
	Session       SessionContext
	ManifestPaths []string
	Options       Options
}

// Bootstrap registers the built-in resources, applies any manifests, and
// builds the service plus a shell bound to the session.
func Bootstrap(cfg BootstrapConfig) (*Service, *Shell, error) {
	if cfg.Client == nil {
		return nil, nil, errors.New("console: bootstrap requires a backend client")
	}
	reg := NewRegistry()
	if err := RegisterDefaultResources(reg, cfg.Client); err != nil {
		return nil, nil, fmt.Errorf("console: register default resources: %w", err)
	}
	for _, path := range cfg.ManifestPaths {
		if _, err := reg.LoadManifestFile(path); err != nil {
			return nil, nil, err
		}
	}
	opts := cfg.Options
	opts.Client = cfg.Client
	opts.Registry = reg
	service := NewService(opts)
	shell, err := NewShell(ShellConfig{
		Service:  service,
		Reports:  cfg.Client,
		Catalog:  cfg.Client,
		Exporter: cfg.Client,
		Session:  cfg.Session,
	})
	if err != nil {
		return nil, nil, err
	}
	return service, shell, nil
}
