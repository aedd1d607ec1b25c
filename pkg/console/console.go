package console

import (
	core "github.com/eventops/go-admin-console/components/console"
)

// Service exposes the underlying components/console.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// Shell and its config re-exported for embedding applications.
type (
	Shell       = core.Shell
	ShellConfig = core.ShellConfig
)

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// NewShell proxies to the internal constructor.
func NewShell(cfg ShellConfig) (*Shell, error) {
	return core.NewShell(cfg)
}

// Bootstrap assembles a service and shell from a backend client.
var Bootstrap = core.Bootstrap
