package main

import (
	"time"

	"github.com/spherical-ai/fdd-pipeline/internal/config"
	"github.com/spherical-ai/fdd-pipeline/internal/extract"
	"github.com/spherical-ai/fdd-pipeline/internal/modelclient"
	"github.com/spherical-ai/fdd-pipeline/internal/prompt"
	"github.com/spherical-ai/fdd-pipeline/internal/router"
)

// newEngine builds the C6 extraction engine from a loaded catalog,
// router, and backend set.
func newEngine(catalog *prompt.Catalog, rtr *router.Router, backends map[router.ModelHandle]modelclient.Backend) *extract.Engine {
	return extract.NewEngine(logger, catalog, rtr, backends)
}

// buildBackends wires one modelclient.Backend per configured model
// handle: a Ollama-compatible local backend, and two OpenAI-compatible
// hosted backends, keyed the same way the router addresses them.
func buildBackends(cfg *config.Config) map[router.ModelHandle]modelclient.Backend {
	backends := make(map[router.ModelHandle]modelclient.Backend, 3)

	if cfg.Models.Local.BaseURL != "" {
		backends[router.HandleLocal] = modelclient.NewLocalBackend(cfg.Models.Local.BaseURL, cfg.Models.Local.Model)
	}
	if cfg.Models.HostedA.BaseURL != "" {
		backends[router.HandleHostedA] = modelclient.NewHTTPBackend(router.HandleHostedA, cfg.Models.HostedA.BaseURL, cfg.Models.HostedA.APIKey(), cfg.Models.HostedA.Model)
	}
	if cfg.Models.HostedB.BaseURL != "" {
		backends[router.HandleHostedB] = modelclient.NewHTTPBackend(router.HandleHostedB, cfg.Models.HostedB.BaseURL, cfg.Models.HostedB.APIKey(), cfg.Models.HostedB.Model)
	}

	return backends
}

// availability reports which handles have a backend wired, for seeding
// the router's initial availability map.
func availability(backends map[router.ModelHandle]modelclient.Backend) map[router.ModelHandle]bool {
	avail := make(map[router.ModelHandle]bool, len(backends))
	for _, h := range []router.ModelHandle{router.HandleLocal, router.HandleHostedA, router.HandleHostedB} {
		_, ok := backends[h]
		avail[h] = ok
	}
	return avail
}

func routerConfig(cfg *config.Config) router.Config {
	rc := router.DefaultConfig()
	if cfg.Router.MaxConcurrent > 0 {
		rc.MaxConcurrent = cfg.Router.MaxConcurrent
	}
	if cfg.Router.CircuitBreakerThreshold > 0 {
		rc.CircuitBreaker.FailureThreshold = cfg.Router.CircuitBreakerThreshold
	}
	if cfg.Router.CircuitBreakerCooloffS > 0 {
		rc.CircuitBreaker.CoolOff = time.Duration(cfg.Router.CircuitBreakerCooloffS) * time.Second
	}
	return rc
}
