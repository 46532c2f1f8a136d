// Package provider has the repository access providers used by the pipeline.
package provider

import (
	"fmt"

	"github.com/huangsam/repoviz/internal/contract"
	"github.com/huangsam/repoviz/schema"
)

// New builds the access provider selected by cfg.Provider.
func New(cfg *contract.Config) (contract.AccessProvider, error) {
	switch cfg.Provider {
	case schema.GitHubProvider, "":
		return NewGitHubProvider(cfg.APIURL, cfg.Token,
			WithRetries(cfg.Retries),
			WithContentCache(cfg.CacheSize, cfg.CacheTTL),
		), nil
	case schema.GitProvider:
		return NewGitMirrorProvider(cfg.MirrorRoot, NewLocalGitRunner()), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}
