package artifact

import (
	"fmt"

	"docketflow/internal/artifact/local"
	"docketflow/internal/artifact/s3"
	"docketflow/internal/config"
	"docketflow/internal/port"
)

// NewStore builds the artifact store the config selects. An empty backend
// defaults to the local directory store.
func NewStore(cfg *config.ArtifactsConfig) (port.ArtifactStore, error) {
	switch cfg.Backend {
	case "s3":
		return s3.NewStore(&cfg.S3)
	case "local", "":
		return local.NewStore(cfg.Dir), nil
	default:
		return nil, fmt.Errorf("unknown artifact backend %q", cfg.Backend)
	}
}
