package port

import "context"

// ArtifactStore persists one raw-text artifact per successful extraction job.
// Artifacts are grouped by namespace (one per provider stream) and are
// append-only: no two jobs ever target the same name, so concurrent writers
// never collide. Artifact existence is the sole resumability signal.
type ArtifactStore interface {
	// Put writes an artifact. Names are unique per job.
	Put(ctx context.Context, namespace, name string, data []byte) error

	// List returns all artifact names in a namespace.
	List(ctx context.Context, namespace string) ([]string, error)

	// Read returns the contents of one artifact. Returns
	// domain.ErrArtifactNotFound if the artifact does not exist.
	Read(ctx context.Context, namespace, name string) ([]byte, error)
}
