package port

import "context"

type ObjectStore interface {
	// Upload streams a local file to remote storage under key and returns
	// the remote URI.
	Upload(ctx context.Context, localPath, key string) (string, error)

	// URI returns the remote URI a key would resolve to, without touching
	// the network.
	URI(key string) string

	// List returns the keys of all objects under prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	Download(ctx context.Context, key string) ([]byte, error)
}
