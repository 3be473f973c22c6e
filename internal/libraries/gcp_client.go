package libraries

import (
	"context"
	"encoding/base64"
	"fmt"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// NewGCSClient creates a Cloud Storage client. encodedCredentials is the
// base64 encoded service account JSON; when empty the application default
// credentials are used.
func NewGCSClient(ctx context.Context, encodedCredentials string) (*storage.Client, error) {
	var opts []option.ClientOption

	if encodedCredentials != "" {
		// decode JSON
		decoded, err := base64.StdEncoding.DecodeString(encodedCredentials)
		if err != nil {
			return nil, fmt.Errorf("failed to decode service account json: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decoded))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return client, nil
}
