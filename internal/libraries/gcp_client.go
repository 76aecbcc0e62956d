package libraries

import (
	"context"
	"encoding/base64"
	"fmt"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

type GCPConfig struct {
	Credentials  string // base64 encoded service account JSON
	ProjectID    string
	VertexRegion string
	WithStorage  bool
	WithVertex   bool
}

type Clients struct {
	GCS       *storage.Client
	Vertex    *aiplatform.PredictionClient
	ProjectID string
}

// NewClients creates the GCP clients cfg asks for. It returns (nil, nil)
// when neither client is wanted.
func NewClients(ctx context.Context, cfg GCPConfig) (*Clients, error) {
	if !cfg.WithStorage && !cfg.WithVertex {
		return nil, nil
	}
	if cfg.Credentials == "" {
		return nil, fmt.Errorf("GCP_SERVICE_ACCOUNT_CREDENTIALS not set")
	}

	// decode JSON
	decoded, err := base64.StdEncoding.DecodeString(cfg.Credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to decode service account json: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, decoded, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return nil, fmt.Errorf("CredentialsFromJSON: %w", err)
	}
	credOpt := option.WithCredentials(creds)

	projectID := cfg.ProjectID
	if projectID == "" {
		projectID = creds.ProjectID
	}
	clients := &Clients{ProjectID: projectID}

	if cfg.WithStorage {
		clients.GCS, err = storage.NewClient(ctx, credOpt)
		if err != nil {
			return nil, fmt.Errorf("storage.NewClient: %w", err)
		}
	}

	if cfg.WithVertex {
		// publisher models are only served from the regional endpoint
		endpoint := fmt.Sprintf("%s-aiplatform.googleapis.com:443", cfg.VertexRegion)
		clients.Vertex, err = aiplatform.NewPredictionClient(ctx, credOpt, option.WithEndpoint(endpoint))
		if err != nil {
			clients.Close()
			return nil, fmt.Errorf("vertex.NewPredictionClient: %w", err)
		}
	}

	return clients, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.GCS != nil {
		c.GCS.Close()
	}
	if c.Vertex != nil {
		c.Vertex.Close()
	}
}
