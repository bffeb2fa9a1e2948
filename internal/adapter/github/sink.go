package github

import (
	"context"
	"fmt"
	"time"

	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/domain"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/pipeline"
)

// Sink publishes each cycle's normalized records as a CSV file in the
// configured repository. It implements pipeline.ResultSink.
type Sink struct {
	client   *Client
	repoPath string
}

func NewSink(client *Client, repoPath string) *Sink {
	return &Sink{client: client, repoPath: repoPath}
}

func (s *Sink) Name() string { return "github" }

func (s *Sink) Deliver(ctx context.Context, res *pipeline.Result) error {
	content := domain.MarshalRecordsCSV(res.Normalized)
	message := fmt.Sprintf("Automated scintillation data update - %s",
		time.Now().UTC().Format(domain.TimeLayout))
	return s.client.UploadFile(ctx, s.repoPath, content, message)
}
