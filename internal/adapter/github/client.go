// Package github uploads result files to a repository through the GitHub
// contents API: fetch the current blob SHA (absent on first upload), then PUT
// the base64-encoded content.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Client talks to the GitHub contents API for one repository.
type Client struct {
	token      string
	owner      string
	repo       string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a contents-API client.
func NewClient(token, owner, repo string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		token:   token,
		owner:   owner,
		repo:    repo,
		baseURL: "https://api.github.com",
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type putRequest struct {
	Message   string    `json:"message"`
	Committer committer `json:"committer"`
	Content   string    `json:"content"`
	SHA       string    `json:"sha,omitempty"`
}

type committer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type contentResponse struct {
	SHA string `json:"sha"`
}

// UploadFile creates or updates repoPath with content. An existing file's
// SHA is fetched first; the contents API requires it for updates.
func (c *Client) UploadFile(ctx context.Context, repoPath string, content []byte, message string) error {
	sha, exists, err := c.fileSHA(ctx, repoPath)
	if err != nil {
		return fmt.Errorf("check remote file: %w", err)
	}

	body := putRequest{
		Message: message,
		Committer: committer{
			Name:  "s4c data processor",
			Email: "s4c-processor@automated.local",
		},
		Content: base64.StdEncoding.EncodeToString(content),
	}
	if exists {
		body.SHA = sha
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal upload request: %w", err)
	}

	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, c.owner, c.repo, repoPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("github API error: status %d: %s", resp.StatusCode, respBody)
	}

	c.logger.Info("uploaded file to github", "path", repoPath, "updated", exists)
	return nil
}

// fileSHA returns the blob SHA of repoPath and whether the file exists.
func (c *Client) fileSHA(ctx context.Context, repoPath string) (string, bool, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, c.owner, c.repo, repoPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("contents request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", false, nil
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", false, fmt.Errorf("github API error: status %d: %s", resp.StatusCode, respBody)
	}

	var content contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		return "", false, fmt.Errorf("decode response: %w", err)
	}
	return content.SHA, true, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
}
