package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"weddinggame/config"
)

// Client talks to a Supabase-style storage API over plain HTTP. An empty
// base URL means storage is not configured; callers are expected to fall
// back to a placeholder asset instead of failing the request.
type Client struct {
	baseURL string
	key     string
	bucket  string
	http    *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.StorageURL,
		key:     cfg.StorageKey,
		bucket:  cfg.StorageBucket,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c.baseURL != "" && c.key != ""
}

// Upload PUTs the object and returns its public URL.
func (c *Client) Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("storage is not configured")
	}

	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, objectPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		c.baseURL, c.bucket, escapePath(objectPath))
	return publicURL, nil
}

// escapePath escapes each path segment while keeping the / separators, so
// the public URL addresses the same object the PUT created.
func escapePath(objectPath string) string {
	segments := strings.Split(objectPath, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

// ObjectPath builds a per-task path with a collision-resistant filename:
// <taskID>/<date>-<uuid>-<sanitized original name>.
func ObjectPath(taskID uint, originalFilename string) string {
	timestamp := time.Now().Format("20060102")
	safe := unsafeChars.ReplaceAllString(originalFilename, "_")
	return fmt.Sprintf("%d/%s-%s-%s", taskID, timestamp, uuid.New().String(), safe)
}
