package robot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/models"
)

// Client is a thin HTTP client for the inspection backend's command API:
// start/stop the robot, list recent detections, and submit an image for
// classification. These calls share no state with the event path.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// CommandResponse is the backend's reply to start/stop commands.
type CommandResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// UploadResponse is the backend's classification verdict for an uploaded
// image.
type UploadResponse struct {
	Filepath   string  `json:"filepath"`
	IsCrack    bool    `json:"is_crack"`
	Confidence float64 `json:"confidence"`
	Message    string  `json:"message,omitempty"`
}

// Start commands the robot to begin an inspection run.
func (c *Client) Start(ctx context.Context) (*CommandResponse, error) {
	return c.command(ctx, "/api/start")
}

// Stop commands the robot to halt.
func (c *Client) Stop(ctx context.Context) (*CommandResponse, error) {
	return c.command(ctx, "/api/stop")
}

func (c *Client) command(ctx context.Context, path string) (*CommandResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("robot command %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("robot command %s: unexpected status %d", path, resp.StatusCode)
	}

	var cmdResp CommandResponse
	if err := json.NewDecoder(resp.Body).Decode(&cmdResp); err != nil {
		return nil, fmt.Errorf("robot command %s: decode response: %w", path, err)
	}

	log.Printf("Robot command %s -> %s", path, cmdResp.Status)
	return &cmdResp, nil
}

// RecentDetections fetches the backend's stored detection list.
func (c *Client) RecentDetections(ctx context.Context) ([]models.DetectionPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/detections", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch detections: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch detections: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch detections: %w", err)
	}

	return decodeDetections(body)
}

// Upload submits an image for crack classification via multipart POST.
func (c *Client) Upload(ctx context.Context, filename string, image io.Reader) (*UploadResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("upload %s: %w", filename, err)
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", filename, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upload %s: unexpected status %d", filename, resp.StatusCode)
	}

	var uploadResp UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploadResp); err != nil {
		return nil, fmt.Errorf("upload %s: decode response: %w", filename, err)
	}

	log.Printf("Upload %s classified: is_crack=%v confidence=%.3f", filename, uploadResp.IsCrack, uploadResp.Confidence)
	return &uploadResp, nil
}
