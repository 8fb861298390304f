package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"farmily/internal/domain/entity"
	"farmily/internal/domain/service"
)

// CropDetectionClient proxies images to the crop recognition model. Its base
// URL changes at runtime when the model is redeployed behind a new tunnel.
type CropDetectionClient struct {
	mu         sync.RWMutex
	baseURL    string
	httpClient *http.Client
	recorder   Recorder
}

func NewCropDetectionClient(baseURL string, timeout time.Duration, r Recorder) *CropDetectionClient {
	if r == nil {
		r = nopRecorder{}
	}
	return &CropDetectionClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		recorder:   r,
	}
}

func (c *CropDetectionClient) Endpoint() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetEndpoint replaces the base URL. Only absolute http(s) URLs are accepted.
func (c *CropDetectionClient) SetEndpoint(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint must be an absolute http or https URL")
	}
	c.mu.Lock()
	c.baseURL = strings.TrimRight(u.String(), "/")
	c.mu.Unlock()
	return nil
}

func (c *CropDetectionClient) endpoint(path string) (string, error) {
	base := c.Endpoint()
	if base == "" {
		return "", errors.New("crop detection endpoint is not configured")
	}
	return base + path, nil
}

func (c *CropDetectionClient) Health(ctx context.Context) error {
	target, err := c.endpoint("/health")
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("ngrok-skip-browser-warning", "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recorder.ExternalCall("crop_detection", "error")
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		c.recorder.ExternalCall("crop_detection", "error")
		return fmt.Errorf("crop detection health returned status %d", resp.StatusCode)
	}
	c.recorder.ExternalCall("crop_detection", "ok")
	return nil
}

type predictResponse struct {
	Status     string  `json:"status"`
	Prediction string  `json:"prediction"`
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	Message    string  `json:"message"`
	Error      string  `json:"error"`
}

func (c *CropDetectionClient) Predict(ctx context.Context, filename string, image io.Reader) (*entity.CropDetection, error) {
	target, err := c.endpoint("/predict")
	if err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		part, err := form.CreateFormFile("file", filename)
		if err == nil {
			_, err = io.Copy(part, image)
		}
		if err == nil {
			err = form.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, pr)
	if err != nil {
		pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("ngrok-skip-browser-warning", "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recorder.ExternalCall("crop_detection", "error")
		return nil, fmt.Errorf("%w: %v", service.ErrDetectorUnreachable, err)
	}
	defer resp.Body.Close()

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.recorder.ExternalCall("crop_detection", "error")
		return nil, fmt.Errorf("failed to decode prediction (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || out.Status != "success" {
		c.recorder.ExternalCall("crop_detection", "error")
		msg := out.Error
		if msg == "" {
			msg = out.Message
		}
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("prediction failed: %s", msg)
	}
	c.recorder.ExternalCall("crop_detection", "ok")

	crop := out.Prediction
	if crop == "" {
		crop = out.Class
	}
	result := &entity.CropDetection{
		Status:     out.Status,
		Prediction: crop,
		Confidence: out.Confidence,
	}
	result.Annotate()
	return result, nil
}
