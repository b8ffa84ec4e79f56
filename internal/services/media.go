package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/luowen/postpilot/internal/config"
	"github.com/luowen/postpilot/pkg/logger"
	"github.com/sashabaranov/go-openai"
)

// ImageService renders promotional images from rewritten copy using the
// OpenAI image API.
type ImageService struct {
	config *config.OpenAIConfig
}

func NewImageService(cfg *config.OpenAIConfig) *ImageService {
	return &ImageService{config: cfg}
}

func (s *ImageService) Render(ctx context.Context, text string) ([]byte, error) {
	clientConfig := openai.DefaultConfig(s.config.APIKey)
	if s.config.BaseURL != "" {
		clientConfig.BaseURL = s.config.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	model := s.config.ImageModel
	if model == "" {
		model = openai.CreateImageModelDallE3
	}
	size := s.config.ImageSize
	if size == "" {
		size = openai.CreateImageSize1024x1024
	}

	resp, err := client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         "Product promotion image for the following post:\n" + text,
		Model:          model,
		Size:           size,
		N:              1,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("image API error: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no image returned")
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}

	logger.Infof("[Image] Rendered %d bytes", len(data))
	return data, nil
}

// MediaService uploads rendered image bytes to the asset hosting endpoint
// and returns the public URL.
type MediaService struct {
	config *config.MediaConfig
	client *http.Client
}

func NewMediaService(cfg *config.MediaConfig) *MediaService {
	return &MediaService{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type uploadResponse struct {
	URL string `json:"url"`
}

func (s *MediaService) Upload(ctx context.Context, data []byte) (string, error) {
	if s.config.UploadURL == "" {
		return "", fmt.Errorf("media upload URL not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "render.png")
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.UploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if s.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.Token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed uploadResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parse upload response: %w", err)
	}
	if parsed.URL == "" {
		return "", fmt.Errorf("upload response missing url")
	}
	return parsed.URL, nil
}
