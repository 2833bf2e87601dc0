// Package classifier は画像分類サービス（カテゴリ推定）のHTTPクライアント。
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// 分類サービスのエンドポイント
const detectPath = "/detect-category"

// レスポンスが大きすぎるときは読まない
const maxResponseBytes = 1 << 20

type Client struct {
	baseURL string
	http    *http.Client
}

// DI
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type detectResponse struct {
	DetectedCategory string `json:"detected_category"`
}

// DetectCategory は画像をmultipartの"image"で送り、推定カテゴリ名を返す
func (c *Client) DetectCategory(ctx context.Context, filename string, image io.Reader) (string, error) {
	if filename == "" {
		filename = "image"
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, image); err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+detectPath, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("classifier request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("classifier response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("classifier status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out detectResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("classifier decode: %w", err)
	}
	return out.DetectedCategory, nil
}
