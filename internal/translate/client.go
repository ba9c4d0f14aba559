// Package translate translates free-text report columns, keeping the original
// text whenever translation fails.
package translate

//go:generate mockgen -source client.go -destination mock_client_test.go -package translate

import (
    "bytes"
    "context"
    "errors"
    "fmt"
    "io"
    "net/http"
    "strings"
    "time"

    "github.com/goccy/go-json"
    "golang.org/x/text/language"
)

type Client interface {
    Translate(ctx context.Context, text string, src, dst language.Tag) (string, error)
}

// HTTPClient talks to a LibreTranslate-compatible /translate endpoint.
type HTTPClient struct {
    BaseURL    string
    APIKey     string
    httpClient *http.Client
}

func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
    return &HTTPClient{
        BaseURL:    strings.TrimRight(baseURL, "/"),
        APIKey:     apiKey,
        httpClient: &http.Client{Timeout: timeout},
    }
}

type translateRequest struct {
    Q      string `json:"q"`
    Source string `json:"source"`
    Target string `json:"target"`
    Format string `json:"format"`
    APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
    TranslatedText string `json:"translatedText"`
    Error          string `json:"error"`
}

func (c *HTTPClient) Translate(ctx context.Context, text string, src, dst language.Tag) (string, error) {
    body, err := json.Marshal(translateRequest{Q: text, Source: src.String(), Target: dst.String(), Format: "text", APIKey: c.APIKey})
    if err != nil { return "", err }
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/translate", bytes.NewReader(body))
    if err != nil { return "", err }
    req.Header.Set("Content-Type", "application/json")

    resp, err := c.httpClient.Do(req)
    if err != nil { return "", fmt.Errorf("translate request: %w", err) }
    defer resp.Body.Close()
    raw, err := io.ReadAll(resp.Body)
    if err != nil { return "", err }

    var out translateResponse
    if err := json.Unmarshal(raw, &out); err != nil {
        return "", fmt.Errorf("translate: status %d: %w", resp.StatusCode, err)
    }
    if resp.StatusCode != http.StatusOK {
        return "", fmt.Errorf("translate: status %d: %s", resp.StatusCode, out.Error)
    }
    if out.TranslatedText == "" { return "", errors.New("translate: empty translation") }
    return out.TranslatedText, nil
}
