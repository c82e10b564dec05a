// Package llm is a small client for the Groq OpenAI-compatible API:
// chat completions for extraction and summaries, and audio transcription.
package llm

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

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/acta/internal/logging"
)

// Config configures the client.
type Config struct {
	BaseURL            string
	APIKey             string
	ChatModel          string
	Temperature        float64
	MaxTokens          int
	TranscriptionModel string
	Timeout            time.Duration
}

// Client talks to the chat and transcription endpoints. It is safe for
// concurrent use and meant to be built once per process.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        logging.Logger
}

// New creates a Client.
func New(cfg Config, log logging.Logger) *Client {
	if log == nil {
		log = logging.Nop()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

const summaryPrompt = "Resume el siguiente texto de forma concisa:\n\n"

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Messages    []message `json:"messages"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Complete sends prompt as a single user message with the configured
// model, temperature and token limit. A response without choices yields "".
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.chat(ctx, "llm.complete", chatRequest{
		Model:       c.cfg.ChatModel,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Messages:    []message{{Role: "user", Content: prompt}},
	})
}

// Summarize returns a concise Spanish summary of text.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	return c.chat(ctx, "llm.summarize", chatRequest{
		Model:       c.cfg.ChatModel,
		Temperature: 0.3,
		Messages:    []message{{Role: "user", Content: summaryPrompt + text}},
	})
}

func (c *Client) chat(ctx context.Context, event string, body chatRequest) (string, error) {
	rid := ulid.Make().String()
	start := time.Now()
	log := c.log.WithContext(ctx).With(logging.F("req_id", rid), logging.F("model", body.Model))

	b, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	raw, err := c.do(ctx, c.endpoint("/chat/completions"), "application/json", bytes.NewReader(b))
	if err != nil {
		log.Error(event+".http_error", logging.Err(err), logging.Elapsed(start))
		return "", err
	}

	var cc chatResponse
	if err := json.Unmarshal(raw, &cc); err != nil {
		log.Error(event+".decode_error", logging.Err(err), logging.F("raw_bytes", len(raw)))
		return "", fmt.Errorf("decode chat response: %w", err)
	}

	log.Info(event+".ok",
		logging.F("completion_id", cc.ID),
		logging.F("choices", len(cc.Choices)),
		logging.F("prompt_tokens", cc.Usage.PromptTokens),
		logging.F("completion_tokens", cc.Usage.CompletionTokens),
		logging.Elapsed(start),
	)
	if len(cc.Choices) == 0 {
		return "", nil
	}
	return cc.Choices[0].Message.Content, nil
}

// Transcribe uploads audio and returns the transcript text.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	rid := ulid.Make().String()
	start := time.Now()
	log := c.log.WithContext(ctx).With(logging.F("req_id", rid), logging.F("model", c.cfg.TranscriptionModel))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("model", c.cfg.TranscriptionModel); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create file part: %w", err)
	}
	n, err := io.Copy(fw, audio)
	if err != nil {
		return "", fmt.Errorf("copy audio: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	raw, err := c.do(ctx, c.endpoint("/audio/transcriptions"), mw.FormDataContentType(), &body)
	if err != nil {
		log.Error("llm.transcribe.http_error", logging.Err(err), logging.Elapsed(start))
		return "", err
	}

	var tr struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &tr); err != nil {
		log.Error("llm.transcribe.decode_error", logging.Err(err))
		return "", fmt.Errorf("decode transcription response: %w", err)
	}

	log.Info("llm.transcribe.ok",
		logging.F("filename", filename),
		logging.F("audio_bytes", n),
		logging.F("text_len", len(tr.Text)),
		logging.Elapsed(start),
	)
	return tr.Text, nil
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + path
}

func (c *Client) do(ctx context.Context, url, contentType string, body io.Reader) ([]byte, error) {
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("missing API key")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("groq http error: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Warn("llm.body_close_error", logging.Err(err))
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("groq status %d: %s", resp.StatusCode, truncate(string(raw), 512))
	}
	return raw, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
