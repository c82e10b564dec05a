package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hpungsan/acta/internal/llm"
	"github.com/hpungsan/acta/internal/transcript"
)

// FileName is the configuration file looked up in each config directory.
const FileName = "config.yaml"

// Config holds application configuration.
type Config struct {
	LLM    LLMConfig    `yaml:"llm"`
	Render RenderConfig `yaml:"render"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`

	// MaxAudioBytes caps uploads sent to the transcription service.
	MaxAudioBytes int64 `yaml:"max_audio_bytes,omitempty"`

	// OutputDirs is an allowlist of directories acta_render may write to, in
	// addition to ~/.acta/output. Relative entries are ignored.
	OutputDirs []string `yaml:"output_dirs,omitempty"`

	// AllowUnsafePaths lifts the directory allowlist for acta_render. The
	// extension and symlink checks still apply.
	AllowUnsafePaths bool `yaml:"allow_unsafe_paths,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `yaml:"disabled_tools,omitempty"`
}

// LLMConfig configures the Groq OpenAI-compatible API.
type LLMConfig struct {
	BaseURL string `yaml:"base_url,omitempty"`

	// APIKey is normally left out of the file and read from GROQ_API_KEY
	// or the OS keyring.
	APIKey string `yaml:"api_key,omitempty"`

	ChatModel          string        `yaml:"chat_model,omitempty"`
	Temperature        float64       `yaml:"temperature,omitempty"`
	MaxTokens          int           `yaml:"max_tokens,omitempty"`
	TranscriptionModel string        `yaml:"transcription_model,omitempty"`
	Timeout            time.Duration `yaml:"timeout,omitempty"`
}

// RenderConfig configures HTML and PDF output.
type RenderConfig struct {
	// ChromePath overrides the browser executable. Empty means chromedp's lookup.
	ChromePath string `yaml:"chrome_path,omitempty"`

	// HeaderImage is an optional PNG placed at the top of every document.
	HeaderImage string        `yaml:"header_image,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Bind string `yaml:"bind,omitempty"`
	Port int    `yaml:"port,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
	JSON  bool   `yaml:"json,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			BaseURL:            "https://api.groq.com/openai/v1",
			ChatModel:          "llama-3.1-8b-instant",
			MaxTokens:          8192,
			TranscriptionModel: "whisper-large-v3-turbo",
			Timeout:            120 * time.Second,
		},
		Render: RenderConfig{
			Timeout: 60 * time.Second,
		},
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 8080,
		},
		Log: LogConfig{
			Level: "info",
		},
		MaxAudioBytes: transcript.MaxAudioBytes,
	}
}

// DefaultDir returns ~/.acta.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".acta"), nil
}

// Load loads configuration from baseDir/config.yaml.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.acta.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, FileName))
}

// LoadWithRepo loads configuration from both the global directory and the
// nearest .acta/config.yaml found walking upward from startDir.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, FileName))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .acta/config.yaml.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	if startDir == "" {
		return ""
	}
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".acta", FileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.LLM.BaseURL = pick(overlay.LLM.BaseURL, base.LLM.BaseURL)
	result.LLM.APIKey = pick(overlay.LLM.APIKey, base.LLM.APIKey)
	result.LLM.ChatModel = pick(overlay.LLM.ChatModel, base.LLM.ChatModel)
	result.LLM.Temperature = pick(overlay.LLM.Temperature, base.LLM.Temperature)
	result.LLM.MaxTokens = pick(overlay.LLM.MaxTokens, base.LLM.MaxTokens)
	result.LLM.TranscriptionModel = pick(overlay.LLM.TranscriptionModel, base.LLM.TranscriptionModel)
	result.LLM.Timeout = pick(overlay.LLM.Timeout, base.LLM.Timeout)

	result.Render.ChromePath = pick(overlay.Render.ChromePath, base.Render.ChromePath)
	result.Render.HeaderImage = pick(overlay.Render.HeaderImage, base.Render.HeaderImage)
	result.Render.Timeout = pick(overlay.Render.Timeout, base.Render.Timeout)

	result.Server.Bind = pick(overlay.Server.Bind, base.Server.Bind)
	result.Server.Port = pick(overlay.Server.Port, base.Server.Port)

	result.Log.Level = pick(overlay.Log.Level, base.Log.Level)

	// Booleans: overlay wins if true, else base
	result.Log.JSON = base.Log.JSON || overlay.Log.JSON
	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths

	result.MaxAudioBytes = pick(overlay.MaxAudioBytes, base.MaxAudioBytes)

	result.OutputDirs = mergeStringSlice(base.OutputDirs, overlay.OutputDirs)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// pick returns overlay unless it is the zero value.
func pick[T comparable](overlay, base T) T {
	var zero T
	if overlay != zero {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

// ApplyEnv overrides cfg with environment variables read through lookup
// (os.LookupEnv in production).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("GROQ_API_KEY", &c.LLM.APIKey)
	str("ACTA_LLM_BASE_URL", &c.LLM.BaseURL)
	str("ACTA_CHAT_MODEL", &c.LLM.ChatModel)
	str("ACTA_TRANSCRIPTION_MODEL", &c.LLM.TranscriptionModel)
	str("ACTA_CHROME_PATH", &c.Render.ChromePath)
	str("ACTA_HEADER_IMAGE", &c.Render.HeaderImage)
	str("ACTA_BIND", &c.Server.Bind)
	str("ACTA_LOG_LEVEL", &c.Log.Level)

	if v, ok := lookup("ACTA_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("ACTA_PORT: invalid port %q", v)
		}
		c.Server.Port = port
	}
	if v, ok := lookup("ACTA_LOG_JSON"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ACTA_LOG_JSON: %w", err)
		}
		c.Log.JSON = b
	}
	return nil
}

// LLMClient returns the client settings for the language model API.
func (c *Config) LLMClient() llm.Config {
	return llm.Config{
		BaseURL:            c.LLM.BaseURL,
		APIKey:             NormalizeAPIKey(c.LLM.APIKey),
		ChatModel:          c.LLM.ChatModel,
		Temperature:        c.LLM.Temperature,
		MaxTokens:          c.LLM.MaxTokens,
		TranscriptionModel: c.LLM.TranscriptionModel,
		Timeout:            c.LLM.Timeout,
	}
}

// Addr returns host:port for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
