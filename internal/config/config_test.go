package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zalando/go-keyring"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestLoad_DefaultWhenMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	def := DefaultConfig()
	if cfg.LLM.ChatModel != def.LLM.ChatModel {
		t.Errorf("ChatModel = %q, want %q", cfg.LLM.ChatModel, def.LLM.ChatModel)
	}
	if cfg.LLM.Timeout != 120*time.Second {
		t.Errorf("LLM.Timeout = %v, want 2m0s", cfg.LLM.Timeout)
	}
	if cfg.Server.Port != 8080 || cfg.Server.Bind != "127.0.0.1" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8080", cfg.Addr())
	}
	if cfg.MaxAudioBytes != 25*1024*1024 {
		t.Errorf("MaxAudioBytes = %d", cfg.MaxAudioBytes)
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `
llm:
  chat_model: llama-3.3-70b-versatile
  timeout: 30s
render:
  header_image: /srv/acta/cabecera.png
server:
  port: 9090
`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLM.ChatModel != "llama-3.3-70b-versatile" {
		t.Errorf("ChatModel = %q", cfg.LLM.ChatModel)
	}
	if cfg.LLM.Timeout != 30*time.Second {
		t.Errorf("LLM.Timeout = %v, want 30s", cfg.LLM.Timeout)
	}
	if cfg.Render.HeaderImage != "/srv/acta/cabecera.png" {
		t.Errorf("HeaderImage = %q", cfg.Render.HeaderImage)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	// Untouched values keep their defaults
	if cfg.LLM.MaxTokens != 8192 {
		t.Errorf("MaxTokens = %d, want 8192", cfg.LLM.MaxTokens)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "llm: [unclosed")

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestLoad_DisabledTools(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "disabled_tools: [acta_extract, acta_summarize]\n")

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.DisabledTools) != 2 {
		t.Fatalf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
	if cfg.DisabledTools[0] != "acta_extract" {
		t.Errorf("DisabledTools[0] = %q, want %q", cfg.DisabledTools[0], "acta_extract")
	}
}

func TestLoadWithRepo_BothPresent(t *testing.T) {
	globalDir := t.TempDir()
	repoRoot := t.TempDir()

	writeConfig(t, globalDir, "llm:\n  chat_model: global-model\ndisabled_tools: [acta_extract]\n")
	writeConfig(t, filepath.Join(repoRoot, ".acta"), "llm:\n  chat_model: repo-model\ndisabled_tools: [acta_summarize]\n")

	cfg, err := LoadWithRepo(globalDir, repoRoot)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.LLM.ChatModel != "repo-model" {
		t.Errorf("ChatModel = %q, want repo-model (repo override)", cfg.LLM.ChatModel)
	}
	if len(cfg.DisabledTools) != 2 {
		t.Errorf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
}

func TestLoadWithRepo_NeitherPresent(t *testing.T) {
	cfg, err := LoadWithRepo(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.LLM.BaseURL != "https://api.groq.com/openai/v1" {
		t.Errorf("BaseURL = %q", cfg.LLM.BaseURL)
	}
	if len(cfg.DisabledTools) != 0 {
		t.Errorf("DisabledTools = %v, want empty", cfg.DisabledTools)
	}
}

func TestLoadWithRepo_WalksUpward(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, filepath.Join(tmpDir, ".acta"), "disabled_tools: [acta_render]\n")

	subdir := filepath.Join(tmpDir, "subdir", "deeper")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	cfg, err := LoadWithRepo(t.TempDir(), subdir)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if len(cfg.DisabledTools) != 1 || cfg.DisabledTools[0] != "acta_render" {
		t.Errorf("DisabledTools = %v, want [acta_render]", cfg.DisabledTools)
	}
}

func TestFindRepoConfig_NotFound(t *testing.T) {
	if found := FindRepoConfig(t.TempDir()); found != "" {
		t.Errorf("FindRepoConfig() = %q, want empty string", found)
	}
	if found := FindRepoConfig(""); found != "" {
		t.Errorf("FindRepoConfig(\"\") = %q, want empty string", found)
	}
}

func TestMerge_ScalarOverride(t *testing.T) {
	base := &Config{LLM: LLMConfig{ChatModel: "a", MaxTokens: 100}}
	overlay := &Config{LLM: LLMConfig{ChatModel: "b"}}

	result := Merge(base, overlay)

	if result.LLM.ChatModel != "b" {
		t.Errorf("ChatModel = %q, want b (overlay)", result.LLM.ChatModel)
	}
	if result.LLM.MaxTokens != 100 {
		t.Errorf("MaxTokens = %d, want 100 (base, overlay is zero)", result.LLM.MaxTokens)
	}
}

func TestMerge_BooleanOr(t *testing.T) {
	result := Merge(&Config{Log: LogConfig{JSON: true}}, &Config{AllowUnsafePaths: true})
	if !result.Log.JSON {
		t.Error("Log.JSON should be true (base OR overlay)")
	}
	if !result.AllowUnsafePaths {
		t.Error("AllowUnsafePaths should be true (base OR overlay)")
	}
}

func TestMerge_OutputDirs(t *testing.T) {
	result := Merge(&Config{OutputDirs: []string{"/srv/actas"}}, &Config{OutputDirs: []string{"/srv/actas", "/tmp/actas"}})
	if len(result.OutputDirs) != 2 || result.OutputDirs[1] != "/tmp/actas" {
		t.Errorf("OutputDirs = %v, want [/srv/actas /tmp/actas]", result.OutputDirs)
	}
}

func TestMerge_ArrayMergeDedup(t *testing.T) {
	base := &Config{DisabledTools: []string{"acta_extract", " acta_render "}}
	overlay := &Config{DisabledTools: []string{"acta_render", "acta_summarize", ""}}

	result := Merge(base, overlay)

	want := []string{"acta_extract", "acta_render", "acta_summarize"}
	if len(result.DisabledTools) != len(want) {
		t.Fatalf("DisabledTools = %v, want %v", result.DisabledTools, want)
	}
	for i := range want {
		if result.DisabledTools[i] != want[i] {
			t.Errorf("DisabledTools[%d] = %q, want %q", i, result.DisabledTools[i], want[i])
		}
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"GROQ_API_KEY":      " sk_groq_abc ",
		"ACTA_CHAT_MODEL":   "other",
		"ACTA_PORT":         "9000",
		"ACTA_LOG_JSON":     "true",
		"ACTA_HEADER_IMAGE": "",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	cfg := DefaultConfig()
	cfg.Render.HeaderImage = "/etc/acta/logo.png"
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if cfg.LLM.ChatModel != "other" || cfg.Server.Port != 9000 || !cfg.Log.JSON {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.Render.HeaderImage != "/etc/acta/logo.png" {
		t.Errorf("empty env var should not clear HeaderImage, got %q", cfg.Render.HeaderImage)
	}
	if got := cfg.LLMClient().APIKey; got != "abc" {
		t.Errorf("LLMClient().APIKey = %q, want abc", got)
	}
}

func TestApplyEnv_Invalid(t *testing.T) {
	for _, env := range []map[string]string{
		{"ACTA_PORT": "http"},
		{"ACTA_PORT": "70000"},
		{"ACTA_LOG_JSON": "maybe"},
	} {
		lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }
		if err := DefaultConfig().ApplyEnv(lookup); err == nil {
			t.Errorf("ApplyEnv(%v) expected error", env)
		}
	}
}

func TestNormalizeAPIKey(t *testing.T) {
	tests := map[string]string{
		"gsk_123":          "gsk_123",
		"sk_groq_gsk_123":  "gsk_123",
		"  sk_groq_x \n":   "x",
		"":                 "",
		"prefix_sk_groq_x": "prefix_sk_groq_x",
	}
	for in, want := range tests {
		if got := NormalizeAPIKey(in); got != want {
			t.Errorf("NormalizeAPIKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestKeyring(t *testing.T) {
	keyring.MockInit()

	cfg := DefaultConfig()
	if err := cfg.ResolveAPIKey(); err != nil {
		t.Fatalf("ResolveAPIKey() with empty keyring error = %v", err)
	}
	if cfg.LLM.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", cfg.LLM.APIKey)
	}

	if err := StoreAPIKey("sk_groq_stored"); err != nil {
		t.Fatalf("StoreAPIKey() error = %v", err)
	}
	if err := cfg.ResolveAPIKey(); err != nil {
		t.Fatalf("ResolveAPIKey() error = %v", err)
	}
	if cfg.LLM.APIKey != "stored" {
		t.Errorf("APIKey = %q, want stored", cfg.LLM.APIKey)
	}

	// Explicit keys win over the keyring
	cfg.LLM.APIKey = "from-env"
	if err := cfg.ResolveAPIKey(); err != nil || cfg.LLM.APIKey != "from-env" {
		t.Errorf("ResolveAPIKey() = %v, APIKey = %q", err, cfg.LLM.APIKey)
	}

	if err := ClearAPIKey(); err != nil {
		t.Fatalf("ClearAPIKey() error = %v", err)
	}
	if err := ClearAPIKey(); err != nil {
		t.Fatalf("second ClearAPIKey() error = %v", err)
	}
	if err := StoreAPIKey("  "); err == nil {
		t.Error("StoreAPIKey(blank) expected error")
	}
}
