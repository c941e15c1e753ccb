package config

import (
	"reflect"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "AI_PROVIDER", "INVENTORY_SOURCE", "AUTO_NARRATE",
		"TYPING_SEED", "ALLOWED_ORIGINS", "COMPLETION_URL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, "8080")
	}
	if cfg.AIProvider != "openrouter" {
		t.Errorf("AIProvider = %q, want %q", cfg.AIProvider, "openrouter")
	}
	if cfg.OpenRouterModel != "mistralai/mistral-7b-instruct" {
		t.Errorf("OpenRouterModel = %q", cfg.OpenRouterModel)
	}
	if cfg.InventorySource != "builtin" {
		t.Errorf("InventorySource = %q, want builtin", cfg.InventorySource)
	}
	if cfg.AutoNarrate {
		t.Error("AutoNarrate should default to false")
	}
	if cfg.CompletionURL != "" {
		t.Errorf("CompletionURL = %q, want empty", cfg.CompletionURL)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"*"}) {
		t.Errorf("AllowedOrigins = %v, want [*]", cfg.AllowedOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("AI_PROVIDER", "ollama")
	t.Setenv("INVENTORY_SOURCE", "yaml")
	t.Setenv("AUTO_NARRATE", "true")
	t.Setenv("TYPING_SEED", "42")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg := Load()
	if cfg.ServerPort != "9000" {
		t.Errorf("ServerPort = %q, want 9000", cfg.ServerPort)
	}
	if cfg.AIProvider != "ollama" {
		t.Errorf("AIProvider = %q, want ollama", cfg.AIProvider)
	}
	if cfg.InventorySource != "yaml" {
		t.Errorf("InventorySource = %q, want yaml", cfg.InventorySource)
	}
	if !cfg.AutoNarrate {
		t.Error("AutoNarrate = false, want true")
	}
	if cfg.TypingSeed != 42 {
		t.Errorf("TypingSeed = %d, want 42", cfg.TypingSeed)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
}

func TestLoad_UnknownValuesFallBack(t *testing.T) {
	t.Setenv("AI_PROVIDER", "skynet")
	t.Setenv("INVENTORY_SOURCE", "mongo")

	cfg := Load()
	if cfg.AIProvider != "openrouter" {
		t.Errorf("AIProvider = %q, want openrouter", cfg.AIProvider)
	}
	if cfg.InventorySource != "builtin" {
		t.Errorf("InventorySource = %q, want builtin", cfg.InventorySource)
	}
}
