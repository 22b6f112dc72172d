package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

const stubSpec = `{
  "type": "P90 Soapbar",
  "magnetType": "Alnico 5",
  "wireGauge": "42 AWG Plain Enamel",
  "windApproach": "Scatter wound",
  "dcResistance": "8.1k",
  "windStyle": "Standard",
  "windCount": "10,000 turns",
  "magnetPolarity": "North Up",
  "potting": "Light",
  "frequencyResponse": [{"freq": "100Hz", "value": 42}, {"freq": "1kHz", "value": 61}],
  "luthierNote": "Bark with restraint.",
  "realityCheck": "A P90 will hum."
}`

const stubAnalysis = `{"tonalDifference":"A barks harder","playingExperience":"B feels looser","recommendation":"A for rhythm"}`

type cliTestEnv struct {
	configPath string
	dataDir    string
	provider   *httptest.Server
	calls      atomic.Int32
}

// setupCLITestEnv writes a config pointing at a stub OpenRouter endpoint that
// answers by schema name.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	for _, key := range []string{"GHOSTWOOD_LLM_API_KEY", "OPENROUTER_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		t.Setenv(key, "")
	}

	env := &cliTestEnv{dataDir: filepath.Join(base, "data")}
	env.provider = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.calls.Add(1)
		var req struct {
			ResponseFormat *struct {
				Type       string `json:"type"`
				JSONSchema *struct {
					Name string `json:"name"`
				} `json:"json_schema"`
			} `json:"response_format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		content := `{"ok":true}`
		if req.ResponseFormat != nil && req.ResponseFormat.JSONSchema != nil {
			switch req.ResponseFormat.JSONSchema.Name {
			case "ghostwood_spec":
				content = stubSpec
			case "ghostwood_compare":
				content = stubAnalysis
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{
				"finish_reason": "stop",
				"message":       map[string]any{"content": content},
			}},
		})
	}))
	t.Cleanup(env.provider.Close)

	env.configPath = filepath.Join(base, "config.toml")
	writeTestConfig(t, env.configPath, env.dataDir, "test", env.provider.URL)
	return env
}

func writeTestConfig(t *testing.T, path, dataDir, apiKey, baseURL string) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q
api_bind = "127.0.0.1:0"

[llm]
api_key = %q
base_url = %q
model = "demo-model"
retry_attempts = 1

[history]
backend = "file"
`, dataDir, filepath.Join(dataDir, "logs"), apiKey, baseURL)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeIntakeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "intake.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write intake: %v", err)
	}
	return path
}

const guitarIntake = `{
  "category": "guitar",
  "style": "Garage rock rhythm",
  "toneGoals": ["Bark", "Clarity"],
  "guitarType": "Double Cut (SG)",
  "bodyWood": "Mahogany",
  "guitarBrand": "Gibson",
  "guitarModel": "SG Junior"
}`

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
