package test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"recdiff/internal/cli"
	"recdiff/internal/cli/commands"
)

// TestIntegration_WebhookSite tests webhook delivery against webhook.site.
// This test is skipped by default. Set WEBHOOK_INTEGRATION_TEST=1 to run.
func TestIntegration_WebhookSite(t *testing.T) {
	if os.Getenv("WEBHOOK_INTEGRATION_TEST") != "1" {
		t.Skip("Skipping webhook.site integration test. Set WEBHOOK_INTEGRATION_TEST=1 to run")
	}

	commands.ExitCode = 0
	t.Cleanup(func() { commands.ExitCode = 0 })

	t.Log("Creating webhook.site token...")
	token, err := createWebhookSiteToken()
	if err != nil {
		t.Fatalf("Failed to create webhook.site token: %v", err)
	}
	t.Logf("Created webhook URL: https://webhook.site/%s", token.UUID)

	defer func() {
		if err := deleteWebhookSiteToken(token.UUID); err != nil {
			t.Logf("Warning: failed to delete token: %v", err)
		}
	}()

	webhookURL := fmt.Sprintf("https://webhook.site/%s", token.UUID)

	// A comparison with one mismatch so the report carries differences.
	f := newFixture(t, dataA, dataB)

	t.Log("Running recdiff compare...")
	rootCmd := cli.NewRootCommand()
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"compare", "--no-progress", f.configFile,
		"--webhook-url", webhookURL,
		"--webhook-trigger", "always"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("compare failed: %v", err)
	}

	t.Log("Waiting for webhook delivery...")
	time.Sleep(2 * time.Second)

	t.Log("Checking webhook.site for received payload...")
	requests, err := getWebhookSiteRequests(token.UUID)
	if err != nil {
		t.Fatalf("Failed to get webhook requests: %v", err)
	}

	if len(requests.Data) == 0 {
		t.Fatal("No webhook requests received at webhook.site")
	}
	t.Logf("Received %d webhook request(s)", len(requests.Data))

	req := requests.Data[0]
	contentType := req.GetHeader("content-type")

	if req.Method != "POST" {
		t.Errorf("Expected POST method, got %s", req.Method)
	}
	if !strings.Contains(contentType, "application/json") {
		t.Errorf("Expected application/json content-type, got %s", contentType)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(req.Content), &payload); err != nil {
		t.Fatalf("Failed to parse webhook payload: %v", err)
	}

	if _, ok := payload["Summary"]; !ok {
		t.Error("Payload missing 'Summary' field")
	}
	if _, ok := payload["Metadata"]; !ok {
		t.Error("Payload missing 'Metadata' field")
	}

	if summary, ok := payload["Summary"].(map[string]interface{}); ok {
		if mismatched, ok := summary["Mismatched"].(float64); ok {
			if mismatched == 0 {
				t.Error("Expected mismatches in the payload, but Mismatched is 0")
			} else {
				t.Logf("Webhook reported %v mismatched row(s)", mismatched)
			}
		}
	}
}

// webhook.site API types
type webhookSiteToken struct {
	UUID string `json:"uuid"`
}

type webhookSiteRequests struct {
	Data []webhookSiteRequest `json:"data"`
}

type webhookSiteRequest struct {
	UUID      string          `json:"uuid"`
	Method    string          `json:"method"`
	Content   string          `json:"content"`
	Headers   json.RawMessage `json:"headers"`
	CreatedAt string          `json:"created_at"`
}

func (r *webhookSiteRequest) GetHeader(name string) string {
	var headers map[string]interface{}
	if err := json.Unmarshal(r.Headers, &headers); err != nil {
		return ""
	}
	if val, ok := headers[name]; ok {
		switch v := val.(type) {
		case string:
			return v
		case []interface{}:
			if len(v) > 0 {
				if s, ok := v[0].(string); ok {
					return s
				}
			}
		}
	}
	return ""
}

func createWebhookSiteToken() (*webhookSiteToken, error) {
	resp, err := http.Post("https://webhook.site/token", "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("POST /token failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var token webhookSiteToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &token, nil
}

func getWebhookSiteRequests(uuid string) (*webhookSiteRequests, error) {
	url := fmt.Sprintf("https://webhook.site/token/%s/requests", uuid)
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("GET requests failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var requests webhookSiteRequests
	if err := json.NewDecoder(resp.Body).Decode(&requests); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &requests, nil
}

func deleteWebhookSiteToken(uuid string) error {
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("https://webhook.site/token/%s", uuid), nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return nil
}
