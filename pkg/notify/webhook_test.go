package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recdiff/pkg/report"
)

func testReport() *report.Report {
	return &report.Report{
		Summary: report.Summary{
			RecordsA:   10,
			RecordsB:   10,
			Compared:   9,
			Matched:    8,
			Mismatched: 1,
		},
	}
}

func TestSend(t *testing.T) {
	var gotMethod, gotContentType, gotUserAgent string
	var gotBody report.Report

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotUserAgent = r.Header.Get("User-Agent")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient()
	resp := client.Send(context.Background(), testReport(), SendOptions{URL: server.URL})

	if !resp.Success() {
		t.Fatalf("Send() failed: %v (status %d)", resp.Error, resp.StatusCode)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotUserAgent != "recdiff-webhook" {
		t.Errorf("User-Agent = %q", gotUserAgent)
	}
	if gotBody.Summary.Mismatched != 1 {
		t.Errorf("payload summary = %+v", gotBody.Summary)
	}
}

func TestSend_BearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient()
	resp := client.Send(context.Background(), testReport(), SendOptions{
		URL:   server.URL,
		Token: "s3cret",
	})

	if !resp.Success() {
		t.Fatalf("Send() failed: %v", resp.Error)
	}
	if gotAuth != "Bearer s3cret" {
		t.Errorf("Authorization = %q, want Bearer s3cret", gotAuth)
	}
}

func TestSend_NoTokenNoAuthHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient()
	client.Send(context.Background(), testReport(), SendOptions{URL: server.URL})

	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestSend_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient()
	resp := client.Send(context.Background(), testReport(), SendOptions{URL: server.URL})

	if resp.Success() {
		t.Fatal("Success() = true for 500 response")
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", resp.StatusCode)
	}
	if resp.Error == nil {
		t.Error("Error = nil, want status error")
	}
}

func TestSend_Unreachable(t *testing.T) {
	client := NewClient()
	resp := client.Send(context.Background(), testReport(), SendOptions{
		URL:     "http://127.0.0.1:1/webhook",
		Timeout: time.Second,
	})

	if resp.Success() {
		t.Fatal("Success() = true for unreachable endpoint")
	}
	if resp.Error == nil {
		t.Error("Error = nil, want connection error")
	}
}

func TestSend_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := NewClient()
	resp := client.Send(context.Background(), testReport(), SendOptions{
		URL:     server.URL,
		Timeout: 50 * time.Millisecond,
	})

	if resp.Success() {
		t.Fatal("Success() = true for timed-out request")
	}
}

func TestResponse_Success(t *testing.T) {
	tests := []struct {
		name string
		resp Response
		want bool
	}{
		{"ok", Response{StatusCode: 200}, true},
		{"created", Response{StatusCode: 201}, true},
		{"redirect", Response{StatusCode: 302}, false},
		{"not found", Response{StatusCode: 404}, false},
		{"error set", Response{StatusCode: 200, Error: context.DeadlineExceeded}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resp.Success(); got != tt.want {
				t.Errorf("Success() = %v, want %v", got, tt.want)
			}
		})
	}
}
