package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fixdesk/fixdesk/internal/config"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

type testServer struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newCatalogServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		body.ReadFrom(r.Body)

		ts.requests = append(ts.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.RequestURI(),
			Body:   body.String(),
		})

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			if r.Method == http.MethodPost {
				w.WriteHeader(http.StatusCreated)
			}
			w.Write([]byte(resp))
			return
		}

		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

// useTestApp points the commands at baseURL with a fixed user identity.
func useTestApp(t *testing.T, baseURL string, userID int64) {
	t.Helper()
	old := newApp
	t.Cleanup(func() { newApp = old })

	newApp = func() (*app, error) {
		cfg := config.Config{}
		cfg.Remote.BaseURL = baseURL
		cfg.Remote.Timeout = 2 * time.Second
		cfg.User.ID = userID
		cfg.User.Username = "tester"
		return buildApp(cfg), nil
	}
}

// captureOut redirects table output for assertions, with color disabled so
// the strings are plain.
func captureOut(t *testing.T) *bytes.Buffer {
	t.Helper()
	oldOut, oldColor := out, color.NoColor
	color.NoColor = true
	buf := &bytes.Buffer{}
	out = buf
	t.Cleanup(func() { out, color.NoColor = oldOut, oldColor })
	return buf
}

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	defer resetFlags(rootCmd)
	return rootCmd.Execute()
}

// resetFlags clears flag state between Execute calls; cobra keeps parsed
// values on the shared command tree.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().Visit(func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

const devicesJSON = `[
	{"id":1,"name":"iPhone 15 Pro","description":"Apple flagship","tags":"Apple, iPhone","created_at":"2024-01-10T12:00:00"},
	{"id":2,"name":"Samsung Galaxy S24","description":"Android flagship","created_at":null}
]`

const instructionsJSON = `[
	{"id":10,"title":"Initial setup","type":"PDF","tg_file_id":"abc123","models":[{"id":1}]},
	{"id":11,"title":"Data transfer","type":"VIDEO","url":"https://example.com/v","models":[{"id":1},{"id":2}]}
]`

const recipesJSON = `[
	{"id":20,"title":"Factory restore","models":[{"id":2}]}
]`

func TestDevicesCommand_RendersCounts(t *testing.T) {
	ts := newCatalogServer(t, map[string]string{
		"GET /resource/devices":      devicesJSON,
		"GET /resource/instructions": instructionsJSON,
		"GET /resource/recipes":      recipesJSON,
	})
	useTestApp(t, ts.server.URL, 0)
	buf := captureOut(t)

	if err := runCommand(t, "devices"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "iPhone 15 Pro") || !strings.Contains(got, "Samsung Galaxy S24") {
		t.Fatalf("expected both devices in output, got:\n%s", got)
	}
	// iPhone: 2 instructions, 0 recipes. Galaxy: 1 and 1, from the reverse
	// scan over guide model refs.
	iphoneLine := lineContaining(t, got, "iPhone 15 Pro")
	if !strings.Contains(iphoneLine, "2") {
		t.Fatalf("expected instruction count on iPhone row, got: %s", iphoneLine)
	}
}

func TestDevicesCommand_Search(t *testing.T) {
	ts := newCatalogServer(t, map[string]string{
		"GET /resource/devices":      devicesJSON,
		"GET /resource/instructions": `[]`,
		"GET /resource/recipes":      `[]`,
	})
	useTestApp(t, ts.server.URL, 0)
	buf := captureOut(t)

	if err := runCommand(t, "devices", "--search", "galaxy"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := buf.String()
	if strings.Contains(got, "iPhone 15 Pro") {
		t.Fatalf("expected iPhone filtered out, got:\n%s", got)
	}
	if !strings.Contains(got, "Samsung Galaxy S24") {
		t.Fatalf("expected Galaxy in output, got:\n%s", got)
	}
}

func TestDevicesCommand_FallbackWhenServerDown(t *testing.T) {
	ts := newCatalogServer(t, nil)
	ts.server.Close()
	useTestApp(t, ts.server.URL, 0)
	buf := captureOut(t)

	if err := runCommand(t, "devices"); err != nil {
		t.Fatalf("expected fallback, not an error: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "iPhone 15 Pro") || !strings.Contains(got, "Samsung Galaxy S24") {
		t.Fatalf("expected placeholder devices, got:\n%s", got)
	}
}

func TestTicketsCommand_WithoutIdentityShowsNone(t *testing.T) {
	ts := newCatalogServer(t, nil)
	useTestApp(t, ts.server.URL, 0)
	buf := captureOut(t)

	if err := runCommand(t, "tickets"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "none") {
		t.Fatalf("expected empty placeholder, got:\n%s", buf.String())
	}
	for _, r := range ts.requests {
		if strings.HasPrefix(r.Path, "/resource/tickets") {
			t.Fatalf("expected no ticket request without identity, got %s", r.Path)
		}
	}
}

func TestShowDeviceCommand(t *testing.T) {
	ts := newCatalogServer(t, map[string]string{
		"GET /resource/devices":      devicesJSON,
		"GET /resource/instructions": instructionsJSON,
		"GET /resource/recipes":      recipesJSON,
	})
	useTestApp(t, ts.server.URL, 0)
	buf := captureOut(t)

	if err := runCommand(t, "show", "device", "2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "Samsung Galaxy S24") {
		t.Fatalf("expected device name, got:\n%s", got)
	}
	if !strings.Contains(got, "Data transfer") {
		t.Fatalf("expected shared instruction, got:\n%s", got)
	}
	if !strings.Contains(got, "Factory restore") {
		t.Fatalf("expected recipe, got:\n%s", got)
	}
	if strings.Contains(got, "Initial setup") {
		t.Fatalf("expected iPhone-only instruction excluded, got:\n%s", got)
	}
}

func TestShowDeviceCommand_NotFound(t *testing.T) {
	ts := newCatalogServer(t, map[string]string{
		"GET /resource/devices":      devicesJSON,
		"GET /resource/instructions": `[]`,
		"GET /resource/recipes":      `[]`,
	})
	useTestApp(t, ts.server.URL, 0)
	captureOut(t)

	if err := runCommand(t, "show", "device", "99"); err == nil {
		t.Fatal("expected error for unknown device")
	}
}

func TestSupportCommand_FilesTicket(t *testing.T) {
	ts := newCatalogServer(t, map[string]string{
		"POST /resource/tickets": `{"id":7,"user_id":42,"subject":"Broken screen","status":"open"}`,
		"GET /resource/tickets":  `[{"id":7,"user_id":42,"subject":"Broken screen","status":"open","messages":[{"id":1,"role":"user","text":"Broken screen"}]}]`,
	})
	useTestApp(t, ts.server.URL, 42)
	buf := captureOut(t)

	if err := runCommand(t, "support", "Broken screen"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var posted, listed bool
	for _, r := range ts.requests {
		switch {
		case r.Method == http.MethodPost && r.Path == "/resource/tickets":
			posted = true
			if !strings.Contains(r.Body, `"user_id":42`) {
				t.Fatalf("expected user id in body, got: %s", r.Body)
			}
		case r.Method == http.MethodGet && strings.HasPrefix(r.Path, "/resource/tickets?user_id=42"):
			listed = true
		}
	}
	if !posted {
		t.Fatal("expected a ticket POST")
	}
	if !listed {
		t.Fatal("expected a reconciliation reload of tickets")
	}
	if !strings.Contains(buf.String(), "Broken screen") {
		t.Fatalf("expected the new ticket rendered, got:\n%s", buf.String())
	}
}

func TestSupportCommand_NoIdentity(t *testing.T) {
	ts := newCatalogServer(t, nil)
	useTestApp(t, ts.server.URL, 0)
	captureOut(t)

	if err := runCommand(t, "support", "help me"); err == nil {
		t.Fatal("expected error without identity")
	}
	if len(ts.requests) != 0 {
		t.Fatalf("expected no requests, got %d", len(ts.requests))
	}
}

func lineContaining(t *testing.T, s, substr string) string {
	t.Helper()
	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	t.Fatalf("no line containing %q in:\n%s", substr, s)
	return ""
}
