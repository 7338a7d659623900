package webclient_test

import (
	"context"
	"strings"
	"testing"

	"github.com/raysh454/skim/internal/interfaces"
	"github.com/raysh454/skim/internal/model"
	"github.com/raysh454/skim/internal/webclient"
)

// chromedpNoopLogger is a test-local logger implementation that discards all
// log messages.
type chromedpNoopLogger struct{}

func (n *chromedpNoopLogger) Debug(msg string, fields ...interfaces.Field) {}
func (n *chromedpNoopLogger) Info(msg string, fields ...interfaces.Field)  {}
func (n *chromedpNoopLogger) Warn(msg string, fields ...interfaces.Field)  {}
func (n *chromedpNoopLogger) Error(msg string, fields ...interfaces.Field) {}
func (n *chromedpNoopLogger) With(fields ...interfaces.Field) interfaces.Logger {
	return n
}

// TestNewChromeDPClient_Construct verifies that construction succeeds without
// a browser: the allocator is created eagerly but the browser process itself
// is only spawned on the first navigation.
func TestNewChromeDPClient_Construct(t *testing.T) {
	t.Parallel()
	cfg := webclient.Config{Backend: webclient.BackendChromedp}

	client, err := webclient.NewChromeDPClient(cfg, &chromedpNoopLogger{})
	if err != nil {
		t.Fatalf("NewChromeDPClient: %v", err)
	}
	if client == nil {
		t.Fatal("NewChromeDPClient returned nil client without error")
	}
	defer client.Close()
}

// TestChromeDPClient_DoRejectsNonGET verifies that Do() returns an error for
// non-GET methods. The method check runs before any browser work, so this
// needs no browser either.
func TestChromeDPClient_DoRejectsNonGET(t *testing.T) {
	t.Parallel()
	cfg := webclient.Config{Backend: webclient.BackendChromedp}

	client, err := webclient.NewChromeDPClient(cfg, &chromedpNoopLogger{})
	if err != nil {
		t.Fatalf("NewChromeDPClient: %v", err)
	}
	defer client.Close()

	_, err = client.Do(context.Background(), &model.Request{
		Method: "POST",
		URL:    "http://example.com",
	})
	if err == nil {
		t.Fatal("Expected error for POST request, got nil")
	}
	if !strings.Contains(err.Error(), "GET only") {
		t.Errorf("Expected error about GET-only support, got: %v", err)
	}
}

// TestChromeDPClient_DoNilRequest verifies the nil-request guard.
func TestChromeDPClient_DoNilRequest(t *testing.T) {
	t.Parallel()

	client, err := webclient.NewChromeDPClient(webclient.Config{}, &chromedpNoopLogger{})
	if err != nil {
		t.Fatalf("NewChromeDPClient: %v", err)
	}
	defer client.Close()

	if _, err := client.Do(context.Background(), nil); err == nil {
		t.Fatal("Expected error for nil request, got nil")
	}
}
