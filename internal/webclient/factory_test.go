package webclient_test

import (
	"context"
	"testing"

	"github.com/raysh454/skim/internal/interfaces"
	"github.com/raysh454/skim/internal/model"
	"github.com/raysh454/skim/internal/webclient"
)

type stubClient struct{}

func (stubClient) Do(ctx context.Context, req *model.Request) (*model.Response, error) {
	return &model.Response{StatusCode: 200}, nil
}

func (stubClient) Get(ctx context.Context, url string) (*model.Response, error) {
	return &model.Response{StatusCode: 200}, nil
}

func (stubClient) Close() error { return nil }

func TestNew_UnknownBackend(t *testing.T) {
	_, err := webclient.New(webclient.Config{Backend: "no-such-backend"}, noopLogger{})
	if err == nil {
		t.Fatal("expected error for unregistered backend")
	}
}

func TestNew_RegisteredBackend(t *testing.T) {
	webclient.RegisterBackend("stub", func(cfg webclient.Config, logger interfaces.Logger) (interfaces.WebClient, error) {
		return stubClient{}, nil
	})

	wc, err := webclient.New(webclient.Config{Backend: "stub"}, noopLogger{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if wc == nil {
		t.Fatal("New returned nil client")
	}

	found := false
	for _, name := range webclient.ListBackends() {
		if name == "stub" {
			found = true
		}
	}
	if !found {
		t.Errorf("ListBackends missing 'stub', got %v", webclient.ListBackends())
	}
}

func TestNew_EmptyBackendDefaultsToNetHTTP(t *testing.T) {
	webclient.RegisterDefaultBackends()

	wc, err := webclient.New(webclient.Config{}, noopLogger{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer wc.Close()

	if _, ok := wc.(*webclient.NetHTTPClient); !ok {
		t.Errorf("expected *NetHTTPClient, got %T", wc)
	}
}
