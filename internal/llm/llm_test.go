package llm

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dviselman/pconsole/internal/config"
)

type recordingProvider struct {
	mu    sync.Mutex
	calls []Request
	reply *Response
	err   error
}

func (p *recordingProvider) Name() string { return "recording" }

func (p *recordingProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, req)
	if p.err != nil {
		return nil, p.err
	}
	return p.reply, nil
}

func (p *recordingProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func TestNewProviderMissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	for _, p := range []config.ProviderType{config.ProviderOpenAI, config.ProviderOpenRouter} {
		if _, err := NewProvider(config.LLMConfig{Provider: p, Model: "m"}); err == nil {
			t.Errorf("provider %q: expected error without API key", p)
		}
	}
}

func TestNewProviderUnknownProvider(t *testing.T) {
	if _, err := NewProvider(config.LLMConfig{Provider: "bedrock", Model: "m"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewProviderNames(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "k")
	t.Setenv("OPENROUTER_API_KEY", "k")

	cases := []struct {
		provider config.ProviderType
		want     string
	}{
		{config.ProviderOpenAI, "openai"},
		{config.ProviderOpenRouter, "openrouter"},
	}
	for _, tc := range cases {
		p, err := NewProvider(config.LLMConfig{Provider: tc.provider, Model: "m"})
		if err != nil {
			t.Fatalf("%s: %v", tc.provider, err)
		}
		if p.Name() != tc.want {
			t.Errorf("Name() = %q, want %q", p.Name(), tc.want)
		}
	}
}

func TestRateLimiterPassesThrough(t *testing.T) {
	rec := &recordingProvider{reply: &Response{Content: "hi", Model: "m"}}
	rl := NewRateLimitedProvider(rec, 600)

	resp, err := rl.Complete(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "hi" {
		t.Errorf("Content = %q", resp.Content)
	}
	if rl.Name() != "recording" {
		t.Errorf("Name() = %q", rl.Name())
	}
	if rec.callCount() != 1 {
		t.Errorf("callCount = %d", rec.callCount())
	}
}

func TestRateLimiterSpacesRequests(t *testing.T) {
	rec := &recordingProvider{reply: &Response{Content: "hi"}}
	// 2 rpm leaves a 30s gap, far beyond the context deadline.
	rl := NewRateLimitedProvider(rec, 2)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if _, err := rl.Complete(ctx, Request{}); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if _, err := rl.Complete(ctx, Request{}); err == nil {
		t.Error("second request should time out waiting for its slot")
	}
	if rec.callCount() != 1 {
		t.Errorf("backend saw %d calls, want 1", rec.callCount())
	}
}
