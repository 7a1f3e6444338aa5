package secret

import (
	"context"
	"fmt"
	"testing"
)

// staticProvider serves a fixed set of secrets for tests.
type staticProvider struct {
	scheme string
	values map[string]string
}

func (p staticProvider) Scheme() string {
	return p.scheme
}

func (p staticProvider) Resolve(ctx context.Context, key string) (string, error) {
	value, ok := p.values[key]
	if !ok {
		return "", fmt.Errorf("no secret %q", key)
	}
	return value, nil
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		ref    string
		scheme string
		key    string
		ok     bool
	}{
		{"env://SEARCH_API_KEY", "env", "SEARCH_API_KEY", true},
		{"vault://kv/search/api-key", "vault", "kv/search/api-key", true},
		{"sk-literal-key", "", "", false},
		{"env://", "", "", false},
		{"://SEARCH_API_KEY", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		scheme, key, ok := ParseRef(tt.ref)
		if scheme != tt.scheme || key != tt.key || ok != tt.ok {
			t.Errorf("ParseRef(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.ref, scheme, key, ok, tt.scheme, tt.key, tt.ok)
		}
	}
}

func TestResolver_ResolvesReference(t *testing.T) {
	r := NewResolver(staticProvider{
		scheme: "store",
		values: map[string]string{"search/api-key": "sk-123"},
	})

	got, err := r.Resolve(context.Background(), "store://search/api-key")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "sk-123" {
		t.Errorf("Resolve() = %q, want sk-123", got)
	}
}

func TestResolver_LiteralPassthrough(t *testing.T) {
	r := NewResolver()

	got, err := r.Resolve(context.Background(), "sk-literal-key")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "sk-literal-key" {
		t.Errorf("Resolve() = %q, want the literal value back", got)
	}
}

func TestResolver_UnknownScheme(t *testing.T) {
	r := NewResolver(staticProvider{scheme: "store"})

	if _, err := r.Resolve(context.Background(), "vault://search/api-key"); err == nil {
		t.Error("Resolve() with unregistered scheme did not error")
	}
}

func TestResolver_EmptyValueErrors(t *testing.T) {
	r := NewResolver(staticProvider{
		scheme: "store",
		values: map[string]string{"blank": ""},
	})

	if _, err := r.Resolve(context.Background(), "store://blank"); err == nil {
		t.Error("Resolve() of an empty secret did not error")
	}
}

func TestResolver_ProviderErrorPropagates(t *testing.T) {
	r := NewResolver(staticProvider{scheme: "store"})

	if _, err := r.Resolve(context.Background(), "store://missing"); err == nil {
		t.Error("Resolve() of a missing secret did not error")
	}
}

func TestResolver_RegisterReplaces(t *testing.T) {
	r := NewResolver(staticProvider{
		scheme: "store",
		values: map[string]string{"k": "old"},
	})
	r.Register(staticProvider{
		scheme: "store",
		values: map[string]string{"k": "new"},
	})

	got, err := r.Resolve(context.Background(), "store://k")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "new" {
		t.Errorf("Resolve() = %q, want the replacing provider's value", got)
	}
}
