package util

import (
	"net/http"
	"testing"
)

func mustRequest(t *testing.T, rawURL string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		t.Fatalf("Expected request for %q, got error: %v", rawURL, err)
	}
	return req
}

func TestNewProxyFunc_SchemeSelection(t *testing.T) {
	proxy := NewProxyFunc("http://proxy-a:8080", "http://proxy-b:8443", "")

	u, err := proxy(mustRequest(t, "https://example.com/page"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if u == nil || u.Host != "proxy-b:8443" {
		t.Errorf("Expected https proxy proxy-b:8443, got %v", u)
	}

	u, err = proxy(mustRequest(t, "http://example.com/page"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if u == nil || u.Host != "proxy-a:8080" {
		t.Errorf("Expected http proxy proxy-a:8080, got %v", u)
	}
}

func TestNewProxyFunc_NoProxyBypass(t *testing.T) {
	proxy := NewProxyFunc("http://proxy-a:8080", "", "internal.example.com, .corp.local")

	cases := []struct {
		url      string
		bypassed bool
	}{
		{"http://internal.example.com/api", true},
		{"http://sub.internal.example.com/api", true},
		{"http://db.corp.local:5432/", true},
		{"http://example.com/page", false},
	}

	for _, tc := range cases {
		u, err := proxy(mustRequest(t, tc.url))
		if err != nil {
			t.Fatalf("Expected no error for %q, got %v", tc.url, err)
		}
		if tc.bypassed && u != nil {
			t.Errorf("Expected %q to bypass the proxy, got %v", tc.url, u)
		}
		if !tc.bypassed && u == nil {
			t.Errorf("Expected %q to use the proxy, got direct", tc.url)
		}
	}
}

func TestNewProxyFunc_EmptyFallsBackToEnvironment(t *testing.T) {
	proxy := NewProxyFunc("", "", "")
	if proxy == nil {
		t.Fatal("Expected a proxy func, got nil")
	}
	if _, err := proxy(mustRequest(t, "http://example.com/")); err != nil {
		t.Errorf("Expected no error from environment fallback, got %v", err)
	}
}
