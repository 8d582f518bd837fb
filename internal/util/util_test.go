package util

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetLogLevel(t *testing.T) {
	defer Log.SetLevel(logrus.InfoLevel)

	cases := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"INFO":    logrus.InfoLevel,
		"warn":    logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		" error ": logrus.ErrorLevel,
	}
	for name, want := range cases {
		if err := SetLogLevel(name); err != nil {
			t.Errorf("SetLogLevel(%q) failed: %v", name, err)
			continue
		}
		if Log.GetLevel() != want {
			t.Errorf("SetLogLevel(%q) = %v, want %v", name, Log.GetLevel(), want)
		}
	}

	if err := SetLogLevel("verbose"); err == nil {
		t.Error("Expected error for unknown level")
	}
}

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.local:8080", "http://secure.local:8443", "")

	httpsReq := &http.Request{URL: &url.URL{Scheme: "https", Host: "api.openai.com"}}
	got, err := proxy(httpsReq)
	if err != nil {
		t.Fatalf("proxy failed: %v", err)
	}
	if got.Host != "secure.local:8443" {
		t.Errorf("Expected https proxy, got %v", got)
	}

	httpReq := &http.Request{URL: &url.URL{Scheme: "http", Host: "ollama.lan:11434"}}
	got, err = proxy(httpReq)
	if err != nil {
		t.Fatalf("proxy failed: %v", err)
	}
	if got.Host != "proxy.local:8080" {
		t.Errorf("Expected http proxy, got %v", got)
	}
}

func TestNewProxyFunc_NoProxy(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.local:8080", "", "localhost,.internal")

	got, err := proxy(&http.Request{URL: &url.URL{Scheme: "http", Host: "localhost:11434"}})
	if err != nil {
		t.Fatalf("proxy failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected no proxy for localhost, got %v", got)
	}

	got, err = proxy(&http.Request{URL: &url.URL{Scheme: "https", Host: "api.anthropic.com"}})
	if err != nil {
		t.Fatalf("proxy failed: %v", err)
	}
	if got == nil || got.Host != "proxy.local:8080" {
		t.Errorf("Expected http proxy reused for https, got %v", got)
	}
}
