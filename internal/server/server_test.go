package server

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestNormalizeAddr(t *testing.T) {
	cases := map[string]string{
		"":               "",
		"8080":           ":8080",
		":8080":          ":8080",
		"127.0.0.1:9000": "127.0.0.1:9000",
	}
	for in, want := range cases {
		if got := normalizeAddr(in); got != want {
			t.Errorf("normalizeAddr(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestNew_AppliesDefaults(t *testing.T) {
	s := New(Options{WriteTimeout: 3 * time.Second})
	hs := s.newHTTPServer(":0", http.NotFoundHandler())

	if hs.WriteTimeout != 3*time.Second {
		t.Fatalf("write timeout = %v", hs.WriteTimeout)
	}
	if hs.ReadHeaderTimeout != defaultReadHeaderTimeout || hs.IdleTimeout != defaultIdleTimeout {
		t.Fatalf("defaults not applied: %+v", s.opts)
	}
	if hs.MaxHeaderBytes != maxHeaderBytes {
		t.Fatalf("max header bytes = %d", hs.MaxHeaderBytes)
	}
}

func TestShutdown_BeforeRunIsNoop(t *testing.T) {
	if err := New(Options{}).Shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
