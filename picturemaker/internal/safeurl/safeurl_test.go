package safeurl

import (
	"errors"
	"net"
	"strings"
	"testing"
)

func TestTarget(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com/dashboard", false},
		{"http://127.0.0.1:8080/", false},
		{"http://192.168.1.10/status", false},
		{"file:///tmp/page.html", false},
		{"https:///nohost", true},
		{"file://", true},
		{"javascript:alert(1)", true},
		{"ftp://example.com/a", true},
		{"example.com", true},
	}
	for _, tt := range tests {
		err := Target(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("Target(%q) error=%v, wantErr=%v", tt.url, err, tt.wantErr)
		}
	}
}

func TestWebhook(t *testing.T) {
	tests := []struct {
		url          string
		allowPrivate bool
		wantErr      bool
	}{
		{"https://93.184.216.34/hook", false, false},
		{"ftp://93.184.216.34/hook", false, true},
		{"http://127.0.0.1/hook", false, true},
		{"http://10.0.0.1/hook", false, true},
		{"http://[::1]/hook", false, true},
		{"http://172.16.0.1/hook", false, true},
		{"http://127.0.0.1/hook", true, false},
		{"http://10.0.0.1/hook", true, false},
		{"http:///hook", true, true},
	}
	for _, tt := range tests {
		err := Webhook(tt.url, tt.allowPrivate)
		if (err != nil) != tt.wantErr {
			t.Errorf("Webhook(%q, %v) error=%v, wantErr=%v", tt.url, tt.allowPrivate, err, tt.wantErr)
		}
	}
}

func TestWebhook_Sentinels(t *testing.T) {
	if err := Webhook("http://127.0.0.1/", false); !errors.Is(err, ErrPrivateHost) {
		t.Errorf("got %v, want ErrPrivateHost", err)
	}
	if err := Webhook("gopher://example.com/", true); !errors.Is(err, ErrUnsafeScheme) {
		t.Errorf("got %v, want ErrUnsafeScheme", err)
	}
}

func TestLimitedReadAll(t *testing.T) {
	data := strings.Repeat("x", 100)
	got, err := LimitedReadAll(strings.NewReader(data), 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 100 {
		t.Fatalf("got %d bytes, want 100", len(got))
	}

	got, err = LimitedReadAll(strings.NewReader(data), 50)
	if err == nil {
		t.Fatal("expected error for oversized read")
	}
	if len(got) != 50 {
		t.Errorf("truncated: got %d bytes, want 50", len(got))
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip      string
		private bool
	}{
		{"127.0.0.1", true},
		{"10.0.0.1", true},
		{"172.16.0.1", true},
		{"192.168.0.1", true},
		{"169.254.1.1", true},
		{"0.0.0.0", true},
		{"8.8.8.8", false},
		{"1.1.1.1", false},
		{"::1", true},
	}
	for _, tt := range tests {
		ip := net.ParseIP(tt.ip)
		if ip == nil {
			t.Fatalf("failed to parse IP %q", tt.ip)
		}
		if got := isPrivateIP(ip); got != tt.private {
			t.Errorf("isPrivateIP(%s) = %v, want %v", tt.ip, got, tt.private)
		}
	}
}
