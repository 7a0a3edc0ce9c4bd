package urlcheck

import (
	"net"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		blockPrivate bool
		wantErr      bool
	}{
		{"valid https", "https://example.com/page", true, false},
		{"valid http", "http://example.com/page", true, false},
		{"ftp rejected", "ftp://example.com/file", false, true},
		{"relative rejected", "/just/a/path", false, true},
		{"localhost blocked when guarded", "http://localhost:8080", true, true},
		{"localhost allowed unguarded", "http://localhost:8080", false, false},
		{"loopback IP blocked when guarded", "http://127.0.0.1/x", true, true},
		{"private IP blocked when guarded", "https://192.168.1.1/path", true, true},
		{"private IP allowed unguarded", "https://192.168.1.1/path", false, false},
		{".local blocked when guarded", "https://printer.local/", true, true},
		{".internal blocked when guarded", "https://db.internal/", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url, tt.blockPrivate)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q, %v) error = %v, wantErr %v",
					tt.url, tt.blockPrivate, err, tt.wantErr)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"127.0.0.1", true},
		{"10.0.0.1", true},
		{"172.16.0.1", true},
		{"192.168.1.1", true},
		{"100.64.0.1", true},         // CGNAT
		{"169.254.1.1", true},        // link-local
		{"::1", true},                // IPv6 loopback
		{"fc00::1", true},            // IPv6 unique local
		{"fe80::1", true},            // IPv6 link-local
		{"::ffff:192.168.1.1", true}, // IPv6-mapped IPv4
		{"8.8.8.8", false},
		{"2606:4700::1111", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			if ip == nil {
				t.Fatalf("bad test IP %q", tt.ip)
			}
			if got := IsPrivateIP(ip); got != tt.want {
				t.Errorf("IsPrivateIP(%s) = %v, want %v", tt.ip, got, tt.want)
			}
		})
	}
}
