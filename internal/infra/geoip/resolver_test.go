package geoip

import (
	"errors"
	"testing"
)

func TestOpenWithoutPathIsDisabled(t *testing.T) {
	r, err := Open("  ")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if r.Enabled() {
		t.Fatal("resolver without database must be disabled")
	}
	if _, err := r.CountryCode("8.8.8.8"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open("/nonexistent/GeoLite2-Country.mmdb"); err == nil {
		t.Fatal("expected error for missing database")
	}
}

func TestParseClientAddr(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "8.8.8.8", want: "8.8.8.8"},
		{raw: " 203.0.113.4:443 ", want: "203.0.113.4"},
		{raw: "[2001:db8::1]:8080", want: "2001:db8::1"},
		{raw: "[2001:db8::1]", want: "2001:db8::1"},
		{raw: "::ffff:1.2.3.4", want: "1.2.3.4"},
		{raw: "not-an-ip", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tc := range tests {
		got, err := parseClientAddr(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("parseClientAddr(%q) expected error", tc.raw)
			}
			continue
		}
		if err != nil || got.String() != tc.want {
			t.Fatalf("parseClientAddr(%q) = %s, %v; want %s", tc.raw, got, err, tc.want)
		}
	}
}

func TestRoutable(t *testing.T) {
	for raw, want := range map[string]bool{
		"8.8.8.8":     true,
		"10.0.0.1":    false,
		"192.168.1.9": false,
		"127.0.0.1":   false,
		"169.254.0.1": false,
		"::1":         false,
		"0.0.0.0":     false,
		"2606:4700::": true,
	} {
		addr, err := parseClientAddr(raw)
		if err != nil {
			t.Fatalf("parseClientAddr(%q): %v", raw, err)
		}
		if got := routable(addr); got != want {
			t.Fatalf("routable(%s) = %v, want %v", raw, got, want)
		}
	}
}
