package webhook

import "testing"

func TestIsDomainAllowed(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		allowed []string
		want    bool
	}{
		{"exact match", "https://dealer.example.com", []string{"dealer.example.com"}, true},
		{"wildcard all", "https://anything.test", []string{"*"}, true},
		{"wildcard subdomain", "https://shop.dealer.example.com", []string{"*.dealer.example.com"}, true},
		{"wildcard matches apex", "https://dealer.example.com", []string{"*.dealer.example.com"}, true},
		{"different domain", "https://evil.test", []string{"dealer.example.com"}, false},
		{"empty origin", "", []string{"dealer.example.com"}, false},
		{"case insensitive", "https://DEALER.Example.com", []string{"dealer.example.com"}, true},
		{"port ignored", "https://dealer.example.com:8443", []string{"dealer.example.com"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDomainAllowed(tt.origin, tt.allowed); got != tt.want {
				t.Errorf("isDomainAllowed(%q, %v) = %v, want %v", tt.origin, tt.allowed, got, tt.want)
			}
		})
	}
}
