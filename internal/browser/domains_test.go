package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainAllowed(t *testing.T) {
	allowed := []string{"realtor.ca"}

	tests := []struct {
		name    string
		rawURL  string
		allowed []string
		want    bool
	}{
		{
			name:    "exact domain",
			rawURL:  "https://realtor.ca/map",
			allowed: allowed,
			want:    true,
		},
		{
			name:    "www subdomain",
			rawURL:  "https://www.realtor.ca/map",
			allowed: allowed,
			want:    true,
		},
		{
			name:    "deep subdomain",
			rawURL:  "https://api.cdn.realtor.ca/listings",
			allowed: allowed,
			want:    true,
		},
		{
			name:    "host with port",
			rawURL:  "https://realtor.ca:443/map",
			allowed: allowed,
			want:    true,
		},
		{
			name:    "case insensitive host",
			rawURL:  "https://WWW.Realtor.CA/",
			allowed: allowed,
			want:    true,
		},
		{
			name:    "different domain",
			rawURL:  "https://example.com/",
			allowed: allowed,
			want:    false,
		},
		{
			name:    "suffix lookalike",
			rawURL:  "https://evilrealtor.ca/",
			allowed: allowed,
			want:    false,
		},
		{
			name:    "empty allow list permits everything",
			rawURL:  "https://example.com/",
			allowed: nil,
			want:    true,
		},
		{
			name:    "unparseable url",
			rawURL:  "://not-a-url",
			allowed: allowed,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DomainAllowed(tt.rawURL, tt.allowed))
		})
	}
}
