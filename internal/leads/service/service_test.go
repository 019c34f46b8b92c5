package service

import (
	"testing"

	"github.com/shibbu04/scaler-apm/internal/leads/domain"
	"github.com/shibbu04/scaler-apm/internal/leads/repository"
)

func TestWithDefaultsSource(t *testing.T) {
	cases := []struct {
		name string
		in   domain.Source
		want domain.Source
	}{
		{"empty source falls back to blog", "", domain.SourceBlog},
		{"explicit source is kept", domain.SourcePaidAd, domain.SourcePaidAd},
		{"direct stays direct", domain.SourceDirect, domain.SourceDirect},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := withDefaults(repository.UpsertParams{Email: "lead@example.com", Source: tc.in})
			if got.Source != tc.want {
				t.Fatalf("source = %q, want %q", got.Source, tc.want)
			}
		})
	}
}
