package slugger

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Taxes", "taxes"},
		{"spaces collapsed", "My  Tax Documents", "my-tax-documents"},
		{"punctuation stripped", "2023.pdf", "2023-pdf"},
		{"mixed", "Q1/Q2 Report (final)", "q1-q2-report-final"},
		{"empty", "", ""},
		{"symbols only", "!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

// takenSet simulates a uniqueness scope backed by a store.
type takenSet map[string]bool

func (s takenSet) exists(_ context.Context, slug string) (bool, error) {
	return s[slug], nil
}

func TestUnique_NoCollision(t *testing.T) {
	scope := takenSet{}
	got, err := Unique(context.Background(), "Taxes", scope.exists)
	require.NoError(t, err)
	assert.Equal(t, "taxes", got)
}

func TestUnique_CollisionAppendsSuffix(t *testing.T) {
	scope := takenSet{"taxes": true}
	got, err := Unique(context.Background(), "Taxes", scope.exists)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "taxes-"), "got %q", got)
	assert.NotEqual(t, "taxes", got)
}

func TestUnique_RepeatedNamesArePairwiseDistinct(t *testing.T) {
	scope := takenSet{}
	const n = 50
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		got, err := Unique(context.Background(), "report", scope.exists)
		require.NoError(t, err)
		require.False(t, seen[got], "duplicate slug %q on iteration %d", got, i)
		seen[got] = true
		scope[got] = true
	}
}

func TestUnique_EmptyNameYieldsNumericSlug(t *testing.T) {
	scope := takenSet{}
	got, err := Unique(context.Background(), "???", scope.exists)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for _, r := range got {
		assert.True(t, r >= '0' && r <= '9', "expected numeric slug, got %q", got)
	}
}

func TestUnique_PropagatesExistsError(t *testing.T) {
	boom := errors.New("db gone")
	_, err := Unique(context.Background(), "Taxes", func(context.Context, string) (bool, error) {
		return false, boom
	})
	require.ErrorIs(t, err, boom)
}
