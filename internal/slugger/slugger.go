// Package slugger allocates URL-safe identifiers derived from display names.
// Folders use a global uniqueness scope, files a per-owner scope; the scope
// is abstracted behind an existence-check callback so the allocator itself
// stays storage-agnostic.
package slugger

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/gosimple/slug"
)

// ExistsFunc reports whether a candidate slug is already taken within the
// caller's uniqueness scope.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Make normalizes a display name into a URL-safe base slug: lowercase, with
// runs of non-alphanumeric characters collapsed to hyphens.
func Make(name string) string {
	return slug.Make(name)
}

// Unique returns a slug for name that is not taken within the scope defined
// by exists. If the base slug collides, a numeric suffix is appended; the
// suffix starts at a pseudo-random value in [1, 9999] and increments by one
// per collision, so the loop always terminates.
//
// A degenerate name whose base slug is empty goes straight to the suffixed
// form, yielding a purely numeric slug.
//
// The check-then-use here is not atomic against concurrent allocators.
// Callers persist the result under a store-enforced unique index and re-run
// Unique on a duplicate-key conflict.
func Unique(ctx context.Context, name string, exists ExistsFunc) (string, error) {
	base := Make(name)
	suffix := rand.Intn(9999) + 1

	candidate := base
	for {
		if candidate != "" {
			taken, err := exists(ctx, candidate)
			if err != nil {
				return "", fmt.Errorf("slug existence check: %w", err)
			}
			if !taken {
				return candidate, nil
			}
		}

		if base == "" {
			candidate = fmt.Sprintf("%d", suffix)
		} else {
			candidate = fmt.Sprintf("%s-%d", base, suffix)
		}
		suffix++
	}
}
