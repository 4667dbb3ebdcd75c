// Package slugger normalizes team code names into URL-safe slugs and
// resolves collisions with a numeric suffix.
package slugger

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// Make lowercases the input and reduces it to alphanumerics and hyphens.
func Make(input string) string {
	return slug.Make(input)
}

// MakeUnique returns baseSlug unchanged if it does not collide with any of
// existing (case-insensitively), otherwise appends the first free numeric
// suffix starting at 2.
func MakeUnique(baseSlug string, existing []string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		taken[strings.ToLower(s)] = struct{}{}
	}

	if _, ok := taken[strings.ToLower(baseSlug)]; !ok {
		return baseSlug
	}

	for counter := 2; ; counter++ {
		candidate := fmt.Sprintf("%s-%d", baseSlug, counter)
		if _, ok := taken[strings.ToLower(candidate)]; !ok {
			return candidate
		}
	}
}
