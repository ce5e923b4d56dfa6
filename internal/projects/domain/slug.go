package domain

import (
	"regexp"
	"strconv"
	"strings"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name, collapses every run of characters outside
// [a-z0-9] into one dash and trims dashes at both ends.
func Slugify(name string) string {
	s := nonSlugRun.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "project"
	}
	return s
}

// NextFreeSlug returns base if it is not taken, otherwise the first of
// base-1, base-2, ... that is free.
func NextFreeSlug(base string, taken map[string]struct{}) string {
	if _, ok := taken[base]; !ok {
		return base
	}
	for i := 1; ; i++ {
		candidate := base + "-" + strconv.Itoa(i)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}

func trimSpace(s string) string {
	return strings.TrimSpace(s)
}
