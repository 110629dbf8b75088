package core

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// SplitTags splits a comma-separated tag string into cleaned, lowered,
// de-duplicated tags.
func SplitTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		tag := CleanString(p, true /* lower */)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// TagOverlap counts tags present in both slices, case-insensitively.
func TagOverlap(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	sorted := make([]string, len(b))
	for i, t := range b {
		sorted[i] = strings.ToLower(t)
	}
	sort.Strings(sorted)

	var count int
	for _, t := range a {
		t = strings.ToLower(t)
		if i := sort.SearchStrings(sorted, t); i < len(sorted) && sorted[i] == t {
			count++
		}
	}
	return count
}

// Getwd tries to find the project root (the directory holding go.mod).
// go-test changes the working directory to the test package being run;
// config and asset lookups must not depend on it.
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if _, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			return wd
		}
		currDir = newDir
	}
}
