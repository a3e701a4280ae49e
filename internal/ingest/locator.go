package ingest

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var digitRunRegex = regexp.MustCompile(`\d+`)

// DateFromFilename returns the first 8-digit YYYYMMDD token of the file's
// base name that is a valid calendar date.
func DateFromFilename(path string) (time.Time, bool) {
	for _, run := range digitRunRegex.FindAllString(filepath.Base(path), -1) {
		if len(run) != 8 {
			continue
		}
		if d, err := time.Parse("20060102", run); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// Locate returns the files under root matching the family patterns, most
// preferred first. Primary pattern matches win wholesale: fallback patterns
// are only consulted when no primary pattern matches anything.
// It never fails; an unreadable root yields no matches.
func Locate(root string, patterns Patterns) []string {
	files := walkFiles(root)

	var located []string
	seen := map[string]bool{}
	for _, pattern := range patterns.Primary {
		for _, m := range matchFiles(files, pattern) {
			if !seen[m] {
				seen[m] = true
				located = append(located, m)
			}
		}
	}
	if len(located) > 0 {
		return located
	}

	for _, pattern := range patterns.Fallback {
		for _, m := range matchFiles(files, pattern) {
			if !seen[m] {
				seen[m] = true
				located = append(located, m)
			}
		}
	}
	return located
}

// LocateAll returns every file under root matching any primary or fallback
// pattern, each path once, oldest first.
func LocateAll(root string, patterns Patterns) []string {
	files := walkFiles(root)

	seen := map[string]bool{}
	var located []string
	for _, pattern := range patterns.All() {
		for _, m := range matchFiles(files, pattern) {
			if !seen[m] {
				seen[m] = true
				located = append(located, m)
			}
		}
	}

	// reverse of the preference order
	sort.SliceStable(located, func(i, j int) bool {
		return newerFirst(located[j], located[i])
	})
	return located
}

func walkFiles(root string) []string {
	if root == "" {
		return nil
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// unreadable subtree, keep walking the rest
			log.Debugf("locate: skipping %s: %s", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		log.Debugf("locate: walk %s: %s", root, err)
	}
	return files
}

func matchFiles(files []string, pattern string) []string {
	lowerPattern := strings.ToLower(pattern)
	var matched []string
	for _, f := range files {
		ok, err := filepath.Match(lowerPattern, strings.ToLower(filepath.Base(f)))
		if err != nil {
			log.Errorf("locate: bad pattern %q: %s", pattern, err)
			return nil
		}
		if ok {
			matched = append(matched, f)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return newerFirst(matched[i], matched[j])
	})
	return matched
}

// newerFirst orders by the date embedded in the file name, newest first.
// Dated files come before undated ones; ties fall back to the base name
// descending, then the full path.
func newerFirst(a, b string) bool {
	da, aok := DateFromFilename(a)
	db, bok := DateFromFilename(b)
	switch {
	case aok && bok && !da.Equal(db):
		return da.After(db)
	case aok != bok:
		return aok
	}

	baseA, baseB := filepath.Base(a), filepath.Base(b)
	if baseA != baseB {
		return baseA > baseB
	}
	return a > b
}
