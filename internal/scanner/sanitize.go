package scanner

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DefaultYearPattern matches an optionally parenthesized year from 1900 to 2099
	DefaultYearPattern = `(\(?19[0-9]{2}\)?|\(?20[0-9]{2}\)?)`

	// DefaultQualityPattern matches an optionally bracketed resolution token (720p, [1080p])
	DefaultQualityPattern = `(\[?[0-9]+p\]?)`

	// separatorThreshold is how many times a separator must be exceeded
	// before it is treated as a word break rather than part of the title
	separatorThreshold = 3
)

// commonSeparators are the scene-release word separators
var commonSeparators = []string{".", "_"}

var defaultSanitizer = MustSanitizer(DefaultYearPattern, DefaultQualityPattern)

// ParsedName holds the parts extracted from a raw release name
type ParsedName struct {
	Title   string // Title-cased, separators normalized
	Year    string // Four digit year, empty when none was found
	Quality string // Resolution token such as 1080p, empty when none was found
}

// String formats the name as "Title (Year) [Quality]".
// Missing year or quality segments are left out entirely.
func (p ParsedName) String() string {
	var sb strings.Builder
	sb.WriteString(p.Title)
	if p.Year != "" {
		sb.WriteString(" (" + p.Year + ")")
	}
	if p.Quality != "" {
		sb.WriteString(" [" + p.Quality + "]")
	}
	return strings.TrimSpace(sb.String())
}

// Sanitizer turns noisy release names into "Title (Year) [Quality]".
// It holds no state beyond its compiled patterns and is safe to reuse.
type Sanitizer struct {
	year    *regexp.Regexp
	quality *regexp.Regexp
}

// NewSanitizer compiles the year and quality patterns
func NewSanitizer(yearPattern, qualityPattern string) (*Sanitizer, error) {
	year, err := regexp.Compile(yearPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid year pattern: %w", err)
	}

	quality, err := regexp.Compile(qualityPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid quality pattern: %w", err)
	}

	return &Sanitizer{year: year, quality: quality}, nil
}

// MustSanitizer is like NewSanitizer but panics on a malformed pattern
func MustSanitizer(yearPattern, qualityPattern string) *Sanitizer {
	s, err := NewSanitizer(yearPattern, qualityPattern)
	if err != nil {
		panic(err)
	}
	return s
}

// DefaultSanitizer returns the sanitizer built from the default patterns
func DefaultSanitizer() *Sanitizer {
	return defaultSanitizer
}

// Sanitize is shorthand for DefaultSanitizer().Sanitize(name)
func Sanitize(name string) string {
	return defaultSanitizer.Sanitize(name)
}

// Sanitize returns the formatted name for a raw file or folder name
func (s *Sanitizer) Sanitize(name string) string {
	return s.Parse(name).String()
}

// SanitizeFile formats a video file name. The extension is kept out of the
// title but still counts towards the separator threshold.
func (s *Sanitizer) SanitizeFile(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return s.parse(base, filename).String()
}

// Parse extracts title, year and quality from a raw release name.
//
// The rightmost year-like token is taken as the release year and the title
// is everything before its first occurrence. Quality is the first resolution
// token anywhere in the name, since it usually sits after the year.
func (s *Sanitizer) Parse(name string) ParsedName {
	return s.parse(name, name)
}

// parse is Parse with separators counted in full rather than name
func (s *Sanitizer) parse(name, full string) ParsedName {
	var parsed ParsedName
	title := name

	if matches := s.year.FindAllString(name, -1); len(matches) > 0 {
		token := matches[len(matches)-1]
		title = strings.TrimSpace(name[:strings.Index(name, token)])
		parsed.Year = strings.TrimSpace(stripChars(token, "()"))
	}

	if loc := s.quality.FindStringIndex(name); loc != nil {
		parsed.Quality = strings.TrimSpace(stripChars(name[loc[0]:loc[1]], "[]"))
	}

	// Scene names use dots or underscores instead of spaces; a title like
	// "Mr. Smith" only has one or two and keeps them
	replaced := false
	for _, sep := range commonSeparators {
		if strings.Count(full, sep) > separatorThreshold {
			title = strings.ReplaceAll(title, sep, " ")
			replaced = true
		}
	}
	if replaced {
		title = strings.Join(strings.Fields(title), " ")
	}

	parsed.Title = titleCase(strings.TrimSpace(title))
	return parsed
}

// titleCase capitalizes the first letter after every non-letter, so dots
// and apostrophes start a new word ("the.matrix" -> "The.Matrix")
func titleCase(s string) string {
	caser := cases.Title(language.English)

	var sb strings.Builder
	start := -1
	for i, r := range s {
		if unicode.IsLetter(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			sb.WriteString(caser.String(s[start:i]))
			start = -1
		}
		sb.WriteRune(r)
	}
	if start >= 0 {
		sb.WriteString(caser.String(s[start:]))
	}
	return sb.String()
}

// stripChars removes every occurrence of the given characters
func stripChars(s, chars string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(chars, r) {
			return -1
		}
		return r
	}, s)
}
