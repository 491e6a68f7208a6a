package domain

import (
	"regexp"
	"strconv"
	"time"
)

// Paper is a core entity describing one revision of an arXiv document.
// ID is the versioned PDF URL; the revision number is embedded in it.
type Paper struct {
	ID              string
	Title           string
	Authors         []string
	Abstract        string
	Published       time.Time
	Updated         time.Time
	Version         int
	PrimaryCategory string
	DOI             string
	Comment         string
	JournalRef      string
}

// Kind classifies why a candidate entered the digest.
type Kind string

const (
	KindUpdated   Kind = "updated"
	KindPublished Kind = "published"
)

// Candidate is a paper that passed recency filtering and novelty
// resolution and is awaiting ranking and truncation.
type Candidate struct {
	Paper Paper
	Kind  Kind
}

var versionExpr = regexp.MustCompile(`v(\d+)`)

// ParseVersion extracts the revision number embedded in a versioned
// identifier. Identifiers without a version marker are revision 1.
func ParseVersion(id string) int {
	match := versionExpr.FindStringSubmatch(id)
	if match == nil {
		return 1
	}
	version, err := strconv.Atoi(match[1])
	if err != nil || version < 1 {
		return 1
	}
	return version
}
