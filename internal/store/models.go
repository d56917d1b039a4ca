package store

import (
	"strings"
	"time"
)

// Status represents the coarse workflow marker on a project.
type Status string

const (
	StatusInitialized  Status = "INITIALIZED"
	StatusTranscribing Status = "TRANSCRIBING"
	StatusPlanning     Status = "PLANNING"
	StatusWriting      Status = "WRITING"
	StatusCompleted    Status = "COMPLETED"
)

var allStatuses = []Status{
	StatusInitialized,
	StatusTranscribing,
	StatusPlanning,
	StatusWriting,
	StatusCompleted,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Project is the top-level unit of work for one interview-to-article effort.
type Project struct {
	ID           string
	Name         string
	Description  string
	Status       Status
	CurrentAgent string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AudioFile records one uploaded interview recording. Rows are immutable
// after creation and removed only with their project.
type AudioFile struct {
	ID        string
	ProjectID string
	Filename  string
	Path      string
	Duration  *float64
	CreatedAt time.Time
}

// Dialogue holds the cleaned transcript content as opaque JSON.
type Dialogue struct {
	ID        string
	ProjectID string
	Content   string
	CreatedAt time.Time
}

// Blueprint holds one version of the chapter plan as opaque JSON.
type Blueprint struct {
	ID        string
	ProjectID string
	Content   string
	Version   int
	CreatedAt time.Time
}

// Article holds one version of the generated markdown document.
type Article struct {
	ID          string
	ProjectID   string
	Title       string
	Content     string
	Footnotes   string
	AuditReport string
	WordCount   *int
	Version     int
	CreatedAt   time.Time
}

// ArticleDraft carries caller-supplied article fields; the store assigns
// identifier, version, and creation time.
type ArticleDraft struct {
	Title       string
	Content     string
	Footnotes   string
	AuditReport string
	WordCount   *int
}

// Stats summarizes project counts per status.
type Stats struct {
	Total    int
	ByStatus map[Status]int
}
