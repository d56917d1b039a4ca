package api

import (
	"encoding/json"
	"time"

	"loom/internal/store"
)

// FromProject converts a store row into its transfer shape.
func FromProject(project *store.Project) Project {
	return Project{
		ID:           project.ID,
		Name:         project.Name,
		Description:  project.Description,
		Status:       string(project.Status),
		CurrentAgent: project.CurrentAgent,
		CreatedAt:    formatTime(project.CreatedAt),
		UpdatedAt:    formatTime(project.UpdatedAt),
	}
}

// FromProjects converts a list of store rows.
func FromProjects(projects []*store.Project) []Project {
	out := make([]Project, 0, len(projects))
	for _, project := range projects {
		out = append(out, FromProject(project))
	}
	return out
}

// FromAudioFile converts a store row into its listing shape.
func FromAudioFile(file *store.AudioFile) AudioFile {
	return AudioFile{
		ID:       file.ID,
		Filename: file.Filename,
		Duration: file.Duration,
	}
}

// FromAudioFiles converts a list of store rows.
func FromAudioFiles(files []*store.AudioFile) []AudioFile {
	out := make([]AudioFile, 0, len(files))
	for _, file := range files {
		out = append(out, FromAudioFile(file))
	}
	return out
}

// FromArticle converts a store row, decoding the stored footnote and audit
// JSON. Undecodable stored JSON degrades to the empty defaults rather than
// failing the read.
func FromArticle(article *store.Article) Article {
	out := Article{
		ID:        article.ID,
		Title:     article.Title,
		Content:   article.Content,
		Footnotes: []Footnote{},
		WordCount: article.WordCount,
		Version:   article.Version,
		CreatedAt: formatTime(article.CreatedAt),
	}
	if article.Footnotes != "" {
		var footnotes []Footnote
		if err := json.Unmarshal([]byte(article.Footnotes), &footnotes); err == nil && footnotes != nil {
			out.Footnotes = footnotes
		}
	}
	if article.AuditReport != "" && article.AuditReport != "{}" {
		var report AuditReport
		if err := json.Unmarshal([]byte(article.AuditReport), &report); err == nil {
			if report.Violations == nil {
				report.Violations = []string{}
			}
			out.AuditReport = &report
		}
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
