package api

import (
	"fmt"
	"strings"

	"loom/internal/services"
)

const (
	defaultChapterWords = 2000
	defaultStyle        = "literary nonfiction"
)

// Validate checks the create-project payload.
func (r *ProjectRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	if r.Name == "" {
		return services.Wrap(services.ErrValidation, "api", "create project", "name is required", nil)
	}
	return nil
}

// Validate checks transcript content: at least one line, each with a
// speaker and text.
func (c *DialogueContent) Validate() error {
	if len(c.Dialogues) == 0 {
		return services.Wrap(services.ErrValidation, "api", "store dialogue", "at least one dialogue line is required", nil)
	}
	for i, line := range c.Dialogues {
		if strings.TrimSpace(line.Speaker) == "" {
			return services.Wrap(services.ErrValidation, "api", "store dialogue", fmt.Sprintf("line %d: speaker is required", i+1), nil)
		}
		if strings.TrimSpace(line.Text) == "" {
			return services.Wrap(services.ErrValidation, "api", "store dialogue", fmt.Sprintf("line %d: text is required", i+1), nil)
		}
	}
	if c.Metadata == nil {
		c.Metadata = map[string]any{}
	}
	return nil
}

// Validate checks blueprint content and fills schema defaults: chapter ids,
// the per-chapter word target, and the style label.
func (c *BlueprintContent) Validate() error {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return services.Wrap(services.ErrValidation, "api", "store blueprint", "title is required", nil)
	}
	if len(c.Chapters) == 0 {
		return services.Wrap(services.ErrValidation, "api", "store blueprint", "at least one chapter is required", nil)
	}
	for i := range c.Chapters {
		chapter := &c.Chapters[i]
		chapter.Title = strings.TrimSpace(chapter.Title)
		chapter.Theme = strings.TrimSpace(chapter.Theme)
		if chapter.Title == "" {
			return services.Wrap(services.ErrValidation, "api", "store blueprint", fmt.Sprintf("chapter %d: title is required", i+1), nil)
		}
		if chapter.Theme == "" {
			return services.Wrap(services.ErrValidation, "api", "store blueprint", fmt.Sprintf("chapter %d: theme is required", i+1), nil)
		}
		if strings.TrimSpace(chapter.ChapterID) == "" {
			chapter.ChapterID = fmt.Sprintf("ch%02d", i+1)
		}
		if chapter.TargetWords <= 0 {
			chapter.TargetWords = defaultChapterWords
		}
		if chapter.KeyPoints == nil {
			chapter.KeyPoints = []string{}
		}
	}
	if strings.TrimSpace(c.Style) == "" {
		c.Style = defaultStyle
	}
	return nil
}

// Validate checks an article payload and fills the empty-footnote default.
func (r *ArticleRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if strings.TrimSpace(r.Content) == "" {
		return services.Wrap(services.ErrValidation, "api", "store article", "content is required", nil)
	}
	if r.Footnotes == nil {
		r.Footnotes = []Footnote{}
	}
	for i, footnote := range r.Footnotes {
		if strings.TrimSpace(footnote.Marker) == "" || strings.TrimSpace(footnote.Content) == "" {
			return services.Wrap(services.ErrValidation, "api", "store article", fmt.Sprintf("footnote %d: marker and content are required", i+1), nil)
		}
	}
	if r.WordCount != nil && *r.WordCount < 0 {
		return services.Wrap(services.ErrValidation, "api", "store article", "word_count must not be negative", nil)
	}
	if r.AuditReport != nil && r.AuditReport.Violations == nil {
		r.AuditReport.Violations = []string{}
	}
	return nil
}
