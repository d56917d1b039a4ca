package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// ServiceInfo is the static payload served at the API root.
type ServiceInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Docs        string `json:"docs"`
}

// HealthResponse reports service liveness and the number of known projects.
type HealthResponse struct {
	Status   string `json:"status"`
	Projects int    `json:"projects"`
}

// ProjectRequest is the payload for creating a project.
type ProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Project describes a project record in a transport-friendly format.
type Project struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Status       string `json:"status"`
	CurrentAgent string `json:"current_agent,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// AudioFile describes one uploaded recording in listing responses.
type AudioFile struct {
	ID       string   `json:"id"`
	Filename string   `json:"filename"`
	Duration *float64 `json:"duration"`
}

// UploadResponse confirms a stored upload.
type UploadResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
}

// DialogueLine is a single utterance in a cleaned transcript.
type DialogueLine struct {
	Speaker   string   `json:"speaker"`
	Text      string   `json:"text"`
	Emotion   string   `json:"emotion,omitempty"`
	StartTime *float64 `json:"start_time,omitempty"`
	EndTime   *float64 `json:"end_time,omitempty"`
}

// DialogueContent is the cleaned transcript stored per project.
type DialogueContent struct {
	Dialogues []DialogueLine `json:"dialogues"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ChapterPlan is one planned chapter inside a blueprint.
type ChapterPlan struct {
	ChapterID   string   `json:"chapter_id"`
	Title       string   `json:"title"`
	Theme       string   `json:"theme"`
	TargetWords int      `json:"target_words"`
	KeyPoints   []string `json:"key_points"`
}

// BlueprintContent is the versioned chapter plan for the eventual article.
type BlueprintContent struct {
	Title    string        `json:"title"`
	Chapters []ChapterPlan `json:"chapters"`
	Style    string        `json:"style"`
}

// Footnote is a marker/content pair attached to an article.
type Footnote struct {
	Marker  string `json:"marker"`
	Content string `json:"content"`
}

// AuditReport summarizes fact coverage for a generated article.
type AuditReport struct {
	FactCoverage float64  `json:"fact_coverage"`
	Violations   []string `json:"violations"`
}

// ArticleRequest is the payload for storing a generated article version.
type ArticleRequest struct {
	Title       string       `json:"title,omitempty"`
	Content     string       `json:"content"`
	Footnotes   []Footnote   `json:"footnotes"`
	AuditReport *AuditReport `json:"audit_report,omitempty"`
	WordCount   *int         `json:"word_count,omitempty"`
}

// Article describes a stored article version.
type Article struct {
	ID          string       `json:"id"`
	Title       string       `json:"title,omitempty"`
	Content     string       `json:"content"`
	Footnotes   []Footnote   `json:"footnotes"`
	AuditReport *AuditReport `json:"audit_report,omitempty"`
	WordCount   *int         `json:"word_count"`
	Version     int          `json:"version"`
	CreatedAt   string       `json:"created_at"`
}

// StoredDocument confirms a persisted dialogue, blueprint, or article.
type StoredDocument struct {
	ID        string `json:"id"`
	Version   int    `json:"version,omitempty"`
	CreatedAt string `json:"created_at"`
}

// StatusResponse reports the project status after a workflow trigger fires.
type StatusResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}
