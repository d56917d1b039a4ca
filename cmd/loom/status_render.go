package main

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"loom/internal/store"
)

// statusLabel renders a stored status constant like TRANSCRIBING as a
// display label like Transcribing. Values the store does not recognize are
// shown as received.
func statusLabel(status string) string {
	parsed, ok := store.ParseStatus(status)
	if !ok {
		trimmed := strings.TrimSpace(status)
		if trimmed == "" {
			return "-"
		}
		return trimmed
	}
	return cases.Title(language.Und).String(strings.ToLower(string(parsed)))
}

// statusFlow lists the workflow statuses in declared order, for help text.
func statusFlow() string {
	statuses := store.AllStatuses()
	labels := make([]string, 0, len(statuses))
	for _, status := range statuses {
		labels = append(labels, statusLabel(string(status)))
	}
	return strings.Join(labels, ", ")
}

// agentLabel renders the current_agent field, substituting a dash when no
// agent has been dispatched yet.
func agentLabel(agent string) string {
	agent = strings.TrimSpace(agent)
	if agent == "" {
		return "-"
	}
	return agent
}
