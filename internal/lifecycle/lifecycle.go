// Package lifecycle declares the project workflow triggers and the state
// each one produces. Triggers overwrite the stored status unconditionally:
// the declared order INITIALIZED → TRANSCRIBING → PLANNING → WRITING →
// COMPLETED is documentation, not a guard, and no trigger produces
// COMPLETED. The agents named here are external collaborators that do the
// actual work; the backend only records which one was dispatched.
package lifecycle

import (
	"strings"

	"loom/internal/store"
)

// Trigger names a workflow endpoint that advances a project's status field.
type Trigger string

const (
	TriggerTranscribe Trigger = "transcribe"
	TriggerPlan       Trigger = "plan"
	TriggerWrite      Trigger = "write"
)

// Agent labels recorded in current_agent when a trigger fires.
const (
	AgentAudioProcessing = "AudioProcessingAgent"
	AgentPlanning        = "PlanningAgent"
	AgentWriting         = "WritingAgent"
)

// Transition is the state a trigger writes to the project record.
type Transition struct {
	Status  store.Status
	Agent   string
	Message string
}

var transitions = map[Trigger]Transition{
	TriggerTranscribe: {Status: store.StatusTranscribing, Agent: AgentAudioProcessing, Message: "transcription started"},
	TriggerPlan:       {Status: store.StatusPlanning, Agent: AgentPlanning, Message: "planning started"},
	TriggerWrite:      {Status: store.StatusWriting, Agent: AgentWriting, Message: "writing started"},
}

// AllTriggers returns the declared triggers in workflow order.
func AllTriggers() []Trigger {
	return []Trigger{TriggerTranscribe, TriggerPlan, TriggerWrite}
}

// ParseTrigger converts a string into a known Trigger.
func ParseTrigger(value string) (Trigger, bool) {
	normalized := Trigger(strings.ToLower(strings.TrimSpace(value)))
	_, ok := transitions[normalized]
	return normalized, ok
}

// Apply returns the transition a trigger produces. The current project
// status is deliberately not an input: any trigger may fire from any state.
func Apply(trigger Trigger) (Transition, bool) {
	transition, ok := transitions[trigger]
	return transition, ok
}
