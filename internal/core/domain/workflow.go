package domain

import (
	"strings"
	"time"
)

// workflowEdges is the fixed table of allowed content transitions.
var workflowEdges = map[WorkflowState][]WorkflowState{
	StateDraft:     {StateReview},
	StateReview:    {StateApproved, StateDraft},
	StateApproved:  {StatePublished, StateDraft},
	StatePublished: {StateArchived},
	StateArchived:  nil,
}

// CanTransition reports whether the edge from -> to exists.
func CanTransition(from, to WorkflowState) bool {
	for _, s := range workflowEdges[from] {
		if s == to {
			return true
		}
	}
	return false
}

// NextStates lists the states reachable from s in one step.
func NextStates(s WorkflowState) []WorkflowState {
	return append([]WorkflowState(nil), workflowEdges[s]...)
}

// ValidWorkflowState reports whether s is a known state.
func ValidWorkflowState(s WorkflowState) bool {
	_, ok := workflowEdges[s]
	return ok
}

// WorkflowMachine drives a single content item through the edge table.
type WorkflowMachine struct {
	content *ContentWorkflow

	initialState   WorkflowState
	initialHistory int
}

// NewWorkflowMachine wraps content. Reset returns the content to the state it
// had at this point.
func NewWorkflowMachine(content *ContentWorkflow) *WorkflowMachine {
	return &WorkflowMachine{
		content:        content,
		initialState:   content.State,
		initialHistory: len(content.History),
	}
}

// State returns the current state.
func (m *WorkflowMachine) State() WorkflowState {
	return m.content.State
}

// CanTransition is a pure predicate over the edge table.
func (m *WorkflowMachine) CanTransition(target WorkflowState) bool {
	return CanTransition(m.content.State, target)
}

// Transition moves the content to target and appends one history record.
// On failure the content is left untouched.
func (m *WorkflowMachine) Transition(target WorkflowState, at time.Time) error {
	from := m.content.State
	if !CanTransition(from, target) {
		return InvalidTransition("content", string(from), string(target))
	}
	if from == StateDraft || target == StatePublished {
		if err := CheckReady(m.content, from); err != nil {
			return err
		}
	}
	m.content.State = target
	m.content.History = append(m.content.History, TransitionRecord{From: from, To: target, At: at})
	m.content.UpdatedAt = at
	return nil
}

// CheckReady requires a title and a body. from names the state being left in
// the error message.
func CheckReady(c *ContentWorkflow, from WorkflowState) error {
	var fields []FieldError
	if strings.TrimSpace(c.Title) == "" {
		fields = append(fields, FieldError{Field: "title", Message: "title is required"})
	}
	if strings.TrimSpace(c.Body) == "" {
		fields = append(fields, FieldError{Field: "body", Message: "body is required"})
	}
	if len(fields) > 0 {
		return ValidationFailed("content is not ready to leave "+string(from), fields...)
	}
	return nil
}

// Reset restores the state and history captured at construction.
func (m *WorkflowMachine) Reset() {
	m.content.State = m.initialState
	if len(m.content.History) > m.initialHistory {
		m.content.History = m.content.History[:m.initialHistory]
	}
}

// ApprovalDecision is a reviewer's verdict on content in review.
type ApprovalDecision struct {
	Approved bool   `json:"approved"`
	Comments string `json:"comments"`
	Reviewer string `json:"reviewer,omitempty"`
}

// RequestApproval drives review -> approved or review -> draft and records
// the reviewer's comments.
func RequestApproval(content *ContentWorkflow, decision ApprovalDecision, at time.Time) error {
	target := StateDraft
	if decision.Approved {
		target = StateApproved
	}
	if content.State != StateReview {
		return InvalidTransition("content", string(content.State), string(target))
	}
	if err := NewWorkflowMachine(content).Transition(target, at); err != nil {
		return err
	}
	if decision.Comments != "" || !decision.Approved {
		content.Metadata.ReviewComments = append(content.Metadata.ReviewComments, ReviewComment{
			Reviewer: decision.Reviewer,
			Approved: decision.Approved,
			Comment:  decision.Comments,
			At:       at,
		})
	}
	return nil
}
