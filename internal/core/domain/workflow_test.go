package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestWorkflowEdges(t *testing.T) {
	allowed := map[[2]WorkflowState]bool{
		{StateDraft, StateReview}:       true,
		{StateReview, StateApproved}:    true,
		{StateReview, StateDraft}:       true,
		{StateApproved, StatePublished}: true,
		{StateApproved, StateDraft}:     true,
		{StatePublished, StateArchived}: true,
	}
	states := []WorkflowState{StateDraft, StateReview, StateApproved, StatePublished, StateArchived}
	for _, from := range states {
		for _, to := range states {
			assert.Equalf(t, allowed[[2]WorkflowState{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.Empty(t, NextStates(StateArchived))
	assert.False(t, ValidWorkflowState("deleted"))
}

func TestTransitionAppendsHistory(t *testing.T) {
	c := &ContentWorkflow{Title: "T", Body: "B", State: StateDraft}
	m := NewWorkflowMachine(c)

	require.NoError(t, m.Transition(StateReview, at))
	require.NoError(t, m.Transition(StateApproved, at.Add(time.Minute)))

	assert.Equal(t, StateApproved, m.State())
	require.Len(t, c.History, 2)
	assert.Equal(t, TransitionRecord{From: StateReview, To: StateApproved, At: at.Add(time.Minute)}, c.History[1])
	assert.Equal(t, at.Add(time.Minute), c.UpdatedAt)
}

func TestInvalidTransitionLeavesContent(t *testing.T) {
	c := &ContentWorkflow{Title: "T", Body: "B", State: StateDraft}

	err := NewWorkflowMachine(c).Transition(StatePublished, at)

	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StateDraft, c.State)
	assert.Empty(t, c.History)
}

func TestDraftNeedsTitleAndBody(t *testing.T) {
	c := &ContentWorkflow{Title: "  ", State: StateDraft}

	err := NewWorkflowMachine(c).Transition(StateReview, at)

	require.ErrorIs(t, err, ErrValidationFailed)
	var de *Error
	require.ErrorAs(t, err, &de)
	assert.Len(t, de.Fields, 2)
	assert.Equal(t, StateDraft, c.State)
}

func TestResetRestoresSnapshot(t *testing.T) {
	c := &ContentWorkflow{Title: "T", Body: "B", State: StateDraft,
		History: []TransitionRecord{{From: StateReview, To: StateDraft, At: at}}}
	m := NewWorkflowMachine(c)
	require.NoError(t, m.Transition(StateReview, at))
	require.NoError(t, m.Transition(StateApproved, at))

	m.Reset()

	assert.Equal(t, StateDraft, c.State)
	assert.Len(t, c.History, 1)
}

func TestRequestApproval(t *testing.T) {
	t.Run("approve", func(t *testing.T) {
		c := &ContentWorkflow{Title: "T", Body: "B", State: StateReview}
		require.NoError(t, RequestApproval(c, ApprovalDecision{Approved: true, Reviewer: "r"}, at))
		assert.Equal(t, StateApproved, c.State)
		assert.Empty(t, c.Metadata.ReviewComments)
	})

	t.Run("reject records comment", func(t *testing.T) {
		c := &ContentWorkflow{Title: "T", Body: "B", State: StateReview}
		require.NoError(t, RequestApproval(c, ApprovalDecision{Comments: "tone", Reviewer: "r"}, at))
		assert.Equal(t, StateDraft, c.State)
		require.Len(t, c.Metadata.ReviewComments, 1)
		assert.Equal(t, "tone", c.Metadata.ReviewComments[0].Comment)
		assert.False(t, c.Metadata.ReviewComments[0].Approved)
	})

	t.Run("outside review", func(t *testing.T) {
		c := &ContentWorkflow{Title: "T", Body: "B", State: StateDraft}
		err := RequestApproval(c, ApprovalDecision{Approved: true}, at)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestPublishNeedsTitleAndBody(t *testing.T) {
	c := &ContentWorkflow{Title: "T", Body: " ", State: StateApproved}

	err := NewWorkflowMachine(c).Transition(StatePublished, at)

	require.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, err.Error(), "not ready to leave approved")
	assert.Equal(t, StateApproved, c.State)
}
