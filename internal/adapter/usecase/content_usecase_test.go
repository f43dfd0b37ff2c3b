package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcommerce/internal/core/domain"
	"mcommerce/internal/core/port"
	"mcommerce/internal/requestctx"
)

func TestContentLifecycle(t *testing.T) {
	f := newFixture(t)
	id := f.draftContent(t)

	_, err := f.contents.TransitionContent(f.ctx, id, domain.StateReview)
	require.NoError(t, err)

	c, err := f.contents.RequestApproval(f.ctx, id, domain.ApprovalDecision{Approved: true, Comments: "ship it"})
	require.NoError(t, err)
	assert.Equal(t, domain.StateApproved, c.State)
	require.Len(t, c.Metadata.ReviewComments, 1)
	assert.Equal(t, manager, c.Metadata.ReviewComments[0].Reviewer)

	c, err = f.contents.PublishContent(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatePublished, c.State)

	c, err = f.contents.EmergencyUnpublish(f.ctx, id, "pricing typo")
	require.NoError(t, err)
	assert.Equal(t, domain.StateArchived, c.State)
	assert.Equal(t, "pricing typo", c.Metadata.UnpublishReason)
	assert.Len(t, c.History, 4)

	title := "New title"
	_, err = f.contents.UpdateContent(f.ctx, id, port.UpdateContentInput{Title: &title})
	assert.Equal(t, domain.CodeContentArchived, domain.CodeOf(err))
}

func TestRejectionReturnsContentToDraft(t *testing.T) {
	f := newFixture(t)
	id := f.draftContent(t)
	_, err := f.contents.TransitionContent(f.ctx, id, domain.StateReview)
	require.NoError(t, err)

	c, err := f.contents.RequestApproval(f.ctx, id, domain.ApprovalDecision{Approved: false})
	require.NoError(t, err)

	assert.Equal(t, domain.StateDraft, c.State)
	require.Len(t, c.Metadata.ReviewComments, 1)
	assert.False(t, c.Metadata.ReviewComments[0].Approved)
}

func TestTransitionOutsideTableLeavesContentUntouched(t *testing.T) {
	f := newFixture(t)
	id := f.draftContent(t)

	_, err := f.contents.TransitionContent(f.ctx, id, domain.StatePublished)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	stored, err := f.store.GetContent(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StateDraft, stored.State)
	assert.Empty(t, stored.History)
}

func TestUnknownTargetStateIsValidationError(t *testing.T) {
	f := newFixture(t)
	id := f.draftContent(t)

	_, err := f.contents.TransitionContent(f.ctx, id, domain.WorkflowState("live"))

	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestDraftWithoutBodyCannotEnterReview(t *testing.T) {
	f := newFixture(t)
	c, err := f.contents.CreateContent(f.ctx, port.CreateContentInput{Title: "Teaser", Type: domain.ContentPush})
	require.NoError(t, err)

	_, err = f.contents.TransitionContent(f.ctx, c.ID, domain.StateReview)

	require.ErrorIs(t, err, domain.ErrValidationFailed)
	assert.Contains(t, err.Error(), "body")
}

func TestEditorCannotApprove(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.AssignRole(context.Background(), "editor", domain.RoleContentEditor))
	editor := requestctx.WithUserID(context.Background(), "editor")

	c, err := f.contents.CreateContent(editor, port.CreateContentInput{Title: "Post", Type: domain.ContentBlog, Body: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, "editor", c.Author)

	_, err = f.contents.TransitionContent(editor, c.ID, domain.StateReview)
	require.NoError(t, err)

	_, err = f.contents.TransitionContent(editor, c.ID, domain.StateApproved)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestUpdateContentBumpsVersion(t *testing.T) {
	f := newFixture(t)
	id := f.draftContent(t)
	body := "Updated copy"

	c, err := f.contents.UpdateContent(f.ctx, id, port.UpdateContentInput{Body: &body, Tags: []string{"summer"}})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Version)

	got, err := f.contents.GetContent(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, body, got.Body)
	assert.Equal(t, []string{"summer"}, got.Tags)
}

func TestCreateContentValidatesInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.contents.CreateContent(f.ctx, port.CreateContentInput{Type: domain.ContentType("fax")})

	require.ErrorIs(t, err, domain.ErrValidationFailed)
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	fields := make([]string, 0, len(de.Fields))
	for _, fe := range de.Fields {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"title", "type"}, fields)
}

func TestUpdateCannotBlankApprovedContent(t *testing.T) {
	f := newFixture(t)
	id := f.approvedContent(t)
	blank, empty := "   ", ""

	_, err := f.contents.UpdateContent(f.ctx, id, port.UpdateContentInput{Title: &blank})
	require.ErrorIs(t, err, domain.ErrValidationFailed)

	_, err = f.contents.UpdateContent(f.ctx, id, port.UpdateContentInput{Body: &empty})
	require.ErrorIs(t, err, domain.ErrValidationFailed)

	stored, err := f.store.GetContent(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "T", stored.Title)
	assert.NotEmpty(t, stored.Body)
	assert.Equal(t, 1, stored.Version)
}

func TestPublishRequiresTitleAndBody(t *testing.T) {
	f := newFixture(t)
	id := f.approvedContent(t)
	stored, err := f.store.GetContent(context.Background(), id)
	require.NoError(t, err)
	stored.Body = ""
	require.NoError(t, f.store.UpdateContent(context.Background(), stored))

	_, err = f.contents.PublishContent(f.ctx, id)

	require.ErrorIs(t, err, domain.ErrValidationFailed)
	got, err := f.store.GetContent(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StateApproved, got.State)
}
