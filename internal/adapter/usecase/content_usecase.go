package usecase

import (
	"context"
	"log/slog"
	"strings"

	"mcommerce/internal/adapter/querycache"
	"mcommerce/internal/core/domain"
	"mcommerce/internal/core/port"
	"mcommerce/internal/core/validate"
)

// ContentUseCase implements port.ContentUseCase on top of a content
// repository and the workflow state machine.
type ContentUseCase struct {
	repo port.ContentRepository
	deps
}

// NewContentUseCase creates the content service.
func NewContentUseCase(repo port.ContentRepository, perms port.PermissionChecker, opts ...Option) *ContentUseCase {
	return &ContentUseCase{repo: repo, deps: newDeps(perms, opts)}
}

// CreateContent stores a new draft authored by the acting user unless the
// input names an author.
func (u *ContentUseCase) CreateContent(ctx context.Context, in port.CreateContentInput) (*domain.ContentWorkflow, error) {
	user, err := u.authorize(ctx, domain.PermContentCreate)
	if err != nil {
		return nil, err
	}
	if err = validate.Struct(in); err != nil {
		return nil, err
	}
	author := strings.TrimSpace(in.Author)
	if author == "" {
		author = user
	}
	now := u.now()
	c := &domain.ContentWorkflow{
		ID:        u.newID(),
		Title:     strings.TrimSpace(in.Title),
		Type:      in.Type,
		Body:      in.Body,
		State:     domain.StateDraft,
		Version:   1,
		Author:    author,
		Tags:      in.Tags,
		Metadata:  in.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = u.repo.CreateContent(ctx, c); err != nil {
		return nil, err
	}
	u.invalidate(ctx, keyContents.With("list"))
	return c, nil
}

// GetContent returns one content item through the cache.
func (u *ContentUseCase) GetContent(ctx context.Context, id string) (*domain.ContentWorkflow, error) {
	return querycache.Fetch(ctx, u.cache, keyContents.With("detail", id), func(ctx context.Context) (*domain.ContentWorkflow, error) {
		return u.load(ctx, id)
	})
}

func (u *ContentUseCase) load(ctx context.Context, id string) (*domain.ContentWorkflow, error) {
	c, err := u.repo.GetContent(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("content", id)
	}
	return c, nil
}

// UpdateContent edits a content item and bumps its version. Archived content
// is read-only.
func (u *ContentUseCase) UpdateContent(ctx context.Context, id string, in port.UpdateContentInput) (*domain.ContentWorkflow, error) {
	if _, err := u.authorize(ctx, domain.PermContentEdit); err != nil {
		return nil, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		in.Title = &title
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	c, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.State == domain.StateArchived {
		return nil, domain.StateError(domain.CodeContentArchived, "archived content cannot be edited",
			string(c.State), string(c.State))
	}
	if in.Title != nil {
		c.Title = *in.Title
	}
	if in.Body != nil {
		c.Body = *in.Body
	}
	if c.State != domain.StateDraft {
		if err = domain.CheckReady(c, c.State); err != nil {
			return nil, err
		}
	}
	if in.Tags != nil {
		c.Tags = in.Tags
	}
	if in.Metadata != nil {
		// review comments are written by RequestApproval only
		md := *in.Metadata
		md.ReviewComments = c.Metadata.ReviewComments
		md.UnpublishReason = c.Metadata.UnpublishReason
		c.Metadata = md
	}
	c.Version++
	c.UpdatedAt = u.now()
	if err = u.repo.UpdateContent(ctx, c); err != nil {
		return nil, err
	}
	u.invalidate(ctx, keyContents)
	return c, nil
}

// ListContent returns items matching f through the cache.
func (u *ContentUseCase) ListContent(ctx context.Context, f port.ContentFilter) ([]domain.ContentWorkflow, error) {
	key := keyContents.With("list", string(f.State), string(f.Type), f.Author)
	return querycache.Fetch(ctx, u.cache, key, func(ctx context.Context) ([]domain.ContentWorkflow, error) {
		return u.repo.ListContent(ctx, f)
	})
}

// transitionPermission maps a target state to the permission that allows
// moving content into it.
func transitionPermission(from, target domain.WorkflowState) domain.Permission {
	switch target {
	case domain.StateReview:
		return domain.PermContentReview
	case domain.StateApproved:
		return domain.PermContentApprove
	case domain.StatePublished, domain.StateArchived:
		return domain.PermContentPublish
	}
	if from == domain.StateReview {
		return domain.PermContentApprove
	}
	return domain.PermContentEdit
}

// TransitionContent moves content along one workflow edge.
func (u *ContentUseCase) TransitionContent(ctx context.Context, id string, target domain.WorkflowState) (*domain.ContentWorkflow, error) {
	if !domain.ValidWorkflowState(target) {
		return nil, domain.ValidationFailed("invalid input",
			domain.FieldError{Field: "state", Message: "unknown workflow state " + string(target)})
	}
	c, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err = u.authorize(ctx, transitionPermission(c.State, target)); err != nil {
		return nil, err
	}
	from := c.State
	if err = domain.NewWorkflowMachine(c).Transition(target, u.now()); err != nil {
		return nil, err
	}
	if err = u.repo.UpdateContent(ctx, c); err != nil {
		return nil, err
	}
	u.metrics.ContentTransition(string(from), string(target))
	u.invalidate(ctx, keyContents)
	u.logger.Info("content transitioned",
		slog.String("content_id", id),
		slog.String("from", string(from)),
		slog.String("to", string(target)))
	return c, nil
}

// RequestApproval records a reviewer decision on content in review.
func (u *ContentUseCase) RequestApproval(ctx context.Context, id string, d domain.ApprovalDecision) (*domain.ContentWorkflow, error) {
	user, err := u.authorize(ctx, domain.PermContentApprove)
	if err != nil {
		return nil, err
	}
	if d.Reviewer == "" {
		d.Reviewer = user
	}
	c, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	from := c.State
	if err = domain.RequestApproval(c, d, u.now()); err != nil {
		return nil, err
	}
	if err = u.repo.UpdateContent(ctx, c); err != nil {
		return nil, err
	}
	u.metrics.ContentTransition(string(from), string(c.State))
	u.invalidate(ctx, keyContents)
	return c, nil
}

// PublishContent publishes approved content.
func (u *ContentUseCase) PublishContent(ctx context.Context, id string) (*domain.ContentWorkflow, error) {
	if _, err := u.authorize(ctx, domain.PermContentPublish); err != nil {
		return nil, err
	}
	c, changed, err := u.publish(ctx, id)
	if err != nil {
		return nil, err
	}
	if changed {
		u.metrics.ContentTransition(string(domain.StateApproved), string(domain.StatePublished))
		u.invalidate(ctx, keyContents)
	}
	return c, nil
}

// publish moves approved content to published without a permission check or
// cache writes, so it can run inside a launch transaction. Content already
// published comes back unchanged with changed == false.
func (u *ContentUseCase) publish(ctx context.Context, id string) (c *domain.ContentWorkflow, changed bool, err error) {
	c, err = u.load(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if c.State == domain.StatePublished {
		return c, false, nil
	}
	if err = domain.NewWorkflowMachine(c).Transition(domain.StatePublished, u.now()); err != nil {
		return nil, false, err
	}
	if err = u.repo.UpdateContent(ctx, c); err != nil {
		return nil, false, err
	}
	return c, true, nil
}

// EmergencyUnpublish archives published content and keeps the reason in its
// metadata.
func (u *ContentUseCase) EmergencyUnpublish(ctx context.Context, id, reason string) (*domain.ContentWorkflow, error) {
	user, err := u.authorize(ctx, domain.PermContentPublish)
	if err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.ValidationFailed("invalid input",
			domain.FieldError{Field: "reason", Message: "is required"})
	}
	c, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.State != domain.StatePublished {
		return nil, domain.InvalidTransition("content", string(c.State), string(domain.StateArchived))
	}
	if err = domain.NewWorkflowMachine(c).Transition(domain.StateArchived, u.now()); err != nil {
		return nil, err
	}
	c.Metadata.UnpublishReason = reason
	if err = u.repo.UpdateContent(ctx, c); err != nil {
		return nil, err
	}
	u.metrics.ContentTransition(string(domain.StatePublished), string(domain.StateArchived))
	u.invalidate(ctx, keyContents)
	u.logger.Warn("content unpublished",
		slog.String("content_id", id),
		slog.String("user_id", user),
		slog.String("reason", reason))
	return c, nil
}
