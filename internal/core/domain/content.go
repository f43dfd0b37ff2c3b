package domain

import "time"

// ContentType enumerates the kinds of marketing content.
type ContentType string

const (
	ContentBlog               ContentType = "blog"
	ContentEmail              ContentType = "email"
	ContentSocial             ContentType = "social"
	ContentPush               ContentType = "push"
	ContentBanner             ContentType = "banner"
	ContentProductDescription ContentType = "product_description"
)

// WorkflowState is the approval state of a content item.
type WorkflowState string

const (
	StateDraft     WorkflowState = "draft"
	StateReview    WorkflowState = "review"
	StateApproved  WorkflowState = "approved"
	StatePublished WorkflowState = "published"
	StateArchived  WorkflowState = "archived"
)

// ContentWorkflow is a unit of marketing content moving through review.
// Deleting content is modelled as a transition to archived.
type ContentWorkflow struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Type      ContentType        `json:"type"`
	Body      string             `json:"body"`
	State     WorkflowState      `json:"workflowState"`
	Version   int                `json:"version"`
	Author    string             `json:"author"`
	Tags      []string           `json:"tags"`
	Metadata  ContentMetadata    `json:"metadata"`
	History   []TransitionRecord `json:"history"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// ContentMetadata holds the structured, optional parts of a content item.
type ContentMetadata struct {
	SEO                SEO             `json:"seo"`
	ReviewComments     []ReviewComment `json:"reviewComments,omitempty"`
	ScheduledPublishAt *time.Time      `json:"scheduledPublishAt,omitempty"`
	UnpublishReason    string          `json:"unpublishReason,omitempty"`
}

// SEO fields used by storefront rendering.
type SEO struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Slug        string   `json:"slug,omitempty"`
}

// ReviewComment is recorded when a reviewer approves or rejects content.
type ReviewComment struct {
	Reviewer string    `json:"reviewer,omitempty"`
	Approved bool      `json:"approved"`
	Comment  string    `json:"comment"`
	At       time.Time `json:"at"`
}

// TransitionRecord is one entry of the append-only transition log.
type TransitionRecord struct {
	From WorkflowState `json:"from"`
	To   WorkflowState `json:"to"`
	At   time.Time     `json:"at"`
}

// IsLaunchable reports whether the content may be attached to an active
// campaign.
func (c *ContentWorkflow) IsLaunchable() bool {
	return c.State == StateApproved || c.State == StatePublished
}

// Clone returns a deep copy so stores can hand out values without sharing
// slices.
func (c ContentWorkflow) Clone() ContentWorkflow {
	out := c
	out.Tags = append([]string(nil), c.Tags...)
	out.History = append([]TransitionRecord(nil), c.History...)
	out.Metadata.SEO.Keywords = append([]string(nil), c.Metadata.SEO.Keywords...)
	out.Metadata.ReviewComments = append([]ReviewComment(nil), c.Metadata.ReviewComments...)
	if c.Metadata.ScheduledPublishAt != nil {
		at := *c.Metadata.ScheduledPublishAt
		out.Metadata.ScheduledPublishAt = &at
	}
	return out
}
