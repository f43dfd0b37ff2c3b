package domain

// Permission names a capability checked before mutating operations.
type Permission string

const (
	PermContentCreate    Permission = "marketing.content.create"
	PermContentEdit      Permission = "marketing.content.edit"
	PermContentReview    Permission = "marketing.content.review"
	PermContentApprove   Permission = "marketing.content.approve"
	PermContentPublish   Permission = "marketing.content.publish"
	PermCampaignCreate   Permission = "marketing.campaigns.create"
	PermCampaignEdit     Permission = "marketing.campaigns.edit"
	PermCampaignActivate Permission = "marketing.campaigns.activate"
	PermCampaignLaunch   Permission = "marketing.campaigns.launch"
	PermBundleManage     Permission = "marketing.bundles.manage"
	PermAnalyticsWrite   Permission = "marketing.analytics.write"
)

// Role is a named set of permissions assigned to users.
type Role struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Permissions []Permission `json:"permissions"`
}

// Built-in roles installed by the seed.
var (
	RoleMarketingManager = Role{
		ID:   "marketing_manager",
		Name: "Marketing manager",
		Permissions: []Permission{
			PermContentCreate, PermContentEdit, PermContentReview, PermContentApprove, PermContentPublish,
			PermCampaignCreate, PermCampaignEdit, PermCampaignActivate, PermCampaignLaunch,
			PermBundleManage, PermAnalyticsWrite,
		},
	}
	RoleContentEditor = Role{
		ID:          "content_editor",
		Name:        "Content editor",
		Permissions: []Permission{PermContentCreate, PermContentEdit, PermContentReview},
	}
)
