package entities

import "strings"

type CampaignOrigin string

const (
	CampaignOriginAdmin  CampaignOrigin = "ADMIN"
	CampaignOriginClient CampaignOrigin = "CLIENT"
)

// WorkflowVariant selects which reviewers take part in a campaign's review flow.
// V2 is admin-only; V3 routes admin-approved work to the brand's client.
type WorkflowVariant string

const (
	WorkflowVariantV2 WorkflowVariant = "v2"
	WorkflowVariantV3 WorkflowVariant = "v3"
)

type Campaign struct {
	CampaignID        string
	Name              string
	Origin            CampaignOrigin
	RawFootageEnabled bool
	PhotosEnabled     bool
}

func (c Campaign) Variant() WorkflowVariant {
	if c.Origin == CampaignOriginClient {
		return WorkflowVariantV3
	}
	return WorkflowVariantV2
}

// KindInScope reports whether media of the given kind count towards roll-up.
func (c Campaign) KindInScope(kind MediaKind) bool {
	switch kind {
	case MediaKindVideo:
		return true
	case MediaKindRawFootage:
		return c.RawFootageEnabled
	case MediaKindPhoto:
		return c.PhotosEnabled
	default:
		return false
	}
}

func (c Campaign) Validate() bool {
	if strings.TrimSpace(c.CampaignID) == "" {
		return false
	}
	return c.Origin == CampaignOriginAdmin || c.Origin == CampaignOriginClient
}
