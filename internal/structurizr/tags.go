package structurizr

import "strings"

// Structural tags assigned by Structurizr to each element kind.
const (
	TagElement        = "Element"
	TagPerson         = "Person"
	TagSoftwareSystem = "Software System"
	TagExternalSystem = "External System"
	TagContainer      = "Container"
	TagComponent      = "Component"
	TagRelationship   = "Relationship"

	// TagPlaceholder marks synthetic elements that hold orphaned children.
	TagPlaceholder = "c4model:placeholder"
)

// LocationExternal marks a person or system outside the enterprise.
const LocationExternal = "External"

// Property keys for native fields that Structurizr has no slot for.
const (
	propID              = "c4model.id"
	propTechnology      = "technology"
	propParentSystem    = "c4model.parentSystem"
	propParentContainer = "c4model.parentContainer"
	propArrowDirection  = "arrowDirection"
	propLineStyle       = "lineStyle"
	propAnimated        = "animated"

	propVersion               = "c4model.version"
	propAuthor                = "c4model.author"
	propAnnotations           = "c4model.annotations"
	propDetachedRelationships = "c4model.detachedRelationships"
)

const (
	placeholderSystemName    = "Unassigned"
	placeholderContainerName = "Unassigned Components"
	placeholderDescription   = "Holds elements without a resolvable parent"
)

var structuralTags = map[string]bool{
	TagElement:        true,
	TagPerson:         true,
	TagSoftwareSystem: true,
	TagExternalSystem: true,
	TagContainer:      true,
	TagComponent:      true,
	TagRelationship:   true,
	TagPlaceholder:    true,
}

// joinTags renders structural tags followed by user tags as a comma-separated list.
// Store patches reject tags containing commas; a native file edited by hand
// can still carry one, and it comes back from Structurizr as two tags.
func joinTags(structural []string, user []string) string {
	all := make([]string, 0, len(structural)+len(user))
	all = append(all, structural...)
	for _, t := range user {
		if t = strings.TrimSpace(t); t != "" {
			all = append(all, t)
		}
	}
	return strings.Join(all, ",")
}

// splitTags parses a comma-separated tag list.
func splitTags(tags string) []string {
	var out []string
	for _, t := range strings.Split(tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// userTags returns the non-structural tags of a tag list, or nil.
func userTags(tags string) []string {
	var out []string
	for _, t := range splitTags(tags) {
		if !structuralTags[t] {
			out = append(out, t)
		}
	}
	return out
}

// hasTag reports whether tags contains tag.
func hasTag(tags, tag string) bool {
	for _, t := range splitTags(tags) {
		if t == tag {
			return true
		}
	}
	return false
}
