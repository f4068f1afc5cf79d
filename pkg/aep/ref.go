package aep

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// Container identifies the registry partition a resource lives in. Tenant
// resources are authored by the organization; global resources are provided
// by the platform and are read-only.
type Container string

const (
	ContainerTenant Container = "tenant"
	ContainerGlobal Container = "global"
)

// ResourceType identifies a schema registry resource kind.
type ResourceType string

const (
	ResourceTypeSchema     ResourceType = "schemas"
	ResourceTypeClass      ResourceType = "classes"
	ResourceTypeFieldGroup ResourceType = "fieldgroups"
	ResourceTypeDataType   ResourceType = "datatypes"
	ResourceTypeBehavior   ResourceType = "behaviors"
)

// Path returns the URL path segment for the resource type.
func (t ResourceType) Path() string {
	return string(t)
}

// resourceTypeNames maps the names used inside $id URIs and meta:altId values
// to resource types. Field groups appear as "mixins" and behaviors as "data"
// in platform-issued identifiers.
var resourceTypeNames = map[string]ResourceType{
	"mixins":      ResourceTypeFieldGroup,
	"fieldgroups": ResourceTypeFieldGroup,
	"schemas":     ResourceTypeSchema,
	"classes":     ResourceTypeClass,
	"datatypes":   ResourceTypeDataType,
	"data":        ResourceTypeBehavior,
	"behaviors":   ResourceTypeBehavior,
}

// globalsJSON is the table of well-known global registry resources, keyed by
// dotted uuid. Values are "<type-name> <$id>". Regenerate with
// "aep registry export-globals".
//
//go:embed globals.json
var globalsJSON []byte

type globalEntry struct {
	resourceType ResourceType
	uri          string
}

var globalResources = loadGlobals()

func loadGlobals() map[string]globalEntry {
	var raw map[string]string
	if err := json.Unmarshal(globalsJSON, &raw); err != nil {
		panic(fmt.Sprintf("aep: invalid embedded globals table: %v", err))
	}

	table := make(map[string]globalEntry, len(raw))

	for uuid, value := range raw {
		name, uri, ok := strings.Cut(value, " ")
		if !ok {
			panic(fmt.Sprintf("aep: invalid globals entry for %q", uuid))
		}

		table[uuid] = globalEntry{resourceType: resourceTypeNames[name], uri: uri}
	}

	return table
}

// Ref is a parsed resource reference. Both identifier forms issued by the
// registry resolve to the same Ref: the "$id" URI
// ("https://ns.adobe.com/<tenant>/<type>/<uuid>") and the "meta:altId"
// ("_<tenant>.<type>.<uuid>").
type Ref struct {
	Container Container
	Type      ResourceType
	Tenant    string
	UUID      string

	// ID is the meta:altId form, URI the $id form.
	ID  string
	URI string
}

// ParseRef parses a $id or meta:altId reference. Global references are
// resolved through the embedded globals table; tenant references are decoded
// structurally.
func ParseRef(ref string) (*Ref, error) {
	segments, err := splitRef(ref)
	if err != nil {
		return nil, err
	}

	uuid := strings.Join(segments, ".")

	if entry, ok := globalResources[uuid]; ok {
		return &Ref{
			Container: ContainerGlobal,
			Type:      entry.resourceType,
			UUID:      uuid,
			ID:        "_" + uuid,
			URI:       entry.uri,
		}, nil
	}

	return parseTenantRef(ref, segments)
}

// ParseRefAs parses a reference that is known to name a resource of the given
// type. Unlike ParseRef it accepts global references that are absent from the
// embedded globals table, since the collection already fixes the type.
func ParseRefAs(ref string, resourceType ResourceType) (*Ref, error) {
	parsed, err := ParseRef(ref)
	if err == nil {
		if parsed.Type != resourceType {
			return nil, fmt.Errorf("%w: %q is a %s reference, not %s",
				ErrRefTypeMismatch, ref, parsed.Type, resourceType)
		}

		return parsed, nil
	}

	segments, splitErr := splitRef(ref)
	if splitErr != nil {
		return nil, splitErr
	}

	// Not in the globals table and not a tenant triple: treat it as an
	// unlisted global resource of the collection's type.
	uuid := strings.Join(segments, ".")

	return &Ref{
		Container: ContainerGlobal,
		Type:      resourceType,
		UUID:      uuid,
		ID:        "_" + uuid,
		URI:       "https://ns.adobe.com/" + strings.Join(segments, "/"),
	}, nil
}

func splitRef(ref string) ([]string, error) {
	var segments []string

	switch {
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		_, rest, _ := strings.Cut(ref, "://")
		segments = strings.Split(rest, "/")

		if len(segments) > 0 && segments[0] == "ns.adobe.com" {
			segments = segments[1:]
		}
	case strings.HasPrefix(ref, "_"):
		segments = strings.Split(ref[1:], ".")
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}

	if len(segments) < 2 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}

	return segments, nil
}

func parseTenantRef(ref string, segments []string) (*Ref, error) {
	if len(segments) != 3 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}

	resourceType, ok := resourceTypeNames[segments[1]]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}

	return &Ref{
		Container: ContainerTenant,
		Type:      resourceType,
		Tenant:    segments[0],
		UUID:      segments[2],
		ID:        "_" + strings.Join(segments, "."),
		URI:       "https://ns.adobe.com/" + strings.Join(segments, "/"),
	}, nil
}

// GlobalRefs returns the $id URIs of all well-known global resources of the
// given type, sorted lexically. Used by collections scoped to the global
// container.
func GlobalRefs(resourceType ResourceType) []string {
	var refs []string

	for _, entry := range globalResources {
		if entry.resourceType == resourceType {
			refs = append(refs, entry.uri)
		}
	}

	sort.Strings(refs)

	return refs
}
