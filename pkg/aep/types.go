package aep

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Resource is the base structure shared by all schema registry resources.
// The registry issues two identifier forms for every resource: the "$id" URI
// and the "meta:altId" dotted form; both are retained so either can be used
// in later requests.
type Resource struct {
	URI              string              `json:"$id,omitempty"                   yaml:"id,omitempty"`
	ID               string              `json:"meta:altId,omitempty"            yaml:"alt_id,omitempty"`
	Version          string              `json:"version,omitempty"               yaml:"version,omitempty"`
	Title            string              `json:"title,omitempty"                 yaml:"title,omitempty"`
	Description      string              `json:"description,omitempty"           yaml:"description,omitempty"`
	Type             string              `json:"type,omitempty"                  yaml:"type,omitempty"`
	Extends          []string            `json:"meta:extends,omitempty"          yaml:"extends,omitempty"`
	IntendedToExtend []string            `json:"meta:intendedToExtend,omitempty" yaml:"intended_to_extend,omitempty"`
	Properties       map[string]Property `json:"properties,omitempty"            yaml:"properties,omitempty"`
	AllOf            []AllOfEntry        `json:"allOf,omitempty"                 yaml:"all_of,omitempty"`
	Definitions      map[string]Property `json:"definitions,omitempty"           yaml:"definitions,omitempty"`
	Required         []string            `json:"required,omitempty"              yaml:"required,omitempty"`
	ResourceKind     string              `json:"meta:resourceType,omitempty"     yaml:"resource_kind,omitempty"`
	RegistryMetadata json.RawMessage     `json:"meta:registryMetadata,omitempty" yaml:"-"`

	state     objectState
	requester ResourceRequester
}

// Ref parses the resource's identifier into its structured form.
func (r *Resource) Ref() (*Ref, error) {
	switch {
	case r.URI != "":
		return ParseRef(r.URI)
	case r.ID != "":
		return ParseRef(r.ID)
	default:
		return nil, ErrNotPersisted
	}
}

// AllOfEntry is one element of a composition list. Entries either reference
// another resource by $ref or define properties inline.
type AllOfEntry struct {
	Ref        string              `json:"$ref,omitempty"       yaml:"ref,omitempty"`
	Properties map[string]Property `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Schema is a tenant- or platform-defined XDM schema. A schema composes
// exactly one class with zero or more field groups.
type Schema struct {
	Resource

	Class string `json:"meta:class,omitempty" yaml:"class,omitempty"`
}

// Class is the behavioral category a schema inherits from.
type Class struct {
	Resource
}

// FieldGroup is a reusable bundle of property definitions attachable to
// multiple schemas.
type FieldGroup struct {
	Resource
}

// DataType is a reusable property type definition.
type DataType struct {
	Resource
}

// Behavior is one of the platform-defined data behaviors (record,
// time-series, adhoc).
type Behavior struct {
	Resource
}

// PropertyType is the JSON schema type tag of a property descriptor.
type PropertyType string

const (
	PropertyTypeString  PropertyType = "string"
	PropertyTypeNumber  PropertyType = "number"
	PropertyTypeInteger PropertyType = "integer"
	PropertyTypeBoolean PropertyType = "boolean"
	PropertyTypeObject  PropertyType = "object"
	PropertyTypeArray   PropertyType = "array"
)

// Property is a typed descriptor for one entry of a resource's property
// mapping. Server documents are preserved verbatim: a Property decoded from a
// response marshals back to the exact document it was decoded from, so
// arbitrary server schemas survive a round trip.
type Property struct {
	Type        PropertyType        `json:"type,omitempty"`
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Format      string              `json:"format,omitempty"`
	Ref         string              `json:"$ref,omitempty"`
	Enum        []json.RawMessage   `json:"enum,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Required    []string            `json:"required,omitempty"`
	XDMType     string              `json:"meta:xdmType,omitempty"`

	raw json.RawMessage
}

type propertyAlias Property

// UnmarshalJSON decodes the typed view and retains the raw document.
func (p *Property) UnmarshalJSON(data []byte) error {
	var alias propertyAlias

	err := json.Unmarshal(data, &alias)
	if err != nil {
		return fmt.Errorf("parsing property descriptor: %w", err)
	}

	*p = Property(alias)
	p.raw = append(json.RawMessage(nil), data...)

	return nil
}

// MarshalJSON emits the original document when the property was decoded from
// a response, and the typed fields otherwise.
func (p Property) MarshalJSON() ([]byte, error) {
	if p.raw != nil {
		return p.raw, nil
	}

	return json.Marshal(propertyAlias(p))
}

// Page carries the pagination block of a registry list response.
type Page struct {
	OrderBy string `json:"orderby,omitempty" yaml:"orderby,omitempty"`
	Start   string `json:"start,omitempty"   yaml:"start,omitempty"`
	Next    string `json:"next,omitempty"    yaml:"next,omitempty"`
	Count   int    `json:"count"             yaml:"count"`
}

// ListResponse is a single page of registry list results.
type ListResponse[T any] struct {
	Results []T  `json:"results" yaml:"results"`
	Page    Page `json:"_page"   yaml:"page"`
}

// PatchOperation is a JSON Patch operation accepted by registry PATCH
// endpoints.
type PatchOperation struct {
	Op    string      `json:"op"              yaml:"op"`
	Path  string      `json:"path"            yaml:"path"`
	Value interface{} `json:"value,omitempty" yaml:"value,omitempty"`
}

// Stats is the registry statistics document for the organization.
type Stats struct {
	IMSOrg   string         `json:"imsOrg"             yaml:"ims_org"`
	TenantID string         `json:"tenantId"           yaml:"tenant_id"`
	Counts   map[string]int `json:"counts,omitempty"   yaml:"counts,omitempty"`
}

// XED accept formats for registry reads. The registry varies response detail
// by content negotiation rather than by path.
type Format string

const (
	// FormatShort returns the resource without resolved composition.
	FormatShort Format = ""

	// FormatFull resolves allOf composition into a flattened property map.
	FormatFull Format = "full"

	// FormatID returns identifier fields only.
	FormatID Format = "id"
)

// AcceptHeader builds the vnd.adobe.xed accept header for a format. Version 0
// omits the version parameter, which the list endpoints require.
func AcceptHeader(format Format, version int) string {
	header := "application/vnd.adobe.xed+json"
	if format != FormatShort {
		header = fmt.Sprintf("application/vnd.adobe.xed-%s+json", format)
	}

	if version > 0 {
		header = fmt.Sprintf("%s; version=%d", header, version)
	}

	return header
}
