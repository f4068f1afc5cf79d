package aep

import (
	"context"
	"fmt"
)

// objectState tracks the lifecycle of a resource handle. A resource is
// unsaved until a collection returns it with a server-assigned identifier,
// persisted while it exists remotely, and deleted after Delete succeeds.
type objectState int

const (
	stateUnsaved objectState = iota
	statePersisted
	stateDeleted
)

// ResourceRequester performs registry requests on behalf of bound resources.
// It is implemented by the concrete client; callers normally never provide
// their own.
type ResourceRequester interface {
	FetchResource(ctx context.Context, ref *Ref, format Format) (*Resource, error)
	PatchResource(ctx context.Context, ref *Ref, ops []PatchOperation) (*Resource, error)
	DeleteResource(ctx context.Context, ref *Ref) error
}

// Bind attaches a resource to the registry it was fetched from, marking it
// persisted when it carries a server-assigned identifier. Collections call
// this on every resource they return.
func (r *Resource) Bind(requester ResourceRequester) {
	r.requester = requester
	if r.ID != "" || r.URI != "" {
		r.state = statePersisted
	}
}

// Persisted reports whether the resource exists remotely.
func (r *Resource) Persisted() bool {
	return r.state == statePersisted
}

// Deleted reports whether the resource was deleted through this handle.
func (r *Resource) Deleted() bool {
	return r.state == stateDeleted
}

func (r *Resource) live() (*Ref, error) {
	if r.state == stateDeleted {
		return nil, ErrStaleResource
	}

	if r.requester == nil || r.state != statePersisted {
		return nil, ErrNotPersisted
	}

	return r.Ref()
}

// Refresh re-reads the resource and updates it in place. With FormatFull the
// registry resolves composition, populating the flattened property map.
func (r *Resource) Refresh(ctx context.Context, format Format) error {
	ref, err := r.live()
	if err != nil {
		return err
	}

	fresh, err := r.requester.FetchResource(ctx, ref, format)
	if err != nil {
		return fmt.Errorf("refreshing %s: %w", ref.ID, err)
	}

	r.replaceWith(fresh)

	return nil
}

// SetTitle updates the resource title remotely and locally.
func (r *Resource) SetTitle(ctx context.Context, title string) error {
	return r.patchField(ctx, "/title", title)
}

// SetDescription updates the resource description remotely and locally.
func (r *Resource) SetDescription(ctx context.Context, description string) error {
	return r.patchField(ctx, "/description", description)
}

func (r *Resource) patchField(ctx context.Context, path string, value string) error {
	ref, err := r.live()
	if err != nil {
		return err
	}

	updated, err := r.requester.PatchResource(ctx, ref, []PatchOperation{
		{Op: "replace", Path: path, Value: value},
	})
	if err != nil {
		return fmt.Errorf("updating %s: %w", ref.ID, err)
	}

	r.replaceWith(updated)

	return nil
}

// Delete removes the resource remotely. It is only valid on persisted
// resources; afterwards the handle is stale and all operations fail with
// ErrStaleResource.
func (r *Resource) Delete(ctx context.Context) error {
	ref, err := r.live()
	if err != nil {
		return err
	}

	err = r.requester.DeleteResource(ctx, ref)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", ref.ID, err)
	}

	r.state = stateDeleted

	return nil
}

func (r *Resource) replaceWith(fresh *Resource) {
	requester, state := r.requester, r.state
	*r = *fresh
	r.requester, r.state = requester, state
}

// Parent resolves the class this schema inherits from. The relationship is
// carried in meta:class and mirrored in meta:extends; either suffices.
func (s *Schema) Parent(ctx context.Context) (*Class, error) {
	if _, err := s.live(); err != nil {
		return nil, err
	}

	classRef := s.Class

	if classRef == "" {
		refs := s.extendsOfType(ResourceTypeClass)
		if len(refs) == 1 {
			classRef = refs[0].URI
		}
	}

	if classRef == "" {
		return nil, fmt.Errorf("%w: schema does not reference a class", ErrInvalidRef)
	}

	ref, err := ParseRefAs(classRef, ResourceTypeClass)
	if err != nil {
		return nil, err
	}

	resource, err := s.requester.FetchResource(ctx, ref, FormatShort)
	if err != nil {
		return nil, fmt.Errorf("resolving parent class %s: %w", ref.ID, err)
	}

	class := &Class{Resource: *resource}
	class.Bind(s.requester)

	return class, nil
}

// FieldGroups returns the field groups this schema composes, derived from
// meta:extends without additional requests.
func (s *Schema) FieldGroups() ([]*FieldGroup, error) {
	if _, err := s.live(); err != nil {
		return nil, err
	}

	refs := s.extendsOfType(ResourceTypeFieldGroup)

	groups := make([]*FieldGroup, 0, len(refs))

	for _, ref := range refs {
		group := &FieldGroup{Resource: Resource{URI: ref.URI, ID: ref.ID}}
		group.Bind(s.requester)
		groups = append(groups, group)
	}

	return groups, nil
}

// Behavior returns the data behavior this schema ultimately extends.
func (s *Schema) Behavior() (*Behavior, error) {
	if _, err := s.live(); err != nil {
		return nil, err
	}

	refs := s.extendsOfType(ResourceTypeBehavior)

	if len(refs) != 1 {
		return nil, fmt.Errorf("%w: schema extends %d behaviors", ErrInvalidRef, len(refs))
	}

	behavior := &Behavior{Resource: Resource{URI: refs[0].URI, ID: refs[0].ID}}
	behavior.Bind(s.requester)

	return behavior, nil
}

func (s *Schema) extendsOfType(resourceType ResourceType) []*Ref {
	var refs []*Ref

	for _, raw := range s.Extends {
		ref, err := ParseRef(raw)
		if err != nil {
			continue // unlisted global refs of other types
		}

		if ref.Type == resourceType {
			refs = append(refs, ref)
		}
	}

	return refs
}
