package client

import (
	"context"
	"fmt"
	"net/url"

	json "github.com/goccy/go-json"

	"github.com/aepio/aep-client/internal/constants"
	"github.com/aepio/aep-client/internal/http"
	"github.com/aepio/aep-client/pkg/aep"
)

// registry is the shared core of the schema registry resource clients. Each
// typed client scopes it to a resource type and one or both containers.
type registry struct {
	httpClient *http.Client
	cache      *aep.CacheManager
}

// registryPath builds the collection endpoint for a container and type.
func registryPath(container aep.Container, resourceType aep.ResourceType) string {
	return constants.SchemaRegistryBasePath + "/" + string(container) + "/" + resourceType.Path()
}

// resourcePath builds the endpoint of one resource. The registry accepts the
// meta:altId form directly in the path.
func resourcePath(ref *aep.Ref) string {
	return registryPath(ref.Container, ref.Type) + "/" + url.PathEscape(ref.ID)
}

// inScope reports whether a container is within a client's scope.
func inScope(containers []aep.Container, container aep.Container) bool {
	for _, c := range containers {
		if c == container {
			return true
		}
	}

	return false
}

// getRaw reads one resource document, serving global reads from cache when a
// cache is configured. Global resources are immutable, so staleness is
// bounded by the cache TTL alone.
func (r *registry) getRaw(ctx context.Context, ref *aep.Ref, format aep.Format) ([]byte, error) {
	path := resourcePath(ref)
	headers := map[string]string{
		"Accept": aep.AcceptHeader(format, 1),
	}

	var cacheKey string
	if r.cache != nil && ref.Container == aep.ContainerGlobal {
		cacheKey = r.cache.GetCacheKey("GET", path, map[string]string{"format": string(format)})

		if data, err := r.cache.Get(ctx, cacheKey); err == nil {
			return data, nil
		}
	}

	resp, err := r.httpClient.GetWithHeaders(ctx, path, nil, headers)
	if err != nil {
		return nil, err
	}

	if cacheKey != "" && r.cache.ShouldCache("GET", path, resp.StatusCode) {
		_ = r.cache.SetWithETag(ctx, cacheKey, resp.Body, resp.Headers.Get("Etag"), constants.DefaultCacheTTL)
	}

	return resp.Body, nil
}

// listPage reads one page of a container listing.
func (r *registry) listPage(ctx context.Context, container aep.Container, resourceType aep.ResourceType, params *aep.QueryParams) (*http.Response, error) {
	if params == nil {
		params = aep.NewQueryParams()
	}

	headers := map[string]string{
		"Accept": aep.AcceptHeader(params.Format, 0),
	}

	return r.httpClient.GetWithHeaders(ctx, registryPath(container, resourceType), params.ToValues(), headers)
}

// FetchResource implements aep.ResourceRequester.
func (r *registry) FetchResource(ctx context.Context, ref *aep.Ref, format aep.Format) (*aep.Resource, error) {
	body, err := r.getRaw(ctx, ref, format)
	if err != nil {
		return nil, err
	}

	var resource aep.Resource
	if err := json.Unmarshal(body, &resource); err != nil {
		return nil, fmt.Errorf("parsing resource response: %w", err)
	}

	resource.Bind(r)

	return &resource, nil
}

// PatchResource implements aep.ResourceRequester.
func (r *registry) PatchResource(ctx context.Context, ref *aep.Ref, ops []aep.PatchOperation) (*aep.Resource, error) {
	if ref.Container == aep.ContainerGlobal {
		return nil, aep.ErrGlobalReadOnly
	}

	resp, err := r.httpClient.Patch(ctx, resourcePath(ref), ops)
	if err != nil {
		return nil, err
	}

	var resource aep.Resource
	if err := json.Unmarshal(resp.Body, &resource); err != nil {
		return nil, fmt.Errorf("parsing resource response: %w", err)
	}

	resource.Bind(r)

	return &resource, nil
}

// DeleteResource implements aep.ResourceRequester.
func (r *registry) DeleteResource(ctx context.Context, ref *aep.Ref) error {
	if ref.Container == aep.ContainerGlobal {
		return aep.ErrGlobalReadOnly
	}

	_, err := r.httpClient.Delete(ctx, resourcePath(ref))

	return err
}

// bind attaches the registry to a typed resource so the object-level
// operations (Refresh, SetTitle, Delete) can reach the API.
func bind(item any, r *registry) {
	if b, ok := item.(interface{ Bind(aep.ResourceRequester) }); ok {
		b.Bind(r)
	}
}

// getResource reads one resource into its typed form.
func getResource[T any](ctx context.Context, r *registry, resourceType aep.ResourceType, ref string, format aep.Format) (*T, error) {
	parsed, err := aep.ParseRefAs(ref, resourceType)
	if err != nil {
		return nil, err
	}

	body, err := r.getRaw(ctx, parsed, format)
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", parsed.ID, err)
	}

	result := new(T)
	if err := json.Unmarshal(body, result); err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", resourceType, err)
	}

	bind(result, r)

	return result, nil
}

// listPageIn reads one page of a single container's listing into typed form.
func listPageIn[T any](ctx context.Context, r *registry, container aep.Container, resourceType aep.ResourceType, params *aep.QueryParams) (*aep.ListResponse[*T], error) {
	resp, err := r.listPage(ctx, container, resourceType, params)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", resourceType, err)
	}

	var result aep.ListResponse[*T]
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing %s list response: %w", resourceType, err)
	}

	for _, item := range result.Results {
		bind(item, r)
	}

	return &result, nil
}

// listAll drains the listings of every container in scope, following the
// _page.next token within each.
func listAll[T any](ctx context.Context, r *registry, containers []aep.Container, resourceType aep.ResourceType, params *aep.QueryParams) ([]*T, error) {
	var all []*T

	for _, container := range containers {
		items, err := aep.FetchAll(ctx, func(ctx context.Context, p *aep.QueryParams) (*aep.ListResponse[*T], error) {
			return listPageIn[T](ctx, r, container, resourceType, p)
		}, params)
		if err != nil {
			return nil, err
		}

		all = append(all, items...)
	}

	return all, nil
}

// findResource returns the single resource matching the params. Zero matches
// is aep.ErrNoMatch; more than one is aep.ErrAmbiguousMatch, since a Find
// that silently picked one would hide authoring mistakes.
func findResource[T any](ctx context.Context, r *registry, containers []aep.Container, resourceType aep.ResourceType, params *aep.QueryParams) (*T, error) {
	matches, err := listAll[T](ctx, r, containers, resourceType, params)
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("finding %s: %w", resourceType, aep.ErrNoMatch)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("finding %s: %d results: %w", resourceType, len(matches), aep.ErrAmbiguousMatch)
	}
}

// createResource creates a tenant resource from a prepared body. Creation is
// tenant-only; a client scoped to the global container rejects it.
func createResource[T any](ctx context.Context, r *registry, containers []aep.Container, resourceType aep.ResourceType, body interface{}) (*T, error) {
	if !inScope(containers, aep.ContainerTenant) {
		return nil, fmt.Errorf("creating %s: %w", resourceType, aep.ErrGlobalReadOnly)
	}

	resp, err := r.httpClient.Post(ctx, registryPath(aep.ContainerTenant, resourceType), body)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", resourceType, err)
	}

	result := new(T)
	if err := json.Unmarshal(resp.Body, result); err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", resourceType, err)
	}

	bind(result, r)

	return result, nil
}

// updateResource applies JSON Patch operations to a tenant resource.
func updateResource[T any](ctx context.Context, r *registry, resourceType aep.ResourceType, ref string, ops []aep.PatchOperation) (*T, error) {
	parsed, err := aep.ParseRefAs(ref, resourceType)
	if err != nil {
		return nil, err
	}

	if parsed.Container == aep.ContainerGlobal {
		return nil, aep.ErrGlobalReadOnly
	}

	resp, err := r.httpClient.Patch(ctx, resourcePath(parsed), ops)
	if err != nil {
		return nil, fmt.Errorf("updating %s: %w", parsed.ID, err)
	}

	result := new(T)
	if err := json.Unmarshal(resp.Body, result); err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", resourceType, err)
	}

	bind(result, r)

	return result, nil
}

// deleteResource removes a tenant resource.
func deleteResource(ctx context.Context, r *registry, resourceType aep.ResourceType, ref string) error {
	parsed, err := aep.ParseRefAs(ref, resourceType)
	if err != nil {
		return err
	}

	if parsed.Container == aep.ContainerGlobal {
		return aep.ErrGlobalReadOnly
	}

	if _, err := r.httpClient.Delete(ctx, resourcePath(parsed)); err != nil {
		return fmt.Errorf("deleting %s: %w", parsed.ID, err)
	}

	return nil
}
