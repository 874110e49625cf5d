package apiclient

import (
	"net/url"
	"strings"
)

// Endpoints lists the backend path for each CRUD verb of one resource.
// "{id}" is replaced with the path-escaped record id.
type Endpoints struct {
	List   string
	Get    string
	Add    string
	Update string
	Delete string
}

// RESTEndpoints is the plain convention: GET/POST base, GET/PUT/DELETE base/{id}.
func RESTEndpoints(base string) Endpoints {
	base = strings.TrimRight(base, "/")
	return Endpoints{
		List:   base,
		Get:    base + "/{id}",
		Add:    base,
		Update: base + "/{id}",
		Delete: base + "/{id}",
	}
}

// ActionEndpoints is the verb-suffixed convention some backend modules use:
// base/list, base/add, base/update/{id}, base/delete/{id}.
func ActionEndpoints(base string) Endpoints {
	base = strings.TrimRight(base, "/")
	return Endpoints{
		List:   base + "/list",
		Get:    base + "/{id}",
		Add:    base + "/add",
		Update: base + "/update/{id}",
		Delete: base + "/delete/{id}",
	}
}

// WithID substitutes the id placeholder.
func WithID(path, id string) string {
	return strings.ReplaceAll(path, "{id}", url.PathEscape(id))
}

// JoinURL joins a base URL and a path with exactly one slash between them.
// Absolute http(s) paths are returned unchanged.
func JoinURL(base, path string) string {
	if isAbsolute(path) {
		return path
	}
	if path == "" {
		return base
	}
	if base == "" {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

func isAbsolute(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
