package lifepath

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Routes holds the mounted path of every component route.
type Routes struct {
	Page     string `json:"page"`
	API      string `json:"api"`
	Download string `json:"download"`
	Schema   string `json:"schema"`
}

// MountPaths returns the full paths of the component routes under basePath.
func MountPaths(basePath string, fns ...OptionFn) Routes {
	opts := NewOptions(fns...)
	return mountRoutes(basePath, opts)
}

// RegisterRoutes registers the component handlers under basePath on mux.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (Routes, error) {
	opts := NewOptions(fns...)
	return RegisterRoutesWithOptions(mux, basePath, opts)
}

// RegisterRoutesWithOptions registers handlers under basePath using a pre-built
// Options value. Callers are expected to pass an Options value produced by
// NewOptions (or equivalent) so defaults apply.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) (Routes, error) {
	if mux == nil {
		return Routes{}, fmt.Errorf("lifepath component: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	routes := mountRoutes(basePath, opts)

	rt := newRuntime(opts, routes)
	mux.Handle(pagePattern(routes.Page), rt.pageHandler())
	if bare := strings.TrimSuffix(routes.Page, "/"); bare != "" && bare != routes.Page {
		mux.Handle(bare, redirectHandler(routes.Page))
	}
	mux.Handle(routes.API, rt.apiHandler())
	mux.Handle(routes.Download, rt.downloadHandler())
	mux.Handle(routes.Schema, rt.schemaHandler())
	return routes, nil
}

func mountRoutes(basePath string, opts Options) Routes {
	return Routes{
		Page:     mountPath(basePath, opts.PagePath),
		API:      mountPath(basePath, opts.APIPath),
		Download: mountPath(basePath, opts.DownloadPath),
		Schema:   mountPath(basePath, opts.SchemaPath),
	}
}

// pagePattern keeps a trailing slash page route from matching every subpath.
func pagePattern(path string) string {
	if strings.HasSuffix(path, "/") {
		return path + "{$}"
	}
	return path
}

// redirectHandler sends the page route without its trailing slash to the
// mounted page, keeping the query.
func redirectHandler(target string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		location := target
		if r.URL.RawQuery != "" {
			location += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, location, http.StatusMovedPermanently)
	})
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}
