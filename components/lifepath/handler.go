package lifepath

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-lifepath/pkg/export"
	"github.com/goliatone/go-lifepath/pkg/formschema"
	"github.com/goliatone/go-lifepath/pkg/prediction"
	rendertemplate "github.com/goliatone/go-lifepath/pkg/render/template"
	"github.com/goliatone/go-lifepath/pkg/render/template/gotemplate"
	"github.com/goliatone/go-lifepath/pkg/widget"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const pageTemplate = "templates/page"

// TemplatesFS exposes the embedded page templates. Engines built from it
// render the page as "templates/page".
func TemplatesFS() fs.FS {
	return templatesFS
}

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type viewResponse struct {
	Data widget.View `json:"data"`
}

// Handler builds a standalone handler with default options plus any overrides.
// It is an alias of NewHandler to match the recommended component API surface.
func Handler(fns ...OptionFn) http.Handler {
	return NewHandler(fns...)
}

func NewHandler(fns ...OptionFn) http.Handler {
	opts := NewOptions(fns...)
	return HandlerWithOptions(opts)
}

// HandlerWithOptions mounts every route at the root of a private mux.
func HandlerWithOptions(opts Options) http.Handler {
	mux := http.NewServeMux()
	// A non-nil mux never fails registration.
	_, _ = RegisterRoutesWithOptions(mux, "", opts)
	return mux
}

// runtime shares lazily resolved dependencies between the four routes.
type runtime struct {
	opts   Options
	routes Routes
	log    *zap.Logger

	once sync.Once
	deps *deps
	err  error
}

type deps struct {
	describe  widget.Describer
	form      formschema.Form
	templates rendertemplate.TemplateRenderer
	theme     themeContext
	nameMax   int
}

func newRuntime(opts Options, routes Routes) *runtime {
	return &runtime{opts: opts, routes: routes, log: opts.Logger}
}

func (rt *runtime) resolve(ctx context.Context) (*deps, error) {
	rt.once.Do(func() {
		rt.deps, rt.err = rt.build(ctx)
		if rt.err != nil {
			rt.log.Error("lifepath component setup failed", zap.Error(rt.err))
		}
	})
	return rt.deps, rt.err
}

func (rt *runtime) build(ctx context.Context) (*deps, error) {
	d := &deps{describe: rt.opts.Describer, templates: rt.opts.Templates}

	if d.describe == nil {
		p, err := prediction.New()
		if err != nil {
			return nil, err
		}
		d.describe = p
	}

	form, err := formschema.Default(context.WithoutCancel(ctx))
	if err != nil {
		return nil, err
	}
	d.form = form
	if field, ok := form.Field("name"); ok {
		d.nameMax = field.MaxLength
	}

	globals := rt.templateGlobals()
	if d.templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(templatesFS),
			gotemplate.WithGlobalData(globals),
		)
		if err != nil {
			return nil, fmt.Errorf("lifepath component: configure templates: %w", err)
		}
		d.templates = engine
	} else if err := d.templates.GlobalContext(globals); err != nil {
		return nil, fmt.Errorf("lifepath component: seed template globals: %w", err)
	}

	selector := rt.opts.ThemeSelector
	if selector == nil {
		selector, err = newThemeSelector(rt.opts.ThemeManifests...)
		if err != nil {
			rt.log.Warn("theme manifests rejected, using built-in theme", zap.Error(err))
		}
	}
	d.theme, err = resolveTheme(selector, rt.opts.ThemeName, rt.opts.ThemeVariant)
	if err != nil {
		rt.log.Warn("theme selection failed, using built-in theme",
			zap.String("theme", rt.opts.ThemeName),
			zap.String("variant", rt.opts.ThemeVariant),
			zap.Error(err),
		)
		d.theme, err = resolveTheme(nil, "", "")
		if err != nil {
			return nil, err
		}
	}
	return d, nil
}

// begin runs the checks shared by every route and reports whether the request
// should proceed.
func (rt *runtime) begin(w http.ResponseWriter, r *http.Request) (*deps, bool) {
	if r == nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return nil, false
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return nil, false
	}

	if rt.opts.Guard != nil {
		if err := rt.opts.Guard(r); err != nil {
			rt.log.Debug("request rejected by guard", zap.String("path", r.URL.Path), zap.Error(err))
			writeGuardError(w, err)
			return nil, false
		}
	}

	d, err := rt.resolve(r.Context())
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return nil, false
	}
	return d, true
}

func (rt *runtime) compute(d *deps, r *http.Request) (widget.State, widget.View, error) {
	q := r.URL.Query()
	state := widget.State{
		Name: cleanName(q.Get(rt.opts.NameParam), d.nameMax),
		DOB:  q.Get(rt.opts.DOBParam),
	}
	view, err := widget.Compute(state, d.describe, rt.opts.Clock)
	return state, view, err
}

func (rt *runtime) apiHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d, ok := rt.begin(w, r)
		if !ok {
			return
		}
		_, view, err := rt.compute(d, r)
		if err != nil {
			rt.log.Error("compute view", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}

		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(true)
		if err := enc.Encode(viewResponse{Data: view}); err != nil {
			rt.log.Warn("write view response", zap.Error(err))
		}
	})
}

func (rt *runtime) downloadHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d, ok := rt.begin(w, r)
		if !ok {
			return
		}
		_, view, err := rt.compute(d, r)
		if err != nil {
			rt.log.Error("compute view", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if !view.Ready {
			http.Error(w, "no prediction for this date", http.StatusUnprocessableEntity)
			return
		}
		if err := export.WriteAttachment(w, view.Message); err != nil {
			rt.log.Warn("write prediction download", zap.Error(err))
			return
		}
		rt.log.Debug("prediction downloaded", zap.Int("life_path", view.LifePath))
	})
}

func (rt *runtime) schemaHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := rt.begin(w, r); !ok {
			return
		}
		raw, err := formschema.Document()
		if err != nil {
			rt.log.Error("read form schema", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		if _, err := w.Write(raw); err != nil {
			rt.log.Warn("write form schema", zap.Error(err))
		}
	})
}

func (rt *runtime) pageHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d, ok := rt.begin(w, r)
		if !ok {
			return
		}
		state, view, err := rt.compute(d, r)
		if err != nil {
			rt.log.Error("compute view", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		html, err := d.templates.RenderTemplate(pageTemplate, rt.pageData(d, state, view))
		if err != nil {
			rt.log.Error("render page", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		if _, err := w.Write([]byte(html)); err != nil {
			rt.log.Warn("write page", zap.Error(err))
		}
	})
}

func (rt *runtime) pageData(d *deps, state widget.State, view widget.View) map[string]any {
	values := map[string]string{
		"name": state.Name,
		"dob":  state.DOB,
	}
	fields := make([]map[string]any, 0, len(d.form.Fields))
	for _, field := range d.form.Fields {
		fields = append(fields, map[string]any{
			"name":        field.Name,
			"label":       field.Label,
			"input":       field.Input,
			"placeholder": field.Placeholder,
			"description": field.Description,
			"required":    field.Required,
			"max_length":  field.MaxLength,
			"value":       values[field.Name],
		})
	}

	generatedAt := ""
	downloadURL := ""
	if view.Ready {
		generatedAt = view.GeneratedAt.Format("2006-01-02 15:04:05 MST")
		downloadURL = rt.routes.Download + "?" + url.Values{rt.opts.DOBParam: {state.DOB}}.Encode()
	}

	return map[string]any{
		"form": map[string]any{
			"title":       d.form.Title,
			"description": d.form.Description,
			"fields":      fields,
		},
		"view": map[string]any{
			"ready":     view.Ready,
			"life_path": view.LifePath,
			"message":   view.Message,
			"greeting":  view.Greeting,
			"copy_text": view.CopyText,
		},
		"generated_at": generatedAt,
		"download_url": downloadURL,
		"theme": map[string]any{
			"name":    d.theme.Name,
			"variant": d.theme.Variant,
			"style":   d.theme.Style,
		},
	}
}

// templateGlobals holds the values that never change between requests.
// Supplied engines receive them through GlobalContext.
func (rt *runtime) templateGlobals() map[string]any {
	return map[string]any{
		"routes": map[string]any{
			"page":     rt.routes.Page,
			"api":      rt.routes.API,
			"download": rt.routes.Download,
		},
		"params": map[string]any{
			"name": rt.opts.NameParam,
			"dob":  rt.opts.DOBParam,
		},
		"messages": map[string]any{
			"not_ready":   widget.NotReadyMessage,
			"copied":      export.CopiedMessage,
			"copy_failed": export.CopyFailedMessage,
		},
	}
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}
