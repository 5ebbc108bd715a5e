package lifepath

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-lifepath/pkg/render/template/gotemplate"
)

func TestPage_RendersPrediction(t *testing.T) {
	rec := get(t, newTestHandler(), "/?dob="+url.QueryEscape("31/12/1999")+"&name=Grace")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"<title>Live DOB Prediction</title>",
		`<label for="lp-name">Your name (optional)</label>`,
		`<label for="lp-dob">Date of birth</label>`,
		`type="date"`,
		`<strong id="lp-number">8</strong>`,
		`<span id="lp-greeting">Grace,</span>`,
		"Life path 8 narrative.",
		"2025-03-14 09:26:53 UTC",
		`href="/download?dob=31%2F12%2F1999"`,
		"--brand: #4f46e5;",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected page to contain %q", want)
		}
	}
	if strings.Contains(body, `<div id="lp-result" hidden>`) {
		t.Fatalf("expected result panel to be visible")
	}
}

func TestPage_NotReady(t *testing.T) {
	body := get(t, newTestHandler(), "/?dob=2024").Body.String()

	if !strings.Contains(body, "Pick a valid date to see your prediction.") {
		t.Fatalf("expected not-ready placeholder")
	}
	if !strings.Contains(body, `<div id="lp-result" hidden>`) {
		t.Fatalf("expected result panel hidden")
	}
	if !strings.Contains(body, `aria-disabled="true"`) {
		t.Fatalf("expected download link disabled")
	}
}

func TestPage_EscapesAndSanitizesName(t *testing.T) {
	target := "/?dob=2024-02-29&name=" + url.QueryEscape("<b>Ada</b> & co")
	body := get(t, newTestHandler(), target).Body.String()

	if strings.Contains(body, "<b>Ada") {
		t.Fatalf("expected markup removed from name")
	}
	if !strings.Contains(body, "Ada &amp; co,") {
		t.Fatalf("expected escaped greeting in page")
	}
}

func TestPage_ScriptSeedsLastDateFromField(t *testing.T) {
	body := get(t, newTestHandler(), "/").Body.String()

	if !strings.Contains(body, "var lastDob = field(dobParam).value;") {
		t.Fatalf("expected last date to start from the rendered field value")
	}
	if strings.Contains(body, "var lastDob = null;") {
		t.Fatalf("expected no null seed for the last date")
	}
}

func TestPage_UnknownSubpathIs404(t *testing.T) {
	if rec := get(t, newTestHandler(), "/elsewhere"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestPage_ThemeVariant(t *testing.T) {
	body := get(t, newTestHandler(WithThemeVariant("dark")), "/").Body.String()
	if !strings.Contains(body, "--background: #0f172a;") {
		t.Fatalf("expected dark variant tokens")
	}
	if !strings.Contains(body, "--brand: #4f46e5;") {
		t.Fatalf("expected base tokens to remain")
	}
	if !strings.Contains(body, `data-variant="dark"`) {
		t.Fatalf("expected variant attribute")
	}
}

func TestPage_ThemeSelector(t *testing.T) {
	selector := &stubThemeSelector{selection: &theme.Selection{
		Theme:   "acme",
		Variant: "bold",
		Manifest: &theme.Manifest{
			Name:   "acme",
			Tokens: map[string]string{"brand": "#123456", "surface_tone": "#fafafa"},
			Variants: map[string]theme.Variant{
				"bold": {Tokens: map[string]string{"brand": "#654321"}},
			},
		},
	}}

	body := get(t, newTestHandler(WithThemeSelector(selector, "acme", "bold")), "/").Body.String()

	if len(selector.calls) != 1 || selector.calls[0] != (selectorCall{name: "acme", variant: "bold"}) {
		t.Fatalf("unexpected selector calls %+v", selector.calls)
	}
	if !strings.Contains(body, "--brand: #654321;") {
		t.Fatalf("expected variant override of brand token")
	}
	if !strings.Contains(body, "--surface_tone: #fafafa;") {
		t.Fatalf("expected token names prefixed as css custom properties")
	}
}

func TestPage_ThemeSelectorFailureFallsBack(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	selector := &stubThemeSelector{err: errors.New("registry offline")}

	rec := get(t, newTestHandler(
		WithThemeSelector(selector, "acme", ""),
		WithLogger(zap.New(core)),
	), "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "--brand: #4f46e5;") {
		t.Fatalf("expected built-in theme tokens")
	}
	if logs.FilterMessage("theme selection failed, using built-in theme").Len() != 1 {
		t.Fatalf("expected a warning about the theme fallback, got %v", logs.All())
	}
}

func TestPage_ThemeManifestFromFile(t *testing.T) {
	fsys := fstest.MapFS{
		"ocean.yaml": {Data: []byte("name: ocean\nversion: 1.0.0\ntokens:\n  brand: \"#0ea5e9\"\n")},
	}
	manifest, err := theme.LoadFile(fsys, "ocean.yaml")
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}

	body := get(t, newTestHandler(WithThemeManifests(manifest), WithTheme("ocean", "")), "/").Body.String()

	if !strings.Contains(body, `data-theme="ocean"`) {
		t.Fatalf("expected ocean theme attribute")
	}
	if !strings.Contains(body, "--brand: #0ea5e9;") {
		t.Fatalf("expected ocean brand token")
	}
}

func TestPage_InvalidThemeManifestFallsBack(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	rec := get(t, newTestHandler(
		WithThemeManifests(&theme.Manifest{Name: "broken"}),
		WithTheme("broken", ""),
		WithLogger(zap.New(core)),
	), "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `data-theme="lifepath"`) {
		t.Fatalf("expected built-in theme")
	}
	if logs.FilterMessage("theme manifests rejected, using built-in theme").Len() != 1 {
		t.Fatalf("expected a warning about the rejected manifest, got %v", logs.All())
	}
}

func TestPage_SuppliedTemplatesReceiveGlobals(t *testing.T) {
	engine, err := gotemplate.New(gotemplate.WithFS(fstest.MapFS{
		"templates/page.tmpl": {Data: []byte("{{ routes.api }}|{{ params.dob }}|{{ messages.not_ready }}|{{ form.title }}")},
	}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	rec := get(t, newTestHandler(WithTemplates(engine), WithParams("who", "born")), "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	want := "/api/lifepath|born|Pick a valid date to see your prediction.|Live DOB Prediction"
	if got := rec.Body.String(); got != want {
		t.Fatalf("unexpected page:\n got %q\nwant %q", got, want)
	}
}

type selectorCall struct {
	name    string
	variant string
}

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     []selectorCall
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, selectorCall{name: name, variant: variant})
	return s.selection, s.err
}
