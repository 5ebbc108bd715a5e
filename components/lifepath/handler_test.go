package lifepath

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-lifepath/pkg/testsupport"
	"github.com/goliatone/go-lifepath/pkg/widget"
)

type handlerResponse struct {
	Data widget.View `json:"data"`
}

func stubDescriber() widget.Describer {
	return widget.DescriberFunc(func(lp int) (string, error) {
		return fmt.Sprintf("Life path %d narrative.", lp), nil
	})
}

func newTestHandler(fns ...OptionFn) http.Handler {
	base := []OptionFn{
		WithDescriber(stubDescriber()),
		WithClock(testsupport.FixedClock(testsupport.ReferenceTime)),
	}
	return NewHandler(append(base, fns...)...)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) widget.View {
	t.Helper()
	var payload handlerResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return payload.Data
}

func TestAPI_ReadyView(t *testing.T) {
	rec := get(t, newTestHandler(), "/api/lifepath?dob=2024-02-29&name=Ada")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}

	want := widget.View{
		Ready:       true,
		Name:        "Ada",
		LifePath:    3,
		Message:     "Life path 3 narrative.",
		Greeting:    "Ada,",
		CopyText:    "Ada, your prediction: Life path 3 narrative.",
		GeneratedAt: testsupport.ReferenceTime,
	}
	if diff := testsupport.CompareGolden(want, decodeView(t, rec)); diff != "" {
		t.Fatalf("view mismatch (-want +got):\n%s", diff)
	}
}

func TestAPI_WireFormatGolden(t *testing.T) {
	cases := []struct {
		name   string
		target string
		golden string
	}{
		{name: "ready", target: "/api/lifepath?dob=2024-02-29&name=Ada", golden: "api_ready.golden"},
		{name: "not ready", target: "/api/lifepath?dob=2024&name=Ada", golden: "api_not_ready.golden"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(t, newTestHandler(), tc.target)
			path := filepath.Join("testdata", tc.golden)
			if testsupport.WriteMaybeGolden(t, path, rec.Body.Bytes()) {
				return
			}
			want := testsupport.MustReadGoldenString(t, path)
			if diff := testsupport.CompareGolden(want, rec.Body.String()); diff != "" {
				t.Fatalf("wire format mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAPI_InvalidDateIsNotReady(t *testing.T) {
	for _, dob := range []string{"", "2024-02", "0000-00-00", "2024-02-29-1"} {
		rec := get(t, newTestHandler(), "/api/lifepath?dob="+url.QueryEscape(dob))
		if rec.Code != http.StatusOK {
			t.Fatalf("dob %q: expected status 200, got %d", dob, rec.Code)
		}
		view := decodeView(t, rec)
		if view.Ready || view.Message != "" || view.LifePath != 0 {
			t.Fatalf("dob %q: expected not-ready view, got %+v", dob, view)
		}
	}
}

func TestAPI_NameDoesNotChangePrediction(t *testing.T) {
	h := newTestHandler()
	first := decodeView(t, get(t, h, "/api/lifepath?dob=31/12/1999&name=Ada"))
	second := decodeView(t, get(t, h, "/api/lifepath?dob=31/12/1999&name=Grace"))

	if first.LifePath != 8 || second.LifePath != 8 {
		t.Fatalf("expected life path 8, got %d and %d", first.LifePath, second.LifePath)
	}
	if first.Message != second.Message {
		t.Fatalf("expected identical prediction text, got %q and %q", first.Message, second.Message)
	}
	if second.CopyText != "Grace, your prediction: Life path 8 narrative." {
		t.Fatalf("unexpected copy text %q", second.CopyText)
	}
}

func TestAPI_SanitizesName(t *testing.T) {
	target := "/api/lifepath?dob=2024-02-29&name=" + url.QueryEscape("<script>alert(1)</script><b>Ada</b>  Lovelace")
	view := decodeView(t, get(t, newTestHandler(), target))
	if view.Name != "Ada Lovelace" {
		t.Fatalf("expected markup stripped from name, got %q", view.Name)
	}

	long := strings.Repeat("x", 200)
	view = decodeView(t, get(t, newTestHandler(), "/api/lifepath?dob=2024-02-29&name="+long))
	if len(view.Name) != 80 {
		t.Fatalf("expected name clamped to 80 runes, got %d", len(view.Name))
	}
}

func TestAPI_CustomParams(t *testing.T) {
	h := newTestHandler(WithParams("who", "born"))
	view := decodeView(t, get(t, h, "/api/lifepath?born=01/01/2000&who=Ada"))
	if !view.Ready || view.LifePath != 4 || view.Name != "Ada" {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := newTestHandler()
	for _, target := range []string{"/", "/api/lifepath", "/download", "/schema"} {
		req := httptest.NewRequest(http.MethodPost, target+"?dob=2024-02-29", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s: expected status 405, got %d", target, rec.Code)
		}
		if allow := rec.Header().Get("Allow"); allow != "GET, HEAD" {
			t.Fatalf("%s: unexpected Allow header %q", target, allow)
		}
	}
}

func TestHandler_HeadOmitsBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodHead, "/api/lifepath?dob=2024-02-29", nil)
	rec := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body for HEAD, got %q", rec.Body.String())
	}
}

func TestHandler_GuardRejects(t *testing.T) {
	h := newTestHandler(WithGuard(func(r *http.Request) error {
		return StatusError{Code: http.StatusUnauthorized}
	}))

	rec := get(t, h, "/api/lifepath?dob=2024-02-29")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	h = newTestHandler(WithGuard(func(r *http.Request) error {
		return errors.New("nope")
	}))
	rec = get(t, h, "/download?dob=2024-02-29")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestHandler_DescriberErrorIs500(t *testing.T) {
	h := NewHandler(WithDescriber(widget.DescriberFunc(func(int) (string, error) {
		return "", errors.New("catalog broken")
	})))
	if rec := get(t, h, "/api/lifepath?dob=2024-02-29"); rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}

func TestDownload_ServesPredictionFile(t *testing.T) {
	rec := get(t, newTestHandler(), "/download?dob=2024-02-29&name=Ada")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="prediction.txt"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
		t.Fatalf("unexpected content type %q", got)
	}
	if body := rec.Body.String(); body != "Life path 3 narrative." {
		t.Fatalf("expected only the prediction text, got %q", body)
	}
}

func TestDownload_RejectsInvalidDate(t *testing.T) {
	rec := get(t, newTestHandler(), "/download?dob=0000-00-00")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
}

func TestSchema_ServesOpenAPIDocument(t *testing.T) {
	rec := get(t, newTestHandler(), "/schema")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "operationId: getPrediction") {
		t.Fatalf("expected embedded OpenAPI document, got %q", rec.Body.String())
	}
}

func TestDefaultDescriber_UsesPredictionCatalog(t *testing.T) {
	h := NewHandler(WithClock(testsupport.FixedClock(testsupport.ReferenceTime)))
	view := decodeView(t, get(t, h, "/api/lifepath?dob=2024-02-29"))
	if !strings.HasPrefix(view.Message, "With life path number 3,") {
		t.Fatalf("expected catalog text, got %q", view.Message)
	}
}
