package prediction

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultCatalog_CoversEveryLifePath(t *testing.T) {
	catalog, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	if err := catalog.Validate(ModeDistinct); err != nil {
		t.Fatalf("distinct validation: %v", err)
	}
	if err := catalog.Validate(ModeClassic); err != nil {
		t.Fatalf("classic validation: %v", err)
	}

	seen := map[string]int{}
	for n, text := range catalog.Paths {
		if prev, ok := seen[text]; ok {
			t.Fatalf("life paths %d and %d share the same template", prev, n)
		}
		seen[text] = n
	}
}

func TestDefaultCatalog_ReturnsCopy(t *testing.T) {
	first, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	first.Paths[1] = "mutated"

	second, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	if second.Paths[1] == "mutated" {
		t.Fatalf("expected DefaultCatalog to return an independent copy")
	}
}

func TestProvider_DistinctTextsPerNumber(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if p.Mode() != ModeDistinct {
		t.Fatalf("expected distinct mode by default, got %q", p.Mode())
	}

	texts := map[string]int{}
	for n := 1; n <= 9; n++ {
		text, err := p.Describe(n)
		if err != nil {
			t.Fatalf("describe %d: %v", n, err)
		}
		if !strings.HasPrefix(text, "With life path number "+string(rune('0'+n))+",") {
			t.Fatalf("expected number interpolated at the start, got %q", text[:40])
		}
		if strings.Contains(text, "{{") {
			t.Fatalf("template not rendered: %q", text)
		}
		if prev, ok := texts[text]; ok {
			t.Fatalf("life paths %d and %d produced identical text", prev, n)
		}
		texts[text] = n
	}
}

func TestProvider_ClassicModeDiffersOnlyByNumber(t *testing.T) {
	p, err := New(WithMode(ModeClassic))
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	four, err := p.Describe(4)
	if err != nil {
		t.Fatalf("describe 4: %v", err)
	}
	if !strings.HasPrefix(four, "Based on your life path number 4, this prediction reveals") {
		t.Fatalf("unexpected classic opening: %q", four[:60])
	}
	if !strings.HasSuffix(four, "create a more meaningful and joyful life.") {
		t.Fatalf("unexpected classic ending: %q", four[len(four)-60:])
	}
	if words := len(strings.Fields(four)); words < 150 {
		t.Fatalf("expected a long-form paragraph, got %d words", words)
	}

	eight, err := p.Describe(8)
	if err != nil {
		t.Fatalf("describe 8: %v", err)
	}
	if strings.Replace(eight, "number 8,", "number 4,", 1) != four {
		t.Fatalf("classic texts should only differ by the interpolated number")
	}
}

func TestProvider_DescribeOutOfRange(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	for _, n := range []int{0, -1, 10} {
		if _, err := p.Describe(n); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("describe %d: expected ErrOutOfRange, got %v", n, err)
		}
	}
}

func TestProvider_CustomCatalog(t *testing.T) {
	catalog, err := LoadCatalog(strings.NewReader(`
classic: "Number {{ life_path }} only."
`))
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	if _, err := New(WithCatalog(catalog)); err == nil {
		t.Fatalf("expected distinct mode to reject a catalog without paths")
	}

	p, err := New(WithCatalog(catalog), WithMode(ModeClassic))
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	got, err := p.Describe(7)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if got != "Number 7 only." {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestLoadCatalog_RejectsUnknownFields(t *testing.T) {
	if _, err := LoadCatalog(strings.NewReader("clasic: typo\n")); err == nil {
		t.Fatalf("expected unknown field error")
	}
	if _, err := LoadCatalog(strings.NewReader("")); err == nil {
		t.Fatalf("expected empty catalog error")
	}
}

func TestCatalogValidate_RejectsOutOfRangeKeys(t *testing.T) {
	catalog := Catalog{Paths: map[int]string{}}
	for n := 1; n <= 9; n++ {
		catalog.Paths[n] = "text"
	}
	catalog.Paths[11] = "master number"
	if err := catalog.Validate(ModeDistinct); err == nil {
		t.Fatalf("expected validation error for key 11")
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{"": ModeDistinct, "distinct": ModeDistinct, " Classic ": ModeClassic}
	for raw, want := range cases {
		got, err := ParseMode(raw)
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseMode(%q): want %q, got %q", raw, want, got)
		}
	}
	if _, err := ParseMode("random"); !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
}
