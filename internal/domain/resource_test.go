package domain

import (
	"errors"
	"testing"
)

func TestParseKindWhitelist(t *testing.T) {
	valid := []string{"skills", "projects", "internships", "certifications", "achievements"}
	for _, s := range valid {
		kind, err := ParseKind(s)
		if err != nil {
			t.Errorf("ParseKind(%q) failed: %v", s, err)
		}
		if kind.String() != s {
			t.Errorf("ParseKind(%q).String() = %q", s, kind.String())
		}
		if kind.Table() != s {
			t.Errorf("ParseKind(%q).Table() = %q", s, kind.Table())
		}
	}

	invalid := []string{"", "users", "accounts", "messages", "skills; DROP TABLE accounts", "Skills", "pg_catalog"}
	for _, s := range invalid {
		if _, err := ParseKind(s); !errors.Is(err, ErrInvalidResource) {
			t.Errorf("ParseKind(%q) = %v, want ErrInvalidResource", s, err)
		}
	}
}

func TestSanitizeFieldsStripsUnknownAndIdentity(t *testing.T) {
	in := Fields{
		"title":       "Go",
		"is_visible":  true,
		"id":          999,
		"user_id":     42,
		"account_id":  42,
		"created_at":  "2024-01-01",
		"evil_column": "x'; --",
	}
	out := SanitizeFields(KindSkills, in)

	if out["title"] != "Go" {
		t.Errorf("title = %v", out["title"])
	}
	if out["is_visible"] != true {
		t.Errorf("is_visible = %v", out["is_visible"])
	}
	for _, key := range []string{"id", "user_id", "account_id", "created_at", "evil_column"} {
		if _, present := out[key]; present {
			t.Errorf("key %q survived sanitization", key)
		}
	}
}

func TestSanitizeFieldsCoercesFormStrings(t *testing.T) {
	// Dashboard forms send every value as a string.
	in := Fields{
		"title":         "My Project",
		"is_visible":    "true",
		"display_order": "3",
	}
	out := SanitizeFields(KindProjects, in)

	if out["is_visible"] != true {
		t.Errorf("is_visible = %v (%T)", out["is_visible"], out["is_visible"])
	}
	if out["display_order"] != 3 {
		t.Errorf("display_order = %v (%T)", out["display_order"], out["display_order"])
	}
}

func TestSanitizeFieldsDropsUncoercible(t *testing.T) {
	in := Fields{
		"title":         "ok",
		"display_order": "not-a-number",
		"is_visible":    []string{"true"},
	}
	out := SanitizeFields(KindSkills, in)

	if _, present := out["display_order"]; present {
		t.Error("uncoercible display_order survived")
	}
	if _, present := out["is_visible"]; present {
		t.Error("uncoercible is_visible survived")
	}
	if out["title"] != "ok" {
		t.Errorf("title = %v", out["title"])
	}
}

func TestKindSchemasShareCommonFields(t *testing.T) {
	for _, kind := range Kinds() {
		schema := kind.Schema()
		if len(schema) == 0 {
			t.Fatalf("kind %s has empty schema", kind)
		}
		names := make(map[string]bool, len(schema))
		for _, f := range schema {
			if names[f.Name] {
				t.Errorf("kind %s declares field %q twice", kind, f.Name)
			}
			names[f.Name] = true
		}
		for _, want := range []string{"title", "display_order", "is_visible"} {
			if !names[want] {
				t.Errorf("kind %s missing common field %q", kind, want)
			}
		}
	}
}

func TestItemMapCollapsesLinkPairs(t *testing.T) {
	it := &Item{
		ID:        7,
		AccountID: 1,
		Title:     "Site",
		Visible:   true,
		SourceCode: Link{
			URL:     "https://github.com/x/y",
			Visible: true,
		},
		LiveDemo: Link{URL: "https://y.dev", Visible: false},
	}

	out := it.Map(KindProjects)

	sc, ok := out["source_code"].(Link)
	if !ok {
		t.Fatalf("source_code is %T, want Link", out["source_code"])
	}
	if sc.URL != "https://github.com/x/y" || !sc.Visible {
		t.Errorf("source_code = %+v", sc)
	}

	ld, ok := out["live_demo"].(Link)
	if !ok {
		t.Fatalf("live_demo is %T, want Link", out["live_demo"])
	}
	if ld.Visible {
		t.Error("live_demo should stay hidden")
	}

	for _, flat := range []string{"source_code_link", "source_code_visible", "live_demo_link", "live_demo_visible"} {
		if _, present := out[flat]; present {
			t.Errorf("flat column %q leaked into wire form", flat)
		}
	}

	if out["id"] != int64(7) {
		t.Errorf("id = %v", out["id"])
	}
}

func TestItemMapSkillsHasNoLinks(t *testing.T) {
	it := &Item{ID: 1, Title: "Go", Technologies: "golang", IconClass: "fa-go"}
	out := it.Map(KindSkills)

	if _, present := out["source_code"]; present {
		t.Error("skills should not carry link objects")
	}
	if out["technologies"] != "golang" {
		t.Errorf("technologies = %v", out["technologies"])
	}
	if out["icon_class"] != "fa-go" {
		t.Errorf("icon_class = %v", out["icon_class"])
	}
}
