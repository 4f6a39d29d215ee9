package service

import (
	"context"
	"errors"
	"testing"

	"github.com/harishas/autofolio/internal/domain"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(_ context.Context, _ []byte) (string, error) {
	return f.text, f.err
}

type fakeParser struct {
	result *domain.ParsedResume
	err    error
	calls  int
}

func (f *fakeParser) Parse(_ context.Context, _ string) (*domain.ParsedResume, error) {
	f.calls++
	return f.result, f.err
}

func newResumeFixture(parser ResumeParser) (*ResumeService, *memAccountRepo) {
	accounts := newMemAccountRepo()
	portfolio := NewPortfolioService(newMemResourceRepo(), accounts, nil)
	svc := NewResumeService(&fakeExtractor{text: "resume text"}, parser, portfolio, nil)
	return svc, accounts
}

func TestResumeImportSavesAllEntries(t *testing.T) {
	parser := &fakeParser{result: &domain.ParsedResume{
		Skills: []domain.Fields{
			{"title": "Go", "technologies": "golang"},
			{"title": "SQL"},
		},
		Projects: []domain.Fields{
			{"title": "Site", "description": "portfolio", "link": "https://github.com/x/y"},
		},
	}}
	svc, accounts := newResumeFixture(parser)
	owner := mustAccount(t, accounts, "a@x.dev", "a")

	parsed, imported, err := svc.Import(context.Background(), owner, []byte("%PDF"))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if imported != 3 {
		t.Errorf("imported = %d, want 3", imported)
	}
	if parsed.Total() != 3 {
		t.Errorf("parsed total = %d", parsed.Total())
	}

	items, err := svc.portfolio.List(context.Background(), owner, "projects")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("have %d projects", len(items))
	}
	if items[0].SourceCode.URL != "https://github.com/x/y" {
		t.Errorf("bare link must land in the source code slot, got %q", items[0].SourceCode.URL)
	}
}

func TestResumeParseWithoutParserConfigured(t *testing.T) {
	svc, _ := newResumeFixture(nil)

	if _, err := svc.Parse(context.Background(), []byte("%PDF")); err == nil {
		t.Fatal("expected error with no parser configured")
	}
}

func TestResumeParserFailuresTripBreaker(t *testing.T) {
	parser := &fakeParser{err: errors.New("model unavailable")}
	svc, _ := newResumeFixture(parser)

	for i := 0; i < 5; i++ {
		if _, err := svc.Parse(context.Background(), []byte("%PDF")); err == nil {
			t.Fatal("expected parse failure")
		}
	}
	if parser.calls != 5 {
		t.Fatalf("parser called %d times before trip", parser.calls)
	}

	// Circuit open: the oracle must not be consulted again.
	if _, err := svc.Parse(context.Background(), []byte("%PDF")); err == nil {
		t.Fatal("expected fast failure with open circuit")
	}
	if parser.calls != 5 {
		t.Errorf("parser called %d times, open circuit must fast-fail", parser.calls)
	}
}
