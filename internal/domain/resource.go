package domain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies one of the five portfolio resource kinds. It is a closed
// enum: caller-supplied strings are parsed up front and every table lookup
// dispatches on the enum, never on the raw string.
type Kind int

const (
	KindSkills Kind = iota
	KindProjects
	KindInternships
	KindCertifications
	KindAchievements
)

// Kinds returns all resource kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindSkills, KindProjects, KindInternships, KindCertifications, KindAchievements}
}

// ParseKind maps a wire string onto the enum. Anything outside the
// whitelist fails with ErrInvalidResource before any storage is touched.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "skills":
		return KindSkills, nil
	case "projects":
		return KindProjects, nil
	case "internships":
		return KindInternships, nil
	case "certifications":
		return KindCertifications, nil
	case "achievements":
		return KindAchievements, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidResource, s)
	}
}

func (k Kind) String() string {
	switch k {
	case KindSkills:
		return "skills"
	case KindProjects:
		return "projects"
	case KindInternships:
		return "internships"
	case KindCertifications:
		return "certifications"
	case KindAchievements:
		return "achievements"
	default:
		return "unknown"
	}
}

// Table returns the backing table name for the kind. The return values are
// compile-time constants so no caller input ever reaches query text.
func (k Kind) Table() string {
	switch k {
	case KindSkills:
		return "skills"
	case KindProjects:
		return "projects"
	case KindInternships:
		return "internships"
	case KindCertifications:
		return "certifications"
	case KindAchievements:
		return "achievements"
	default:
		panic("domain: table lookup on invalid kind")
	}
}

// FieldType is the storage type of a schema field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldBool
	FieldInt
)

// Field is one mutable column of a resource kind.
type Field struct {
	Name string
	Type FieldType
}

var (
	commonFields = []Field{
		{"title", FieldText},
		{"display_order", FieldInt},
		{"is_visible", FieldBool},
	}

	// The four link/visibility pairs shared by projects, internships and
	// achievements.
	linkFields = []Field{
		{"source_code_link", FieldText},
		{"source_code_visible", FieldBool},
		{"demo_video_link", FieldText},
		{"demo_video_visible", FieldBool},
		{"live_demo_link", FieldText},
		{"live_demo_visible", FieldBool},
		{"certificate_link", FieldText},
		{"certificate_visible", FieldBool},
	}

	schemaByKind = map[Kind][]Field{
		KindSkills: append(append([]Field{}, commonFields...),
			Field{"technologies", FieldText},
			Field{"icon_class", FieldText},
		),
		KindProjects: append(append(append([]Field{}, commonFields...),
			Field{"description", FieldText},
			Field{"technologies", FieldText},
			Field{"project_image_path", FieldText}),
			linkFields...,
		),
		KindInternships: append(append(append([]Field{}, commonFields...),
			Field{"company", FieldText},
			Field{"period", FieldText},
			Field{"technologies", FieldText},
			Field{"description", FieldText}),
			linkFields...,
		),
		KindCertifications: append(append([]Field{}, commonFields...),
			Field{"issuer", FieldText},
			Field{"date_issued", FieldText},
			Field{"description", FieldText},
			Field{"certificate_image_path", FieldText},
			Field{"certificate_visible", FieldBool},
			Field{"verify_link", FieldText},
		),
		KindAchievements: append(append(append([]Field{}, commonFields...),
			Field{"role", FieldText},
			Field{"description", FieldText}),
			linkFields...,
		),
	}
)

// Schema returns the ordered mutable field set for the kind.
func (k Kind) Schema() []Field {
	return schemaByKind[k]
}

func (k Kind) fieldType(name string) (FieldType, bool) {
	for _, f := range schemaByKind[k] {
		if f.Name == name {
			return f.Type, true
		}
	}
	return 0, false
}

// Fields is a dynamic, kind-scoped attribute set as submitted by a caller.
type Fields map[string]any

// SanitizeFields filters a caller payload against the kind's schema.
// Unknown keys are dropped, as are id and owner references regardless of
// the schema; known keys are coerced to their declared type. Values that
// cannot be coerced are dropped rather than half-written.
func SanitizeFields(k Kind, in Fields) Fields {
	out := make(Fields, len(in))
	for name, raw := range in {
		ft, ok := k.fieldType(name)
		if !ok {
			continue
		}
		switch ft {
		case FieldText:
			if v, ok := coerceText(raw); ok {
				out[name] = v
			}
		case FieldBool:
			if v, ok := coerceBool(raw); ok {
				out[name] = v
			}
		case FieldInt:
			if v, ok := coerceInt(raw); ok {
				out[name] = v
			}
		}
	}
	return out
}

// Dashboard forms submit everything as strings, JSON clients submit typed
// values. Both arrive here.
func coerceText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case nil:
		return "", true
	case fmt.Stringer:
		return t.String(), true
	default:
		return "", false
	}
}

func coerceBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes", "on":
			return true, true
		case "false", "0", "no", "off", "":
			return false, true
		}
		return false, false
	default:
		return false, false
	}
}

func coerceInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Link is a URL with its own visibility toggle, shown on the public page
// only when both the link and its item are visible.
type Link struct {
	URL     string `json:"url"`
	Visible bool   `json:"visible"`
}

// Item is the superset record for all five resource kinds. Which fields are
// meaningful is decided by the kind's schema; Map projects the populated
// subset for wire output.
type Item struct {
	ID           int64
	AccountID    int64
	Title        string
	Description  string
	Technologies string
	Company      string
	Period       string
	Role         string
	Issuer       string
	DateIssued   string
	IconClass    string
	DisplayOrder int
	Visible      bool

	SourceCode       Link
	DemoVideo        Link
	LiveDemo         Link
	Certificate      Link
	ProjectImagePath string
	VerifyLink       string
}

// ScanDest returns a pointer to the struct field backing a schema field
// name, for use as a sql.Rows scan target.
func (it *Item) ScanDest(name string) any {
	switch name {
	case "title":
		return &it.Title
	case "description":
		return &it.Description
	case "technologies":
		return &it.Technologies
	case "company":
		return &it.Company
	case "period":
		return &it.Period
	case "role":
		return &it.Role
	case "issuer":
		return &it.Issuer
	case "date_issued":
		return &it.DateIssued
	case "icon_class":
		return &it.IconClass
	case "display_order":
		return &it.DisplayOrder
	case "is_visible":
		return &it.Visible
	case "source_code_link":
		return &it.SourceCode.URL
	case "source_code_visible":
		return &it.SourceCode.Visible
	case "demo_video_link":
		return &it.DemoVideo.URL
	case "demo_video_visible":
		return &it.DemoVideo.Visible
	case "live_demo_link":
		return &it.LiveDemo.URL
	case "live_demo_visible":
		return &it.LiveDemo.Visible
	case "certificate_link", "certificate_image_path":
		return &it.Certificate.URL
	case "certificate_visible":
		return &it.Certificate.Visible
	case "project_image_path":
		return &it.ProjectImagePath
	case "verify_link":
		return &it.VerifyLink
	default:
		panic("domain: scan dest for unknown field " + name)
	}
}

// Map projects the item into its kind-shaped wire form. Link/visibility
// column pairs collapse into a single structured link object.
func (it *Item) Map(k Kind) map[string]any {
	out := map[string]any{
		"id":         it.ID,
		"account_id": it.AccountID,
	}
	seen := map[string]bool{}
	for _, f := range k.Schema() {
		switch f.Name {
		case "source_code_link", "source_code_visible":
			if !seen["source_code"] {
				out["source_code"] = it.SourceCode
				seen["source_code"] = true
			}
		case "demo_video_link", "demo_video_visible":
			if !seen["demo_video"] {
				out["demo_video"] = it.DemoVideo
				seen["demo_video"] = true
			}
		case "live_demo_link", "live_demo_visible":
			if !seen["live_demo"] {
				out["live_demo"] = it.LiveDemo
				seen["live_demo"] = true
			}
		case "certificate_link", "certificate_image_path", "certificate_visible":
			if !seen["certificate"] {
				out["certificate"] = it.Certificate
				seen["certificate"] = true
			}
		default:
			out[f.Name] = it.value(f.Name)
		}
	}
	return out
}

func (it *Item) value(name string) any {
	switch name {
	case "title":
		return it.Title
	case "description":
		return it.Description
	case "technologies":
		return it.Technologies
	case "company":
		return it.Company
	case "period":
		return it.Period
	case "role":
		return it.Role
	case "issuer":
		return it.Issuer
	case "date_issued":
		return it.DateIssued
	case "icon_class":
		return it.IconClass
	case "display_order":
		return it.DisplayOrder
	case "is_visible":
		return it.Visible
	case "project_image_path":
		return it.ProjectImagePath
	case "verify_link":
		return it.VerifyLink
	default:
		return nil
	}
}

// ResourceRepository defines ownership-scoped data access for resource
// items. Every mutating call carries both the item id and the owning
// account id; a write that matches zero rows is reported as ErrNotFound by
// Update and silently succeeds for Delete.
type ResourceRepository interface {
	List(ctx context.Context, kind Kind, accountID int64) ([]*Item, error)
	ListVisible(ctx context.Context, kind Kind, accountID int64) ([]*Item, error)
	Get(ctx context.Context, kind Kind, accountID, id int64) (*Item, error)
	Insert(ctx context.Context, kind Kind, accountID int64, fields Fields) (int64, error)
	Update(ctx context.Context, kind Kind, accountID, id int64, fields Fields) error
	Delete(ctx context.Context, kind Kind, accountID, id int64) error
	Reorder(ctx context.Context, kind Kind, accountID int64, orderedIDs []int64) error
}
