package domain

// ParsedResume is the structured record set the AI oracle extracts from a
// resume. Entries are raw field maps; they pass through the same per-kind
// sanitization as any other save.
type ParsedResume struct {
	Skills         []Fields `json:"skills"`
	Projects       []Fields `json:"projects"`
	Internships    []Fields `json:"internships"`
	Certifications []Fields `json:"certifications"`
	Achievements   []Fields `json:"achievements"`
}

// ByKind returns the parsed entries grouped by resource kind.
func (p *ParsedResume) ByKind() map[Kind][]Fields {
	return map[Kind][]Fields{
		KindSkills:         p.Skills,
		KindProjects:       p.Projects,
		KindInternships:    p.Internships,
		KindCertifications: p.Certifications,
		KindAchievements:   p.Achievements,
	}
}

// Total counts all parsed entries.
func (p *ParsedResume) Total() int {
	return len(p.Skills) + len(p.Projects) + len(p.Internships) +
		len(p.Certifications) + len(p.Achievements)
}
