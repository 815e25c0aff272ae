// Package catalog declares the record types the portal manages. Each
// definition is purely declarative: the field list drives the form engine,
// the REST surface and persistence without per-type code.
package catalog

import (
	"github.com/trezcool/idara/core/activity"
	"github.com/trezcool/idara/core/form"
)

func fptr(n float64) *float64 { return &n }

// facultyInvolved is the repeatable co-author/participant sub-list shared by
// several record types. The sub-list is unordered and names may repeat
// across records. "Institute" is entered as free text: existing data holds
// both institute names and profile URLs, so neither shape is rejected.
func facultyInvolved() form.Field {
	return form.Field{
		Name:  "facultyInvolved",
		Label: "Faculty involved",
		Kind:  form.Array,
		ArrayConfig: &form.ArrayConfig{
			InitialItem: map[string]interface{}{"name": "", "institute": ""},
			ItemFields: []form.Field{
				{Name: "name", Label: "Name", Kind: form.Text, Required: true},
				{Name: "institute", Label: "Institute / profile link", Kind: form.Text},
			},
			MinItems: 1,
		},
	}
}

func publishedField() form.Field {
	return form.Field{Name: "published", Label: "Published", Kind: form.Checkbox}
}

func Publications() activity.Definition {
	return activity.Definition{
		Name:       "publications",
		Label:      "Publication",
		Collection: "publications",
		Fields: []form.Field{
			{Name: "title", Label: "Title", Kind: form.Text, Required: true},
			{Name: "abstract", Label: "Abstract", Kind: form.Textarea},
			{Name: "venue", Label: "Journal / Conference", Kind: form.Text, Required: true},
			{Name: "kind", Label: "Type", Kind: form.Select, Required: true,
				Options: []string{"journal", "conference", "book-chapter", "workshop"}},
			{Name: "year", Label: "Year", Kind: form.Number, Required: true, Min: fptr(1950), Max: fptr(2100), Step: fptr(1)},
			{Name: "doi", Label: "DOI", Kind: form.Text},
			facultyInvolved(),
			publishedField(),
		},
		SearchFields: []string{"title", "venue", "kind", "doi"},
	}
}

func Patents() activity.Definition {
	return activity.Definition{
		Name:       "patents",
		Label:      "Patent",
		Collection: "patents",
		Fields: []form.Field{
			{Name: "title", Label: "Title", Kind: form.Text, Required: true},
			{Name: "applicationNumber", Label: "Application number", Kind: form.Text, Required: true},
			{Name: "status", Label: "Status", Kind: form.Select, Required: true,
				Options: []string{"filed", "published", "granted", "expired"}},
			{Name: "filingDate", Label: "Filing date", Kind: form.Date, Required: true},
			{Name: "grantDate", Label: "Grant date", Kind: form.Date},
			facultyInvolved(),
			publishedField(),
		},
		SearchFields: []string{"title", "applicationNumber", "status"},
	}
}

func Projects() activity.Definition {
	return activity.Definition{
		Name:       "projects",
		Label:      "Project",
		Collection: "projects",
		Fields: []form.Field{
			{Name: "title", Label: "Title", Kind: form.Text, Required: true},
			{Name: "summary", Label: "Summary", Kind: form.Textarea, Required: true},
			{Name: "fundingAgency", Label: "Funding agency", Kind: form.Text},
			{Name: "amount", Label: "Sanctioned amount", Kind: form.Number, Min: fptr(0)},
			{Name: "startDate", Label: "Start date", Kind: form.Date, Required: true},
			{Name: "endDate", Label: "End date", Kind: form.Date},
			{Name: "status", Label: "Status", Kind: form.Select, Required: true,
				Options: []string{"proposed", "ongoing", "completed"}},
			facultyInvolved(),
			publishedField(),
		},
		SearchFields: []string{"title", "fundingAgency", "status"},
	}
}

func Honours() activity.Definition {
	return activity.Definition{
		Name:       "honours",
		Label:      "Honour",
		Collection: "honours",
		Fields: []form.Field{
			{Name: "title", Label: "Title", Kind: form.Text, Required: true},
			{Name: "awardedBy", Label: "Awarded by", Kind: form.Text, Required: true},
			{Name: "date", Label: "Date", Kind: form.Date, Required: true},
			{Name: "description", Label: "Description", Kind: form.Textarea},
			facultyInvolved(),
			publishedField(),
		},
		SearchFields: []string{"title", "awardedBy"},
	}
}

func Announcements() activity.Definition {
	return activity.Definition{
		Name:       "announcements",
		Label:      "Announcement",
		Collection: "announcements",
		Fields: []form.Field{
			{Name: "title", Label: "Title", Kind: form.Text, Required: true},
			{Name: "body", Label: "Body", Kind: form.Textarea, Required: true},
			{Name: "category", Label: "Category", Kind: form.Select, Required: true,
				Options: []string{"general", "academic", "event", "recruitment"}},
			{Name: "expiresOn", Label: "Expires on", Kind: form.Date},
			{Name: "attachment", Label: "Attachment", Kind: form.File},
			publishedField(),
		},
		SearchFields: []string{"title", "category"},
		Notify:       true,
	}
}

func Placements() activity.Definition {
	return activity.Definition{
		Name:       "placements",
		Label:      "Placement statistic",
		Collection: "placements",
		Fields: []form.Field{
			{Name: "academicYear", Label: "Academic year", Kind: form.Text, Required: true},
			{Name: "company", Label: "Company", Kind: form.Text, Required: true},
			{Name: "studentsPlaced", Label: "Students placed", Kind: form.Number, Required: true, Min: fptr(0), Step: fptr(1)},
			{Name: "packageLPA", Label: "Package (LPA)", Kind: form.Number, Min: fptr(0)},
			publishedField(),
		},
		SearchFields: []string{"academicYear", "company"},
	}
}

func Faculty() activity.Definition {
	return activity.Definition{
		Name:       "faculty",
		Label:      "Faculty profile",
		Collection: "faculty",
		Fields: []form.Field{
			{Name: "name", Label: "Name", Kind: form.Text, Required: true},
			{Name: "designation", Label: "Designation", Kind: form.Select, Required: true,
				Options: []string{"professor", "associate-professor", "assistant-professor", "emeritus"}},
			{Name: "email", Label: "Email", Kind: form.Text, Required: true},
			{Name: "phone", Label: "Phone", Kind: form.Text},
			{Name: "bio", Label: "Short bio", Kind: form.Textarea},
			{Name: "photo", Label: "Photo", Kind: form.File},
			{Name: "interests", Label: "Research interests", Kind: form.Array,
				ArrayConfig: &form.ArrayConfig{
					InitialItem: map[string]interface{}{"area": ""},
					ItemFields:  []form.Field{{Name: "area", Label: "Area", Kind: form.Text, Required: true}},
				}},
			publishedField(),
		},
		SearchFields: []string{"name", "designation", "email"},
		DefaultSort:  []activity.SortField{{Field: "name", Ascending: true}},
	}
}

func Staff() activity.Definition {
	return activity.Definition{
		Name:       "staff",
		Label:      "Staff profile",
		Collection: "staff",
		Fields: []form.Field{
			{Name: "name", Label: "Name", Kind: form.Text, Required: true},
			{Name: "role", Label: "Role", Kind: form.Text, Required: true},
			{Name: "email", Label: "Email", Kind: form.Text},
			{Name: "photo", Label: "Photo", Kind: form.File},
			publishedField(),
		},
		SearchFields: []string{"name", "role"},
		DefaultSort:  []activity.SortField{{Field: "name", Ascending: true}},
	}
}

func Students() activity.Definition {
	return activity.Definition{
		Name:       "students",
		Label:      "Student profile",
		Collection: "students",
		Fields: []form.Field{
			{Name: "name", Label: "Name", Kind: form.Text, Required: true},
			{Name: "rollNumber", Label: "Roll number", Kind: form.Text, Required: true},
			{Name: "programme", Label: "Programme", Kind: form.Select, Required: true,
				Options: []string{"btech", "mtech", "phd"}},
			{Name: "yearOfAdmission", Label: "Year of admission", Kind: form.Number, Required: true,
				Min: fptr(2000), Max: fptr(2100), Step: fptr(1)},
			publishedField(),
		},
		SearchFields: []string{"name", "rollNumber", "programme"},
	}
}

// NewRegistry assembles the full catalog; definitions are checked at
// startup so a malformed descriptor fails loud.
func NewRegistry() (*activity.Registry, error) {
	return activity.NewRegistry(
		Publications(),
		Patents(),
		Projects(),
		Honours(),
		Announcements(),
		Assets(),
		Placements(),
		Faculty(),
		Staff(),
		Students(),
	)
}
