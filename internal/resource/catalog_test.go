package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadqo/campus-console/internal/model"
)

func TestDefault_Complete(t *testing.T) {
	c := Default()
	names := []string{
		Courses, Departments, Teachers, Students, Classrooms, FeeStructures, Payments,
		ExamRoutines, ExamResults, Users, Availability, WhiteboardThemes,
		Offerings, Subjects, Colleges, AcademicYears,
	}
	require.Len(t, c.All(), len(names))

	for _, name := range names {
		d, err := c.Get(name)
		require.NoError(t, err, name)

		assert.GreaterOrEqual(t, d.PageSize, 4, name)
		assert.LessOrEqual(t, d.PageSize, 6, name)
		assert.NotEmpty(t, d.SearchFields(), name)

		_, ok := d.Field(d.IDField)
		assert.True(t, ok, "%s: id field declared", name)
		_, ok = d.Field(d.LabelField)
		assert.True(t, ok, "%s: label field declared", name)

		for _, lk := range d.Lookups() {
			_, err := c.Get(lk)
			assert.NoError(t, err, "%s looks up %s", name, lk)
		}
	}
}

func TestCatalog_Unknown(t *testing.T) {
	_, err := Default().Get("lockers")
	assert.ErrorIs(t, err, ErrUnknownResource)
}

func TestDefinition_Endpoints(t *testing.T) {
	c := Default()

	courses, _ := c.Get(Courses)
	ep := courses.Endpoints()
	assert.Equal(t, "/courses/list", ep.List)
	assert.Equal(t, "/courses/add", ep.Add)

	depts, _ := c.Get(Departments)
	assert.Equal(t, "/depts/{id}", depts.Endpoints().Get)
}

func TestCatalog_ApplyRoutes(t *testing.T) {
	c := Default()
	c.ApplyRoutes(func(name, fallback string) string {
		if name == Teachers {
			return "/v2/faculty"
		}
		return fallback
	})

	teachers, _ := c.Get(Teachers)
	assert.Equal(t, "/v2/faculty", teachers.Path)
	rooms, _ := c.Get(Classrooms)
	assert.Equal(t, "/classrooms", rooms.Path)

	fresh, _ := Default().Get(Teachers)
	assert.Equal(t, "/teachers", fresh.Path)
}

func TestDefinition_BlankAndPayload(t *testing.T) {
	d, _ := Default().Get(WhiteboardThemes)

	blank := d.Blank()
	assert.Equal(t, "#ffffff", blank.String("bg_color"))
	assert.Equal(t, "", blank.String("themename"))

	payload := d.Payload(model.Record{"themeid": " THM_002 ", "themename": "Night", "created_at": "2024-01-01"})
	assert.Equal(t, "THM_002", payload.String("themeid"))
	assert.NotContains(t, payload, "created_at")
	assert.NotContains(t, payload, "bg_color")
}

func TestDefinition_Rules(t *testing.T) {
	d, _ := Default().Get(Teachers)
	var tags []string
	for _, r := range d.Rules() {
		if r.Field == "teacherpincode" {
			tags = append(tags, r.Tags)
		}
	}
	assert.Equal(t, []string{"omitempty,pin"}, tags)
	assert.Equal(t, "Failed to save teacher", d.SaveFailed())
}
