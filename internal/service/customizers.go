package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ahmadqo/campus-console/internal/derive"
	"github.com/ahmadqo/campus-console/internal/form"
	"github.com/ahmadqo/campus-console/internal/logger"
	"github.com/ahmadqo/campus-console/internal/model"
	"github.com/ahmadqo/campus-console/internal/resource"
)

// SubjectSemesterKey is the cache entry holding subject id -> semester.
const SubjectSemesterKey = "lookup:subject_semester"

var courseHooks = &hooks{
	derivations: courseDerivations,
	add:         addCourse,
	baseID:      derive.SemesterBase,
}

// department -> description: the loaded department list first, then a
// detail call; a failed call clears the description.
func courseDerivations(s *resourceService, data *PageData) map[string]form.Derivation {
	return map[string]form.Derivation{
		"collegedept": func(ctx context.Context, value string, _ model.Record) (map[string]any, error) {
			if value == "" {
				return map[string]any{"collegedeptdesc": ""}, nil
			}
			if rec, ok := data.Lookups.Record(resource.Departments, value); ok && rec.Has("collegedeptdesc") {
				return map[string]any{"collegedeptdesc": rec.String("collegedeptdesc")}, nil
			}

			depts, err := s.definition(resource.Departments)
			if err != nil {
				return map[string]any{"collegedeptdesc": ""}, err
			}
			rec, err := s.resource(depts).Get(ctx, value)
			if err != nil {
				return map[string]any{"collegedeptdesc": ""}, err
			}
			return map[string]any{"collegedeptdesc": rec.String("collegedeptdesc")}, nil
		},
	}
}

// addCourse posts one record per semester when course_totsemester > 1.
// The first failing POST stops the run; earlier semesters stay created.
func addCourse(ctx context.Context, s *resourceService, def *resource.Definition, payload model.Record) error {
	n, _ := strconv.Atoi(strings.TrimSpace(payload.String("course_totsemester")))
	res := s.resource(def)

	for i, rec := range derive.ExpandSemesters(payload, def.IDField, "coursedesc", n) {
		if _, err := res.Add(ctx, rec); err != nil {
			return fmt.Errorf("create %s (semester %d of %d): %w", rec.ID(def.IDField), i+1, max(n, 1), err)
		}
	}
	return nil
}

var studentHooks = &hooks{
	derivations: studentDerivations,
}

// course -> academic year and section, inferred from the course's program
// start or the admission dates and sections of its other students.
func studentDerivations(_ *resourceService, data *PageData) map[string]form.Derivation {
	return map[string]form.Derivation{
		"stucourseid": func(_ context.Context, value string, _ model.Record) (map[string]any, error) {
			if value == "" {
				return nil, nil
			}

			var admissions, sections []string
			for _, rec := range data.Records {
				if rec.ID("stucourseid") != value {
					continue
				}
				admissions = append(admissions, rec.String("stuadmissiondt"))
				sections = append(sections, rec.String("stusection"))
			}

			programStart := ""
			if course, ok := data.Lookups.Record(resource.Courses, value); ok {
				programStart = course.String("course_prg_startdt")
			}

			out := map[string]any{}
			if year, ok := derive.AcademicYearFor(programStart, admissions); ok {
				out["stu_acad_year"] = year
			}
			if section, ok := derive.InferDefault(sections); ok {
				out["stusection"] = section
			}
			return out, nil
		},
	}
}

var feeStructureHooks = &hooks{
	derivations: feeStructureDerivations,
}

// academic year -> fee period. The year record's own dates win; otherwise
// the bounds are read from its "YYYY-YYYY" label.
func feeStructureDerivations(_ *resourceService, data *PageData) map[string]form.Derivation {
	return map[string]form.Derivation{
		"fee_acad_year": func(_ context.Context, value string, _ model.Record) (map[string]any, error) {
			if value == "" {
				return nil, nil
			}
			rec, ok := data.Lookups.Record(resource.AcademicYears, value)
			if !ok {
				rec = model.Record{"acad_year": value}
			}

			start := derive.FormatDate(rec.String("start_date"))
			end := derive.FormatDate(rec.String("end_date"))
			if start == "" || end == "" {
				from, to, ok := derive.AcademicYearBounds(rec.String("acad_year"))
				if !ok {
					return nil, nil
				}
				start, end = from.Format(derive.DateLayout), to.Format(derive.DateLayout)
			}
			return map[string]any{"fee_period_start": start, "fee_period_end": end}, nil
		},
	}
}

var examRoutineHooks = &hooks{
	derivations: examRoutineDerivations,
	afterLoad:   rememberSubjectSemesters,
}

// rememberSubjectSemesters saves subject -> semester whenever the subject
// list loads, and reads the saved copy back when it does not.
func rememberSubjectSemesters(ctx context.Context, s *resourceService, data *PageData) {
	subjects := data.Lookups.Records[resource.Subjects]
	if _, failed := data.Lookups.Errors[resource.Subjects]; !failed && len(subjects) > 0 {
		m := make(map[string]string, len(subjects))
		for _, rec := range subjects {
			if id := rec.ID("subjectid"); id != "" && rec.Has("semester") {
				m[id] = rec.String("semester")
			}
		}
		data.Fallback[SubjectSemesterKey] = m
		if s.cache != nil {
			if err := s.cache.Put(ctx, SubjectSemesterKey, m); err != nil {
				logger.Warn().Err(err).Msg("subject semesters not cached")
			}
		}
		return
	}

	if s.cache == nil {
		return
	}
	var m map[string]string
	ok, err := s.cache.Get(ctx, SubjectSemesterKey, &m)
	if err != nil {
		logger.Warn().Err(err).Msg("cached subject semesters unreadable")
		return
	}
	if ok {
		data.Fallback[SubjectSemesterKey] = m
	}
}

// offering -> semester, section, term; subject -> semester.
func examRoutineDerivations(_ *resourceService, data *PageData) map[string]form.Derivation {
	return map[string]form.Derivation{
		"offerid": func(_ context.Context, value string, _ model.Record) (map[string]any, error) {
			offering, ok := data.Lookups.Record(resource.Offerings, value)
			if !ok {
				return nil, nil
			}
			out := map[string]any{}
			for _, f := range []string{"semester", "section", "term", "subjectid"} {
				if offering.Has(f) {
					out[f] = offering.String(f)
				}
			}
			return out, nil
		},
		"subjectid": func(_ context.Context, value string, _ model.Record) (map[string]any, error) {
			if subject, ok := data.Lookups.Record(resource.Subjects, value); ok && subject.Has("semester") {
				return map[string]any{"semester": subject.String("semester")}, nil
			}
			if sem, ok := data.Fallback[SubjectSemesterKey][value]; ok && sem != "" {
				return map[string]any{"semester": sem}, nil
			}
			return nil, nil
		},
	}
}
