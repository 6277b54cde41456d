package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
)

type fakeResultRepo struct {
	results map[string]*models.Result
	listed  []models.ResultWithCourse
}

func resultKey(r *models.Result) string {
	return r.StudentID + "|" + r.CourseID + "|" + r.Session
}

func (f *fakeResultRepo) Upsert(ctx context.Context, result *models.Result) error {
	if f.results == nil {
		f.results = make(map[string]*models.Result)
	}
	f.results[resultKey(result)] = result
	return nil
}

func (f *fakeResultRepo) ListWithCourses(ctx context.Context, filter models.ResultFilter) ([]models.ResultWithCourse, error) {
	return f.listed, nil
}

type fakeCourseFinder struct {
	courses map[string]*models.Course
}

func (f *fakeCourseFinder) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := f.courses[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func TestDeriveGradeBreakpoints(t *testing.T) {
	cases := []struct {
		score float64
		want  models.Grade
	}{
		{100, models.GradeA},
		{70, models.GradeA},
		{69.9, models.GradeB},
		{60, models.GradeB},
		{59, models.GradeC},
		{50, models.GradeC},
		{49, models.GradeD},
		{45, models.GradeD},
		{44, models.GradeE},
		{40, models.GradeE},
		{39.9, models.GradeF},
		{0, models.GradeF},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DeriveGrade(tc.score), "score %v", tc.score)
	}
}

func TestComputeGPAWeightsByCreditUnits(t *testing.T) {
	results := []models.ResultWithCourse{
		{Result: models.Result{Grade: models.GradeA}, CreditUnits: 3},
		{Result: models.Result{Grade: models.GradeC}, CreditUnits: 2},
	}
	// (5*3 + 3*2) / 5 = 4.2
	gpa, points, units := ComputeGPA(results)
	assert.Equal(t, 4.2, gpa)
	assert.Equal(t, 21.0, points)
	assert.Equal(t, 5, units)
}

func TestComputeGPAEmptyResults(t *testing.T) {
	gpa, points, units := ComputeGPA(nil)
	assert.Zero(t, gpa)
	assert.Zero(t, points)
	assert.Zero(t, units)
}

func TestResultServiceEnterDerivesGrade(t *testing.T) {
	repo := &fakeResultRepo{}
	courses := &fakeCourseFinder{courses: map[string]*models.Course{"c1": {ID: "c1"}}}
	svc := NewResultService(repo, courses, nil, nil)

	result, err := svc.Enter(context.Background(), EnterResultRequest{
		StudentID: "s1", CourseID: "c1", Score: 63, Semester: 1, Session: "2026/2027",
	})
	require.NoError(t, err)
	assert.Equal(t, models.GradeB, result.Grade)
}

func TestResultServiceEnterOverwritesPriorScore(t *testing.T) {
	repo := &fakeResultRepo{}
	courses := &fakeCourseFinder{courses: map[string]*models.Course{"c1": {ID: "c1"}}}
	svc := NewResultService(repo, courses, nil, nil)

	_, err := svc.Enter(context.Background(), EnterResultRequest{StudentID: "s1", CourseID: "c1", Score: 38, Semester: 1, Session: "2026/2027"})
	require.NoError(t, err)
	updated, err := svc.Enter(context.Background(), EnterResultRequest{StudentID: "s1", CourseID: "c1", Score: 71, Semester: 1, Session: "2026/2027"})
	require.NoError(t, err)

	require.Len(t, repo.results, 1)
	assert.Equal(t, models.GradeA, updated.Grade)
}

func TestResultServiceEnterUnknownCourse(t *testing.T) {
	svc := NewResultService(&fakeResultRepo{}, &fakeCourseFinder{}, nil, nil)

	_, err := svc.Enter(context.Background(), EnterResultRequest{StudentID: "s1", CourseID: "missing", Score: 50, Semester: 1, Session: "2026/2027"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestResultServiceSheetComputesGPA(t *testing.T) {
	repo := &fakeResultRepo{listed: []models.ResultWithCourse{
		{Result: models.Result{Grade: models.GradeA}, CreditUnits: 3},
		{Result: models.Result{Grade: models.GradeB}, CreditUnits: 3},
	}}
	svc := NewResultService(repo, &fakeCourseFinder{}, nil, nil)

	sheet, err := svc.Sheet(context.Background(), models.ResultFilter{StudentID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, 4.5, sheet.GPA)
	assert.Equal(t, 6, sheet.TotalUnits)
}
