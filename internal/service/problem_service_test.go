package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mathmemo-backend/internal/model"
)

type fakeProblemRepo struct {
	categories []model.Category
	byCategory map[uint][]model.Problem
	byID       map[uint]*model.Problem

	created *model.Problem
	updated *model.Problem
}

func (f *fakeProblemRepo) GetCategories() ([]model.Category, error) {
	return f.categories, nil
}

func (f *fakeProblemRepo) GetVisibleProblemsByCategory(categoryID uint) ([]model.Problem, error) {
	return f.byCategory[categoryID], nil
}

func (f *fakeProblemRepo) GetProblemByID(id uint) (*model.Problem, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProblemRepo) GetVisibleProblemByID(id uint) (*model.Problem, error) {
	if p, ok := f.byID[id]; ok && p.IsVisible {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProblemRepo) CreateProblem(problem *model.Problem) error {
	f.created = problem
	return nil
}

func (f *fakeProblemRepo) UpdateProblem(problem *model.Problem) error {
	f.updated = problem
	return nil
}

func catalogFixture() *fakeProblemRepo {
	return &fakeProblemRepo{
		categories: []model.Category{
			{ID: 1, Name: "Arithmetic"},
			{ID: 2, Name: "Algebra"},
			{ID: 3, Name: "Geometry"},
		},
		byCategory: map[uint][]model.Problem{
			1: {
				{ID: 10, Name: "two-digit-addition-01", IsVisible: true},
				{ID: 11, Name: "two-digit-addition-02", IsVisible: true},
			},
			3: {
				{ID: 30, Name: "triangle-area-01", IsVisible: true},
			},
		},
		byID: map[uint]*model.Problem{
			10: {
				ID: 10, Name: "two-digit-addition-01", CategoryID: 1,
				Category: model.Category{ID: 1, Name: "Arithmetic"},
				Problem:  "Compute 37 + 48.", Answer: "85", IsVisible: true,
			},
			40: {
				ID: 40, Name: "hidden-problem", CategoryID: 1,
				Problem: "hidden", Answer: "1", IsVisible: false,
			},
		},
	}
}

func TestGetQuestionCatalogGroupsByCategory(t *testing.T) {
	svc := NewProblemService(catalogFixture())

	catalog, err := svc.GetQuestionCatalog()
	require.NoError(t, err)

	assert.Equal(t, 3, catalog.TotalCount)
	// Algebra has no visible problems and is omitted entirely.
	require.Len(t, catalog.Categories, 2)
	assert.Equal(t, "Arithmetic", catalog.Categories[0].CategoryName)
	assert.Equal(t, 2, catalog.Categories[0].QuestionCount)
	assert.Equal(t, "Geometry", catalog.Categories[1].CategoryName)
	require.Len(t, catalog.Categories[0].Questions, 2)
	assert.Equal(t, uint(10), catalog.Categories[0].Questions[0].ID)
}

func TestGetQuestionDetail(t *testing.T) {
	svc := NewProblemService(catalogFixture())

	detail, err := svc.GetQuestionDetail(10)
	require.NoError(t, err)
	assert.Equal(t, "two-digit-addition-01", detail.Name)
	assert.Equal(t, "Arithmetic", detail.CategoryName)
}

func TestGetQuestionDetailHiddenProblem(t *testing.T) {
	svc := NewProblemService(catalogFixture())

	_, err := svc.GetQuestionDetail(40)
	assert.ErrorIs(t, err, ErrProblemNotFound)
}

func TestGetProblemIncludesHidden(t *testing.T) {
	svc := NewProblemService(catalogFixture())

	problem, err := svc.GetProblem(40)
	require.NoError(t, err)
	assert.False(t, problem.IsVisible)

	_, err = svc.GetProblem(999)
	assert.ErrorIs(t, err, ErrProblemNotFound)
}

func TestCreateProblemDefaults(t *testing.T) {
	repo := catalogFixture()
	svc := NewProblemService(repo)

	problem, err := svc.CreateProblem(&ProblemInput{
		Name:       "new-problem",
		CategoryID: 2,
		Difficulty: 50,
		Problem:    "Solve x + 1 = 2.",
		Answer:     "1",
	})
	require.NoError(t, err)
	assert.True(t, problem.IsVisible)
	assert.NotNil(t, repo.created)
	assert.Equal(t, []string{}, []string(problem.Choices))
}

func TestCreateProblemRejectsBadDifficulty(t *testing.T) {
	svc := NewProblemService(catalogFixture())

	_, err := svc.CreateProblem(&ProblemInput{
		Name: "p", CategoryID: 1, Problem: "q", Answer: "a", Difficulty: 150,
	})
	assert.Error(t, err)
}

func TestUpdateProblemVisibilityToggle(t *testing.T) {
	repo := catalogFixture()
	svc := NewProblemService(repo)

	hidden := false
	problem, err := svc.UpdateProblem(10, &ProblemInput{
		Name:       "two-digit-addition-01",
		CategoryID: 1,
		Difficulty: 20,
		Problem:    "Compute 37 + 48.",
		Answer:     "85",
		IsVisible:  &hidden,
	})
	require.NoError(t, err)
	assert.False(t, problem.IsVisible)
	assert.NotNil(t, repo.updated)
}
