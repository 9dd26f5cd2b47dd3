package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"mathmemo-backend/internal/model"
	"mathmemo-backend/internal/repository"
)

// ErrProblemNotFound maps to a 404 at the HTTP layer.
var ErrProblemNotFound = errors.New("problem not found")

// QuestionSummary is the catalog entry shape.
type QuestionSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CatalogCategory struct {
	CategoryID    uint              `json:"category_id"`
	CategoryName  string            `json:"category_name"`
	QuestionCount int               `json:"question_count"`
	Questions     []QuestionSummary `json:"questions"`
}

type QuestionCatalog struct {
	Categories []CatalogCategory `json:"categories"`
	TotalCount int               `json:"total_count"`
}

// QuestionDetail is the full problem view served to the solving UI. The
// canonical answer and the original scan never leave the server.
type QuestionDetail struct {
	ID            uint                 `json:"id"`
	Name          string               `json:"name"`
	CategoryID    uint                 `json:"category_id"`
	CategoryName  string               `json:"category_name"`
	Difficulty    int                  `json:"difficulty"`
	Problem       string               `json:"problem"`
	Choices       []string             `json:"choices"`
	SolutionSteps []model.SolutionStep `json:"solution_steps"`
	SeparateImg   *string              `json:"separate_img,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// ProblemInput is the admin create/update body.
type ProblemInput struct {
	Name          string               `json:"name" binding:"required"`
	CategoryID    uint                 `json:"category_id" binding:"required"`
	Difficulty    int                  `json:"difficulty"`
	Problem       string               `json:"problem" binding:"required"`
	Choices       []string             `json:"choices"`
	SolutionSteps []model.SolutionStep `json:"solution_steps"`
	Answer        string               `json:"answer" binding:"required"`
	IsVisible     *bool                `json:"is_visible"`
	OriginalImg   *string              `json:"original_img"`
	SeparateImg   *string              `json:"separate_img"`
}

type ProblemService interface {
	GetQuestionCatalog() (*QuestionCatalog, error)
	GetQuestionDetail(id uint) (*QuestionDetail, error)
	// GetProblem returns the full row including the canonical answer;
	// serving handlers must not expose it directly.
	GetProblem(id uint) (*model.Problem, error)
	CreateProblem(input *ProblemInput) (*model.Problem, error)
	UpdateProblem(id uint, input *ProblemInput) (*model.Problem, error)
}

type problemService struct {
	problemRepo repository.ProblemRepository
}

func NewProblemService(problemRepo repository.ProblemRepository) ProblemService {
	return &problemService{problemRepo: problemRepo}
}

// GetQuestionCatalog groups visible problems by category, newest first,
// omitting categories that have no visible problems.
func (s *problemService) GetQuestionCatalog() (*QuestionCatalog, error) {
	categories, err := s.problemRepo.GetCategories()
	if err != nil {
		return nil, err
	}

	catalog := &QuestionCatalog{Categories: []CatalogCategory{}}
	for _, category := range categories {
		problems, err := s.problemRepo.GetVisibleProblemsByCategory(category.ID)
		if err != nil {
			return nil, err
		}
		if len(problems) == 0 {
			continue
		}

		summaries := make([]QuestionSummary, 0, len(problems))
		for _, p := range problems {
			summaries = append(summaries, QuestionSummary{ID: p.ID, Name: p.Name})
		}
		catalog.Categories = append(catalog.Categories, CatalogCategory{
			CategoryID:    category.ID,
			CategoryName:  category.Name,
			QuestionCount: len(summaries),
			Questions:     summaries,
		})
		catalog.TotalCount += len(summaries)
	}
	return catalog, nil
}

func (s *problemService) GetQuestionDetail(id uint) (*QuestionDetail, error) {
	problem, err := s.problemRepo.GetVisibleProblemByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProblemNotFound
		}
		return nil, err
	}

	return &QuestionDetail{
		ID:            problem.ID,
		Name:          problem.Name,
		CategoryID:    problem.CategoryID,
		CategoryName:  problem.Category.Name,
		Difficulty:    problem.Difficulty,
		Problem:       problem.Problem,
		Choices:       problem.Choices,
		SolutionSteps: problem.SolutionSteps,
		SeparateImg:   problem.SeparateImg,
		CreatedAt:     problem.CreatedAt,
	}, nil
}

func (s *problemService) GetProblem(id uint) (*model.Problem, error) {
	problem, err := s.problemRepo.GetProblemByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProblemNotFound
		}
		return nil, err
	}
	return problem, nil
}

func (s *problemService) CreateProblem(input *ProblemInput) (*model.Problem, error) {
	if err := validateDifficulty(input.Difficulty); err != nil {
		return nil, err
	}

	problem := &model.Problem{
		Name:          input.Name,
		CategoryID:    input.CategoryID,
		Difficulty:    input.Difficulty,
		Problem:       input.Problem,
		Choices:       datatypes.NewJSONSlice(emptyIfNil(input.Choices)),
		SolutionSteps: datatypes.NewJSONSlice(emptyIfNilSteps(input.SolutionSteps)),
		Answer:        input.Answer,
		IsVisible:     true,
		OriginalImg:   input.OriginalImg,
		SeparateImg:   input.SeparateImg,
	}
	if input.IsVisible != nil {
		problem.IsVisible = *input.IsVisible
	}

	if err := s.problemRepo.CreateProblem(problem); err != nil {
		return nil, err
	}
	return problem, nil
}

func (s *problemService) UpdateProblem(id uint, input *ProblemInput) (*model.Problem, error) {
	if err := validateDifficulty(input.Difficulty); err != nil {
		return nil, err
	}

	problem, err := s.GetProblem(id)
	if err != nil {
		return nil, err
	}

	problem.Name = input.Name
	problem.CategoryID = input.CategoryID
	problem.Difficulty = input.Difficulty
	problem.Problem = input.Problem
	problem.Choices = datatypes.NewJSONSlice(emptyIfNil(input.Choices))
	problem.SolutionSteps = datatypes.NewJSONSlice(emptyIfNilSteps(input.SolutionSteps))
	problem.Answer = input.Answer
	problem.OriginalImg = input.OriginalImg
	problem.SeparateImg = input.SeparateImg
	if input.IsVisible != nil {
		problem.IsVisible = *input.IsVisible
	}

	if err := s.problemRepo.UpdateProblem(problem); err != nil {
		return nil, err
	}
	return problem, nil
}

func validateDifficulty(difficulty int) error {
	if difficulty < 0 || difficulty > 100 {
		return fmt.Errorf("difficulty must be between 0 and 100, got %d", difficulty)
	}
	return nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func emptyIfNilSteps(steps []model.SolutionStep) []model.SolutionStep {
	if steps == nil {
		return []model.SolutionStep{}
	}
	return steps
}
