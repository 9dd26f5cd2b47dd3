package repository

import (
	"mathmemo-backend/internal/db"
	"mathmemo-backend/internal/model"
)

type ProblemRepository interface {
	GetCategories() ([]model.Category, error)
	GetVisibleProblemsByCategory(categoryID uint) ([]model.Problem, error)
	GetProblemByID(id uint) (*model.Problem, error)
	GetVisibleProblemByID(id uint) (*model.Problem, error)
	CreateProblem(problem *model.Problem) error
	UpdateProblem(problem *model.Problem) error
}

type problemRepository struct{}

func NewProblemRepository() ProblemRepository {
	return &problemRepository{}
}

func (r *problemRepository) GetCategories() ([]model.Category, error) {
	var categories []model.Category
	err := db.GetDB().Order("id").Find(&categories).Error
	return categories, err
}

func (r *problemRepository) GetVisibleProblemsByCategory(categoryID uint) ([]model.Problem, error) {
	var problems []model.Problem
	err := db.GetDB().
		Where("category_id = ? AND is_visible = ?", categoryID, true).
		Order("created_at DESC").
		Find(&problems).Error
	return problems, err
}

func (r *problemRepository) GetProblemByID(id uint) (*model.Problem, error) {
	var problem model.Problem
	err := db.GetDB().Preload("Category").Where("id = ?", id).First(&problem).Error
	if err != nil {
		return nil, err
	}
	return &problem, nil
}

func (r *problemRepository) GetVisibleProblemByID(id uint) (*model.Problem, error) {
	var problem model.Problem
	err := db.GetDB().Preload("Category").
		Where("id = ? AND is_visible = ?", id, true).
		First(&problem).Error
	if err != nil {
		return nil, err
	}
	return &problem, nil
}

func (r *problemRepository) CreateProblem(problem *model.Problem) error {
	return db.GetDB().Create(problem).Error
}

func (r *problemRepository) UpdateProblem(problem *model.Problem) error {
	return db.GetDB().Save(problem).Error
}
