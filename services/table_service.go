package services

import (
	"errors"

	"gorm.io/gorm"

	"weddinggame/models"
)

type TableService struct {
	db *gorm.DB
}

func NewTableService(db *gorm.DB) *TableService {
	return &TableService{db: db}
}

type CreateTableRequest struct {
	Name  string `json:"name" binding:"required"`
	Score int    `json:"score"`
}

type UpdateTableRequest struct {
	ID    uint    `json:"id" binding:"required"`
	Name  *string `json:"name"`
	Score *int    `json:"score"`
}

// AdminTable is the admin listing shape: the table with its users and a
// member count.
type AdminTable struct {
	models.Table
	UserCount int `json:"user_count"`
}

func (s *TableService) ListTables() ([]AdminTable, error) {
	var tables []models.Table
	err := s.db.Preload("Users", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "username", "table_id", "created_at")
	}).
		Order("score DESC").
		Find(&tables).Error
	if err != nil {
		return nil, err
	}

	result := make([]AdminTable, 0, len(tables))
	for _, table := range tables {
		result = append(result, AdminTable{Table: table, UserCount: len(table.Users)})
	}
	return result, nil
}

func (s *TableService) GetTable(id uint) (*models.Table, error) {
	var table models.Table
	if err := s.db.First(&table, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return &table, nil
}

func (s *TableService) CreateTable(req *CreateTableRequest) (*models.Table, error) {
	table := models.Table{
		Name:  req.Name,
		Score: req.Score,
	}
	if err := s.db.Create(&table).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

func (s *TableService) UpdateTable(req *UpdateTableRequest) (*models.Table, error) {
	table, err := s.GetTable(req.ID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Score != nil {
		updates["score"] = *req.Score
	}
	if len(updates) > 0 {
		if err := s.db.Model(table).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return table, nil
}

// DeleteTable refuses to remove a table while any user still references it.
func (s *TableService) DeleteTable(id uint) error {
	table, err := s.GetTable(id)
	if err != nil {
		return err
	}

	var userCount int64
	if err := s.db.Model(&models.User{}).Where("table_id = ?", table.ID).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return ErrTableHasUsers
	}

	return s.db.Delete(&models.Table{}, table.ID).Error
}
