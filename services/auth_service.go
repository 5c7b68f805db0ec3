package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"weddinggame/models"
)

const bcryptCost = 12

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{db: db, jwtSecret: jwtSecret}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
	TableID  uint   `json:"table_id" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Session is the payload carried by the JWT and returned by the profile
// endpoint.
type Session struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	TableID   uint   `json:"table_id"`
	TableName string `json:"table_name"`
	IsAdmin   bool   `json:"is_admin"`
}

func (s *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	var existing models.User
	err := s.db.Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var table models.Table
	if err := s.db.First(&table, req.TableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username: req.Username,
		Password: string(hashed),
		TableID:  table.ID,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	user.Table = table
	return &user, nil
}

// Login checks the credentials and issues a signed token carrying the
// session payload.
func (s *AuthService) Login(req *LoginRequest) (string, *Session, error) {
	var user models.User
	err := s.db.Where("username = ?", req.Username).Preload("Table").First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	session := &Session{
		ID:        user.ID,
		Username:  user.Username,
		TableID:   user.TableID,
		TableName: user.Table.Name,
		IsAdmin:   user.IsAdmin,
	}

	claims := jwt.MapClaims{
		"user_id":    session.ID,
		"username":   session.Username,
		"table_id":   session.TableID,
		"table_name": session.TableName,
		"is_admin":   session.IsAdmin,
		"exp":        time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, err
	}

	return signed, session, nil
}

// AdminUser is the admin listing shape for registered guests.
type AdminUser struct {
	ID               uint      `json:"id"`
	Username         string    `json:"username"`
	IsAdmin          bool      `json:"is_admin"`
	TableName        string    `json:"table_name"`
	SubmissionsCount int       `json:"submissions_count"`
	CreatedAt        time.Time `json:"created_at"`
}

func (s *AuthService) ListUsers() ([]AdminUser, error) {
	var users []models.User
	err := s.db.Preload("Table").Preload("Submissions").
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	result := make([]AdminUser, 0, len(users))
	for _, user := range users {
		result = append(result, AdminUser{
			ID:               user.ID,
			Username:         user.Username,
			IsAdmin:          user.IsAdmin,
			TableName:        user.Table.Name,
			SubmissionsCount: len(user.Submissions),
			CreatedAt:        user.CreatedAt,
		})
	}
	return result, nil
}

// MakeAdmin promotes a user to admin. Idempotent for users that are already
// admins.
func (s *AuthService) MakeAdmin(username string) (*models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", username).Preload("Table").First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.IsAdmin {
		return &user, nil
	}

	if err := s.db.Model(&user).Update("is_admin", true).Error; err != nil {
		return nil, err
	}
	user.IsAdmin = true
	return &user, nil
}

func (s *AuthService) GetProfile(userID uint) (*Session, error) {
	var user models.User
	if err := s.db.Preload("Table").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &Session{
		ID:        user.ID,
		Username:  user.Username,
		TableID:   user.TableID,
		TableName: user.Table.Name,
		IsAdmin:   user.IsAdmin,
	}, nil
}
