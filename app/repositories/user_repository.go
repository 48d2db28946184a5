package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nikhilrana/saman/app/models"
	"github.com/nikhilrana/saman/pkg/metrics"
)

// UserRepository is the store handle for user accounts.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername looks a user up by their unique username.
func (r *UserRepository) FindByUsername(username string) (models.User, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("users: find %q: %w", username, err)
	}
	return user, nil
}

// FindByID looks a user up by primary key.
func (r *UserRepository) FindByID(id uint) (models.User, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var user models.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("users: find %d: %w", id, err)
	}
	return user, nil
}

// Create inserts a new user. A username collision surfaces as ErrDuplicate.
func (r *UserRepository) Create(user *models.User) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	if err := r.db.Create(user).Error; err != nil {
		return translate("users: create", err)
	}
	return nil
}
