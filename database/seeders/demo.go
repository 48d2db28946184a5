package seeders

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nikhilrana/saman/app/models"
	"github.com/nikhilrana/saman/pkg/auth"
)

func init() {
	Register("demo", SeedDemo)
}

// SeedDemo inserts a demo account and its product. Safe to run repeatedly:
// it skips when the user already exists.
func SeedDemo(db *gorm.DB) error {
	var existing models.User
	if err := db.Where("username = ?", "demo").First(&existing).Error; err == nil {
		return nil
	}

	hash, err := auth.HashPassword("demo1234")
	if err != nil {
		return err
	}

	user := models.User{
		Username: "demo",
		Email:    "demo@example.com",
		Password: hash,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}

	desc := "Demo widget"
	product := models.Product{
		UserID: &user.ID,
		Desc:   &desc,
		Price:  decimal.RequireFromString("9.99"),
		Image:  models.PlaceholderImage,
	}
	return db.Create(&product).Error
}
