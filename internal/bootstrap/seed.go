package bootstrap

import (
	"log"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.LedgerEntry{},
		&model.GiftCode{},
		&model.GiftCodeRedemption{},
		&model.Product{},
		&model.ExchangeRequest{},
		&model.Announcement{},
		&model.AuditLog{},
	)
}

func SeedRoles(db *gorm.DB) error {
	defaultRoles := []model.Role{
		{Name: model.RoleAdmin, Description: "Administrator"},
		{Name: model.RoleVIP, Description: "VIP member"},
		{Name: model.RoleUser, Description: "Regular member"},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&model.Role{}).
			Where("name = ?", role.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedAdminUser creates the development admin fixture. It is only called
// when APP_ENV is development.
func SeedAdminUser(db *gorm.DB) error {
	var adminRole model.Role
	if err := db.Where("name = ?", model.RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", "admin@gemoasis.local").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	password := "admin123"
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := model.User{
		Username:     "admin",
		Email:        "admin@gemoasis.local",
		PasswordHash: string(hashedPasswordBytes),
		DisplayName:  "Administrator",
		RoleID:       &adminRole.ID,
		Status:       model.StatusActive,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Println("✅ Admin user seeded successfully")
	log.Println("   Email: admin@gemoasis.local")
	log.Println("   Password: admin123")

	return nil
}

// SeedProducts inserts a small development catalog so the exchange flow is
// usable immediately. Only called when APP_ENV is development.
func SeedProducts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []model.Product{
		{Name: "Coffee Voucher", Description: "One free coffee at the campus cafe", Price: 300, Category: "voucher", Stock: 100, Active: true},
		{Name: "Sticker Pack", Description: "Set of five logo stickers", Price: 150, Category: "merch", Stock: 200, Active: true},
		{Name: "T-Shirt", Description: "Logo tee, one size", Price: 1200, Category: "merch", Stock: 50, Active: true},
	}

	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			return err
		}
	}

	log.Println("✅ Development products seeded")
	return nil
}
