package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/pkg/cache"
	"github.com/shashiranjanraj/dukaan/pkg/storage"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
		Role:     role,
		Active:   true,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.Cart{UserID: user.ID}).Error)
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	cat := &models.Category{Name: name, Slug: name, Active: true}
	require.NoError(t, db.Create(cat).Error)
	return cat
}

func seedProduct(t *testing.T, db *gorm.DB, categoryID uint, name, price string, stock int) *models.Product {
	t.Helper()

	d, err := decimal.NewFromString(price)
	require.NoError(t, err)

	p := &models.Product{
		Name:       name,
		Slug:       name,
		Price:      d,
		Stock:      stock,
		CategoryID: categoryID,
		Active:     true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func addCartLine(t *testing.T, db *gorm.DB, userID, productID uint, qty int) {
	t.Helper()

	var cart models.Cart
	require.NoError(t, db.Where("user_id = ?", userID).First(&cart).Error)
	require.NoError(t, db.Create(&models.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  qty,
	}).Error)
}

// newOrderService wires the fulfillment engine onto a test database.
func newOrderService(db *gorm.DB) *OrderService {
	products := repositories.NewProductRepository(db)
	return NewOrderService(
		db,
		repositories.NewOrderRepository(db),
		repositories.NewCartRepository(db),
		repositories.NewUserRepository(db),
		NewInventoryService(products),
		NewAuthzService(),
	)
}

func newCartService(db *gorm.DB) *CartService {
	return NewCartService(
		repositories.NewCartRepository(db),
		repositories.NewProductRepository(db),
	)
}

func newProductService(db *gorm.DB) *ProductService {
	store, _ := storage.Connect()
	return NewProductService(
		repositories.NewProductRepository(db),
		repositories.NewCategoryRepository(db),
		NewAuthzService(),
		cache.NewDisabled(),
		store,
	)
}

func newCategoryService(db *gorm.DB) *CategoryService {
	return NewCategoryService(
		repositories.NewCategoryRepository(db),
		NewAuthzService(),
		cache.NewDisabled(),
	)
}

func newUserService(db *gorm.DB) *UserService {
	return NewUserService(
		db,
		repositories.NewUserRepository(db),
		repositories.NewCartRepository(db),
		NewAuthzService(),
	)
}

func asActor(u *models.User) Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

func productStock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()

	var p models.Product
	require.NoError(t, db.First(&p, id).Error)
	return p.Stock
}
