package seed

import (
	"github.com/jinzhu/gorm"

	"maitred/internal/auth"
	"maitred/internal/models"
	"maitred/internal/pos"
	"maitred/internal/store"
)

// Result reports what a seed run inserted or refreshed.
type Result struct {
	MenuItems  int `json:"menuItems"`
	StockItems int `json:"stockItems"`
	Tables     int `json:"tables"`
	Users      int `json:"users"`
}

var starterMenu = []models.MenuItem{
	{Name: "Classic Burger", PriceCents: 899, Category: models.CategoryBurgers, Available: true, Image: "classic-burger.jpg"},
	{Name: "Double Cheese Burger", PriceCents: 1199, Category: models.CategoryBurgers, Available: true, Image: "double-cheese.jpg"},
	{Name: "Fries", PriceCents: 349, Category: models.CategorySides, Available: true, Image: "fries.jpg"},
	{Name: "Onion Rings", PriceCents: 399, Category: models.CategorySides, Available: true, Image: "onion-rings.jpg"},
	{Name: "Chicken Wrap", PriceCents: 749, Category: models.CategoryWraps, Available: true, Image: "chicken-wrap.jpg"},
	{Name: "Margherita", PriceCents: 1099, Category: models.CategoryPizzas, Available: true, Image: "margherita.jpg"},
	{Name: "Pepperoni", PriceCents: 1299, Category: models.CategoryPizzas, Available: true, Image: "pepperoni.jpg"},
	{Name: "Cola", PriceCents: 249, Category: models.CategoryDrinks, Available: true, Image: "cola.jpg"},
	{Name: "Lemonade", PriceCents: 299, Category: models.CategoryDrinks, Available: true, Image: "lemonade.jpg"},
	{Name: "Carbonara", PriceCents: 1149, Category: models.CategoryPasta, Available: true, Image: "carbonara.jpg"},
}

var starterStock = []models.StockItem{
	{Name: "Beef Patties", Level: 80, ThresholdPct: 20, Unit: "pc"},
	{Name: "Burger Buns", Level: 90, ThresholdPct: 25, Unit: "pc"},
	{Name: "Cheddar", Level: 70, ThresholdPct: 15, Unit: "kg"},
	{Name: "Potatoes", Level: 60, ThresholdPct: 20, Unit: "kg"},
	{Name: "Tomato Sauce", Level: 85, ThresholdPct: 10, Unit: "l"},
	{Name: "Mozzarella", Level: 55, ThresholdPct: 15, Unit: "kg"},
	{Name: "Spaghetti", Level: 95, ThresholdPct: 10, Unit: "kg"},
}

var starterTables = []models.Table{
	{Name: "T1", Shape: models.TableShapeSquare, Status: models.TableStatusEmpty},
	{Name: "T2", Shape: models.TableShapeSquare, Status: models.TableStatusEmpty},
	{Name: "T3", Shape: models.TableShapeCircle, Status: models.TableStatusEmpty},
	{Name: "T4", Shape: models.TableShapeCircle, Status: models.TableStatusEmpty},
}

// demoUser is one fixed demo account. Password is hashed at seed time.
type demoUser struct {
	Email    string
	Name     string
	Role     models.Role
	Password string
}

var demoUsers = []demoUser{
	{Email: "manager@maitred.local", Name: "Marie Manager", Role: models.RoleManager, Password: "manager-demo"},
	{Email: "admin@maitred.local", Name: "Andre Admin", Role: models.RoleAdmin, Password: "admin-demo"},
	{Email: "cashier@maitred.local", Name: "Carla Cashier", Role: models.RoleCashier, Password: "cashier-demo"},
	{Email: "waiter@maitred.local", Name: "Walid Waiter", Role: models.RoleWaiter, Password: "waiter-demo"},
}

// Run populates empty collections with starter data and unconditionally
// upserts the demo users so they always reflect the latest seed values. An
// already-populated collection is left untouched.
func Run(s *store.Store, baseURL string) (*Result, error) {
	res := &Result{}

	err := s.Write(func(tx *gorm.DB) error {
		var n int
		if err := tx.Model(&models.MenuItem{}).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			for i := range starterMenu {
				item := starterMenu[i]
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
				res.MenuItems++
			}
		}

		if err := tx.Model(&models.StockItem{}).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			for i := range starterStock {
				item := starterStock[i]
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
				res.StockItems++
			}
		}

		if err := tx.Model(&models.Table{}).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			for i := range starterTables {
				table := starterTables[i]
				if err := tx.Create(&table).Error; err != nil {
					return err
				}
				table.QRValue = pos.QRValue(baseURL, table.ID)
				if err := tx.Model(&table).Update("qr_value", table.QRValue).Error; err != nil {
					return err
				}
				res.Tables++
			}
		}

		for _, d := range demoUsers {
			hash, err := auth.HashPassword(d.Password)
			if err != nil {
				return err
			}
			var user models.User
			if tx.Where("email = ?", d.Email).First(&user).Error == nil {
				err = tx.Model(&user).Updates(map[string]interface{}{
					"name":          d.Name,
					"role":          d.Role,
					"password_hash": hash,
				}).Error
			} else {
				user = models.User{Email: d.Email, Name: d.Name, Role: d.Role, PasswordHash: hash}
				err = tx.Create(&user).Error
			}
			if err != nil {
				return err
			}
			res.Users++
		}
		return nil
	}, store.MenuItems, store.StockItems, store.Tables, store.Users)
	if err != nil {
		return nil, err
	}
	return res, nil
}
