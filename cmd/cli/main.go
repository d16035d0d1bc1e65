package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/zeyadattiaa/TradeEngine/internal/models"
	"github.com/zeyadattiaa/TradeEngine/internal/store"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	addAdminCmd := flag.NewFlagSet("add-admin", flag.ExitOnError)
	username := addAdminCmd.String("username", "", "Username for the new admin")
	email := addAdminCmd.String("email", "", "Email for the new admin")
	password := addAdminCmd.String("password", "", "Password for the new admin")
	department := addAdminCmd.String("department", "Operations", "Department the admin belongs to")

	if len(os.Args) < 2 {
		fmt.Println("expected 'add-admin' or 'seed' subcommand")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add-admin":
		addAdminCmd.Parse(os.Args[2:])
		if *username == "" || *email == "" || *password == "" {
			fmt.Println("username, email and password are required")
			addAdminCmd.PrintDefaults()
			os.Exit(1)
		}
		createAdmin(*username, *email, *password, *department)
	case "seed":
		seedProducts()
	default:
		fmt.Println("expected 'add-admin' or 'seed' subcommand")
		os.Exit(1)
	}
}

func openStore() *store.Store {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./TradeEngine.db"
	}

	db, err := store.NewStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	// Ensure schema exists if running cli before server
	if err := db.Migrate("migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func createAdmin(username, email, password, department string) {
	db := openStore()
	defer db.Close()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleAdmin,
		Profile:      models.Profile{Department: department},
	}
	if err := db.CreateUser(user); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Admin '%s' created successfully.\n", username)
}

func seedProducts() {
	db := openStore()
	defer db.Close()

	products := []models.Product{
		{Name: "Hydrating Face Cream", Price: 24.99, Category: string(models.CategoryCosmetics), StockQuantity: 50,
			Details: map[string]string{"volume": "50ml", "skin_type": "all"}},
		{Name: "Matte Lipstick", Price: 12.50, Category: string(models.CategoryCosmetics), StockQuantity: 120,
			Details: map[string]string{"shade": "ruby red"}},
		{Name: "Wireless Earbuds", Price: 89.99, Category: string(models.CategoryElectronics), StockQuantity: 35,
			Details: map[string]string{"battery": "24h with case", "bluetooth": "5.3"}},
		{Name: "Mechanical Keyboard", Price: 149.00, Category: string(models.CategoryElectronics), StockQuantity: 18,
			Details: map[string]string{"switches": "brown", "layout": "TKL"}},
		{Name: "Organic Honey Jar", Price: 15.75, Category: string(models.CategoryFood), StockQuantity: 80,
			Details: map[string]string{"weight": "500g", "origin": "local"}},
		{Name: "Dark Chocolate Box", Price: 22.00, Category: string(models.CategoryFood), StockQuantity: 64,
			Details: map[string]string{"cocoa": "70%", "pieces": "24"}},
		{Name: "Cotton T-Shirt", Price: 18.99, Category: string(models.CategoryClothes), StockQuantity: 200,
			Details: map[string]string{"material": "100% cotton", "fit": "regular"}},
		{Name: "Denim Jacket", Price: 79.50, Category: string(models.CategoryClothes), StockQuantity: 25,
			Details: map[string]string{"wash": "medium blue"}},
		{Name: "Yoga Mat", Price: 34.00, Category: string(models.CategorySports), StockQuantity: 45,
			Details: map[string]string{"thickness": "6mm", "material": "TPE"}},
		{Name: "Running Shoes", Price: 119.99, Category: string(models.CategorySports), StockQuantity: 30,
			Details: map[string]string{"drop": "8mm", "terrain": "road"}},
	}

	for i := range products {
		if err := db.CreateProduct(&products[i]); err != nil {
			log.Fatalf("Failed to seed product %q: %v", products[i].Name, err)
		}
	}

	fmt.Printf("Seeded %d products.\n", len(products))
}
