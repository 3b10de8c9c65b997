package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/noah-isme/backend-carwash/internal/pricing"
)

// demoPassword is shared by every seeded account.
const demoPassword = "password123"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	hash, err := argon2id.CreateHash(demoPassword, argon2id.DefaultParams)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}

	adminID := seedEmployees(db, hash)
	seedCustomers(db, hash, adminID)
	seedServices(db, adminID)

	log.Println("Seeding completed successfully!")
}

func seedEmployees(db *sql.DB, hash string) string {
	employees := []struct {
		Name    string
		Salary  string
		IsAdmin bool
	}{
		{"admin", "45000.00", true},
		{"ravi7", "22000.00", false},
		{"meena@wash", "21000.50", false},
	}

	fmt.Println("Seeding Employees...")
	for _, e := range employees {
		_, err := db.Exec(`
			INSERT INTO employees (employee_name, password_hash, salary, is_admin)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (employee_name) DO NOTHING;
		`, e.Name, hash, e.Salary, e.IsAdmin)
		if err != nil {
			log.Printf("Failed to seed employee %s: %v", e.Name, err)
		}
	}

	var adminID string
	if err := db.QueryRow("SELECT id FROM employees WHERE employee_name = 'admin'").Scan(&adminID); err != nil {
		log.Fatalf("Failed to load admin employee: %v", err)
	}
	return adminID
}

func seedCustomers(db *sql.DB, hash, adminID string) {
	customers := []struct {
		Email string
		First string
		Last  string
		Owned bool
	}{
		{"asha@example.com", "Asha", "Kumar", true},
		{"vikram@example.com", "Vikram", "Singh", true},
		{"priya@example.com", "Priya", "Nair", false},
		{"loyal@example.com", "Loyal", "Regular", true},
	}

	fmt.Println("Seeding Customers...")
	for _, c := range customers {
		var owner any
		if c.Owned {
			owner = adminID
		}
		_, err := db.Exec(`
			INSERT INTO customers (email, first_name, last_name, password_hash, employee_id)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (email) DO NOTHING;
		`, c.Email, c.First, c.Last, hash, owner)
		if err != nil {
			log.Printf("Failed to seed customer %s: %v", c.Email, err)
		}
	}
}

// seedServices gives loyal@example.com 49 completed washes so the next order
// crosses the free wash threshold, and a few open orders for the others.
func seedServices(db *sql.DB, adminID string) {
	prices := pricing.DefaultTable()
	history := []struct {
		Email  string
		Type   pricing.ServiceType
		Status string
		Count  int
	}{
		{"loyal@example.com", pricing.OnlyBody, "completed", 49},
		{"asha@example.com", pricing.FullCarwash, "completed", 6},
		{"vikram@example.com", pricing.InsideVacuum, "pending", 1},
		{"priya@example.com", pricing.OnlyPolish, "in_progress", 1},
	}

	fmt.Println("Seeding Wash Services...")
	for _, h := range history {
		var customerID string
		var existing int
		err := db.QueryRow(`
			SELECT c.id, (SELECT COUNT(*) FROM wash_services w WHERE w.customer_id = c.id)
			FROM customers c WHERE c.email = $1
		`, h.Email).Scan(&customerID, &existing)
		if err != nil {
			log.Printf("Skipping services for %s: %v", h.Email, err)
			continue
		}
		if existing > 0 {
			continue
		}
		base, err := prices.BasePrice(h.Type)
		if err != nil {
			log.Printf("Skipping services for %s: %v", h.Email, err)
			continue
		}
		for i := 0; i < h.Count; i++ {
			createdAt := time.Now().AddDate(0, 0, -(h.Count - i))
			_, err := db.Exec(`
				INSERT INTO wash_services (service_type, status, base_price, final_price, customer_id, employee_id, created_at)
				VALUES ($1, $2, $3, $3, $4, $5, $6);
			`, string(h.Type), h.Status, int64(base), customerID, adminID, createdAt)
			if err != nil {
				log.Printf("Failed to seed service for %s: %v", h.Email, err)
				break
			}
		}
	}
}
