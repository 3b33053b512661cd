package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

type seedUser struct {
	Email       string
	Name        string
	Role        string
	Polo        string
	Department  string
	SalaryCents int64
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := sqlx.Connect("pgx", cfg.Database.Source)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			tables := []string{"audit_logs", "comments", "invoices", "request_dependents", "requests", "users"}
			for _, table := range tables {
				if _, err := db.Exec("DELETE FROM " + table); err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		users := []seedUser{
			{Email: "maria@mail.com", Name: "Maria Silva", Role: "solicitante", Polo: "campinas", Department: "engineering", SalaryCents: 450000},
			{Email: "joao@mail.com", Name: "Joao Santos", Role: "solicitante", Polo: "recife", Department: "design", SalaryCents: 180000},
			{Email: "clara@mail.com", Name: "Clara Gestora", Role: "gestora", Polo: "matriz", Department: "people", SalaryCents: 900000},
		}

		for _, u := range users {
			var exists int
			if err := db.QueryRow("SELECT 1 FROM users WHERE email = $1", u.Email).Scan(&exists); err == nil {
				fmt.Println("user already exists:", u.Email)
				continue
			}

			_, err := db.Exec(`INSERT INTO users
				(auth_id, email, name, password_hash, role, polo, department, monthly_salary_cents,
				 consent_data_use, consent_notifications, is_active, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true, true, true, now(), now())`,
				uuid.NewString(), u.Email, u.Name, string(hash), u.Role, u.Polo, u.Department, u.SalaryCents)
			if err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Println("Seeded user:", u.Email, "role:", u.Role)
		}

		fmt.Println("Seeding complete. Default password for all seeded users: password")
	},
}
