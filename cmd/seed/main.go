package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"time"

	"userhub/internal/database"
	"userhub/internal/domain"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	dsn := getenv("DATABASE_URL", "userhub.db")
	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// ================== ADMIN ==================
	log.Println("Creating admin account...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		ID:    "admin",
		Name:  "Admin",
		Last:  "Admin",
		Email: "admin@userhub.local",
		Roles: domain.RoleList{domain.RoleAdmin},
	}
	db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "last", "email", "roles", "updated_at"}),
	}).Create(&admin)

	cred := domain.Credential{
		ID:              admin.ID,
		PasswordHash:    string(adminHash),
		Activated:       true,
		ActivationToken: randomToken(admin.ID),
	}
	db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"password", "activated", "updated_at"}),
	}).Create(&cred)

	log.Println("Admin created: admin / admin123")

	// ================== DEMO USERS ==================
	log.Println("Creating demo users...")

	demos := []struct {
		id, name, last, email string
		activated             bool
	}{
		{"jdoe", "John", "Doe", "jdoe@example.com", true},
		{"asmith", "Alice", "Smith", "asmith@example.com", true},
		{"pending", "Paula", "Pending", "pending@example.com", false},
	}

	for _, d := range demos {
		u := domain.User{
			ID:    d.id,
			Name:  d.name,
			Last:  d.last,
			Email: d.email,
			Roles: domain.RoleList{domain.RoleUser},
		}
		db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "last", "email", "roles", "updated_at"}),
		}).Create(&u)

		hash, _ := bcrypt.GenerateFromPassword([]byte("user1234"), bcrypt.DefaultCost)
		c := domain.Credential{
			ID:              d.id,
			PasswordHash:    string(hash),
			Activated:       d.activated,
			ActivationToken: randomToken(d.id),
		}
		db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"password", "activated", "updated_at"}),
		}).Create(&c)
	}

	log.Println("Seed completed!")
	log.Println("Test accounts:")
	log.Println("Admin: admin / admin123")
	log.Println("Users: jdoe, asmith, pending / user1234 (pending is not activated)")
}

func randomToken(id string) string {
	seed := make([]byte, 32)
	_, _ = rand.Read(seed)
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%s", id, time.Now().UnixNano(), seed)))
	return hex.EncodeToString(sum[:])
}

func getenv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
