package main

import (
	"log"
	"os"
	"time"

	"github.com/scholarbase/backend/internal/accounts"
	"github.com/scholarbase/backend/internal/database"
	"github.com/scholarbase/backend/internal/scholarships"
	"github.com/scholarbase/backend/internal/server"
)

// Seeds demo accounts, pending role requests, and a set of engineering
// scholarships owned by the demo donor.
func main() {
	if os.Getenv("APP_ENV") == "" {
		os.Setenv("APP_ENV", "development")
	}

	cfg, err := server.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := server.NewLogger(os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	manager, err := database.NewManager(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	repo := accounts.NewRepository(manager.DB())
	service := accounts.NewService(&cfg.Auth, logger, repo)

	donorID := seedAccounts(service, repo)
	seedPendingRoles(service)
	seedScholarships(scholarships.NewRepository(manager.DB()), donorID)

	log.Println("Seeding complete")
}

func seedAccounts(service *accounts.Service, repo accounts.Repository) int64 {
	seeds := []struct {
		account  accounts.Account
		password string
	}{
		{accounts.Account{Username: "admin", Email: "admin@example.com", Role: accounts.RoleAdmin, RoleApproved: true}, "adminpass"},
		{accounts.Account{Username: "donor_new", Email: "donor_new@example.com", Role: accounts.RoleDonor, RoleApproved: true}, "donorpass"},
		{accounts.Account{Username: "student_new", Email: "student_new@example.com", Role: accounts.RoleApplicant, RoleApproved: true}, "studentpass"},
	}

	for i := range seeds {
		if _, err := repo.GetByUsername(seeds[i].account.Username); err == nil {
			log.Printf("Account %q already exists", seeds[i].account.Username)
			continue
		}
		if err := service.Register(&seeds[i].account, seeds[i].password); err != nil {
			log.Fatalf("Failed to seed account %q: %v", seeds[i].account.Username, err)
		}
		log.Printf("Created account %q", seeds[i].account.Username)
	}

	donor, err := repo.GetByUsername("donor_new")
	if err != nil {
		log.Fatalf("Donor account missing after seed: %v", err)
	}
	return int64(donor.ID)
}

func seedPendingRoles(service *accounts.Service) {
	pending := []struct {
		username string
		role     accounts.Role
	}{
		{"pending_admin1", accounts.RoleAdmin},
		{"pending_admin2", accounts.RoleAdmin},
		{"pending_reviewer1", accounts.RoleReviewer},
		{"pending_reviewer2", accounts.RoleReviewer},
		{"pending_donor1", accounts.RoleDonor},
		{"pending_donor2", accounts.RoleDonor},
	}

	for _, p := range pending {
		requested := p.role
		account := accounts.Account{
			Username:      p.username,
			Email:         p.username + "@example.com",
			FirstName:     p.username,
			LastName:      "User",
			Role:          accounts.RoleApplicant,
			RequestedRole: &requested,
		}
		if err := service.Register(&account, "pass_"+p.username); err != nil {
			log.Printf("Skipping %q: %v", p.username, err)
			continue
		}
		log.Printf("Created pending request for %q (%s)", p.username, p.role)
	}
}

func seedScholarships(repo scholarships.Repository, donorID int64) {
	deadline := func(days int) *time.Time {
		d := time.Now().AddDate(0, 0, days)
		return &d
	}
	gpa := func(v float64) *float64 { return &v }

	seeds := []scholarships.Scholarship{
		{Name: "Pioneering Engineering Excellence Award", Description: "Awarded to the most innovative engineering mind demonstrating groundbreaking approaches.", Amount: 7000, Deadline: deadline(90), MinGPA: gpa(3.4), AllowedMajor: "Engineering"},
		{Name: "Advanced Technologies Scholarship", Description: "Recognizes achievements in forward-thinking engineering with a problem-solving focus.", Amount: 6500, Deadline: deadline(80), MinGPA: gpa(3.2), AllowedMajor: "Engineering"},
		{Name: "Innovative Systems Design Grant", Description: "For students who exhibit exceptional talent creating transformative engineering solutions.", Amount: 6000, Deadline: deadline(100), MinGPA: gpa(3.3), AllowedMajor: "Engineering"},
		{Name: "Sustainable Engineering Future Award", Description: "Design methods that promote energy efficiency, environmental protection, and sustainability.", Amount: 5500, Deadline: deadline(70), MinGPA: gpa(3.0), AllowedMajor: "Engineering"},
		{Name: "Structural Ingenuity Scholarship", Description: "Celebrates mastery of structural design principles and inventive construction methods.", Amount: 5000, Deadline: deadline(60), MinGPA: gpa(3.1), AllowedMajor: "Engineering"},
	}

	for i := range seeds {
		seeds[i].IsActive = true
		seeds[i].DonorID = &donorID
		if err := repo.Create(&seeds[i]); err != nil {
			log.Fatalf("Failed to seed scholarship %q: %v", seeds[i].Name, err)
		}
		log.Printf("Created scholarship %q", seeds[i].Name)
	}
}
