//go:build ignore

package main

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/thabo/boardwise/internal/auth"
	"github.com/thabo/boardwise/internal/database"
	"github.com/thabo/boardwise/internal/database/models"
	"github.com/thabo/boardwise/pkg/config"
	"github.com/thabo/boardwise/pkg/util"
	"gorm.io/gorm"
)

// Seeds a demo board: four active members (one per role), one registration
// awaiting approval with the chairperson's vote already on record, and a
// handful of actions, documents and a scheduled meeting.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	hash, err := auth.HashPassword("Boardwise1!")
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	board := []models.User{
		{
			Email: "thabo@boardwise.co.za", PasswordHash: hash,
			Name: "Thabo Mbeki", Initials: "TM",
			Role: models.RoleChairperson, Status: models.StatusActive,
			CertifiedID: true, ProofOfResidence: true, CV: true,
		},
		{
			Email: "sarah@boardwise.co.za", PasswordHash: hash,
			Name: "Sarah Van Der Merwe", Initials: "SV",
			Role: models.RoleExecutive, Status: models.StatusActive,
			CertifiedID: true, ProofOfResidence: true, CV: true,
		},
		{
			Email: "sipho@boardwise.co.za", PasswordHash: hash,
			Name: "Sipho Nkosi", Initials: "SN",
			Role: models.RoleNonExecutive, Status: models.StatusActive,
			CertifiedID: true, ProofOfResidence: true, CV: true,
		},
		{
			Email: "priya@boardwise.co.za", PasswordHash: hash,
			Name: "Priya Patel", Initials: "PP",
			Role: models.RoleSecretary, Status: models.StatusActive,
			CertifiedID: true, ProofOfResidence: true, CV: true,
		},
	}

	var chairID string
	for i := range board {
		if err := db.Where("email = ?", board[i].Email).FirstOrCreate(&board[i]).Error; err != nil {
			log.Fatalf("failed to seed %s: %v", board[i].Email, err)
		}
		if board[i].Role == models.RoleChairperson {
			chairID = board[i].ID.String()
		}
		fmt.Printf("seeded %s (%s)\n", board[i].Name, board[i].Role)
	}

	pending := models.User{
		Email: "james@boardwise.co.za", PasswordHash: hash,
		Name: "James Mwangi", Initials: "JM",
		Role: models.RoleNonExecutive, Status: models.StatusPendingApproval,
		CertifiedID: true, ProofOfResidence: true, CV: true,
		OnboardingApprovals: models.UUIDArray{board[0].ID},
	}
	if err := db.Where("email = ?", pending.Email).FirstOrCreate(&pending).Error; err != nil {
		log.Fatalf("failed to seed pending director: %v", err)
	}
	fmt.Printf("seeded %s (pending, chair vote %s recorded)\n", pending.Name, chairID)

	seedActions(db)
	seedDocuments(db)
	seedMeeting(db)

	fmt.Println("seed complete")
}

func seedActions(db *gorm.DB) {
	items := []models.ActionItem{
		{
			Task: "Submit annual CIPC filings", Owner: "Priya Patel",
			Deadline: time.Now().Add(5 * 24 * time.Hour),
			Status:   models.ActionStatusInProgress,
			Source:   "Q2 Board Meeting", LastUpdate: "Via WhatsApp: Filings drafted, awaiting sign-off.",
		},
		{
			Task: "Review directors and officers insurance cover", Owner: "Sipho Nkosi",
			Deadline: time.Now().Add(14 * 24 * time.Hour),
			Status:   models.ActionStatusPending,
			Source:   "Q2 Board Meeting", LastUpdate: "Awaiting broker quotes.",
		},
		{
			Task: "Finalize ESG reporting framework", Owner: "Sarah Van Der Merwe",
			Deadline: time.Now().Add(-3 * 24 * time.Hour),
			Status:   models.ActionStatusOverdue,
			Source:   "Strategy Offsite", LastUpdate: "Deadline passed without completion.",
		},
	}
	for i := range items {
		if err := db.Where("task = ?", items[i].Task).FirstOrCreate(&items[i]).Error; err != nil {
			log.Fatalf("failed to seed action: %v", err)
		}
	}
	fmt.Printf("seeded %d action items\n", len(items))
}

func seedDocuments(db *gorm.DB) {
	docs := []models.Document{
		{Title: "Q2 Board Pack", Type: models.DocumentTypePack, Date: time.Now().Add(-30 * 24 * time.Hour), SizeLabel: "4.2 MB", UploadedBy: "Priya Patel"},
		{Title: "Minutes - Q2 Board Meeting", Type: models.DocumentTypeMinutes, Date: time.Now().Add(-28 * 24 * time.Hour), SizeLabel: "310 KB", UploadedBy: "Priya Patel"},
		{Title: "Delegation of Authority Policy", Type: models.DocumentTypePolicy, Date: time.Now().Add(-90 * 24 * time.Hour), SizeLabel: "180 KB", UploadedBy: "Thabo Mbeki"},
		{Title: "FY25 Management Accounts", Type: models.DocumentTypeFinancials, Date: time.Now().Add(-14 * 24 * time.Hour), SizeLabel: "1.1 MB", UploadedBy: "Sarah Van Der Merwe"},
	}
	for i := range docs {
		if err := db.Where("title = ?", docs[i].Title).FirstOrCreate(&docs[i]).Error; err != nil {
			log.Fatalf("failed to seed document: %v", err)
		}
	}
	fmt.Printf("seeded %d documents\n", len(docs))
}

func seedMeeting(db *gorm.DB) {
	meeting := models.Meeting{
		Title:    "Q3 Board Meeting",
		Date:     time.Now().Add(10 * 24 * time.Hour),
		Location: "Sandton HQ / Online",
		Status:   models.MeetingStatusScheduled,
		Agenda: []models.AgendaItem{
			{Title: "Welcome and apologies", Presenter: "Thabo Mbeki", DurationMinutes: 5, Position: 0},
			{Title: "Declarations of interest", Presenter: "Priya Patel", DurationMinutes: 5, IsComplianceCheck: true, Position: 1},
			{Title: "Matters arising", Presenter: "Priya Patel", DurationMinutes: 15, Position: 2},
			{Title: "Financial report", Presenter: "Sarah Van Der Merwe", DurationMinutes: 30, Position: 3},
			{Title: "General business", Presenter: "Thabo Mbeki", DurationMinutes: 10, Position: 4},
		},
	}
	if err := db.Where("title = ?", meeting.Title).FirstOrCreate(&meeting).Error; err != nil {
		log.Fatalf("failed to seed meeting: %v", err)
	}
	fmt.Println("seeded meeting with agenda")
}
