package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/thabo/boardwise/internal/audit"
	"github.com/thabo/boardwise/internal/auth"
	"github.com/thabo/boardwise/internal/database/models"
	"github.com/thabo/boardwise/pkg/crypto"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.PasswordResetRequest{},
		&models.ActionItem{},
		&models.ActionEdit{},
		&models.Document{},
		&models.DocumentDeletion{},
		&models.Meeting{},
		&models.AgendaItem{},
		&models.AuditLogEntry{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// NewTestLogger returns a logger that discards everything.
func NewTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTestRecorder wires an audit recorder against the test database.
func NewTestRecorder(db *gorm.DB) *audit.Recorder {
	return audit.NewRecorder(db, NewTestLogger(), crypto.NewSecretIssuer())
}

// CreateBoardMember creates an active user with the given role.
func CreateBoardMember(t *testing.T, db *gorm.DB, name string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base:         models.Base{ID: uuid.New()},
		Email:        "test-" + uuid.New().String()[:8] + "@boardwise.co.za",
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		Status:       models.StatusActive,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreatePendingDirector creates a registration awaiting board approval.
// withDocs controls whether the mandatory compliance documents are on file.
func CreatePendingDirector(t *testing.T, db *gorm.DB, name string, withDocs bool) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base:             models.Base{ID: uuid.New()},
		Email:            "pending-" + uuid.New().String()[:8] + "@boardwise.co.za",
		PasswordHash:     hash,
		Name:             name,
		Role:             models.RoleNonExecutive,
		Status:           models.StatusPendingApproval,
		CertifiedID:      withDocs,
		ProofOfResidence: withDocs,
		CV:               withDocs,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create pending director: %v", err)
	}

	return user
}

// CreateTestAction creates an action item
func CreateTestAction(t *testing.T, db *gorm.DB, task, owner string) *models.ActionItem {
	t.Helper()

	action := &models.ActionItem{
		Base:       models.Base{ID: uuid.New()},
		Task:       task,
		Owner:      owner,
		Deadline:   time.Now().Add(7 * 24 * time.Hour),
		Status:     models.ActionStatusPending,
		Source:     "Meeting",
		LastUpdate: "Awaiting initial draft.",
	}

	if err := db.Create(action).Error; err != nil {
		t.Fatalf("failed to create test action: %v", err)
	}

	return action
}

// CreateTestDocument creates a repository document
func CreateTestDocument(t *testing.T, db *gorm.DB, title string, docType models.DocumentType) *models.Document {
	t.Helper()

	doc := &models.Document{
		Base:       models.Base{ID: uuid.New()},
		Title:      title,
		Type:       docType,
		Date:       time.Now(),
		SizeLabel:  "2.4 MB",
		UploadedBy: "Priya Patel",
	}

	if err := db.Create(doc).Error; err != nil {
		t.Fatalf("failed to create test document: %v", err)
	}

	return doc
}

// CreateTestMeeting creates a scheduled meeting
func CreateTestMeeting(t *testing.T, db *gorm.DB, title string, status models.MeetingStatus) *models.Meeting {
	t.Helper()

	meeting := &models.Meeting{
		Base:     models.Base{ID: uuid.New()},
		Title:    title,
		Date:     time.Now().Add(48 * time.Hour),
		Location: "Sandton HQ / Online",
		Status:   status,
	}

	if err := db.Create(meeting).Error; err != nil {
		t.Fatalf("failed to create test meeting: %v", err)
	}

	return meeting
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// GenerateTestToken generates a valid JWT token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// TestContext creates a context with a timeout for tests
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestSetup holds the common test dependencies: a full seeded board.
type TestSetup struct {
	DB         *gorm.DB
	JWTService *auth.JWTService
	Recorder   *audit.Recorder

	Chair     *models.User
	Executive *models.User
	NonExec   *models.User
	Secretary *models.User
}

// NewTestBoard creates a database seeded with one member per role.
func NewTestBoard(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)

	return &TestSetup{
		DB:         db,
		JWTService: CreateTestJWTService(),
		Recorder:   NewTestRecorder(db),
		Chair:      CreateBoardMember(t, db, "Thabo Mbeki", models.RoleChairperson),
		Executive:  CreateBoardMember(t, db, "Sarah Van Der Merwe", models.RoleExecutive),
		NonExec:    CreateBoardMember(t, db, "Sipho Nkosi", models.RoleNonExecutive),
		Secretary:  CreateBoardMember(t, db, "Priya Patel", models.RoleSecretary),
	}
}

// Cleanup closes the test database
func (ts *TestSetup) Cleanup() {
	if ts.DB != nil {
		sqlDB, err := ts.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}
