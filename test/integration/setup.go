package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	handler "github.com/orgpoll/api/internal/adapters/handler/http"
	repo "github.com/orgpoll/api/internal/adapters/repository/postgres"
	"github.com/orgpoll/api/internal/core/services"
)

const testJWTSecret = "test-secret"

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	DBContainer testcontainers.Container
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()

	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	require.NoError(t, applyMigrations(db))

	pollRepo := repo.NewPollRepository(db)
	participantRepo := repo.NewParticipantRepository(db)
	draftRepo := repo.NewDraftRepository(db)
	voteRepo := repo.NewVoteRepository(db)
	membershipRepo := repo.NewMembershipRepository(db)
	userRepo := repo.NewUserRepository(db)

	pollSvc := services.NewPollService(pollRepo, participantRepo, voteRepo, draftRepo, membershipRepo)
	participantSvc := services.NewParticipantService(pollRepo, participantRepo, voteRepo, membershipRepo, userRepo)
	voteSvc := services.NewVoteService(pollRepo, participantRepo, draftRepo, voteRepo)
	resultSvc := services.NewResultService(pollRepo, participantRepo, voteRepo, membershipRepo, userRepo)

	router := handler.NewHandler(
		handler.NewPollHandler(pollSvc),
		handler.NewParticipantHandler(participantSvc),
		handler.NewVoteHandler(voteSvc),
		handler.NewResultHandler(resultSvc),
		[]byte(testJWTSecret),
	)

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

func (app *TestApp) createUser(t *testing.T, name string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	email := fmt.Sprintf("user-%s@example.com", userID)
	_, err := app.DB.Exec("INSERT INTO users (id, email, name) VALUES ($1, $2, $3)", userID, email, name)
	require.NoError(t, err)
	return userID
}

func (app *TestApp) tokenFor(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(15 * time.Minute).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signedToken
}

func (app *TestApp) createOrgAndBoard(t *testing.T) (uuid.UUID, uuid.UUID) {
	t.Helper()

	orgID := uuid.New()
	_, err := app.DB.Exec("INSERT INTO organizations (id, name) VALUES ($1, 'Test Org')", orgID)
	require.NoError(t, err)

	boardID := uuid.New()
	_, err = app.DB.Exec("INSERT INTO boards (id, org_id, name) VALUES ($1, $2, 'Test Board')", boardID, orgID)
	require.NoError(t, err)

	return orgID, boardID
}

func (app *TestApp) addOrgMember(t *testing.T, orgID, userID uuid.UUID, role string) {
	t.Helper()

	_, err := app.DB.Exec(
		"INSERT INTO organization_members (org_id, user_id, role, status) VALUES ($1, $2, $3, 'accepted')",
		orgID, userID, role,
	)
	require.NoError(t, err)
}

func (app *TestApp) addBoardMember(t *testing.T, boardID, userID uuid.UUID) {
	t.Helper()

	_, err := app.DB.Exec("INSERT INTO board_members (board_id, user_id) VALUES ($1, $2)", boardID, userID)
	require.NoError(t, err)
}

// doJSON sends an authenticated request with an optional JSON body and
// returns the response; the caller owns the body.
func (app *TestApp) doJSON(t *testing.T, method, path, token string, payload any) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, app.Server.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
