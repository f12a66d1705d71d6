package integration

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/narabot/narabot/internal/domain"
	pgRepo "github.com/narabot/narabot/internal/repository/postgres"
)

var testDB *pgRepo.DB

func TestMain(m *testing.M) {
	if os.Getenv("SHORT_TESTS") == "1" {
		os.Exit(0)
	}

	ctx := context.Background()

	pgContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		panic(err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		panic(err)
	}

	testDB, err = pgRepo.New(ctx, connStr)
	if err != nil {
		panic(err)
	}

	if err := testDB.EnsureSchema(ctx); err != nil {
		panic(err)
	}

	code := m.Run()

	testDB.Close()
	pgContainer.Terminate(ctx)

	os.Exit(code)
}

func TestPrefRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	repo := pgRepo.NewPrefRepo(testDB)

	_, err := repo.Get(ctx, 99999)
	if !errors.Is(err, domain.ErrPrefNotFound) {
		t.Errorf("Get() error = %v, want ErrPrefNotFound", err)
	}

	prefs := &domain.ChatPrefs{
		ChatID:       12345,
		DefaultMode:  domain.PreSpecNotice,
		Rows:         50,
		LookbackDays: 14,
	}
	if err := repo.Upsert(ctx, prefs); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := repo.Get(ctx, 12345)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.DefaultMode != domain.PreSpecNotice {
		t.Errorf("DefaultMode = %v, want prespec", got.DefaultMode)
	}
	if got.Rows != 50 {
		t.Errorf("Rows = %d, want 50", got.Rows)
	}
	if got.LookbackDays != 14 {
		t.Errorf("LookbackDays = %d, want 14", got.LookbackDays)
	}

	// апсерт поверх существующей записи
	prefs.Rows = 10
	prefs.DefaultMode = domain.BidNotice
	if err := repo.Upsert(ctx, prefs); err != nil {
		t.Fatalf("Upsert() update error = %v", err)
	}

	got, err = repo.Get(ctx, 12345)
	if err != nil {
		t.Fatalf("Get() after update error = %v", err)
	}
	if got.Rows != 10 {
		t.Errorf("Rows after update = %d, want 10", got.Rows)
	}
	if got.DefaultMode != domain.BidNotice {
		t.Errorf("DefaultMode after update = %v, want bid", got.DefaultMode)
	}
}

func TestPrefRepository_Integration_InvalidStoredMode(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	repo := pgRepo.NewPrefRepo(testDB)

	// битое значение режима прямо в базе
	_, err := testDB.Pool.Exec(ctx, `
        INSERT INTO chat_prefs (chat_id, default_mode, rows_per_page, lookback_days)
        VALUES (777, 'garbage', 30, 7)
    `)
	if err != nil {
		t.Fatalf("seed error = %v", err)
	}

	got, err := repo.Get(ctx, 777)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.DefaultMode != domain.BidNotice {
		t.Errorf("DefaultMode = %v, want fallback to bid", got.DefaultMode)
	}
}

func TestPrefRepository_Integration_Isolation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	repo := pgRepo.NewPrefRepo(testDB)

	a := &domain.ChatPrefs{ChatID: 1001, DefaultMode: domain.BidNotice, Rows: 5, LookbackDays: 3}
	b := &domain.ChatPrefs{ChatID: 1002, DefaultMode: domain.PreSpecNotice, Rows: 99, LookbackDays: 30}

	if err := repo.Upsert(ctx, a); err != nil {
		t.Fatalf("Upsert(a) error = %v", err)
	}
	if err := repo.Upsert(ctx, b); err != nil {
		t.Fatalf("Upsert(b) error = %v", err)
	}

	gotA, err := repo.Get(ctx, 1001)
	if err != nil {
		t.Fatalf("Get(a) error = %v", err)
	}
	gotB, err := repo.Get(ctx, 1002)
	if err != nil {
		t.Fatalf("Get(b) error = %v", err)
	}

	if gotA.Rows != 5 || gotB.Rows != 99 {
		t.Errorf("rows leaked between chats: a=%d b=%d", gotA.Rows, gotB.Rows)
	}
}
