//go:build integration

package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/AnshRaj112/coffeemates-backend/internal/storage"
)

var (
	ctx = context.Background()
	db  *sqlx.DB
	s   storage.Accounts
)

func TestMain(m *testing.M) {
	shutdown := setup()

	if err := InitTables(ctx, db); err != nil {
		logrus.WithError(err).Fatal("failed to init tables")
	}
	s = New(db)

	code := m.Run()
	shutdown()
	os.Exit(code)
}

func setup() func() {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16",
		Env:          map[string]string{"POSTGRES_PASSWORD": "root"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		logrus.WithError(err).Fatal("failed to start container")
	}

	host, err := c.Host(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("failed to get host")
	}

	port, err := c.MappedPort(ctx, "5432")
	if err != nil {
		logrus.WithError(err).Fatal("failed to map port")
	}

	dsn := fmt.Sprintf("host=%s port=%d user=postgres password=root sslmode=disable", host, port.Int())
	db, err = sqlx.Connect("postgres", dsn)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to postgres")
	}

	return func() {
		_ = db.Close()
		if err := c.Terminate(ctx); err != nil {
			logrus.WithError(err).Error("failed to terminate container")
		}
	}
}

func TestPg_Accounts(t *testing.T) {
	a := &storage.Account{
		ID:           uuid.NewString(),
		UserID:       "user_mia",
		Email:        " Mia@Example.com ",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.CreateAccount(ctx, a))

	dup := *a
	dup.ID = uuid.NewString()
	dup.UserID = "user_other"
	assert.ErrorIs(t, s.CreateAccount(ctx, &dup), storage.ErrAlreadyExists)

	got, err := s.GetAccountByEmail(ctx, "MIA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user_mia", got.UserID)
	assert.Equal(t, "mia@example.com", got.Email)

	_, err = s.GetAccountByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
