package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/coffeemates-backend/internal/database"
	"github.com/AnshRaj112/coffeemates-backend/internal/models"
	"github.com/AnshRaj112/coffeemates-backend/internal/storage"
	"github.com/AnshRaj112/coffeemates-backend/internal/storage/mongo"
	"github.com/AnshRaj112/coffeemates-backend/internal/storage/postgres"
	"github.com/AnshRaj112/coffeemates-backend/pkg/utils"
)

// nolint:lll,gochecknoglobals
var opts = struct {
	Mongo         string `long:"mongo" env:"MONGODB_URI" default:"mongodb://localhost:27017" description:"mongodb uri"`
	MongoDatabase string `long:"mongo.database" env:"MONGODB_DATABASE" default:"coffeemates" description:"mongodb database name"`

	Accounts    bool   `long:"accounts" description:"also create login accounts for the fixture users"`
	Postgres    string `long:"postgres" env:"POSTGRES_URI" default:"postgres://localhost:5432/coffeemates?sslmode=disable" description:"postgres dsn, used with --accounts"`
	EmailDomain string `long:"email.domain" env:"SEED_EMAIL_DOMAIN" default:"coffeemates.dev" description:"domain of the fixture account emails"`

	LogLevel string `long:"log.level" env:"LOG_LEVEL" default:"info" description:"Log level" choice:"debug" choice:"info" choice:"warning" choice:"error"`
}{}

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "Coffeemates seed"
	parser.LongDescription = "Writes the fixture users and posts into MongoDB"

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		logrus.WithError(err).Fatal("error occurred while parsing flags")
	}

	lvl, _ := logrus.ParseLevel(opts.LogLevel) // choices are valid levels
	logrus.SetLevel(lvl)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mdb, err := database.ConnectMongo(ctx, opts.Mongo, opts.MongoDatabase)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer database.DisconnectMongo(mdb)

	store := mongo.New(mdb)
	if err := store.EnsureIndexes(ctx); err != nil {
		logrus.WithError(err).Fatal("failed to ensure indexes")
	}

	now := time.Now().UTC()
	users := fixtureUsers()

	if err := seedUsers(ctx, store, users, now); err != nil {
		logrus.WithError(err).Fatal("failed to seed users")
	}
	if err := seedPosts(ctx, store, fixturePosts(), now); err != nil {
		logrus.WithError(err).Fatal("failed to seed posts")
	}

	if opts.Accounts {
		if err := seedAccounts(ctx, users, now); err != nil {
			logrus.WithError(err).Fatal("failed to seed accounts")
		}
	}

	logrus.Info("all fixture data is in place")
}

func seedUsers(ctx context.Context, s storage.Users, users []fixtureUser, now time.Time) error {
	for _, f := range users {
		u := f.user
		u.CreatedAt, u.UpdatedAt = now, now

		err := s.CreateUser(ctx, &u)
		if errors.Is(err, storage.ErrAlreadyExists) {
			logrus.WithField("user_id", u.ID).Info("user exists, skipped")
			continue
		}
		if err != nil {
			return err
		}
		logrus.WithField("user_id", u.ID).Info("user created")
	}
	return nil
}

// seedPosts stores the posts with creation times a few minutes apart so the
// feed order matches the fixture order.
func seedPosts(ctx context.Context, s storage.Posts, posts []models.Post, now time.Time) error {
	for i := range posts {
		p := posts[i]
		p.CreatedAt = now.Add(-time.Duration(i) * 7 * time.Minute)
		p.LikedBy = []string{}
		if p.Comments == nil {
			p.Comments = []models.Comment{}
		}
		for j := range p.Comments {
			p.Comments[j].CreatedAt = p.CreatedAt.Add(time.Duration(j+1) * time.Minute)
		}

		err := s.CreatePost(ctx, &p)
		if errors.Is(err, storage.ErrAlreadyExists) {
			logrus.WithField("post_id", p.ID).Info("post exists, skipped")
			continue
		}
		if err != nil {
			return err
		}
		logrus.WithField("post_id", p.ID).Info("post created")
	}
	return nil
}

func seedAccounts(ctx context.Context, users []fixtureUser, now time.Time) error {
	db, err := database.ConnectPostgres(ctx, opts.Postgres)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.InitTables(ctx, db); err != nil {
		return err
	}
	accounts := postgres.New(db)

	for _, f := range users {
		hash, err := utils.HashPassword(f.password)
		if err != nil {
			return err
		}

		email := strings.TrimPrefix(f.user.ID, "user_") + "@" + opts.EmailDomain
		err = accounts.CreateAccount(ctx, &storage.Account{
			ID:           uuid.NewString(),
			UserID:       f.user.ID,
			Email:        email,
			PasswordHash: hash,
			CreatedAt:    now,
		})
		if errors.Is(err, storage.ErrAlreadyExists) {
			logrus.WithField("email", email).Info("account exists, skipped")
			continue
		}
		if err != nil {
			return err
		}
		logrus.WithField("email", email).Info("account created")
	}
	return nil
}
