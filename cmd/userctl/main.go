package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/common/version"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-console/internal/adapter/reqres"
	"user-console/internal/adapter/session"
	"user-console/internal/usecase/userlist"
	"user-console/pkg/logger"
)

// cliSessionID is the single session the CLI works with.
const cliSessionID = "userctl"

func main() {
	var (
		baseURL     string
		apiKey      string
		timeout     time.Duration
		sessionPath string
		logLevel    string
		pageSize    int

		email    string
		password string

		listPage int

		editID        int64
		editPage      int
		editFirstName string
		editLastName  string
		editEmail     string
		firstSet      bool
		lastSet       bool
		emailSet      bool

		deleteID   int64
		deletePage int
		deleteYes  bool
	)

	app := kingpin.New(filepath.Base(os.Args[0]), "Manage reqres users from the command line.")
	app.HelpFlag.Short('h')
	app.Flag("reqres.base-url", "Base URL of the user API.").Default("https://reqres.in/api").Envar("REQRES_BASE_URL").StringVar(&baseURL)
	app.Flag("reqres.api-key", "API key sent as x-api-key.").Envar("REQRES_API_KEY").StringVar(&apiKey)
	app.Flag("reqres.timeout", "Timeout for API requests (Go duration, e.g. 5s). Zero disables it.").Default("10s").DurationVar(&timeout)
	app.Flag("reqres.page-size", "Users per page.").Default("9").IntVar(&pageSize)
	app.Flag("session.path", "SQLite file holding the session token.").Default(defaultSessionPath()).PlaceHolder("PATH").StringVar(&sessionPath)
	app.Flag("log.level", "Log level, one of [debug, info, warn, error].").Default("warn").EnumVar(&logLevel, "debug", "info", "warn", "error")
	app.Version(version.Print("userctl"))

	loginCmd := app.Command("login", "Log in and store the session token.")
	loginCmd.Flag("email", "Account email.").Required().StringVar(&email)
	loginCmd.Flag("password", "Account password.").Envar("USERCTL_PASSWORD").Required().StringVar(&password)

	logoutCmd := app.Command("logout", "Forget the session token.")

	usersCmd := app.Command("users", "Work with users.")
	listCmd := usersCmd.Command("list", "Show one page of users.").Default()
	listCmd.Flag("page", "Page to show.").Default("1").IntVar(&listPage)

	editCmd := usersCmd.Command("edit", "Change the name or email of a user.")
	editCmd.Arg("id", "User ID.").Required().Int64Var(&editID)
	editCmd.Flag("page", "Page the user is on.").Default("1").IntVar(&editPage)
	editCmd.Flag("first-name", "New first name.").IsSetByUser(&firstSet).StringVar(&editFirstName)
	editCmd.Flag("last-name", "New last name.").IsSetByUser(&lastSet).StringVar(&editLastName)
	editCmd.Flag("email", "New email.").IsSetByUser(&emailSet).StringVar(&editEmail)

	deleteCmd := usersCmd.Command("delete", "Delete a user.")
	deleteCmd.Arg("id", "User ID.").Required().Int64Var(&deleteID)
	deleteCmd.Flag("page", "Page the user is on.").Default("1").IntVar(&deletePage)
	deleteCmd.Flag("yes", "Do not ask for confirmation.").Short('y').BoolVar(&deleteYes)

	cmd, err := app.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("failed to parse commandline arguments: %w", err))
		app.Usage(os.Args[1:])
		os.Exit(2)
	}

	log, err := logger.NewWithConfig(logger.Config{
		Level:       logLevel,
		Format:      "console",
		OutputPath:  "stderr",
		ServiceName: "userctl",
		Environment: "cli",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := logger.ContextWithSessionID(context.Background(), cliSessionID)

	store, closeStore, err := openSessionStore(ctx, sessionPath, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeStore()

	api := reqres.New(nil, reqres.Config{BaseURL: baseURL, APIKey: apiKey, Timeout: timeout}, log)
	c := newCLI(api, session.New(cliSessionID, store), pageSize, os.Stdin, os.Stdout, log)

	switch cmd {
	case loginCmd.FullCommand():
		err = c.login(ctx, email, password)
	case logoutCmd.FullCommand():
		err = c.logout(ctx)
	case listCmd.FullCommand():
		err = c.list(ctx, listPage)
	case editCmd.FullCommand():
		var change userlist.DraftChange
		if firstSet {
			change.FirstName = &editFirstName
		}
		if lastSet {
			change.LastName = &editLastName
		}
		if emailSet {
			change.Email = &editEmail
		}
		err = c.edit(ctx, editPage, editID, change)
	case deleteCmd.FullCommand():
		err = c.delete(ctx, deletePage, deleteID, deleteYes)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "userctl-session.db"
	}
	return filepath.Join(home, ".userctl", "session.db")
}

// openSessionStore opens the sqlite session file, creating it when needed.
func openSessionStore(ctx context.Context, path string, log *zap.Logger) (*session.GormStore, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("unable to create session directory: %w", err)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.NewGormLoggerWithConfig(log, 0.2, "warn"),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open session file: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open session file: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	store := session.NewGormStore(db, log)
	if err := store.Migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("unable to prepare session file: %w", err)
	}
	return store, func() { _ = sqlDB.Close() }, nil
}
