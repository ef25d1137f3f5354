// Package admin implements the "db" maintenance subcommands.
package admin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"blogapi/app/config"
	"blogapi/app/repositories"

	"github.com/rs/zerolog"
)

// ErrUsage is returned for a missing or unknown subcommand.
var ErrUsage = errors.New("invalid db command")

// ErrBadgerOnly is returned when a maintenance command needs the badger store.
var ErrBadgerOnly = errors.New("command only supported for the badger store")

// Commands runs database maintenance against the configured store. Prompts
// are read from In and messages written to Out.
type Commands struct {
	Store     config.StoreConfig
	BackupDir string
	In        io.Reader
	Out       io.Writer
	Log       *zerolog.Logger
}

// New returns Commands wired to stdin and stdout.
func New(cfg config.StoreConfig, log *zerolog.Logger) *Commands {
	return &Commands{
		Store:     cfg,
		BackupDir: filepath.Join(filepath.Dir(cfg.Path), "backups"),
		In:        os.Stdin,
		Out:       os.Stdout,
		Log:       log,
	}
}

// HandleCommand dispatches a db subcommand.
func (c *Commands) HandleCommand(ctx context.Context, args []string) error {
	if len(args) < 1 {
		c.PrintHelp()
		return ErrUsage
	}

	switch args[0] {
	case "init":
		return c.Init(ctx)
	case "clean":
		return c.Clean()
	case "backup":
		_, err := c.Backup()
		return err
	case "restore":
		if len(args) < 2 {
			fmt.Fprintln(c.Out, "Error: backup file path required for restore")
			return ErrUsage
		}
		return c.Restore(args[1])
	case "help":
		c.PrintHelp()
		return nil
	default:
		fmt.Fprintf(c.Out, "Unknown db command: %s\n\n", args[0])
		c.PrintHelp()
		return ErrUsage
	}
}

// PrintHelp prints help for the db subcommands
func (c *Commands) PrintHelp() {
	fmt.Fprintln(c.Out, `Usage: blogapi db <command> [options]

Commands:
  init                  Initialize a new empty database (any driver)
  clean                 Remove the badger database
  backup                Create a backup of the badger database
  restore <file>        Restore the badger database from a backup
  help                  Display this help message`)
}

// Init creates the database. For badger this creates the directory, for the
// SQL drivers it creates the schema.
func (c *Commands) Init(ctx context.Context) error {
	if c.Store.Driver == config.DriverBadger {
		if _, err := os.Stat(c.Store.Path); err == nil {
			fmt.Fprintln(c.Out, "Database already exists. Use 'clean' first if you want to reinitialize.")
			return nil
		}
		if err := os.MkdirAll(c.Store.Path, 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	store, err := repositories.Open(ctx, c.Store, c.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	fmt.Fprintln(c.Out, "Database initialized successfully")
	return nil
}

// Clean removes the badger database after confirmation.
func (c *Commands) Clean() error {
	if err := c.requireBadger(); err != nil {
		return err
	}
	if _, err := os.Stat(c.Store.Path); os.IsNotExist(err) {
		fmt.Fprintln(c.Out, "Database is already clean (does not exist)")
		return nil
	}

	if !c.confirm("Are you sure you want to clean the database? This cannot be undone. [y/N] ") {
		fmt.Fprintln(c.Out, "Operation cancelled")
		return nil
	}

	if err := os.RemoveAll(c.Store.Path); err != nil {
		return fmt.Errorf("failed to clean database: %w", err)
	}
	fmt.Fprintln(c.Out, "Database cleaned successfully")
	return nil
}

// Backup writes a full badger backup into BackupDir and returns its path.
func (c *Commands) Backup() (string, error) {
	if err := c.requireBadger(); err != nil {
		return "", err
	}
	if _, err := os.Stat(c.Store.Path); os.IsNotExist(err) {
		fmt.Fprintln(c.Out, "No database exists to backup")
		return "", nil
	}

	if err := os.MkdirAll(c.BackupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	store, err := repositories.OpenBadger(c.Store.Path, c.Log)
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	backupFile := filepath.Join(c.BackupDir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := os.Create(backupFile)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.Close()

	if _, err := store.DB().Backup(f, 0); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}

	fmt.Fprintf(c.Out, "Database backed up successfully to %s\n", backupFile)
	return backupFile, nil
}

// Restore replaces the badger database with the contents of backupFile,
// asking first when a database already exists.
func (c *Commands) Restore(backupFile string) error {
	if err := c.requireBadger(); err != nil {
		return err
	}
	if _, err := os.Stat(backupFile); os.IsNotExist(err) {
		return fmt.Errorf("backup file does not exist: %s", backupFile)
	}

	if _, err := os.Stat(c.Store.Path); err == nil {
		if !c.confirm("Existing database found. Do you want to replace it? [y/N] ") {
			fmt.Fprintln(c.Out, "Operation cancelled")
			return nil
		}
		if err := os.RemoveAll(c.Store.Path); err != nil {
			return fmt.Errorf("failed to remove existing database: %w", err)
		}
	}

	if err := os.MkdirAll(c.Store.Path, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := repositories.OpenBadger(c.Store.Path, c.Log)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()

	if err := store.DB().Load(f, 4); err != nil {
		return fmt.Errorf("failed to restore database: %w", err)
	}

	fmt.Fprintln(c.Out, "Database restored successfully")
	return nil
}

func (c *Commands) requireBadger() error {
	if c.Store.Driver != config.DriverBadger {
		return fmt.Errorf("%w (driver is %s)", ErrBadgerOnly, c.Store.Driver)
	}
	return nil
}

func (c *Commands) confirm(prompt string) bool {
	fmt.Fprint(c.Out, prompt)
	scanner := bufio.NewScanner(c.In)
	if !scanner.Scan() {
		return false
	}
	answer := strings.TrimSpace(scanner.Text())
	return answer == "y" || answer == "Y"
}
