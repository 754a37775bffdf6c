package db

import (
	"fmt"
	"io"
	"io/fs"
	"strconv"
)

// RunMigrateCommand handles the 'migrate' subcommand: up, down, status,
// to <version>, force <version> and baseline <version>.
func RunMigrateCommand(args []string, dbPath string, out io.Writer) error {
	if len(args) < 1 || args[0] == "help" {
		PrintMigrateHelp(out)
		if len(args) < 1 {
			return fmt.Errorf("missing migrate action")
		}
		return nil
	}

	migrationsFS, err := getMigrationsFS()
	if err != nil {
		return err
	}
	// migrations manage the schema, so open without applying them
	database, err := OpenDB(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	versionArg := func() (uint, error) {
		if len(args) < 2 {
			return 0, fmt.Errorf("usage: diffcalc migrate %s <version_number>", args[0])
		}
		v, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		return uint(v), nil
	}

	switch args[0] {
	case "up":
		if err := database.MigrateUp(migrationsFS); err != nil {
			return err
		}
		return printVersion(out, database, migrationsFS)
	case "down":
		if err := database.MigrateDown(migrationsFS); err != nil {
			return err
		}
		return printVersion(out, database, migrationsFS)
	case "status":
		return printStatus(out, database, migrationsFS)
	case "to":
		v, err := versionArg()
		if err != nil {
			return err
		}
		if err := database.MigrateTo(migrationsFS, v); err != nil {
			return err
		}
		return printVersion(out, database, migrationsFS)
	case "force":
		v, err := versionArg()
		if err != nil {
			return err
		}
		if err := database.MigrateForce(migrationsFS, int(v)); err != nil {
			return err
		}
		fmt.Fprintf(out, "Migration version forced to %d\n", v)
		return nil
	case "baseline":
		v, err := versionArg()
		if err != nil {
			return err
		}
		return database.BaselineAtVersion(v)
	default:
		PrintMigrateHelp(out)
		return fmt.Errorf("unknown migrate action: %s", args[0])
	}
}

func printVersion(out io.Writer, database *DB, migrationsFS fs.FS) error {
	version, dirty, err := database.MigrateVersion(migrationsFS)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Current version: %d (dirty: %v)\n", version, dirty)
	return nil
}

func printStatus(out io.Writer, database *DB, migrationsFS fs.FS) error {
	status, err := database.GetMigrationStatus(migrationsFS)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "=== Migration Status ===")
	fmt.Fprintf(out, "Current version: %d\n", status["current_version"])
	fmt.Fprintf(out, "Latest available: %d\n", status["latest_version"])
	fmt.Fprintf(out, "Dirty: %v\n", status["dirty"])
	if status["dirty"] == true {
		fmt.Fprintln(out, "\nWARNING: a migration failed mid-execution; inspect the database and run 'diffcalc migrate force <version>'.")
	}
	return nil
}

// PrintMigrateHelp prints usage for the migrate subcommand.
func PrintMigrateHelp(out io.Writer) {
	fmt.Fprintln(out, `Usage: diffcalc [-db path] migrate <action> [version]

Actions:
  up                 Apply all pending migrations
  down               Roll back the most recent migration
  status             Show current and latest migration versions
  to <version>       Migrate up or down to a specific version
  force <version>    Set the version without running migrations (dirty recovery)
  baseline <version> Record a version on a database created without migrations
  help               Show this help`)
}
