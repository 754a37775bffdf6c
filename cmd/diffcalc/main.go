// Command diffcalc serves a resolver session over HTTP and offers one-shot
// conversions between canonical and physical diffractometer angles.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/banshee-data/diffcalc/internal/angles"
	"github.com/banshee-data/diffcalc/internal/api"
	"github.com/banshee-data/diffcalc/internal/config"
	"github.com/banshee-data/diffcalc/internal/db"
	"github.com/banshee-data/diffcalc/internal/resolver"
	"github.com/banshee-data/diffcalc/internal/version"
)

var (
	configPath  = flag.String("config", config.DefaultConfigPath, "Instrument config JSON")
	dbPath      = flag.String("db", "diffcalc.db", "SQLite database for profiles and the resolve log (empty to disable)")
	listen      = flag.String("listen", ":8080", "Listen address")
	devMode     = flag.Bool("dev", false, "Read migrations from internal/db/migrations on disk")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: diffcalc [flags] <command> [args]

Commands:
  serve                          Run the HTTP API (default)
  resolve alpha delta gamma omega chi phi
                                 Convert a canonical orientation to physical angles
  canonical <physical angles...> Convert physical angles to a canonical orientation
  status                         Print the configured session state
  migrate <action> [version]     Manage the database schema

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("diffcalc"))
		return
	}
	db.DevMode = *devMode

	args := flag.Args()
	cmd := "serve"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	if cmd == "migrate" {
		if err := db.RunMigrateCommand(args, *dbPath, os.Stdout); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		return
	}

	cfg, err := config.LoadInstrumentConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	switch cmd {
	case "serve":
		if err := serve(cfg); err != nil {
			log.Fatalf("serve: %v", err)
		}
	case "resolve", "canonical", "status":
		if err := runOneShot(cmd, args, cfg, os.Stdout); err != nil {
			log.Fatalf("%s: %v", cmd, err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid angle %q", angles.ErrValidation, a)
		}
		out[i] = v
	}
	return out, nil
}

// runOneShot executes a single conversion against a fresh session and writes
// the result as indented JSON.
func runOneShot(cmd string, args []string, cfg *config.InstrumentConfig, out io.Writer) error {
	r, err := resolver.FromConfig(cfg, nil)
	if err != nil {
		return err
	}
	values, err := parseFloats(args)
	if err != nil {
		return err
	}

	var result interface{}
	switch cmd {
	case "resolve":
		if len(values) != len(angles.CanonicalNames) {
			return fmt.Errorf("%w: resolve needs %d angles (%v), got %d",
				angles.ErrValidation, len(angles.CanonicalNames), angles.CanonicalNames, len(values))
		}
		var v [6]float64
		copy(v[:], values)
		p, err := r.Resolve(angles.FromValues(v))
		if err != nil {
			return err
		}
		names := r.Geometry().PhysicalNames()
		named := make(map[angles.Name]float64, len(names))
		for i, n := range names {
			named[n] = p[i]
		}
		result = map[string]interface{}{"angles": named, "sector": r.Selector().Sector()}
	case "canonical":
		o, err := r.ToCanonical(values)
		if err != nil {
			return err
		}
		result = o
	case "status":
		result = r.Status()
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func serve(cfg *config.InstrumentConfig) error {
	if *listen == "" {
		return errors.New("listen address is required")
	}

	var database *db.DB
	if *dbPath != "" {
		var err error
		database, err = db.NewDB(*dbPath)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
	}

	server, err := api.NewServer(cfg, database)
	if err != nil {
		return err
	}
	mux := server.ServeMux()
	if database != nil {
		if err := database.AttachAdminRoutes(mux); err != nil {
			return err
		}
	}
	log.Printf("diffcalc %s serving %s (session %s) on %s",
		version.Version, cfg.GetName(), server.Resolver().SessionID(), *listen)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:    *listen,
		Handler: api.LoggingMiddleware(mux),
	}
	errc := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		if err := httpServer.Close(); err != nil {
			log.Printf("HTTP server force close error: %v", err)
		}
	}
	log.Printf("Graceful shutdown complete")
	return nil
}
