package cli

import (
	"context"
	"log/slog"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/roach88/xapparel/internal/catalog"
	"github.com/roach88/xapparel/internal/config"
	"github.com/roach88/xapparel/internal/kv"
	"github.com/roach88/xapparel/internal/storefront"
	"github.com/roach88/xapparel/internal/submit"
)

// Error codes for CLI output.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeConfig      = "E002" // Invalid configuration
	ErrCodeLoadFailed  = "E004" // Catalog could not be loaded
	ErrCodeNotFound    = "E005" // Product or path not found
	ErrCodeStoreFailed = "E006" // Database could not be opened

	ErrCodeInvalidCatalog = "E101" // Catalog definition violates the schema

	ErrCodeInvalidForm      = "E201" // Form failed validation
	ErrCodeEmptyCart        = "E202" // Checkout with an empty cart
	ErrCodeInvalidSelection = "E203" // Missing or unavailable size/color
	ErrCodeNotReleased      = "E204" // Product has not dropped yet

	ErrCodeTestFailed = "E301" // One or more scenarios failed
)

// Environment is everything a storefront command needs: resolved settings,
// the open store and a session over it.
type Environment struct {
	Config  config.Config
	Store   *kv.SQLite
	Session *storefront.Session
	Logger  *slog.Logger
}

// Close releases the database.
func (e *Environment) Close() error {
	return e.Store.Close()
}

// resolveConfig loads .env and environment settings, then applies flags.
func resolveConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if opts.Database != "" {
		cfg.DBPath = opts.Database
	}
	if opts.Catalog != "" {
		cfg.CatalogPath = opts.Catalog
	}
	if opts.Locale != "" {
		tag, err := config.ParseLocale(opts.Locale)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Locale = tag
	}
	if opts.Verbose {
		cfg.LogLevel = slog.LevelDebug
	}
	return cfg, nil
}

// loadCatalog returns the catalog at path, or the embedded one.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

// openEnvironment resolves settings, loads the catalog and opens a session
// over the configured database. Callers must Close the result.
func openEnvironment(ctx context.Context, opts *RootOptions, cmd *cobra.Command) (*Environment, error) {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err).WithErrCode(ErrCodeConfig)
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load catalog", err).WithErrCode(ErrCodeLoadFailed)
	}

	st, err := kv.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err).WithErrCode(ErrCodeStoreFailed)
	}
	logger.DebugContext(ctx, "session opened",
		"db", cfg.DBPath, "products", cat.Len(), "locale", cfg.Locale.String())

	sess := storefront.New(ctx, cat, st,
		storefront.WithLogger(logger),
		storefront.WithLocale(cfg.Locale),
		storefront.WithClock(opts.Clock),
		storefront.WithIDs(opts.IDs))

	return &Environment{Config: cfg, Store: st, Session: sess, Logger: logger}, nil
}

// withEnvironment opens an environment, runs fn and closes it again.
func withEnvironment(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, env *Environment, f *OutputFormatter) error) error {
	f := newFormatter(opts, cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	env, err := openEnvironment(ctx, opts, cmd)
	if err != nil {
		return fail(f, err)
	}
	defer func() {
		if closeErr := env.Close(); closeErr != nil {
			env.Logger.Error("error closing database", "error", closeErr)
		}
	}()
	return fn(ctx, env, f)
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// fail reports err through f and returns the matching ExitError.
// Rejected requests exit with ExitFailure; anything that stopped the
// command from running exits with ExitCommandError.
func fail(f *OutputFormatter, err error) error {
	code, exit := classify(err)

	var details any
	var verr *submit.ValidationError
	if errors.As(err, &verr) {
		details = verr.Fields
	}
	var lerr *catalog.LoadError
	if errors.As(err, &lerr) {
		details = lerr.Issues
	}

	_ = f.Error(code, storefront.ShopperMessage(err), details)
	return WrapExitError(exit, code, err)
}

func classify(err error) (string, int) {
	var verr *submit.ValidationError
	var lerr *catalog.LoadError
	var exitErr *ExitError

	switch {
	case errors.As(err, &verr):
		return ErrCodeInvalidForm, ExitFailure
	case errors.Is(err, submit.ErrEmptyCart):
		return ErrCodeEmptyCart, ExitFailure
	case errors.Is(err, storefront.ErrSelectionRequired), errors.Is(err, storefront.ErrInvalidSelection):
		return ErrCodeInvalidSelection, ExitFailure
	case errors.Is(err, storefront.ErrNotYetReleased):
		return ErrCodeNotReleased, ExitFailure
	case errors.Is(err, catalog.ErrNotFound):
		return ErrCodeNotFound, ExitFailure
	case errors.As(err, &lerr):
		return ErrCodeLoadFailed, ExitCommandError
	case errors.As(err, &exitErr):
		if exitErr.ErrCode != "" {
			return exitErr.ErrCode, exitErr.Code
		}
		return ErrCodeGeneric, exitErr.Code
	}
	return ErrCodeGeneric, ExitCommandError
}
