package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/gibbs-bakehouse/stampcard/internal/config"
	"github.com/gibbs-bakehouse/stampcard/internal/engine"
	"github.com/gibbs-bakehouse/stampcard/internal/logging"
	"github.com/gibbs-bakehouse/stampcard/internal/store"
)

// app is an opened database plus the engine and logger built on it.
type app struct {
	cfg    *config.Config
	log    *logging.Logger
	store  *store.Store
	engine *engine.Engine
	out    *OutputFormatter
}

// resolveConfig loads the configuration and applies flag overrides.
func (o *RootOptions) resolveConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Options{
		Path:     o.ConfigPath,
		Explicit: o.ConfigPath != "",
		EnvFile:  o.EnvFile,
	})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	if o.DB != "" {
		cfg.DB = o.DB
	}
	if o.LogFile != "" {
		cfg.LogFile = o.LogFile
	}
	return cfg, nil
}

// formatter returns an OutputFormatter writing to the command's streams.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// open resolves the configuration, opens the database and loads the engine.
// The caller must Close the returned app.
func (o *RootOptions) open(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := o.resolveConfig()
	if err != nil {
		return nil, err
	}

	log := logging.New(logging.Options{
		Verbose:    o.Verbose,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Stderr:     cmd.ErrOrStderr(),
	})

	log.Debug("opening database", "path", cfg.DB)
	st, err := store.Open(cfg.DB)
	if err != nil {
		_ = log.Close()
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	eng, err := engine.New(ctx, st, engine.WithLogger(log.Logger))
	if err != nil {
		_ = st.Close()
		_ = log.Close()
		return nil, WrapExitError(ExitCommandError, "failed to load document", err)
	}

	return &app{
		cfg:    cfg,
		log:    log,
		store:  st,
		engine: eng,
		out:    o.formatter(cmd),
	}, nil
}

// Close releases the database and log file.
func (a *app) Close() error {
	return errors.Join(a.store.Close(), a.log.Close())
}

// withApp opens the app, runs fn and closes the app.
func (o *RootOptions) withApp(cmd *cobra.Command, fn func(a *app) error) error {
	a, err := o.open(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
