package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-care-log/internal/adapters/auth/memory"
	"pet-care-log/internal/adapters/auth/odin"
	"pet-care-log/internal/adapters/storage/rest"
	"pet-care-log/internal/dashboard"
	"pet-care-log/internal/domain/mutations"
	"pet-care-log/internal/domain/session"
	"pet-care-log/internal/platform/httpclient"
	"pet-care-log/internal/platform/logger"
	"pet-care-log/internal/platform/notify"
	"pet-care-log/internal/ports/store"

	"github.com/spf13/cobra"
)

// readyTimeout: cuánto se espera el primer estado de sesión (y con él la
// carga de roster y logs).
const readyTimeout = 15 * time.Second

// Backend arma las dependencias del dashboard a partir de la config.
// cleanup puede ser nil.
type Backend func(cfg Config, log logger.Logger) (deps dashboard.Deps, cleanup func(), err error)

// RemoteBackend usa la API HTTP como remote store. Con token, la sesión la
// decide Odin; sin token, la sesión es el user_id de la config (modo dev).
func RemoteBackend(cfg Config, log logger.Logger) (dashboard.Deps, func(), error) {
	hc, err := httpclient.NewWithBaseURL(cfg.ServerURL, httpclient.DefaultTimeout)
	if err != nil {
		return dashboard.Deps{}, nil, err
	}
	rest.Identity(hc, cfg.UserID, cfg.Token)

	deps := dashboard.Deps{
		Pets:   rest.NewPetsRepo(hc),
		Logs:   rest.NewLogsRepo(hc),
		Blobs:  rest.NewBlobStore(hc),
		Logger: log,
	}

	if strings.TrimSpace(cfg.Token) != "" {
		oc := odin.NewClient(odin.Config{BaseURL: cfg.OdinBaseURL, APIKey: cfg.OdinAPIKey})
		if !oc.IsConfigured() {
			return dashboard.Deps{}, nil, errors.New("odin_base_url and odin_api_key are required when using a token")
		}
		src := odin.NewSessionSource(oc, cfg.Token)
		deps.Sessions = src
		return deps, src.Close, nil
	}

	src := memory.NewSignedIn(cfg.UserID)
	deps.Sessions = src
	return deps, src.Close, nil
}

// app es un dashboard corriendo durante un comando.
type app struct {
	dash *dashboard.Dashboard
	out  *OutputFormatter
	log  logger.Logger

	cancel  context.CancelFunc
	done    chan error
	cleanup func()
}

func (o *RootOptions) openApp(cmd *cobra.Command) (*app, error) {
	path, explicit := o.ConfigPath, o.ConfigPath != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	cfg, err := LoadConfig(path, explicit)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "config", err)
	}
	cfg.applyFlags(o)

	out := &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    "petlog",
		Output: cmd.ErrOrStderr(),
	})

	backend := o.backend
	if backend == nil {
		backend = RemoteBackend
	}
	deps, cleanup, err := backend(cfg, log)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "setup", err)
	}

	a := &app{
		dash:    dashboard.New(deps),
		out:     out,
		log:     log,
		done:    make(chan error, 1),
		cleanup: cleanup,
	}
	a.dash.Bus.Subscribe(a.printNotice, notify.KindNotice)

	ctx, cancel := context.WithCancel(cmd.Context())
	a.cancel = cancel
	go func() { a.done <- a.dash.Run(ctx) }()

	select {
	case <-a.dash.Gate.Ready():
	case err := <-a.done:
		a.close()
		if err == nil {
			err = errors.New("session stream closed")
		}
		return nil, WrapExitError(ExitFailure, "session", err)
	case <-time.After(readyTimeout):
		a.close()
		return nil, NewExitError(ExitFailure, "timed out waiting for session")
	}

	if _, ok := a.dash.Gate.Admitted(); !ok {
		a.close()
		return nil, NewExitError(ExitCommandError, "not signed in: set user_id (dev) or token in the config, or pass --user/--token")
	}
	out.VerboseLog("signed in as %s", a.dash.Context.OwnerID())
	return a, nil
}

func (a *app) close() {
	if a.cancel != nil {
		a.cancel()
	}
	a.dash.Close()
	if a.cleanup != nil {
		a.cleanup()
	}
}

func (a *app) printNotice(_ context.Context, e notify.Event) {
	switch e.Level {
	case notify.LevelError:
		a.out.Notice("✗", e.Message)
	case notify.LevelSuccess:
		a.out.Notice("✓", e.Message)
	default:
		a.out.VerboseLog("%s", e.Message)
	}
}

// commandErr traduce errores de dominio a exit codes.
func commandErr(action string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mutations.ErrInvalidInput), errors.Is(err, session.ErrNotAuthenticated):
		return WrapExitError(ExitCommandError, action, err)
	case errors.Is(err, store.ErrNotFound):
		return WrapExitError(ExitCommandError, action, err)
	default:
		return WrapExitError(ExitFailure, action, err)
	}
}
