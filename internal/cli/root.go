// Package cli es el cliente de línea de comandos: arma el dashboard contra
// la API y expone roster, logs y mutaciones como subcomandos.
package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

// RootOptions son los flags globales.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Server     string
	User       string
	Token      string

	backend Backend
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand arma el CLI contra la API remota.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWith(RemoteBackend)
}

// NewRootCommandWith permite cambiar el backend (tests, modo offline).
func NewRootCommandWith(b Backend) *cobra.Command {
	cmd, _ := newRoot(b)
	return cmd
}

// Run ejecuta el CLI con args y devuelve el exit code. El error final sale
// con el mismo --format que el resto de la salida.
func Run(ctx context.Context, b Backend, args []string, stdout, stderr io.Writer) int {
	cmd, opts := newRoot(b)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	code := GetExitCode(err)
	out := &OutputFormatter{Format: opts.Format, Writer: stdout, ErrWriter: stderr}
	if !isValidFormat(opts.Format) {
		out.Format = "text"
	}
	_ = out.Error(strconv.Itoa(code), err.Error())
	return code
}

func newRoot(b Backend) (*cobra.Command, *RootOptions) {
	opts := &RootOptions{backend: b}

	cmd := &cobra.Command{
		Use:   "petlog",
		Short: "petlog - registro de cuidados de mascotas",
		Long:  "Registrá mascotas y sus cuidados diarios (comidas, paseos, baños, visitas al veterinario, medicación).",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $HOME/.config/petlog/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.Server, "server", "", "API base URL")
	cmd.PersistentFlags().StringVar(&opts.User, "user", "", "user id (dev mode, X-Debug-User-ID)")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", "", "bearer token (Odin)")

	cmd.AddCommand(NewPetsCommand(opts))
	cmd.AddCommand(NewLogsCommand(opts))
	cmd.AddCommand(NewSignOutCommand(opts))

	return cmd, opts
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
