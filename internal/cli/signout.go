package cli

import (
	"io"

	"github.com/spf13/cobra"
)

func NewSignOutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "End the session (revokes the token when using Odin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.dash.Gate.SignOut(cmd.Context()); err != nil {
				return WrapExitError(ExitFailure, "sign out", err)
			}
			return a.out.Success(map[string]bool{"signed_out": true}, func(io.Writer) {})
		},
	}
}
