package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return fail(err)
		}
		defer a.Close()

		if err := a.Flow.Logout(cmd.Context()); err != nil {
			return fail(err)
		}

		fmt.Printf("%s Logged out\n", okMark)
		return nil
	},
}
