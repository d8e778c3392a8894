package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with Google and store the API token locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return fail(err)
		}
		defer a.Close()

		result, err := a.Flow.Login(cmd.Context(), func(authURL string) {
			fmt.Println("Open this URL in your browser to sign in with Google:")
			fmt.Println()
			fmt.Println("  " + color.New(color.FgCyan).Sprint(authURL))
			fmt.Println()
			fmt.Println("Waiting for the redirect... (Ctrl+C to abort)")
		})
		if err != nil {
			return fail(err)
		}

		fmt.Printf("%s Signed in as %s", okMark, result.Identity.Email)
		if result.Identity.Name != "" {
			fmt.Printf(" (%s)", result.Identity.Name)
		}
		fmt.Println()

		return nil
	},
}
