package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/GrigstonJC/boardgame-app/internal/auth"
	"github.com/spf13/cobra"
)

var flagShowToken bool

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the identity behind the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return fail(err)
		}
		defer a.Close()

		identity, err := a.Flow.Resume(cmd.Context())
		if err != nil {
			if errors.Is(err, auth.ErrNotAuthenticated) {
				fmt.Println("Not logged in. Run 'boardgame login' first.")
				return nil
			}
			return fail(err)
		}

		fmt.Printf("%s %s", okMark, identity.Email)
		if identity.Name != "" {
			fmt.Printf(" (%s)", identity.Name)
		}
		fmt.Println()
		if identity.Issuer != "" {
			fmt.Printf("Signed in via %s\n", identity.Issuer)
		}

		if flagShowToken {
			token, err := a.Flow.Token(cmd.Context())
			if err != nil {
				return fail(err)
			}
			fmt.Printf("Token: %s\n", token)
			if details, ok := auth.InspectToken(token); ok && !details.ExpiresAt.IsZero() {
				fmt.Printf("Expires: %s (%s)\n",
					details.ExpiresAt.Format(time.RFC3339),
					time.Until(details.ExpiresAt).Round(time.Second))
			}
		}

		return nil
	},
}

func init() {
	whoamiCmd.Flags().BoolVar(&flagShowToken, "show-token", false, "Print the stored bearer token and its claims")
}
