package cli

import (
	"errors"
	"fmt"

	"github.com/GrigstonJC/boardgame-app/internal/auth"
	"github.com/spf13/cobra"
)

var protectedCmd = &cobra.Command{
	Use:   "protected",
	Short: "Fetch the game data gated behind your account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return fail(err)
		}
		defer a.Close()

		payload, err := a.Flow.Protected(cmd.Context())
		if err != nil {
			if errors.Is(err, auth.ErrNotAuthenticated) {
				fmt.Println("Not logged in. Run 'boardgame login' first.")
				return nil
			}
			return fail(err)
		}

		fmt.Printf("%s %s\n", okMark, payload.Message)
		fmt.Printf("Data: %s\n", payload.Data)
		if payload.UserEmail != "" {
			fmt.Printf("Requested by %s", payload.UserEmail)
			if payload.AuthMethod != "" {
				fmt.Printf(" via %s", payload.AuthMethod)
			}
			fmt.Println()
		}

		return nil
	},
}
