package cli

import (
	"errors"
	"fmt"

	clienterrors "github.com/GrigstonJC/boardgame-app/pkg/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	okMark   = color.New(color.FgGreen, color.Bold).Sprint("✓")
	failMark = color.New(color.FgRed, color.Bold).Sprint("✗")
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check API connectivity and show application info",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return fail(err)
		}
		defer a.Close()

		ctx := cmd.Context()

		status, err := a.Client.Status(ctx)
		if err != nil {
			var transportErr *clienterrors.TransportError
			if errors.As(err, &transportErr) {
				fmt.Printf("%s API unreachable at %s\n", failMark, a.Client.BaseURL())
				return fail(err)
			}
			return fail(err)
		}

		fmt.Printf("%s API reachable at %s (%s, version %s)\n",
			okMark, a.Client.BaseURL(), status.Status, status.Version)

		if health, err := a.Client.Healthy(ctx); err != nil {
			fmt.Printf("%s health check failed: %v\n", failMark, err)
		} else {
			fmt.Printf("%s health: %s\n", okMark, health.Status)
		}

		info, err := a.Client.Info(ctx)
		if err != nil {
			return fail(err)
		}

		fmt.Println()
		fmt.Printf("%s – %s\n", color.New(color.Bold).Sprint(info.AppName), info.Description)
		fmt.Printf("Authentication: %s\n", info.Authentication)
		if info.AllowedUsers > 0 {
			fmt.Printf("Allowed users:  %d\n", info.AllowedUsers)
		}

		return nil
	},
}
