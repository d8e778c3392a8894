package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/GrigstonJC/boardgame-app/internal/app"
	"github.com/GrigstonJC/boardgame-app/internal/config"
	"github.com/spf13/cobra"
)

var (
	Version = "1.0.0"

	flagAPIURL       string
	flagCallbackAddr string
)

var rootCmd = &cobra.Command{
	Use:   "boardgame",
	Short: "boardgame – command-line client for the Boardgame App API",
	Long:  "boardgame talks to the Boardgame App API: check connectivity, sign in with Google, and fetch game data gated behind your account.\n\nStart with 'boardgame status' to verify the API is reachable, then 'boardgame login'.",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("boardgame %s\n", Version)
	},
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Boardgame API base URL (overrides BOARDGAME_API_URL)")
	rootCmd.PersistentFlags().StringVar(&flagCallbackAddr, "callback-addr", "", "Address the login redirect listener binds to (overrides BOARDGAME_CALLBACK_ADDR)")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(protectedCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}

// newApp builds the shared client wiring for a command, with flag
// overrides applied on top of the environment config.
func newApp(cmd *cobra.Command) (*app.App, error) {
	cfg := config.Load()

	if flagAPIURL != "" {
		cfg.APIBaseURL = flagAPIURL
	}
	if flagCallbackAddr != "" {
		cfg.CallbackAddr = flagCallbackAddr
	}

	return app.New(cmd.Context(), cfg)
}

func fail(err error) error {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return err
}
