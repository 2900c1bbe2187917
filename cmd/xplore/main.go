package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"xplore/internal/capture"
	"xplore/internal/placeimage"
	"xplore/internal/policy"
	"xplore/pkg/utils"
)

var (
	serverURL   string
	sessionPath string
)

var rootCmd = &cobra.Command{
	Use:   "xplore",
	Short: "Terminal client for the Xplore landmark album",
	Long: `xplore signs in to an Xplore server, recognizes landmark photos and saves
them to your album, following the same capture flow as the mobile app.

Environment:
  XPLORE_SERVER      server base URL (default http://localhost:8080)
  XPLORE_PASSWORD    password for login when --password is not given
  ASSET_BASE_URL     base URL for bundled place images`,
	SilenceUsage: true,
}

func newClient() (*capture.Client, *capture.SessionStore, error) {
	path := sessionPath
	if path == "" {
		p, err := capture.DefaultSessionPath()
		if err != nil {
			return nil, nil, err
		}
		path = p
	}
	store := capture.NewSessionStore(path)
	return capture.NewClient(serverURL, store, nil), store, nil
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and remember the session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = os.Getenv("XPLORE_PASSWORD")
		}
		if email == "" || password == "" {
			return errors.New("--email and --password (or XPLORE_PASSWORD) are required")
		}

		client, _, err := newClient()
		if err != nil {
			return err
		}
		sess, err := client.Login(cmd.Context(), email, password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", sess.User.DisplayName, sess.User.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke and forget the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		if err := client.Logout(cmd.Context()); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "server logout failed, local session removed: %v\n", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := newClient()
		if err != nil {
			return err
		}
		sess, err := store.Load()
		if err != nil {
			return err
		}
		if sess == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> id=%s\n", sess.User.DisplayName, sess.User.Email, sess.User.ID)
		if sess.ExpiresAt != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "session expires %s\n", sess.ExpiresAt)
		}
		return nil
	},
}

var captureCmd = &cobra.Command{
	Use:   "capture <image>",
	Short: "Recognize a landmark photo and offer to save it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		image, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		yes, _ := cmd.Flags().GetBool("yes")

		client, _, err := newClient()
		if err != nil {
			return err
		}
		fallback, err := client.Policy(cmd.Context())
		if err != nil {
			fallback = policy.Default()
		}
		return runCapture(cmd.Context(), capture.NewSession(client, fallback), args[0], image, yes, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

var assetCmd = &cobra.Command{
	Use:   "asset <imagen_principal>",
	Short: "Show the bundled image used for a place",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		images, err := placeimage.New(utils.GetEnv("ASSET_BASE_URL", ""))
		if err != nil {
			return err
		}
		asset, ok := images.Lookup(args[0])
		if !ok {
			asset = images.Placeholder()
			fmt.Fprintln(cmd.ErrOrStderr(), "no bundled image, using placeholder")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", asset, images.URL(args[0]))
		return nil
	},
}

func runCapture(ctx context.Context, s *capture.Session, name string, image []byte, yes bool, in io.Reader, out io.Writer) error {
	if err := s.Begin(); err != nil {
		return err
	}
	progress := func(p capture.Progress) {
		switch p.Stage {
		case capture.StageUpload:
			if p.Total > 0 {
				fmt.Fprintf(out, "\ruploading %3d%%", p.Sent*100/p.Total)
			}
		case capture.StageWaiting:
			fmt.Fprint(out, "\nanalyzing...")
		case capture.StageReceived:
			fmt.Fprintln(out, " done")
		}
	}

	reader := bufio.NewReader(in)
	preview, err := s.Run(ctx, name, image, progress)
	for err != nil {
		fmt.Fprintf(out, "\nrecognition failed: %v\n", err)
		var apiErr *capture.APIError
		if errors.As(err, &apiErr) && apiErr.Data != nil && apiErr.Data.BestPrediction != nil {
			best := apiErr.Data.BestPrediction
			fmt.Fprintf(out, "best guess: %s (%.0f%%)\n", best.Class, best.Confidence*100)
		}
		if yes || !ask(reader, out, "Retry? [y/N] ") {
			_ = s.Cancel()
			return err
		}
		preview, err = s.Retry(ctx, progress)
	}

	res := preview.Result
	fmt.Fprintf(out, "%s: %s (%.0f%%)\n", preview.Verdict, res.Place.Name, res.BestPrediction.Confidence*100)
	for _, c := range res.NuevosColeccionables {
		fmt.Fprintf(out, "  unlocked: %s [%s]\n", c.Name, c.Rarity)
	}

	if !preview.Valid {
		help, herr := s.Help()
		if herr == nil {
			fmt.Fprintln(out, help)
		}
		return s.Cancel()
	}

	if !yes && !ask(reader, out, "Save to your album? [y/N] ") {
		return s.Cancel()
	}
	saved, err := s.Save(ctx)
	if err != nil {
		return fmt.Errorf("save failed: %w", err)
	}
	if len(saved.NuevosColeccionables) == 0 {
		fmt.Fprintln(out, "Saved. Nothing new to unlock here.")
	}
	for _, c := range saved.NuevosColeccionables {
		fmt.Fprintf(out, "New collectible: %s [%s]\n", c.Name, c.Rarity)
	}
	for _, a := range saved.NuevosLogros {
		fmt.Fprintf(out, "Achievement unlocked: %s\n", a.Name)
	}
	return nil
}

func ask(r *bufio.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, _ := r.ReadString('\n')
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes"
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", utils.GetEnv("XPLORE_SERVER", "http://localhost:8080"), "Xplore server base URL")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "", "session file (default $XDG_CONFIG_HOME/xplore/session.json)")

	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password")
	captureCmd.Flags().BoolP("yes", "y", false, "save without asking when the match is valid")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, captureCmd, assetCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
