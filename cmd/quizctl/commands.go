package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/teckzite/round2/internal/client"
	"github.com/teckzite/round2/internal/contest"
	"github.com/teckzite/round2/internal/roster"
)

// adminClient returns a client holding an admin token, logging in with the
// configured credentials when no token was given.
func adminClient(ctx context.Context, cfg *Config) (*client.Client, error) {
	c := client.New(cfg.server,
		client.WithHTTPClient(&http.Client{Timeout: cfg.timeout}),
		client.WithToken(cfg.token),
	)
	if cfg.token != "" {
		return c, nil
	}
	if cfg.password == "" {
		return nil, errors.New("either --token or --password is required")
	}
	if _, err := c.AdminLogin(ctx, cfg.username, cfg.password); err != nil {
		return nil, fmt.Errorf("admin login: %w", err)
	}
	return c, nil
}

func loginCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in and print an admin token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.token = ""
			c, err := adminClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Token())
			return nil
		},
	}
}

func listCmd(cfg *Config) *cobra.Command {
	var sortBy string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions as a leaderboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			order := contest.SortOrder(sortBy)
			if order != contest.SortByScore && order != contest.SortByTime {
				return fmt.Errorf("--sort must be %q or %q", contest.SortByScore, contest.SortByTime)
			}
			c, err := adminClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			sessions, err := c.ListSessions(cmd.Context(), order)
			if err != nil {
				return err
			}
			return printSessions(cmd.OutOrStdout(), sessions)
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort", string(contest.SortByScore), "ordering: score or time")
	return cmd
}

func printSessions(w io.Writer, sessions []contest.Session) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tP1\tP2\tTOTAL\tTIME\tLOCKS")
	for _, s := range sessions {
		elapsed := time.Duration(s.Timings.Total() * float64(time.Second)).Round(time.Second)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%d\n",
			s.ID, s.Name, s.Status,
			s.Scores.Phase1, s.Scores.Phase2, s.Scores.Total,
			elapsed, s.Violations.LockCount,
		)
	}
	return tw.Flush()
}

func showCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := adminClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			s, err := c.GetSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printSessions(cmd.OutOrStdout(), []contest.Session{s})
		},
	}
}

func createCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "create ID PHONE [NAME]",
		Short: "Register a participant",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := adminClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			var name string
			if len(args) == 3 {
				name = args[2]
			}
			s, err := c.CreateSession(cmd.Context(), args[0], args[1], name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", s.ID)
			return nil
		},
	}
}

func codeCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "code ID",
		Short: "Generate a one-time unlock code for a participant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := adminClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			code, err := c.GenerateUnlockCode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (expires %s)\n", code.Code, code.ExpiresAt.Local().Format(time.Kitchen))
			return nil
		},
	}
}

func sessionCommand(cfg *Config, use, short, verb string, call func(*client.Client, context.Context, string) (contest.Session, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := adminClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			s, err := call(c, cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", verb, s.ID, s.Status)
			return nil
		},
	}
}

func unlockCmd(cfg *Config) *cobra.Command {
	return sessionCommand(cfg, "unlock", "Unlock a locked session without a code", "unlocked", (*client.Client).AdminUnlock)
}

func disqualifyCmd(cfg *Config) *cobra.Command {
	return sessionCommand(cfg, "disqualify", "Disqualify a participant", "disqualified", (*client.Client).Disqualify)
}

func importCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Register every participant in a roster file, skipping existing ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := roster.Load(args[0])
			if err != nil {
				return err
			}
			c, err := adminClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			created, skipped := 0, 0
			for _, e := range entries {
				_, err := c.CreateSession(cmd.Context(), e.ID, e.Phone, e.Name)
				var apiErr *client.APIError
				switch {
				case err == nil:
					created++
				case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict:
					skipped++
				default:
					return fmt.Errorf("creating %s: %w", e.ID, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d, skipped %d existing\n", created, skipped)
			return nil
		},
	}
}

func resetCmd(cfg *Config) *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "reset FILE",
		Short: "Delete all sessions and codes, then load a fresh roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return errors.New("reset deletes every session; pass --yes to confirm")
			}
			entries, err := roster.Load(args[0])
			if err != nil {
				return err
			}
			c, err := adminClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			res, err := c.Reset(cmd.Context(), entries)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d, created %d\n", res.Deleted, res.Created)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&confirm, "yes", "y", false, "confirm deleting all sessions")
	return cmd
}
