package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/HammerMeetNail/studentcomputing/internal/app"
	"github.com/HammerMeetNail/studentcomputing/internal/config"
	"github.com/HammerMeetNail/studentcomputing/internal/logging"
	"github.com/HammerMeetNail/studentcomputing/internal/models"
	"github.com/HammerMeetNail/studentcomputing/internal/services"
)

// session is one open connection to the board.
type session struct {
	board *services.IdeaBoardService
	loc   *time.Location
	close func()
}

// openSession is replaced in tests.
var openSession = func(logLevel string) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.New().SetOutput(os.Stderr).SetLevel(level)

	backend, err := app.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &session{
		board: backend.NewIdeaBoard(cfg, logger),
		loc:   cfg.Ideas.Location(),
		close: backend.Close,
	}, nil
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "ideactl",
		Short: "Manage the Community Ideas Board",
		Long: `ideactl lists, adds, removes and exports ideas on the Student Computing
Team's Community Ideas Board. Storage is chosen by the same STORAGE_DRIVER
and connection variables the server reads.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level written to stderr")

	withSession := func(fn func(cmd *cobra.Command, args []string, s *session) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			s, err := openSession(logLevel)
			if err != nil {
				return err
			}
			defer s.close()
			return fn(cmd, args, s)
		}
	}

	root.AddCommand(
		newListCmd(withSession),
		newSubmitCmd(withSession),
		newDeleteCmd(withSession),
		newExportCmd(withSession),
	)
	return root
}

type sessionRunner func(fn func(cmd *cobra.Command, args []string, s *session) error) func(*cobra.Command, []string) error

func printIdea(cmd *cobra.Command, idea models.Idea, loc *time.Location) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", idea.ID, idea.DisplayTime(loc), idea.Text)
}
