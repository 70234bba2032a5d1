package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HammerMeetNail/studentcomputing/internal/models"
)

var errBlankIdea = errors.New("idea text is required")

func newListCmd(run sessionRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every idea, oldest first",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, args []string, s *session) error {
			ideas := s.board.Ideas(cmd.Context())
			if len(ideas) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No ideas yet. Be the first to contribute!")
				return nil
			}
			for _, idea := range ideas {
				printIdea(cmd, idea, s.loc)
			}
			return nil
		}),
	}
}

func newSubmitCmd(run sessionRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <text>...",
		Short: "Add an idea; arguments are joined with spaces",
		Args:  cobra.MinimumNArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, s *session) error {
			result, err := s.board.Submit(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if !result.Changed {
				return errBlankIdea
			}
			printIdea(cmd, *result.Idea, s.loc)
			return nil
		}),
	}
}

func newDeleteCmd(run sessionRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove the idea with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, s *session) error {
			result, err := s.board.Delete(cmd.Context(), models.IdeaID(args[0]))
			if err != nil {
				return err
			}
			if !result.Changed {
				fmt.Fprintf(cmd.OutOrStdout(), "No idea with id %s\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		}),
	}
}

func newExportCmd(run sessionRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the board in its stored JSON form",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, args []string, s *session) error {
			encoded, err := s.board.Ideas(cmd.Context()).Encode()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return nil
		}),
	}
}
