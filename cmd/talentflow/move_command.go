package main

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"talentflow/internal/dragdrop"
	"talentflow/internal/selection"
)

func newMoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "move <jobId> <applicationId> <stage>",
		Short: "Move one application to another stage",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, appID, target := args[0], args[1], args[2]
			sess, _, err := ctx.loadBoard(cmd, jobID)
			if err != nil {
				return err
			}
			if err := sess.registry.Validate(target); err != nil {
				return err
			}

			before, _ := sess.board.Store().Get(appID)
			if err := sess.board.BeginDrag(appID); err != nil {
				return err
			}
			res, err := sess.board.Drop(cmd.Context(), &dragdrop.Location{StageID: target})
			if err != nil {
				return err
			}
			sess.board.Wait()
			if res.Err != nil {
				return fmt.Errorf("move %s: %w", appID, res.Err)
			}

			out := cmd.OutOrStdout()
			switch res.Outcome {
			case dragdrop.OutcomeValid:
				fmt.Fprintf(out, "Moved %s: %s -> %s\n", appID,
					stageLabel(sess.registry, before.Status), stageLabel(sess.registry, target))
			default:
				fmt.Fprintf(out, "%s is already in %s\n", appID, stageLabel(sess.registry, target))
			}
			printUnsynced(out, sess, shouldColorize(out))
			return nil
		},
	}
}

func newBulkCommand(ctx *commandContext) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "bulk <jobId> <stage> <applicationId>...",
		Short: "Move several applications to one stage",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, target, ids := args[0], args[1], args[2:]
			sess, _, err := ctx.loadBoard(cmd, jobID)
			if err != nil {
				return err
			}
			if err := sess.registry.Validate(target); err != nil {
				return err
			}

			var missing []string
			for _, id := range ids {
				if slices.Contains(sess.board.Selected(), id) {
					continue
				}
				if !sess.board.Toggle(id) {
					missing = append(missing, id)
				}
			}

			var result selection.Result
			if len(sess.board.Selected()) > 0 {
				result, err = sess.board.BulkMove(cmd.Context(), target, confirmed)
				if errors.Is(err, selection.ErrConfirmationRequired) {
					return fmt.Errorf("%w; rerun with --yes", err)
				}
				if err != nil {
					return err
				}
				sess.board.Wait()
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(result.Outcomes)+len(missing))
			for _, outcome := range result.Outcomes {
				status := "moved"
				if !outcome.OK() {
					status = outcome.Err.Error()
				}
				rows = append(rows, []string{outcome.ID, status})
			}
			for _, id := range missing {
				rows = append(rows, []string{id, "not on this board"})
			}
			total := len(result.Outcomes) + len(missing)
			fmt.Fprintln(out, tableSpec{Headers: []string{"Application", "Result"}, Rows: rows})
			fmt.Fprintf(out, "%d of %d moved to %s\n", result.Succeeded(), total, stageLabel(sess.registry, target))
			printUnsynced(out, sess, shouldColorize(out))

			if failed := len(result.Failed()) + len(missing); failed > 0 {
				return fmt.Errorf("%d of %d applications could not be moved", failed, total)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&confirmed, "yes", "y", false, "Confirm moves into destructive stages")
	return cmd
}

func printUnsynced(out io.Writer, sess *session, colorize bool) {
	pending := sess.board.Unsynced()
	if len(pending) == 0 {
		return
	}
	msg := fmt.Sprintf("%d change(s) kept locally but not saved to the backend: %v", len(pending), pending)
	fmt.Fprintln(out, renderStatusLine("Sync", statusWarn, msg, colorize))
}
