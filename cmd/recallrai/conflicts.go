package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	recallrai "github.com/recallrai/sdk-go"
)

func newConflictsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "conflicts", Short: "Inspect and resolve merge conflicts"}
	cmd.PersistentFlags().String("user-id", "", "Owning user ID (required)")
	_ = cmd.MarkPersistentFlagRequired("user-id")
	cmd.AddCommand(newConflictsListCmd(e), newConflictsGetCmd(e), newConflictsResolveCmd(e))
	return cmd
}

func newConflictsListCmd(e *env) *cobra.Command {
	var offset, limit int
	var status, sortBy, sortOrder string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List merge conflicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := recallrai.ListMergeConflictsParams{
				Offset:    offset,
				Limit:     limit,
				Status:    recallrai.MergeConflictStatus(strings.ToUpper(status)),
				SortBy:    sortBy,
				SortOrder: sortOrder,
			}
			return withUser(e, cmd, func(ctx context.Context, u *recallrai.User) error {
				list, err := u.ListMergeConflicts(ctx, p)
				if err != nil {
					return err
				}
				out := listOutput[recallrai.MergeConflictSnapshot]{Total: list.Total, HasMore: list.HasMore}
				for _, mc := range list.Conflicts {
					out.Items = append(out.Items, mc.Snapshot())
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	cmd.Flags().IntVar(&limit, "limit", 10, "Page size (1-200)")
	cmd.Flags().StringVar(&status, "status", "", "Only conflicts in this status")
	cmd.Flags().StringVar(&sortBy, "sort-by", "", "Sort field (default created_at)")
	cmd.Flags().StringVar(&sortOrder, "sort-order", "", "asc or desc (default desc)")
	return cmd
}

func addConflictIDFlag(cmd *cobra.Command) {
	cmd.Flags().String("conflict-id", "", "Merge conflict ID (required)")
	_ = cmd.MarkFlagRequired("conflict-id")
}

// withConflict resolves --user-id and --conflict-id before calling fn.
func withConflict(e *env, cmd *cobra.Command, fn func(ctx context.Context, mc *recallrai.MergeConflict) error) error {
	conflictID, _ := cmd.Flags().GetString("conflict-id")
	return withUser(e, cmd, func(ctx context.Context, u *recallrai.User) error {
		mc, err := u.GetMergeConflict(ctx, conflictID)
		if err != nil {
			return err
		}
		return fn(ctx, mc)
	})
}

func newConflictsGetCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show a merge conflict",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConflict(e, cmd, func(ctx context.Context, mc *recallrai.MergeConflict) error {
				return printJSON(cmd.OutOrStdout(), mc.Snapshot())
			})
		},
	}
	addConflictIDFlag(cmd)
	return cmd
}

// parseAnswers turns "question=answer" pairs into resolution answers.
func parseAnswers(pairs []string) ([]recallrai.MergeConflictAnswer, error) {
	out := make([]recallrai.MergeConflictAnswer, 0, len(pairs))
	for _, p := range pairs {
		q, a, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(q) == "" {
			return nil, fmt.Errorf("--answer %q: want question=answer", p)
		}
		out = append(out, recallrai.MergeConflictAnswer{Question: strings.TrimSpace(q), Answer: strings.TrimSpace(a)})
	}
	return out, nil
}

func newConflictsResolveCmd(e *env) *cobra.Command {
	var pairs []string
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Answer a merge conflict's clarifying questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := parseAnswers(pairs)
			if err != nil {
				return err
			}
			return withConflict(e, cmd, func(ctx context.Context, mc *recallrai.MergeConflict) error {
				if err := mc.Resolve(ctx, answers); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), mc.Snapshot())
			})
		},
	}
	addConflictIDFlag(cmd)
	cmd.Flags().StringArrayVar(&pairs, "answer", nil, "question=answer, repeatable")
	_ = cmd.MarkFlagRequired("answer")
	return cmd
}
