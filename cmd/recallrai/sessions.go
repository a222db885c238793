package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	recallrai "github.com/recallrai/sdk-go"
)

func newSessionsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "sessions", Short: "Manage a user's sessions"}
	cmd.PersistentFlags().String("user-id", "", "Owning user ID (required)")
	_ = cmd.MarkPersistentFlagRequired("user-id")
	cmd.AddCommand(
		newSessionsListCmd(e),
		newSessionsCreateCmd(e),
		newSessionsGetCmd(e),
		newSessionsUpdateCmd(e),
		newSessionsAddMessageCmd(e),
		newSessionsProcessCmd(e),
		newSessionsContextCmd(e),
		newSessionsMessagesCmd(e),
		newSessionsStatusCmd(e),
	)
	return cmd
}

// withUser resolves the --user-id flag before calling fn.
func withUser(e *env, cmd *cobra.Command, fn func(ctx context.Context, u *recallrai.User) error) error {
	userID, _ := cmd.Flags().GetString("user-id")
	return e.run(cmd, func(ctx context.Context, c *recallrai.Client) error {
		u, err := c.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		return fn(ctx, u)
	})
}

// withSession resolves --user-id and --session-id before calling fn.
func withSession(e *env, cmd *cobra.Command, fn func(ctx context.Context, s *recallrai.Session) error) error {
	sessionID, _ := cmd.Flags().GetString("session-id")
	return withUser(e, cmd, func(ctx context.Context, u *recallrai.User) error {
		s, err := u.GetSession(ctx, sessionID)
		if err != nil {
			return err
		}
		return fn(ctx, s)
	})
}

func addSessionIDFlag(cmd *cobra.Command) {
	cmd.Flags().String("session-id", "", "Session ID (required)")
	_ = cmd.MarkFlagRequired("session-id")
}

func newSessionsListCmd(e *env) *cobra.Command {
	var offset, limit int
	var filter string
	var statuses []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			mf, err := parseObject("metadata-filter", filter)
			if err != nil {
				return err
			}
			p := recallrai.ListSessionsParams{Offset: offset, Limit: limit, MetadataFilter: mf}
			for _, s := range statuses {
				p.StatusFilter = append(p.StatusFilter, recallrai.SessionStatus(s))
			}
			return withUser(e, cmd, func(ctx context.Context, u *recallrai.User) error {
				list, err := u.ListSessions(ctx, p)
				if err != nil {
					return err
				}
				out := listOutput[recallrai.SessionSnapshot]{Total: list.Total, HasMore: list.HasMore}
				for _, s := range list.Sessions {
					out.Items = append(out.Items, s.Snapshot())
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	cmd.Flags().IntVar(&limit, "limit", 10, "Page size (1-200)")
	cmd.Flags().StringVar(&filter, "metadata-filter", "", "JSON object matched against session metadata")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Only sessions in these statuses")
	return cmd
}

func newSessionsCreateCmd(e *env) *cobra.Command {
	var autoProcess int
	var metadata string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := parseObject("metadata", metadata)
			if err != nil {
				return err
			}
			return withUser(e, cmd, func(ctx context.Context, u *recallrai.User) error {
				s, err := u.CreateSession(ctx, recallrai.CreateSessionParams{AutoProcessAfterSeconds: autoProcess, Metadata: md})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), s.Snapshot())
			})
		},
	}
	cmd.Flags().IntVar(&autoProcess, "auto-process-after", 0, "Seconds of inactivity before processing (0 selects the minimum of 600)")
	cmd.Flags().StringVar(&metadata, "metadata", "", "JSON object")
	return cmd
}

func newSessionsGetCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(e, cmd, func(ctx context.Context, s *recallrai.Session) error {
				return printJSON(cmd.OutOrStdout(), s.Snapshot())
			})
		},
	}
	addSessionIDFlag(cmd)
	return cmd
}

func newSessionsUpdateCmd(e *env) *cobra.Command {
	var metadata string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Replace a session's metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := parseObject("metadata", metadata)
			if err != nil {
				return err
			}
			return withSession(e, cmd, func(ctx context.Context, s *recallrai.Session) error {
				if err := s.Update(ctx, md); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), s.Snapshot())
			})
		},
	}
	addSessionIDFlag(cmd)
	cmd.Flags().StringVar(&metadata, "metadata", "{}", "Replacement metadata as a JSON object")
	return cmd
}

func newSessionsAddMessageCmd(e *env) *cobra.Command {
	var role, content string
	cmd := &cobra.Command{
		Use:   "add-message",
		Short: "Append a message to a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(e, cmd, func(ctx context.Context, s *recallrai.Session) error {
				if err := s.AddMessage(ctx, recallrai.MessageRole(role), content, recallrai.AddMessageParams{}); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Message added to session %s\n", s.ID())
				return err
			})
		},
	}
	addSessionIDFlag(cmd)
	cmd.Flags().StringVar(&role, "role", string(recallrai.RoleUser), "user or assistant")
	cmd.Flags().StringVar(&content, "content", "", "Message text (required)")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func newSessionsProcessCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Trigger processing of a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(e, cmd, func(ctx context.Context, s *recallrai.Session) error {
				if err := s.Process(ctx); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), s.Snapshot())
			})
		},
	}
	addSessionIDFlag(cmd)
	return cmd
}

func newSessionsContextCmd(e *env) *cobra.Command {
	var strategy, timezone string
	var minTopK, maxTopK, lastMessages, lastSummaries int
	var memThreshold, sumThreshold float64
	var systemPrompt bool
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Print the recalled context of a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := recallrai.ContextParams{RecallStrategy: recallrai.RecallStrategy(strategy), Timezone: timezone}
			f := cmd.Flags()
			if f.Changed("min-top-k") {
				p.MinTopK = recallrai.Int(minTopK)
			}
			if f.Changed("max-top-k") {
				p.MaxTopK = recallrai.Int(maxTopK)
			}
			if f.Changed("memories-threshold") {
				p.MemoriesThreshold = recallrai.Float(memThreshold)
			}
			if f.Changed("summaries-threshold") {
				p.SummariesThreshold = recallrai.Float(sumThreshold)
			}
			if f.Changed("last-n-messages") {
				p.LastNMessages = recallrai.Int(lastMessages)
			}
			if f.Changed("last-n-summaries") {
				p.LastNSummaries = recallrai.Int(lastSummaries)
			}
			if f.Changed("include-system-prompt") {
				p.IncludeSystemPrompt = recallrai.Bool(systemPrompt)
			}
			return withSession(e, cmd, func(ctx context.Context, s *recallrai.Session) error {
				c, err := s.GetContext(ctx, p)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), c.Context)
				return err
			})
		},
	}
	addSessionIDFlag(cmd)
	f := cmd.Flags()
	f.StringVar(&strategy, "recall-strategy", "", "low_latency, balanced or deep")
	f.IntVar(&minTopK, "min-top-k", 0, "Minimum memories to recall")
	f.IntVar(&maxTopK, "max-top-k", 0, "Maximum memories to recall")
	f.Float64Var(&memThreshold, "memories-threshold", 0, "Similarity threshold for memories")
	f.Float64Var(&sumThreshold, "summaries-threshold", 0, "Similarity threshold for summaries")
	f.IntVar(&lastMessages, "last-n-messages", 0, "Recent messages to include")
	f.IntVar(&lastSummaries, "last-n-summaries", 0, "Recent summaries to include")
	f.StringVar(&timezone, "timezone", "", "IANA timezone for rendered timestamps")
	f.BoolVar(&systemPrompt, "include-system-prompt", true, "Prefix the context with the system prompt")
	return cmd
}

func newSessionsMessagesCmd(e *env) *cobra.Command {
	var offset, limit int
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "List a session's messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(e, cmd, func(ctx context.Context, s *recallrai.Session) error {
				list, err := s.GetMessages(ctx, offset, limit)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), listOutput[recallrai.Message]{Items: list.Messages, Total: list.Total, HasMore: list.HasMore})
			})
		},
	}
	addSessionIDFlag(cmd)
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	cmd.Flags().IntVar(&limit, "limit", 50, "Page size (1-200)")
	return cmd
}

func newSessionsStatusCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Fetch the current processing status of a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(e, cmd, func(ctx context.Context, s *recallrai.Session) error {
				st, err := s.FetchStatus(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), st)
				return err
			})
		},
	}
	addSessionIDFlag(cmd)
	return cmd
}
