package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	recallrai "github.com/recallrai/sdk-go"
)

func newMemoriesCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "memories", Short: "Browse a user's memories"}
	cmd.PersistentFlags().String("user-id", "", "Owning user ID (required)")
	_ = cmd.MarkPersistentFlagRequired("user-id")

	var offset, limit int
	var categories, sessionIDs []string
	var sessionFilter string
	var previous, connected bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List memories",
		RunE: func(cmd *cobra.Command, args []string) error {
			sf, err := parseObject("session-metadata-filter", sessionFilter)
			if err != nil {
				return err
			}
			p := recallrai.ListMemoriesParams{
				Offset:                offset,
				Limit:                 limit,
				Categories:            categories,
				SessionIDFilter:       sessionIDs,
				SessionMetadataFilter: sf,
			}
			if cmd.Flags().Changed("include-previous-versions") {
				p.IncludePreviousVersions = recallrai.Bool(previous)
			}
			if cmd.Flags().Changed("include-connected-memories") {
				p.IncludeConnectedMemories = recallrai.Bool(connected)
			}
			return withUser(e, cmd, func(ctx context.Context, u *recallrai.User) error {
				page, err := u.ListMemories(ctx, p)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), listOutput[recallrai.MemoryItem]{Items: page.Items, Total: page.Total, HasMore: page.HasMore})
			})
		},
	}
	f := list.Flags()
	f.IntVar(&offset, "offset", 0, "Offset")
	f.IntVar(&limit, "limit", 20, "Page size (1-200)")
	f.StringSliceVar(&categories, "category", nil, "Only memories in these categories")
	f.StringSliceVar(&sessionIDs, "session-id", nil, "Only memories from these sessions")
	f.StringVar(&sessionFilter, "session-metadata-filter", "", "JSON object matched against session metadata")
	f.BoolVar(&previous, "include-previous-versions", true, "Include superseded versions")
	f.BoolVar(&connected, "include-connected-memories", true, "Include related memories")
	cmd.AddCommand(list)
	return cmd
}

func newMessagesCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "messages", Short: "Read a user's messages across sessions"}
	var userID string
	var n int
	last := &cobra.Command{
		Use:   "last",
		Short: "Show the most recent messages of a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.run(cmd, func(ctx context.Context, c *recallrai.Client) error {
				u, err := c.GetUser(ctx, userID)
				if err != nil {
					return err
				}
				msgs, err := u.GetLastNMessages(ctx, n)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), msgs)
			})
		},
	}
	last.Flags().StringVar(&userID, "user-id", "", "User ID (required)")
	last.Flags().IntVarP(&n, "count", "n", 10, "Number of messages (1-100)")
	_ = last.MarkFlagRequired("user-id")
	cmd.AddCommand(last)
	return cmd
}

// newAuthCmd verifies the configured credentials with a minimal listing.
func newAuthCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "auth", Short: "Credential helpers"}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Verify the API key and project id against the service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.run(cmd, func(ctx context.Context, c *recallrai.Client) error {
				list, err := c.ListUsers(ctx, recallrai.ListUsersParams{Limit: 1})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Credentials OK (%d users)\n", list.Total)
				return err
			})
		},
	})
	return cmd
}
