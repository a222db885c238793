package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	recallrai "github.com/recallrai/sdk-go"
)

func newUsersCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Manage users"}
	cmd.AddCommand(newUsersListCmd(e), newUsersCreateCmd(e), newUsersGetCmd(e), newUsersUpdateCmd(e), newUsersDeleteCmd(e))
	return cmd
}

func newUsersListCmd(e *env) *cobra.Command {
	var offset, limit int
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			mf, err := parseObject("metadata-filter", filter)
			if err != nil {
				return err
			}
			return e.run(cmd, func(ctx context.Context, c *recallrai.Client) error {
				list, err := c.ListUsers(ctx, recallrai.ListUsersParams{Offset: offset, Limit: limit, MetadataFilter: mf})
				if err != nil {
					return err
				}
				out := listOutput[recallrai.UserSnapshot]{Total: list.Total, HasMore: list.HasMore}
				for _, u := range list.Users {
					out.Items = append(out.Items, u.Snapshot())
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	cmd.Flags().IntVar(&limit, "limit", 10, "Page size (1-200)")
	cmd.Flags().StringVar(&filter, "metadata-filter", "", "JSON object matched against user metadata")
	return cmd
}

func newUsersCreateCmd(e *env) *cobra.Command {
	var userID, metadata string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := parseObject("metadata", metadata)
			if err != nil {
				return err
			}
			return e.run(cmd, func(ctx context.Context, c *recallrai.Client) error {
				u, err := c.CreateUser(ctx, userID, md)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), u.Snapshot())
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "User ID (required)")
	cmd.Flags().StringVar(&metadata, "metadata", "", "JSON object")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

func newUsersGetCmd(e *env) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.run(cmd, func(ctx context.Context, c *recallrai.Client) error {
				u, err := c.GetUser(ctx, userID)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), u.Snapshot())
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "User ID (required)")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

func newUsersUpdateCmd(e *env) *cobra.Command {
	var userID, newUserID, metadata string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update a user's metadata or id",
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := parseObject("metadata", metadata)
			if err != nil {
				return err
			}
			if md == nil && newUserID == "" {
				return fmt.Errorf("nothing to update: pass --metadata or --new-user-id")
			}
			return e.run(cmd, func(ctx context.Context, c *recallrai.Client) error {
				u, err := c.GetUser(ctx, userID)
				if err != nil {
					return err
				}
				if err := u.Update(ctx, recallrai.UpdateUserParams{NewMetadata: md, NewUserID: newUserID}); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), u.Snapshot())
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "User ID (required)")
	cmd.Flags().StringVar(&newUserID, "new-user-id", "", "Rename the user")
	cmd.Flags().StringVar(&metadata, "metadata", "", "Replacement metadata as a JSON object")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

func newUsersDeleteCmd(e *env) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.run(cmd, func(ctx context.Context, c *recallrai.Client) error {
				u, err := c.GetUser(ctx, userID)
				if err != nil {
					return err
				}
				if err := u.Delete(ctx); err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "User deleted: %s\n", userID)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "User ID (required)")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}
