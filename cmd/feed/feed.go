package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strconv"

	"feed-go/internal/client"

	"github.com/spf13/cobra"
)

// runClient opens an app, runs fn against the selected transport and prints
// whatever fn returns.
func runClient(cmd *cobra.Command, operation string, fn func(ctx context.Context, api client.API) (any, error)) error {
	a, err := newApp(operation, slog.LevelWarn)
	if err != nil {
		return err
	}
	defer a.Close()

	api, err := a.Client(remote, actAs)
	if err != nil {
		a.Fail(err)
		return err
	}

	out, err := fn(cmd.Context(), api)
	if err != nil {
		a.Fail(err)
		return err
	}
	return writeResult(cmd.OutOrStdout(), out)
}

// writeResult prints out as JSON. A nil result, including a nil pointer held
// in out, prints nothing. Empty slices still print as [].
func writeResult(w io.Writer, out any) error {
	if out == nil {
		return nil
	}
	if v := reflect.ValueOf(out); v.Kind() == reflect.Pointer && v.IsNil() {
		return nil
	}
	return printJSON(w, out)
}

func intArg(args []string, i int, what string) (int, error) {
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, args[i])
	}
	return n, nil
}

var getCmd = &cobra.Command{
	Use:   "get [USER]",
	Short: "Show a user's feed",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := actAs
		if len(args) == 1 {
			var err error
			if userID, err = intArg(args, 0, "user id"); err != nil {
				return err
			}
		}
		return runClient(cmd, "GetFeed", func(ctx context.Context, api client.API) (any, error) {
			return api.GetFeedData(userID).Await(ctx)
		})
	},
}

var postCmd = &cobra.Command{
	Use:   "post TEXT",
	Short: "Post a status update",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		location, _ := cmd.Flags().GetString("location")
		return runClient(cmd, "PostStatusUpdate", func(ctx context.Context, api client.API) (any, error) {
			return api.PostStatusUpdate(actAs, location, args[0]).Await(ctx)
		})
	},
}

var commentCmd = &cobra.Command{
	Use:   "comment ITEM TEXT",
	Short: "Comment on a feed item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, err := intArg(args, 0, "feed item id")
		if err != nil {
			return err
		}
		return runClient(cmd, "PostComment", func(ctx context.Context, api client.API) (any, error) {
			return api.PostComment(itemID, actAs, args[1]).Await(ctx)
		})
	},
}

var likeCmd = &cobra.Command{
	Use:   "like ITEM",
	Short: "Like a feed item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, err := intArg(args, 0, "feed item id")
		if err != nil {
			return err
		}
		return runClient(cmd, "LikeFeedItem", func(ctx context.Context, api client.API) (any, error) {
			return api.LikeFeedItem(itemID, actAs).Await(ctx)
		})
	},
}

var unlikeCmd = &cobra.Command{
	Use:   "unlike ITEM",
	Short: "Remove a like from a feed item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, err := intArg(args, 0, "feed item id")
		if err != nil {
			return err
		}
		return runClient(cmd, "UnlikeFeedItem", func(ctx context.Context, api client.API) (any, error) {
			return api.UnlikeFeedItem(itemID, actAs).Await(ctx)
		})
	},
}

// commentTarget parses the ITEM COMMENT_INDEX pair shared by the comment like commands.
func commentTarget(args []string) (int, int, error) {
	itemID, err := intArg(args, 0, "feed item id")
	if err != nil {
		return 0, 0, err
	}
	idx, err := intArg(args, 1, "comment index")
	if err != nil {
		return 0, 0, err
	}
	return itemID, idx, nil
}

var likeCommentCmd = &cobra.Command{
	Use:   "like-comment ITEM INDEX",
	Short: "Like a comment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, idx, err := commentTarget(args)
		if err != nil {
			return err
		}
		return runClient(cmd, "LikeComment", func(ctx context.Context, api client.API) (any, error) {
			return api.LikeComment(itemID, idx, actAs).Await(ctx)
		})
	},
}

var unlikeCommentCmd = &cobra.Command{
	Use:   "unlike-comment ITEM INDEX",
	Short: "Remove a like from a comment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, idx, err := commentTarget(args)
		if err != nil {
			return err
		}
		return runClient(cmd, "UnlikeComment", func(ctx context.Context, api client.API) (any, error) {
			return api.UnlikeComment(itemID, idx, actAs).Await(ctx)
		})
	},
}

var editCmd = &cobra.Command{
	Use:   "edit ITEM TEXT",
	Short: "Replace the text of a status update",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, err := intArg(args, 0, "feed item id")
		if err != nil {
			return err
		}
		return runClient(cmd, "UpdateFeedItemText", func(ctx context.Context, api client.API) (any, error) {
			return api.UpdateFeedItemText(itemID, args[1]).Await(ctx)
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete ITEM",
	Short: "Delete a feed item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, err := intArg(args, 0, "feed item id")
		if err != nil {
			return err
		}
		return runClient(cmd, "DeleteFeedItem", func(ctx context.Context, api client.API) (any, error) {
			if _, err := api.DeleteFeedItem(itemID).Await(ctx); err != nil {
				return nil, err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted feed item %d\n", itemID)
			return nil, nil
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search your feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClient(cmd, "SearchForFeedItems", func(ctx context.Context, api client.API) (any, error) {
			return api.SearchForFeedItems(actAs, args[0]).Await(ctx)
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the store to the seed data",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClient(cmd, "ResetDatabase", func(ctx context.Context, api client.API) (any, error) {
			if _, err := api.ResetDatabase().Await(ctx); err != nil {
				return nil, err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database reset")
			return nil, nil
		})
	},
}

func init() {
	postCmd.Flags().StringP("location", "l", "", "Where the update was posted from")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(likeCmd)
	rootCmd.AddCommand(unlikeCmd)
	rootCmd.AddCommand(likeCommentCmd)
	rootCmd.AddCommand(unlikeCommentCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(resetCmd)
}
