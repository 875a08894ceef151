package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"igmobile/pkg/instagram"
)

var likeCmd = &cobra.Command{
	Use:   "like <media-id>...",
	Short: "Like posts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return eachMedia(cmd, args, "Liked", (*instagram.Client).Like)
	},
}

var unlikeCmd = &cobra.Command{
	Use:   "unlike <media-id>...",
	Short: "Remove likes from posts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return eachMedia(cmd, args, "Unliked", (*instagram.Client).Unlike)
	},
}

var followCmd = &cobra.Command{
	Use:   "follow <username>",
	Short: "Follow a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeFriendship(cmd, args[0], "Following", (*instagram.Client).Follow)
	},
}

var unfollowCmd = &cobra.Command{
	Use:   "unfollow <username>",
	Short: "Stop following a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeFriendship(cmd, args[0], "Unfollowed", (*instagram.Client).Unfollow)
	},
}

var commentCmd = &cobra.Command{
	Use:   "comment <media-id> <text>...",
	Short: "Comment on a post",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), requireLogin(func(ctx context.Context, c *instagram.Client) error {
			comment, err := c.CommentMedia(ctx, args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			out.Success("Comment posted")
			out.Info("Comment ID", comment.Pk)
			return nil
		}))
	},
}

var captionCmd = &cobra.Command{
	Use:   "caption <media-id> <text>...",
	Short: "Replace the caption of one of your posts",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), requireLogin(func(ctx context.Context, c *instagram.Client) error {
			if err := c.EditMedia(ctx, args[0], strings.Join(args[1:], " ")); err != nil {
				return err
			}
			out.Success("Caption updated")
			return nil
		}))
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <media-id>",
	Short: "Delete one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), requireLogin(func(ctx context.Context, c *instagram.Client) error {
			m, err := c.GetMedia(ctx, args[0])
			if err != nil {
				return err
			}
			deleted, err := c.DeleteMedia(ctx, m.ID, m.Type)
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("server did not delete %s", m.ID)
			}
			out.Success("Deleted " + m.ID)
			return nil
		}))
	},
}

func init() {
	rootCmd.AddCommand(likeCmd, unlikeCmd, followCmd, unfollowCmd, commentCmd, captionCmd, deleteCmd)
}

func eachMedia(cmd *cobra.Command, ids []string, done string, action func(*instagram.Client, context.Context, string) error) error {
	return withClient(cmd.Context(), requireLogin(func(ctx context.Context, c *instagram.Client) error {
		for _, id := range ids {
			if err := action(c, ctx, id); err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			out.Success(done + " " + id)
		}
		return nil
	}))
}

func changeFriendship(cmd *cobra.Command, name, done string, action func(*instagram.Client, context.Context, string) (*instagram.FriendshipStatus, error)) error {
	return withClient(cmd.Context(), requireLogin(func(ctx context.Context, c *instagram.Client) error {
		user, err := c.GetUser(ctx, instagram.SanitizeUsername(name))
		if err != nil {
			return err
		}
		status, err := action(c, ctx, user.Pk)
		if err != nil {
			return err
		}
		out.Success(done + " @" + user.UserName)
		if status.OutgoingRequest {
			out.Info("Request", "pending approval")
		}
		return nil
	}))
}
