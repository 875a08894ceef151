package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"igmobile/internal/batch"
	"igmobile/pkg/instagram"
	"igmobile/pkg/pagination"
	"igmobile/pkg/ratelimit"
	"igmobile/pkg/storage"
)

var (
	maxPages   int
	feedTag    string
	feedUser   string
	feedLiked  bool
	following  bool
	workers    int
	exportDir  string
	activityOf string
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "List posts from the timeline, a user, a hashtag or your likes",
	Example: `  igmobile feed -u alice --pages 2
  igmobile feed -u alice --tag golang
  igmobile feed -u alice --user bob`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), requireLogin(func(ctx context.Context, c *instagram.Client) error {
			var page *pagination.Page[instagram.Media]
			var err error
			switch {
			case feedTag != "":
				page, err = c.FetchTagFeed(ctx, strings.TrimPrefix(feedTag, "#"), maxPages)
			case feedUser != "":
				page, err = c.FetchUserMedia(ctx, instagram.SanitizeUsername(feedUser), maxPages)
			case feedLiked:
				page, err = c.FetchLikeFeed(ctx, maxPages)
			default:
				page, err = c.FetchTimelineFeed(ctx, maxPages)
			}
			if err != nil {
				return err
			}

			for _, m := range page.Items {
				out.Item(m.ID, m.Type.String(), "@"+m.User.UserName, strconv.Itoa(m.LikeCount)+" likes", oneLine(m.Caption))
			}
			reportPage(page.Pages, len(page.Items), page.Warning)
			return nil
		}))
	},
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "List your recent activity or that of the accounts you follow",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), requireLogin(func(ctx context.Context, c *instagram.Client) error {
			fetch := c.FetchRecentActivity
			if activityOf == "following" {
				fetch = c.FetchFollowingActivity
			}
			page, err := fetch(ctx, maxPages)
			if err != nil {
				return err
			}
			for _, a := range page.Items {
				out.Item(a.Timestamp.Format("2006-01-02 15:04"), oneLine(a.Text))
			}
			reportPage(page.Pages, len(page.Items), page.Warning)
			return nil
		}))
	},
}

var followersCmd = &cobra.Command{
	Use:   "followers <username>...",
	Short: "List the followers (or followees) of one or more users",
	Long: `List the followers of each user. With several users the lists are fetched
concurrently. With --export every list is written to <dir>/<kind>_<username>.json
and users exported by an earlier run are skipped.`,
	Example: `  igmobile followers -u alice bob
  igmobile followers -u alice --following bob carol dave --workers 3 --export ./lists`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), requireLogin(func(ctx context.Context, c *instagram.Client) error {
			kind, fetch := "followers", c.FetchFollowers
			if following {
				kind, fetch = "following", c.FetchFollowing
			}

			var exporter batch.Exporter
			if exportDir != "" {
				manager, err := storage.NewManager(exportDir)
				if err != nil {
					return err
				}
				exporter = manager
			}

			jobs := make([]batch.Job[instagram.UserShort], 0, len(args))
			for _, name := range uniqueUsernames(args) {
				jobs = append(jobs, batch.Job[instagram.UserShort]{
					Name: kind + "_" + name,
					Fetch: func(ctx context.Context) (*pagination.Page[instagram.UserShort], error) {
						return fetch(ctx, name, maxPages)
					},
				})
			}

			pool := batch.NewPool[instagram.UserShort](workers, exporter, ratelimit.FromConfig(cfg.RateLimit), nil)
			failed := 0
			for _, r := range batch.Run(ctx, pool, jobs) {
				switch {
				case r.Error != nil:
					failed++
					out.Error(r.Job.Name, r.Error)
				case r.Skipped:
					out.Warning(r.Job.Name + " already exported, skipped")
				case r.Page == nil:
					failed++
					out.Error(r.Job.Name + " returned no result")
				default:
					if exporter == nil {
						out.Highlight(r.Job.Name)
						for _, u := range r.Page.Items {
							out.Item(u.UserName, u.FullName)
						}
					}
					reportPage(r.Page.Pages, len(r.Page.Items), r.Page.Warning)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d lists failed", failed, len(jobs))
			}
			return nil
		}))
	},
}

// uniqueUsernames sanitizes names and drops repeats, keeping the first occurrence
func uniqueUsernames(args []string) []string {
	seen := make(map[string]bool, len(args))
	names := make([]string, 0, len(args))
	for _, arg := range args {
		name := instagram.SanitizeUsername(arg)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

var commentsCmd = &cobra.Command{
	Use:   "comments <media-id>",
	Short: "List the comments of a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), requireLogin(func(ctx context.Context, c *instagram.Client) error {
			page, err := c.FetchComments(ctx, args[0], maxPages)
			if err != nil {
				return err
			}
			for _, cm := range page.Items {
				out.Item("@"+cm.User.UserName, oneLine(cm.Text))
			}
			reportPage(page.Pages, len(page.Items), page.Warning)
			return nil
		}))
	},
}

func init() {
	for _, cmd := range []*cobra.Command{feedCmd, activityCmd, followersCmd, commentsCmd} {
		cmd.Flags().IntVar(&maxPages, "pages", 1, "maximum number of pages to fetch (0 for all)")
		rootCmd.AddCommand(cmd)
	}

	feedCmd.Flags().StringVar(&feedTag, "tag", "", "hashtag feed")
	feedCmd.Flags().StringVar(&feedUser, "user", "", "posts of this user")
	feedCmd.Flags().BoolVar(&feedLiked, "liked", false, "posts you liked")

	activityCmd.Flags().StringVar(&activityOf, "of", "me", "whose activity: me or following")

	followersCmd.Flags().BoolVar(&following, "following", false, "list followees instead of followers")
	followersCmd.Flags().IntVar(&workers, "workers", 2, "lists fetched concurrently")
	followersCmd.Flags().StringVar(&exportDir, "export", "", "write each list as JSON into this directory")
}

func reportPage(pages, items int, warning string) {
	if warning != "" {
		out.Warning(warning)
	}
	out.Info("Fetched", fmt.Sprintf("%d items in %d pages", items, pages))
}

func oneLine(s string) string {
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) > 80 {
		return string(r[:77]) + "..."
	}
	return string(r)
}
