package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pandaloves/social-posts-app/internal/feed"
	"github.com/pandaloves/social-posts-app/internal/model"
)

func (a *app) loginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and print a token for FEEDCTL_TOKEN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("FEEDCTL_PASSWORD")
			}
			if password == "" {
				return errors.New("password is required (--password or FEEDCTL_PASSWORD)")
			}

			resp, err := a.api.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "logged in as %s (user %s)\n", args[0], resp.UserID)
			fmt.Fprintf(out, "export FEEDCTL_TOKEN=%s\n", resp.Token)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (FEEDCTL_PASSWORD)")
	return cmd
}

func (a *app) feedCmd() *cobra.Command {
	var pages int
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show the newest posts of everyone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := feed.New(a.api, "", a.cfg.PageSize, a.logger)
			defer store.Close()

			if _, err := store.RequestPage(cmd.Context(), 0, feed.Replace); err != nil {
				return err
			}
			state, err := loadMore(cmd.Context(), store, pages)
			if err != nil {
				return err
			}

			renderState(cmd.OutOrStdout(), "feed", state, a.viewer())
			return nil
		},
	}
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")
	return cmd
}

func (a *app) wallCmd() *cobra.Command {
	var pages int
	cmd := &cobra.Command{
		Use:   "wall <userId>",
		Short: "Show a user's profile and posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := feed.New(a.api, model.ID(args[0]), a.cfg.PageSize, a.logger)
			defer store.Close()

			wall, err := feed.OpenWall(cmd.Context(), a.api, store, a.viewer())
			if err != nil {
				return err
			}
			if wall.State, err = loadMore(cmd.Context(), store, pages); err != nil {
				return err
			}

			renderWall(cmd.OutOrStdout(), wall)
			return nil
		},
	}
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")
	return cmd
}

// loadMore appends pages until the store holds the requested number of pages
// or runs out of posts.
func loadMore(ctx context.Context, store *feed.Store, pages int) (feed.PageState, error) {
	state := store.State()
	for i := 1; i < pages && state.HasMore(); i++ {
		var err error
		if state, err = store.RequestPage(ctx, 0, feed.Append); err != nil {
			return state, err
		}
	}
	return state, nil
}

// openSession loads the first page of store so ownership of visible posts is
// known before mutating. store is closed when that load fails.
func (a *app) openSession(ctx context.Context, store *feed.Store, viewer model.ID, policy feed.Policy) (*feed.Session, error) {
	if _, err := store.RequestPage(ctx, 0, feed.Replace); err != nil {
		store.Close()
		return nil, err
	}
	return feed.NewSession(store, a.api, viewer, feed.Policies{Create: policy, Update: policy, Delete: policy}, a.logger), nil
}

func (a *app) postCmd() *cobra.Command {
	var reload bool

	ownWall := func(ctx context.Context) (*feed.Session, error) {
		viewer, err := a.requireViewer()
		if err != nil {
			return nil, err
		}

		policy := feed.PolicyLocalPatch
		if reload {
			policy = feed.PolicyReload
		}
		return a.openSession(ctx, feed.New(a.api, viewer, a.cfg.PageSize, a.logger), viewer, policy)
	}

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Create, edit or delete your posts",
	}
	cmd.PersistentFlags().BoolVar(&reload, "reload", false, "reload the first page after the change")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "create <text>",
			Short: "Publish a post",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				session, err := ownWall(cmd.Context())
				if err != nil {
					return err
				}
				defer session.Store().Close()

				post, err := session.CreatePost(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "created post #%s\n", post.ID)
				renderState(cmd.OutOrStdout(), "your wall", session.Store().State(), a.viewer())
				return nil
			},
		},
		&cobra.Command{
			Use:   "edit <postId> <text>",
			Short: "Change the text of a post",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				session, err := ownWall(cmd.Context())
				if err != nil {
					return err
				}
				defer session.Store().Close()

				id := model.ID(args[0])
				if err := session.UpdatePost(cmd.Context(), id, strings.Join(args[1:], " ")); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "updated post #%s\n", id)
				renderState(cmd.OutOrStdout(), "your wall", session.Store().State(), a.viewer())
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <postId>",
			Short: "Delete a post",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				session, err := ownWall(cmd.Context())
				if err != nil {
					return err
				}
				defer session.Store().Close()

				id := model.ID(args[0])
				if err := session.DeletePost(cmd.Context(), id); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "deleted post #%s\n", id)
				renderState(cmd.OutOrStdout(), "your wall", session.Store().State(), a.viewer())
				return nil
			},
		},
	)
	return cmd
}

func (a *app) commentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Read and write comments",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <postId> <text>",
			Short: "Comment on a post",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := a.requireViewer(); err != nil {
					return err
				}
				comment, err := a.api.AddComment(cmd.Context(), model.ID(args[0]), strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added comment #%s\n", comment.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list <postId>",
			Short: "List the comments of a post, oldest first",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				comments, err := a.api.ListComments(cmd.Context(), model.ID(args[0]))
				if err != nil {
					return err
				}
				renderComments(cmd.OutOrStdout(), comments)
				return nil
			},
		},
	)
	return cmd
}

func (a *app) friendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "friend",
		Short: "Manage friendships",
	}

	respond := func(accept bool) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireViewer(); err != nil {
				return err
			}
			call := a.api.RejectFriendship
			if accept {
				call = a.api.AcceptFriendship
			}
			f, err := call(cmd.Context(), model.ID(args[0]))
			if err != nil {
				return err
			}
			renderFriendships(cmd.OutOrStdout(), []model.Friendship{f})
			return nil
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "request <userId>",
			Short: "Send a friend request",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				viewer, err := a.requireViewer()
				if err != nil {
					return err
				}
				f, err := a.api.RequestFriendship(cmd.Context(), viewer, model.ID(args[0]))
				if err != nil {
					return err
				}
				renderFriendships(cmd.OutOrStdout(), []model.Friendship{f})
				return nil
			},
		},
		&cobra.Command{
			Use:   "accept <friendshipId>",
			Short: "Accept a friend request",
			Args:  cobra.ExactArgs(1),
			RunE:  respond(true),
		},
		&cobra.Command{
			Use:   "reject <friendshipId>",
			Short: "Reject a friend request",
			Args:  cobra.ExactArgs(1),
			RunE:  respond(false),
		},
		&cobra.Command{
			Use:   "list [userId]",
			Short: "List accepted friendships, yours by default",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var userID model.ID
				if len(args) == 1 {
					userID = model.ID(args[0])
				} else {
					viewer, err := a.requireViewer()
					if err != nil {
						return err
					}
					userID = viewer
				}
				friends, err := a.api.ListFriends(cmd.Context(), userID)
				if err != nil {
					return err
				}
				renderFriendships(cmd.OutOrStdout(), friends)
				return nil
			},
		},
	)
	return cmd
}

func (a *app) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Find users",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "search <query>",
		Short: "Match usernames and emails",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := a.api.SearchUsers(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			renderUsers(cmd.OutOrStdout(), users)
			return nil
		},
	})
	return cmd
}
