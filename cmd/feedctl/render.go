package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pandaloves/social-posts-app/internal/feed"
	"github.com/pandaloves/social-posts-app/internal/model"
)

const timeLayout = "2006-01-02 15:04"

func renderState(w io.Writer, title string, s feed.PageState, viewer model.ID) {
	pages := s.TotalPages
	if pages < 1 {
		pages = 1
	}
	fmt.Fprintf(w, "%s: %d of %d posts, page %d/%d\n", title, len(s.Items), s.TotalItems, s.CurrentPageIndex+1, pages)

	if len(s.Items) == 0 {
		fmt.Fprintln(w, "  no posts yet")
		return
	}

	for _, p := range s.Items {
		var tags []string
		if p.Edited() {
			tags = append(tags, "edited")
		}
		if feed.IsOwnPost(p, viewer) {
			tags = append(tags, "yours")
		}

		fmt.Fprintf(w, "#%s %s %s", p.ID, authorName(p.Author), p.CreatedAt.Local().Format(timeLayout))
		if len(tags) > 0 {
			fmt.Fprintf(w, " [%s]", strings.Join(tags, ", "))
		}
		fmt.Fprintf(w, "\n    %s\n", p.Text)
	}

	if s.HasMore() {
		fmt.Fprintln(w, "  more posts available, raise --pages")
	}
}

func renderWall(w io.Writer, wall feed.Wall) {
	fmt.Fprintf(w, "@%s (user %s)", wall.Owner.Username, wall.Owner.ID)
	if wall.IsOwnWall() {
		fmt.Fprint(w, " [you]")
	}
	fmt.Fprintln(w)
	if wall.Owner.Bio != "" {
		fmt.Fprintf(w, "  %s\n", wall.Owner.Bio)
	}
	renderState(w, "wall", wall.State, wall.Viewer)
}

func authorName(u model.UserRef) string {
	switch {
	case u.Username != "":
		return "@" + u.Username
	case u.ID != "":
		return "user " + string(u.ID)
	default:
		return "unknown author"
	}
}

func renderComments(w io.Writer, comments []model.Comment) {
	if len(comments) == 0 {
		fmt.Fprintln(w, "no comments")
		return
	}
	for _, c := range comments {
		fmt.Fprintf(w, "#%s @%s %s\n    %s\n", c.ID, c.Username, c.CreatedAt.Local().Format(timeLayout), c.CommentText)
	}
}

func renderFriendships(w io.Writer, friendships []model.Friendship) {
	if len(friendships) == 0 {
		fmt.Fprintln(w, "no friends yet")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tREQUESTER\tADDRESSEE\tSTATUS")
	for _, f := range friendships {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.ID, f.Requester, f.Addressee, f.Status)
	}
	tw.Flush()
}

func renderUsers(w io.Writer, users []model.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "no matching users")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", u.ID, u.Username, u.Email)
	}
	tw.Flush()
}
