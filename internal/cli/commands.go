package cli

import (
	"github.com/spf13/cobra"

	"github.com/dkovalev/sociable/internal/model"
	"github.com/dkovalev/sociable/internal/service"
)

func newRegisterCmd(app *App) *cobra.Command {
	var params service.RegisterParams
	var channel string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and send the first verification code",
		RunE: func(cmd *cobra.Command, args []string) error {
			params.PreferredChannel = model.Channel(channel)
			result, err := app.Auth.Register(cmd.Context(), params)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&params.Email, "email", "", "account email")
	cmd.Flags().StringVar(&params.Username, "username", "", "unique username")
	cmd.Flags().StringVar(&params.Password, "password", "", "account password")
	cmd.Flags().StringVar(&params.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&params.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&params.BirthDate, "birth-date", "", "birth date")
	cmd.Flags().StringVar(&params.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&params.Address, "address", "", "postal address")
	cmd.Flags().StringVar(&channel, "channel", "email", "preferred verification channel (email|sms)")
	cmd.Flags().BoolVar(&params.Consent, "consent", false, "accept the privacy policy")

	return cmd
}

func newLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange credentials for a bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Auth.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")

	return cmd
}

func newVerifyCmd(app *App) *cobra.Command {
	var userID int64
	var channel, code string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Consume a verification code",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.Verification.Consume(cmd.Context(), userID, model.Channel(channel), code)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]bool{"ok": true})
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "user id")
	cmd.Flags().StringVar(&channel, "channel", "email", "channel the code was sent on")
	cmd.Flags().StringVar(&code, "code", "", "6-digit code")

	return cmd
}

func newRequestCodeCmd(app *App) *cobra.Command {
	var userID int64
	var channel string

	cmd := &cobra.Command{
		Use:   "request-code",
		Short: "Issue a fresh verification code",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.Verification.IssueCode(cmd.Context(), userID, model.Channel(channel))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]bool{"ok": true})
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "user id")
	cmd.Flags().StringVar(&channel, "channel", "email", "delivery channel (email|sms)")

	return cmd
}

func newMeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "me",
		Short: "Show the caller's profile and stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := authenticate(app, cmd)
			if err != nil {
				return err
			}
			profile, err := app.Auth.Me(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), profile)
		},
	}
	cmd.Flags().String("token", "", "bearer token")
	return cmd
}

func newProfileCmd(app *App) *cobra.Command {
	var username, avatar, bio string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update the caller's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := authenticate(app, cmd)
			if err != nil {
				return err
			}
			var params service.UpdateProfileParams
			if cmd.Flags().Changed("username") {
				params.Username = &username
			}
			if cmd.Flags().Changed("avatar") {
				params.AvatarURL = &avatar
			}
			if cmd.Flags().Changed("bio") {
				params.Bio = &bio
			}
			user, err := app.Auth.UpdateProfile(cmd.Context(), userID, params)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]model.UserPublic{"user": user})
		},
	}

	cmd.Flags().String("token", "", "bearer token")
	cmd.Flags().StringVar(&username, "username", "", "new username")
	cmd.Flags().StringVar(&avatar, "avatar", "", "avatar URL, empty clears")
	cmd.Flags().StringVar(&bio, "bio", "", "bio text, empty clears")

	return cmd
}

func newSearchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search users by username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := authenticate(app, cmd)
			if err != nil {
				return err
			}
			users, err := app.Auth.SearchUsers(cmd.Context(), userID, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string][]model.UserSummary{"users": users})
		},
	}
	cmd.Flags().String("token", "", "bearer token")
	return cmd
}

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user <id>",
		Short: "Show another user's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := authenticate(app, cmd)
			if err != nil {
				return err
			}
			targetID, err := parseID(args[0])
			if err != nil {
				return err
			}
			detail, err := app.Auth.GetUser(cmd.Context(), userID, targetID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), detail)
		},
	}
	cmd.Flags().String("token", "", "bearer token")
	return cmd
}

func newFollowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "follow <id>",
		Short: "Toggle following a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := authenticate(app, cmd)
			if err != nil {
				return err
			}
			targetID, err := parseID(args[0])
			if err != nil {
				return err
			}
			following, err := app.Social.ToggleFollow(cmd.Context(), userID, targetID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]bool{"following": following})
		},
	}
	cmd.Flags().String("token", "", "bearer token")
	return cmd
}

func newPostCmd(app *App) *cobra.Command {
	var content, image string

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Publish a post",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := authenticate(app, cmd)
			if err != nil {
				return err
			}
			post, err := app.Feed.CreatePost(cmd.Context(), userID, content, image)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]model.Post{"post": post})
		},
	}

	cmd.Flags().String("token", "", "bearer token")
	cmd.Flags().StringVar(&content, "content", "", "post text")
	cmd.Flags().StringVar(&image, "image", "", "optional image URL")

	return cmd
}

func newFeedCmd(app *App) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "List the global feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := authenticate(app, cmd)
			if err != nil {
				return err
			}
			posts, err := app.Feed.ListFeed(cmd.Context(), userID, limit, offset)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string][]model.PostView{"posts": posts})
		},
	}

	cmd.Flags().String("token", "", "bearer token")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size, capped at 50")
	cmd.Flags().IntVar(&offset, "offset", 0, "page offset")

	return cmd
}

func newLikeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "like <post-id>",
		Short: "Toggle a like on a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := authenticate(app, cmd)
			if err != nil {
				return err
			}
			postID, err := parseID(args[0])
			if err != nil {
				return err
			}
			liked, err := app.Feed.ToggleLike(cmd.Context(), userID, postID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]bool{"liked": liked})
		},
	}
	cmd.Flags().String("token", "", "bearer token")
	return cmd
}

func newCommentCmd(app *App) *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "comment <post-id>",
		Short: "Comment on a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := authenticate(app, cmd)
			if err != nil {
				return err
			}
			postID, err := parseID(args[0])
			if err != nil {
				return err
			}
			commentID, err := app.Feed.AddComment(cmd.Context(), userID, postID, content)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]int64{"commentId": commentID})
		},
	}

	cmd.Flags().String("token", "", "bearer token")
	cmd.Flags().StringVar(&content, "content", "", "comment text")

	return cmd
}

func newCommentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments <post-id>",
		Short: "List a post's comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := authenticate(app, cmd); err != nil {
				return err
			}
			postID, err := parseID(args[0])
			if err != nil {
				return err
			}
			comments, err := app.Feed.ListComments(cmd.Context(), postID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string][]model.CommentView{"comments": comments})
		},
	}
	cmd.Flags().String("token", "", "bearer token")
	return cmd
}

func newMsgCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "msg",
		Short: "Direct messaging",
	}

	var content string
	send := &cobra.Command{
		Use:   "send <user-id>",
		Short: "Send a direct message",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			userID, err := authenticate(app, c)
			if err != nil {
				return err
			}
			toID, err := parseID(args[0])
			if err != nil {
				return err
			}
			message, err := app.Messages.Send(c.Context(), userID, toID, content)
			if err != nil {
				return err
			}
			return printJSON(c.OutOrStdout(), map[string]model.Message{"message": message})
		},
	}
	send.Flags().String("token", "", "bearer token")
	send.Flags().StringVar(&content, "content", "", "message text")

	thread := &cobra.Command{
		Use:   "thread <user-id>",
		Short: "Show the thread with a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			userID, err := authenticate(app, c)
			if err != nil {
				return err
			}
			partnerID, err := parseID(args[0])
			if err != nil {
				return err
			}
			messages, err := app.Messages.Thread(c.Context(), userID, partnerID)
			if err != nil {
				return err
			}
			return printJSON(c.OutOrStdout(), map[string][]model.Message{"messages": messages})
		},
	}
	thread.Flags().String("token", "", "bearer token")

	conversations := &cobra.Command{
		Use:   "conversations",
		Short: "List conversations by recency",
		RunE: func(c *cobra.Command, args []string) error {
			userID, err := authenticate(app, c)
			if err != nil {
				return err
			}
			convs, err := app.Messages.Conversations(c.Context(), userID)
			if err != nil {
				return err
			}
			return printJSON(c.OutOrStdout(), map[string][]model.Conversation{"conversations": convs})
		},
	}
	conversations.Flags().String("token", "", "bearer token")

	cmd.AddCommand(send, thread, conversations)
	return cmd
}

func newNotificationsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List the most recent notifications",
		RunE: func(c *cobra.Command, args []string) error {
			userID, err := authenticate(app, c)
			if err != nil {
				return err
			}
			notifs, err := app.Notifications.List(c.Context(), userID)
			if err != nil {
				return err
			}
			return printJSON(c.OutOrStdout(), map[string][]model.NotificationView{"notifications": notifs})
		},
	}
	cmd.Flags().String("token", "", "bearer token")

	read := &cobra.Command{
		Use:   "read",
		Short: "Mark all notifications read",
		RunE: func(c *cobra.Command, args []string) error {
			userID, err := authenticate(app, c)
			if err != nil {
				return err
			}
			if err := app.Notifications.MarkAllRead(c.Context(), userID); err != nil {
				return err
			}
			return printJSON(c.OutOrStdout(), map[string]bool{"ok": true})
		},
	}
	read.Flags().String("token", "", "bearer token")
	cmd.AddCommand(read)

	return cmd
}
