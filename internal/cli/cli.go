// Package cli is the command boundary around the core services. Each
// invocation runs exactly one operation against the snapshot store,
// prints the result as JSON on stdout and maps typed failures to exit
// messages. It owns no business rules.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dkovalev/sociable/internal/logger"
	"github.com/dkovalev/sociable/internal/model"
	"github.com/dkovalev/sociable/internal/service"
)

// App bundles the core services for the command tree.
type App struct {
	Auth          *service.Auth
	Verification  *service.Verification
	Social        *service.Social
	Feed          *service.Feed
	Notifications *service.Notification
	Messages      *service.Message
	Logger        *logger.Logger
}

// NewRoot builds the sociable command tree.
func NewRoot(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "sociable",
		Short:         "Minimal social network backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newRegisterCmd(app),
		newLoginCmd(app),
		newVerifyCmd(app),
		newRequestCodeCmd(app),
		newMeCmd(app),
		newProfileCmd(app),
		newSearchCmd(app),
		newUserCmd(app),
		newFollowCmd(app),
		newPostCmd(app),
		newFeedCmd(app),
		newLikeCmd(app),
		newCommentCmd(app),
		newCommentsCmd(app),
		newMsgCmd(app),
		newNotificationsCmd(app),
	)

	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// authenticate resolves the --token flag to the calling user.
func authenticate(app *App, cmd *cobra.Command) (int64, error) {
	token, err := cmd.Flags().GetString("token")
	if err != nil {
		return 0, err
	}
	if token == "" {
		return 0, model.NewErrInvalidToken()
	}
	return app.Auth.Authenticate(cmd.Context(), token)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewErrValidation(fmt.Sprintf("invalid id %q", arg))
	}
	return id, nil
}

// Recoverable reports whether the error belongs to the typed taxonomy a
// caller can act on. Anything else, persistence failures included, is
// treated as fatal by main.
func Recoverable(err error) bool {
	var (
		validation   *model.ValidationError
		conflict     *model.ConflictError
		notFound     *model.NotFoundError
		auth         *model.AuthError
		verification *model.VerificationError
	)
	return errors.As(err, &validation) ||
		errors.As(err, &conflict) ||
		errors.As(err, &notFound) ||
		errors.As(err, &auth) ||
		errors.As(err, &verification)
}

// Render maps a typed failure to a short, caller-facing message.
func Render(err error) string {
	var authErr *model.AuthError
	if errors.As(err, &authErr) && authErr.Reason == model.AuthUnverified {
		return fmt.Sprintf("%s: user %d must verify channel %q",
			authErr.Reason, authErr.UserID, authErr.Channel)
	}
	return err.Error()
}
