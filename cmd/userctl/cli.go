package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"user-console/internal/adapter/reqres"
	"user-console/internal/adapter/session"
	domain "user-console/internal/domain/user"
	"user-console/internal/usecase/auth"
	"user-console/internal/usecase/userlist"
	apperrors "user-console/pkg/errors"
)

var errNotLoggedIn = errors.New("not logged in, run `userctl login` first")

// cli runs one command against the remote API on behalf of the stored session.
type cli struct {
	sess *session.Session
	gate *auth.Gate
	auth *auth.Service
	ctrl *userlist.Controller
	in   *bufio.Reader
	out  io.Writer
}

func newCLI(api *reqres.Client, sess *session.Session, pageSize int, in io.Reader, out io.Writer, log *zap.Logger) *cli {
	return &cli{
		sess: sess,
		gate: auth.NewGate(log),
		auth: auth.NewService(api, log),
		ctrl: userlist.New(api, pageSize, log),
		in:   bufio.NewReader(in),
		out:  out,
	}
}

func (c *cli) login(ctx context.Context, email, password string) error {
	if err := c.auth.Login(ctx, c.sess, auth.LoginRequest{Email: email, Password: password}); err != nil {
		return errors.New(apperrors.Message(err))
	}
	fmt.Fprintln(c.out, "Logged in.")
	return nil
}

func (c *cli) logout(ctx context.Context) error {
	if err := c.auth.Logout(ctx, c.sess); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Logged out successfully")
	return nil
}

// open checks the session and loads page.
func (c *cli) open(ctx context.Context, page int) error {
	if out := c.gate.Protect(ctx, c.sess, "users"); !out.Allowed() {
		return errNotLoggedIn
	}
	if err := c.ctrl.GoTo(ctx, page); err != nil {
		return errors.New(apperrors.Message(err))
	}
	return nil
}

func (c *cli) list(ctx context.Context, page int) error {
	if err := c.open(ctx, page); err != nil {
		return err
	}
	c.render(c.ctrl.Snapshot())
	return nil
}

func (c *cli) edit(ctx context.Context, page int, id int64, change userlist.DraftChange) error {
	if err := c.open(ctx, page); err != nil {
		return err
	}
	if err := c.ctrl.BeginEdit(id); err != nil {
		return fmt.Errorf("user %d is not on page %d", id, c.ctrl.Snapshot().CurrentPage)
	}
	if err := c.ctrl.ChangeDraft(change); err != nil {
		return errors.New(apperrors.Message(err))
	}
	if err := c.ctrl.Save(ctx); err != nil {
		return errors.New(apperrors.Message(err))
	}
	snap := c.ctrl.Snapshot()
	fmt.Fprintln(c.out, snap.Message)
	c.render(snap)
	return nil
}

func (c *cli) delete(ctx context.Context, page int, id int64, yes bool) error {
	if err := c.open(ctx, page); err != nil {
		return err
	}
	confirmer := userlist.Confirmed
	if !yes {
		confirmer = userlist.ConfirmFunc(c.confirm)
	}
	if err := c.ctrl.Delete(ctx, id, confirmer); err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) {
			return fmt.Errorf("user %d is not on page %d", id, c.ctrl.Snapshot().CurrentPage)
		}
		return errors.New(apperrors.Message(err))
	}
	snap := c.ctrl.Snapshot()
	if snap.Message == "" {
		fmt.Fprintln(c.out, "Nothing deleted.")
		return nil
	}
	fmt.Fprintln(c.out, snap.Message)
	c.render(snap)
	return nil
}

func (c *cli) confirm(_ context.Context, u domain.User) bool {
	fmt.Fprintf(c.out, "Are you sure you want to delete %s %s (%s)? [y/N] ", u.FirstName, u.LastName, u.Email)
	answer, err := c.in.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func (c *cli) render(snap userlist.Snapshot) {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFIRST NAME\tLAST NAME\tEMAIL")
	for _, u := range snap.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.FirstName, u.LastName, u.Email)
	}
	_ = w.Flush()

	nav := fmt.Sprintf("Page %d of %d", snap.CurrentPage, snap.TotalPages)
	if snap.HasPrevious {
		nav += "  [previous: --page " + fmt.Sprint(snap.CurrentPage-1) + "]"
	}
	if snap.HasNext {
		nav += "  [next: --page " + fmt.Sprint(snap.CurrentPage+1) + "]"
	}
	fmt.Fprintln(c.out, nav)
}
