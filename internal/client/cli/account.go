package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/docshelf/internal/client/models"
	"github.com/dmitrijs2005/docshelf/internal/client/session"
	"github.com/dmitrijs2005/docshelf/internal/common"
)

// Profile shows the session user and lets them change their name, username
// and email. An empty answer keeps the current value.
func (a *App) Profile(ctx context.Context) error {
	if !a.goTo(ctx, session.Settings) {
		return nil
	}
	u := a.session.State().User

	var upd models.UserUpdate
	changed := false
	for _, f := range []struct {
		label string
		cur   string
		dst   **string
	}{
		{"Full name", u.FullName, &upd.FullName},
		{"Username", u.Username, &upd.Username},
		{"Email", u.Email, &upd.Email},
	} {
		v, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", f.label, f.cur), a.out)
		if err != nil {
			return err
		}
		if v != "" && v != f.cur {
			*f.dst = &v
			changed = true
		}
	}

	if !changed {
		fmt.Fprintln(a.out, "Nothing to change.")
		return nil
	}

	updated, err := a.account.UpdateProfile(ctx, upd)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Profile updated: %s\n", updated.DisplayName())
	return nil
}

// Passwd changes the account password.
func (a *App) Passwd(ctx context.Context) error {
	if !a.goTo(ctx, session.Settings) {
		return nil
	}

	pw, err := a.readNewPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	if err := a.account.ChangePassword(ctx, string(pw)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password changed.")
	return nil
}

// Avatar uploads a local image as the profile picture.
func (a *App) Avatar(ctx context.Context) error {
	if !a.goTo(ctx, session.Settings) {
		return nil
	}

	path, err := getSimpleText(a.reader, "Path to image", a.out)
	if err != nil {
		return err
	}

	u, err := a.account.UploadAvatar(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Profile picture: %s\n", u.ProfilePicture)
	return nil
}

// Theme switches between the light and dark theme.
func (a *App) Theme(ctx context.Context) error {
	if !a.goTo(ctx, session.Settings) {
		return nil
	}
	fmt.Fprintf(a.out, "Theme: %s\n", a.theme.Toggle(ctx))
	return nil
}

// Notifications lists the notices of this run, newest first.
func (a *App) Notifications(ctx context.Context) error {
	if !a.goTo(ctx, session.Notifications) {
		return nil
	}

	list := a.notices.List()
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No notifications.")
		return nil
	}
	for i := len(list) - 1; i >= 0; i-- {
		n := list[i]
		mark := "i"
		if n.Level == models.NoticeError {
			mark = "!"
		}
		fmt.Fprintf(a.out, "[%s] %s  %s: %s\n", mark, n.CreatedAt.Format("15:04:05"), n.Title, n.Message)
	}
	return nil
}
