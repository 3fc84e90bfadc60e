package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/hirehub/internal/client/models"
	"github.com/dmitrijs2005/hirehub/internal/client/session"
)

var (
	ErrNotLoggedIn      = errors.New("not logged in")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// getSimpleText and getPassword are indirections so tests can script input.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

// resultErr converts a failed Result into an error. The user has already
// seen the notice.
func resultErr(res models.Result) error {
	if res.Success {
		return nil
	}
	return errors.New(res.Error)
}

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Please log in first.")
		return ErrNotLoggedIn
	}
	return nil
}

// Register prompts for account details and creates an account. The account
// stays pending until "verify".
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	roleText, err := getSimpleText(a.reader, "Role: jobseeker or employer [jobseeker]", a.out)
	if err != nil {
		return err
	}

	data := models.Registration{Name: name, Email: email, Password: password, Role: models.RoleJobSeeker}
	if models.Role(strings.ToLower(roleText)) == models.RoleEmployer {
		data.Role = models.RoleEmployer
		if data.Company, err = getSimpleText(a.reader, "Company", a.out); err != nil {
			return err
		}
	}

	return resultErr(a.auth.Register(ctx, data))
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}

	return resultErr(a.auth.Login(ctx, models.Credentials{Email: email, Password: password}))
}

func (a *App) Logout(ctx context.Context) error {
	return resultErr(a.auth.Logout(ctx))
}

// Verify completes a pending registration once the email link was followed.
func (a *App) Verify(ctx context.Context) error {
	return resultErr(a.auth.VerifyEmail(ctx))
}

// WhoAmI prints the signed-in profile and when the session token expires.
func (a *App) WhoAmI(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	u := a.auth.CurrentUser()

	fmt.Fprintf(a.out, "[%s] %s <%s>\n", u.Initial(), u.Name, u.Email)
	if u.Role != "" {
		fmt.Fprintf(a.out, "  role:     %s\n", u.Role.Label())
	}
	if u.Company != "" {
		fmt.Fprintf(a.out, "  company:  %s\n", u.Company)
	}
	if u.Location != "" {
		fmt.Fprintf(a.out, "  location: %s\n", u.Location)
	}
	if u.Phone != "" {
		fmt.Fprintf(a.out, "  phone:    %s\n", u.Phone)
	}
	if u.Website != "" {
		fmt.Fprintf(a.out, "  website:  %s\n", u.Website)
	}
	if len(u.Skills) > 0 {
		fmt.Fprintf(a.out, "  skills:   %s\n", strings.Join(u.Skills, ", "))
	}
	if u.Bio != "" {
		fmt.Fprintf(a.out, "  bio:      %s\n", u.Bio)
	}

	token, err := a.store.Token(ctx, session.ScopeActive)
	if err != nil {
		a.log.Warn(ctx, "reading token failed", "error", err)
		return nil
	}
	switch exp, ok := token.ExpiresAt(); {
	case token.IsDemo():
		fmt.Fprintln(a.out, "  session:  demo")
	case ok:
		fmt.Fprintf(a.out, "  session:  expires %s\n", exp.Local().Format(time.DateTime))
	}
	return nil
}

// Profile prompts for the fields to change; empty answers are left out.
func (a *App) Profile(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Leave a field empty to keep it.")

	var data models.ProfileUpdate
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Name", &data.Name},
		{"Phone", &data.Phone},
		{"Location", &data.Location},
		{"Company", &data.Company},
		{"Website", &data.Website},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	skills, err := getSimpleText(a.reader, "Skills (comma separated)", a.out)
	if err != nil {
		return err
	}
	data.Skills = SplitList(skills)

	if data.Bio, err = getMultiline(a.reader, "Bio", a.out); err != nil {
		return err
	}

	return resultErr(a.auth.UpdateProfile(ctx, data))
}

func (a *App) Passwd(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	current, err := getPassword("Current password", a.out)
	if err != nil {
		return err
	}
	next, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	confirm, err := getPassword("Confirm new password", a.out)
	if err != nil {
		return err
	}
	if next != confirm {
		fmt.Fprintln(a.out, "Passwords do not match.")
		return ErrPasswordMismatch
	}

	return resultErr(a.auth.ChangePassword(ctx, models.PasswordChange{CurrentPassword: current, NewPassword: next}))
}
