package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
)

var fieldPrompts = map[string]string{
	models.FieldName:     "Name",
	models.FieldUsername: "Username",
	models.FieldEmail:    "Email",
	models.FieldPhone:    "Phone (+7 999 999-99-99)",
	models.FieldZipcode:  "Zipcode (optional)",
}

// Add runs the creation form. After the first submit only the invalid
// fields are asked again, each until it passes on its own. When the store
// rejects the user, the entered data is kept and a retry is offered.
func (a *App) Add(ctx context.Context) error {
	form := make(map[string]string, len(models.FormFields))
	for _, f := range models.FormFields {
		v, err := a.askField(f)
		if err != nil {
			return a.cancelForm(err)
		}
		form[f] = v
	}

	for {
		n := newUserFromForm(form)
		err := a.users.AddUser(ctx, n)
		if err == nil {
			a.notifyOK("user %q added", n.Name)
			return nil
		}

		var fieldErrs models.FieldErrors
		if errors.As(err, &fieldErrs) {
			for _, f := range fieldErrs.Fields() {
				a.notifyErr("%s: %s", f, fieldErrs[f])
				v, err := a.askValidField(f)
				if err != nil {
					return a.cancelForm(err)
				}
				form[f] = v
			}
			continue
		}

		a.notifyErr("failed to add user: %v", err)
		retry, cerr := GetConfirmation(a.in, "Retry with the same data?", a.out)
		if cerr != nil || !retry {
			return err
		}
	}
}

func (a *App) askField(field string) (string, error) {
	v, err := GetSimpleText(a.in, fieldPrompts[field], a.out)
	if err != nil {
		return "", err
	}
	if field == models.FieldPhone {
		v = models.NormalizePhone(v)
	}
	return v, nil
}

func (a *App) askValidField(field string) (string, error) {
	for {
		v, err := a.askField(field)
		if err != nil {
			return "", err
		}
		msg := models.ValidateField(field, v)
		if msg == "" {
			return v, nil
		}
		a.notifyErr("%s: %s", field, msg)
	}
}

func (a *App) cancelForm(err error) error {
	fmt.Fprintln(a.out, "add cancelled")
	return err
}

func newUserFromForm(form map[string]string) models.NewUser {
	return models.NewUser{
		Name:     form[models.FieldName],
		Username: form[models.FieldUsername],
		Email:    form[models.FieldEmail],
		Phone:    form[models.FieldPhone],
		Zipcode:  form[models.FieldZipcode],
	}
}
