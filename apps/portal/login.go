package main

import (
	"errors"
	"fmt"

	"github.com/trezcool/ajira/client"
)

func (cli *commandLine) login(email, pwd string) error {
	err := cli.session.Login(client.LoginForm{Username: email, Password: pwd})
	if err != nil {
		if client.IsKind(err, client.KindAuthExpired) {
			return fmt.Errorf("invalid credentials")
		}
		return err
	}
	if identity, ok := cli.session.Identity(); ok {
		fmt.Printf("Signed in as %s (%s)\n", identity.Name, identity.Role)
	}
	return nil
}

func (cli *commandLine) signup(role, name, email, tags, pwd, confirm string) error {
	form := client.SignupForm{
		Name:            name,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: confirm,
		Tags:            tags,
	}

	var err error
	switch role {
	case "student":
		err = cli.session.RegisterStudent(form)
	case "recruiter":
		err = cli.session.RegisterRecruiter(form)
	case "mentor":
		err = cli.session.RegisterMentor(form)
	default:
		return fmt.Errorf("unknown role %q; want one of: student, recruiter, mentor", role)
	}
	if err != nil {
		var apiErr *client.APIError
		if client.IsKind(err, client.KindValidation) && errors.As(err, &apiErr) {
			for field, msg := range apiErr.Fields {
				fmt.Printf("%s: %s\n", field, msg)
			}
			return fmt.Errorf("invalid input")
		}
		return err
	}
	fmt.Println("Account created. You can now sign in.")
	return nil
}
