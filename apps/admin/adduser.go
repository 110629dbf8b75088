package main

import (
	"github.com/trezcool/ajira/core"
	"github.com/trezcool/ajira/core/user"
)

// addUser creates an active admin user, or promotes an existing one.
func (cli *commandLine) addUser(name, email, pwd string) error {
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUserByEmail(email)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Name:  name,
			Email: email,
		}
	}
	usr.Role = user.RoleAdmin
	usr.IsActive = true
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if usr.ID == "" {
		_, err = cli.usrRepo.CreateUser(usr)
	} else {
		isActive := true
		_, err = cli.usrRepo.UpdateUser(usr, &isActive)
	}
	return err
}
