package main

import (
	"fmt"

	"github.com/trezcool/ajira/client"
)

func (cli *commandLine) whoami() error {
	if err := cli.session.Restore(); err != nil {
		return err
	}
	identity, ok := cli.session.Identity()
	if !ok {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("%s <%s> - %s\n", identity.Name, identity.Email, identity.Role)
	return nil
}

func (cli *commandLine) route(path string) error {
	if err := cli.session.Restore(); err != nil {
		return err
	}
	decision := client.Resolve(cli.session.State(), cli.session.Role(), path)
	switch {
	case decision.Loading:
		fmt.Println("loading")
	case decision.Redirect != "":
		fmt.Printf("redirect %s\n", decision.Redirect)
	default:
		fmt.Printf("render %s\n", decision.Route)
	}
	return nil
}
