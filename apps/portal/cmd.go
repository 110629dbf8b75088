package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/ajira/client"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	api     *client.Client
	creds   *client.CredentialStore
	session *client.Session
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  login -email EMAIL - sign in; the password will be prompted next")
	fmt.Println("  logout - sign out and clear saved credentials")
	fmt.Println("  signup -role student|recruiter|mentor -name NAME -email EMAIL [-tags TAGS] - create an account")
	fmt.Println("  whoami - show the signed-in user")
	fmt.Println("  route -path PATH - show where the app would take you for PATH")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginEmail := loginCmd.String("email", "", "The account email. The password will be prompted next.")

	signupCmd := flag.NewFlagSet("signup", flag.ExitOnError)
	signupRole := signupCmd.String("role", "", "One of: student, recruiter, mentor.")
	signupName := signupCmd.String("name", "", "The user's full name.")
	signupEmail := signupCmd.String("email", "", "The account email.")
	signupTags := signupCmd.String("tags", "", "Comma-separated learning tags (students only).")

	routeCmd := flag.NewFlagSet("route", flag.ExitOnError)
	routePath := routeCmd.String("path", "", "The app route to resolve, eg. /student-dashboard.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginEmail == "" {
			loginCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword("Enter password:")
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(*loginEmail, string(pwd))
	case "logout":
		cli.session.Logout()
		return nil
	case "signup":
		if err := signupCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *signupRole == "" || *signupName == "" || *signupEmail == "" {
			signupCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword("Enter password:")
		if err != nil {
			return err
		}
		confirm, err := cli.promptPassword("Confirm password:")
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			signupCmd.Usage()
			return errHelp
		}
		return cli.signup(*signupRole, *signupName, *signupEmail, *signupTags, string(pwd), string(confirm))
	case "whoami":
		return cli.whoami()
	case "route":
		if err := routeCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *routePath == "" {
			routeCmd.Usage()
			return errHelp
		}
		return cli.route(*routePath)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword(prompt string) ([]byte, error) {
	fmt.Print(prompt)
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	return pwd, err
}
