package main

import (
	"fmt"
	"log"
	"os"

	"github.com/trezcool/ajira/client"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "PORTAL : ", log.LstdFlags)

	baseURL := os.Getenv("AJIRA_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	credPath, err := client.DefaultCredentialPath()
	errAndDie(err)
	creds := client.NewCredentialStore(credPath)

	api := client.New(baseURL, creds)
	session := client.NewSession(api, creds, client.NavigatorFunc(func(route string) {
		fmt.Printf("-> %s\n", route)
	}))

	cli := commandLine{
		api:     api,
		creds:   creds,
		session: session,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
