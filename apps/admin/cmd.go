package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/trezcool/idara/core/activity"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	svc *activity.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  seed -owner EMAIL                         - load sample records for each record type")
	fmt.Println("  publish -resource NAME -id ID -owner EMAIL - mark a record as published")
	fmt.Println("  list -resource NAME [-query Q] [-page N]  - list records from a running API (requires -url and -token)")
	fmt.Print("\nResources:")
	for _, def := range cli.svc.Registry().All() {
		fmt.Printf(" %s", def.Name)
	}
	fmt.Println()
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	seedOwner := seedCmd.String("owner", "", "Email to stamp as the records' owner.")

	publishCmd := flag.NewFlagSet("publish", flag.ExitOnError)
	publishResource := publishCmd.String("resource", "", "The record type, e.g. publications.")
	publishID := publishCmd.String("id", "", "The record id.")
	publishOwner := publishCmd.String("owner", "", "The owner's email; publishing is owner-scoped.")

	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	listResource := listCmd.String("resource", "", "The record type, e.g. publications.")
	listURL := listCmd.String("url", "http://localhost:8000", "Base URL of a running API server.")
	listToken := listCmd.String("token", "", "Session token; empty lists the public view.")
	listQuery := listCmd.String("query", "", "Free-text search.")
	listPage := listCmd.Int("page", 1, "Page number.")
	listLimit := listCmd.Int("limit", 10, "Items per page.")

	ctx := context.Background()

	switch args[1] {
	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *seedOwner == "" {
			seedCmd.Usage()
			return errHelp
		}
		return cli.seed(ctx, *seedOwner)
	case "publish":
		if err := publishCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *publishResource == "" || *publishID == "" || *publishOwner == "" {
			publishCmd.Usage()
			return errHelp
		}
		return cli.publish(ctx, *publishResource, *publishID, *publishOwner)
	case "list":
		if err := listCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *listResource == "" {
			listCmd.Usage()
			return errHelp
		}
		return cli.list(ctx, *listURL, *listToken, *listResource, *listQuery, *listPage, *listLimit)
	default:
		cli.printUsage()
		return errHelp
	}
}
