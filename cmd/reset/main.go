package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/osse101/MessageStats_Go/internal/bootstrap"
	"github.com/osse101/MessageStats_Go/internal/config"
	"github.com/osse101/MessageStats_Go/internal/validation"
)

const resetTimeout = time.Minute

func main() {
	groupID := flag.String("group", "", "delete all records of this group")
	all := flag.Bool("all", false, "delete the records of every group")
	list := flag.Bool("list", false, "list stored groups")
	flag.Parse()

	if *groupID == "" && !*all && !*list {
		flag.Usage()
		log.Fatal("Nothing to do: pass -list, -group <id> or -all")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), resetTimeout)
	defer cancel()

	storage, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.StorageBackend, err)
	}
	defer storage.Close()

	groups, err := storage.Groups.ListGroups(ctx)
	if err != nil {
		log.Fatalf("Failed to list groups: %v", err)
	}

	if *list {
		log.Printf("%d stored groups", len(groups))
		for _, id := range groups {
			log.Println(id)
		}
	}

	var targets []string
	switch {
	case *all:
		targets = groups
	case *groupID != "":
		if err := validation.ValidateGroupID(*groupID); err != nil {
			log.Fatalf("Invalid group id: %v", err)
		}
		targets = []string{*groupID}
	}

	for _, id := range targets {
		deleted, err := storage.Groups.DeleteGroup(ctx, id)
		if err != nil {
			log.Fatalf("Failed to delete group %s: %v", id, err)
		}
		if deleted {
			log.Printf("Group %s deleted.", id)
		} else {
			log.Printf("Group %s had no stored records.", id)
		}
	}
	if len(targets) > 0 {
		log.Println("Reset complete. Restart the bot so it drops cached records.")
	}
}
