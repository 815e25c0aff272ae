package main

import (
	"context"
	"fmt"

	"github.com/trezcool/idara/client"
	"github.com/trezcool/idara/core/activity"
)

var listColumns = []client.Column{
	{Key: "_id", Label: "ID"},
	{Key: "title", Label: "Title", Render: func(rec activity.Record) string {
		if title, _ := rec["title"].(string); title != "" {
			return title
		}
		name, _ := rec["name"].(string)
		return name
	}},
	{Key: "published", Label: "Published"},
}

// list drives a ListView against a running API server and prints the rows,
// mirroring what the admin site's table shows.
func (cli *commandLine) list(ctx context.Context, baseURL, token, resource, query string, page, limit int) error {
	lv := client.NewListView(client.New(baseURL, token), resource, limit)
	if query != "" {
		if err := lv.SetSearch(ctx, query); err != nil {
			return err
		}
	}
	if err := lv.GoToPage(ctx, page); err != nil {
		return err
	}

	res := lv.Result()
	for _, rec := range res.Data {
		fmt.Printf("%-26s %-40s published=%v\n", listColumns[0].Cell(rec), listColumns[1].Cell(rec), listColumns[2].Cell(rec))
	}
	fmt.Printf("page %d/%d (%d total)\n", res.Pagination.Page, res.Pagination.Pages, res.Pagination.Total)
	return nil
}
