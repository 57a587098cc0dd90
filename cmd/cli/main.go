// Command todoctl is a terminal client for the todo service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"todoman/internal/client"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: todoctl [-addr URL] <command> [flags]

commands:
  list    [-search s] [-status all|completed|incomplete] [-sort dueDate|createdAt|title] [-page n] [-limit n]
  add     -title t -due YYYY-MM-DD [-desc d]
  done    <id>
  reopen  <id>
  rm      <id>
  health`)
}

func main() {
	addr := flag.String("addr", "http://localhost:8080/api", "API base URL")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	api := client.New(*addr)
	ctrl := client.NewController(api)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	switch args[0] {
	case "list":
		err = runList(ctx, ctrl, args[1:])
	case "add":
		err = runAdd(ctx, ctrl, args[1:])
	case "done":
		err = runToggle(ctx, ctrl, args[1:], true)
	case "reopen":
		err = runToggle(ctx, ctrl, args[1:], false)
	case "rm":
		err = runDelete(ctx, ctrl, args[1:])
	case "health":
		err = runHealth(ctx, api)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runList(ctx context.Context, ctrl *client.Controller, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	search := fs.String("search", "", "substring match against title/description")
	status := fs.String("status", "all", "all | completed | incomplete")
	sortBy := fs.String("sort", "dueDate", "dueDate | createdAt | title")
	pageNum := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 10, "page size (1-50)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctrl.SetSearch(*search)
	ctrl.SetStatus(*status)
	ctrl.SetSort(*sortBy)
	ctrl.SetLimit(*limit)
	ctrl.SetPage(*pageNum)
	if err := ctrl.Refresh(ctx); err != nil {
		return err
	}

	v := ctrl.View()
	p := v.Pagination
	fmt.Printf("page %d/%d, %d todo(s) total\n", p.CurrentPage, p.TotalPages, p.TotalTodos)
	for _, t := range v.Todos {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		due := t.DueDate
		if due == "" {
			due = "-"
		}
		fmt.Printf("[%s] %s  due=%s  id=%s\n", mark, t.Title, due, t.ID)
	}
	return nil
}

func runAdd(ctx context.Context, ctrl *client.Controller, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title := fs.String("title", "", "todo title (required)")
	desc := fs.String("desc", "", "description")
	due := fs.String("due", "", "due date, YYYY-MM-DD or RFC3339 (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	out, err := ctrl.Create(ctx, client.Form{Title: *title, Description: *desc, DueDate: *due})
	if err != nil {
		return err
	}
	fmt.Printf("todo %q %s\n", out.Title, out.Action)
	return nil
}

func runToggle(ctx context.Context, ctrl *client.Controller, args []string, done bool) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one id")
	}
	out, err := ctrl.Toggle(ctx, args[0], done)
	if err != nil {
		return err
	}
	fmt.Printf("todo %q %s\n", out.Title, out.Action)
	return nil
}

func runDelete(ctx context.Context, ctrl *client.Controller, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one id")
	}
	out, err := ctrl.Delete(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("todo %q %s\n", out.Title, out.Action)
	return nil
}

func runHealth(ctx context.Context, api *client.Client) error {
	h, err := api.CheckHealth(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("status=%s database=%s uptime=%.0fs\n", h.Status, h.Database, h.Uptime)
	return nil
}
