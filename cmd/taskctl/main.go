// Command taskctl drives the task service from the command line, acting as
// the given user. It is meant for operations and debugging, not for end
// users.
//
// Usage:
//
//	taskctl -user U123 create "<@U456> send the report by friday 5pm"
//	taskctl -user U456 complete <task-id> [-remark "done, see thread"]
//	taskctl -user U123 edit <task-id> "send the report by monday noon"
//	taskctl -user U123 delete <task-id>
//	taskctl -user U456 list
//	taskctl -user U123 users
//
// Exit codes: 0 = success, 1 = error, 2 = usage.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/avasilev/taskpulse/internal/app"
	"github.com/avasilev/taskpulse/internal/domain"
	tasksvc "github.com/avasilev/taskpulse/internal/service/task"
	"github.com/avasilev/taskpulse/pkg/ctxutil"
)

func main() {
	userID := flag.String("user", "", "acting user ID (required)")
	remark := flag.String("remark", "", "completion remark (complete only)")
	flag.Parse()

	if *userID == "" || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = ctxutil.WithActorID(ctx, *userID)

	a, err := app.New(ctx)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer a.Close()

	if err := run(ctx, a, *userID, *remark, flag.Args()); err != nil {
		log.Fatalf("%s: %v", flag.Arg(0), err)
	}
}

func run(ctx context.Context, a *app.App, userID, remark string, args []string) error {
	svc := a.Tasks

	switch cmd := args[0]; cmd {
	case "create":
		if len(args) != 2 {
			return fmt.Errorf("usage: create <text>")
		}
		t, err := svc.Create(ctx, tasksvc.CreateInput{CreatorID: userID, Text: args[1]})
		if err != nil {
			return err
		}
		fmt.Printf("created %s\n", t.ID)
		return nil

	case "complete":
		id, err := parseTaskID(args)
		if err != nil {
			return err
		}
		var r *string
		if remark != "" {
			r = &remark
		}
		return svc.Complete(ctx, id, r)

	case "edit":
		if len(args) != 3 {
			return fmt.Errorf("usage: edit <task-id> <text>")
		}
		id, err := uuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("task id: %w", err)
		}
		t, err := svc.Edit(ctx, id, args[2])
		if err != nil {
			return err
		}
		fmt.Printf("replaced with %s\n", t.ID)
		return nil

	case "delete":
		id, err := parseTaskID(args)
		if err != nil {
			return err
		}
		return svc.Delete(ctx, id)

	case "list":
		rows, err := svc.ListForUser(ctx)
		if err != nil {
			return err
		}
		for _, row := range rows {
			fmt.Println(formatRow(row))
		}
		return nil

	case "users":
		ids, err := a.Users.ListWorkspaceUsers(ctx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Printf("%s  %s\n", id, a.Users.DisplayName(ctx, id))
		}
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func parseTaskID(args []string) (uuid.UUID, error) {
	if len(args) != 2 {
		return uuid.Nil, fmt.Errorf("usage: %s <task-id>", args[0])
	}
	id, err := uuid.Parse(args[1])
	if err != nil {
		return uuid.Nil, fmt.Errorf("task id: %w", err)
	}
	return id, nil
}

func formatRow(row domain.UserTask) string {
	status := "open"
	if row.Done {
		status = "done"
	}
	out := fmt.Sprintf("%s  [%s]  %s (assignee %s)", row.TaskID, status, row.Text, row.AssigneeID)
	if row.Due != nil {
		if due, err := domain.ParseDue(*row.Due); err == nil {
			out += "  due " + domain.FormatDue(due)
		}
	}
	return out
}
