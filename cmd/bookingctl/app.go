package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"studio-booking/internal/client"
)

// command 子命令
type command struct {
	name    string
	usage   string
	summary string
	admin   bool
	run     func(ctx context.Context, a *app, args []string) error
}

type app struct {
	cl  *client.Client
	out io.Writer
	now func() time.Time
	loc *time.Location
}

var commands = map[string]*command{}

func register(cmds ...*command) {
	for _, c := range cmds {
		commands[c.name] = c
	}
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" {
		return a.help(ctx)
	}

	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("未知命令 %q，运行 bookingctl help 查看可用命令", args[0])
	}
	if cmd.admin {
		isAdmin, err := a.isAdmin(ctx)
		if err != nil {
			return err
		}
		if !isAdmin {
			return fmt.Errorf("命令 %s 仅管理员可用", cmd.name)
		}
	}
	return cmd.run(ctx, a, args[1:])
}

func (a *app) isAdmin(ctx context.Context) (bool, error) {
	tok, err := a.cl.Tokens().Load()
	if err != nil {
		return false, err
	}
	if tok == "" {
		return false, client.ErrNotLoggedIn
	}
	me, err := a.cl.Me(ctx)
	if err != nil {
		return false, err
	}
	return me.IsAdmin, nil
}

// help 列出命令；管理员命令仅在当前用户为管理员时显示
func (a *app) help(ctx context.Context) error {
	showAdmin, _ := a.isAdmin(ctx)

	names := make([]string, 0, len(commands))
	for name, c := range commands {
		if c.admin && !showAdmin {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(a.out, "用法: bookingctl [--server URL] [--token-file PATH] [--tz ZONE] <命令> [参数]")
	fmt.Fprintln(a.out)
	tw := a.table()
	for _, name := range names {
		c := commands[name]
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", c.name, c.usage, c.summary)
	}
	return tw.Flush()
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

func (a *app) clock(t time.Time) string {
	return t.In(a.loc).Format("2006-01-02 15:04")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
