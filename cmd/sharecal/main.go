// Command sharecal is an interactive client for a calendar database. It
// speaks to the repository in process; the HTTP server is only needed for
// the read API.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"

	"sharecal/internal/models"
	"sharecal/internal/repository"
	"sharecal/internal/session"
	"sharecal/internal/storage"
	"sharecal/internal/storage/sqlite"
)

func main() {
	dbPath := flag.String("db", defaultDBPath(), "Path to the SQLite database file")
	flag.Parse()

	if err := run(*dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func defaultDBPath() string {
	if path := os.Getenv("SHARECAL_DB"); path != "" {
		return path
	}
	return "sharecal.db"
}

func run(dbPath string) error {
	ctx := context.Background()

	store, err := sqlite.New(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	repo := repository.New(store, store, store)
	cli := &cli{
		repo:    repo,
		session: session.New(repo),
		in:      bufio.NewReader(os.Stdin),
	}

	return cli.loop(ctx)
}

type cli struct {
	repo    *repository.Repository
	session *session.Session
	in      *bufio.Reader
}

func (c *cli) loop(ctx context.Context) error {
	fmt.Println("sharecal — type 'help' for commands")

	for {
		fmt.Print("> ")
		line, err := c.in.ReadString('\n')
		if err != nil {
			return nil // EOF ends the session
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		cmd, args := fields[0], fields[1:]
		if cmd == "quit" || cmd == "exit" {
			return nil
		}

		if err := c.dispatch(ctx, cmd, args); err != nil {
			if errors.Is(err, session.ErrSessionClosed) {
				fmt.Println("account deleted, bye")
				return nil
			}
			fmt.Printf("error: %v\n", err)
		}
	}
}

func (c *cli) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		c.printHelp()
		return nil
	case "register":
		return c.register(ctx, args)
	case "login":
		return c.login(ctx, args)
	case "list":
		return c.list(args)
	case "add":
		return c.add(ctx)
	case "edit":
		return c.edit(ctx, args)
	case "rm":
		return c.remove(ctx, args)
	case "share":
		return c.share(ctx)
	case "unshare":
		return c.session.RemoveShareURL(ctx)
	case "view-shared":
		return c.viewShared(ctx, args)
	case "passwd":
		return c.changePassword(ctx)
	case "delete-account":
		return c.deleteAccount(ctx)
	default:
		return fmt.Errorf("unknown command %q, type 'help'", cmd)
	}
}

func (c *cli) printHelp() {
	fmt.Println(`commands:
  register <username>     create an account and log in
  login <username>        log in
  list [month]            list events (optionally one month)
  add                     add an event (interactive)
  edit <event-id>         edit an event (interactive)
  rm <event-id>           remove an event
  share                   create or rotate the share link
  unshare                 remove the share link
  view-shared <token>     view a shared calendar (no login needed)
  passwd                  change password
  delete-account          delete the account and everything in it
  quit`)
}

// readPassword prompts without echoing.
func (c *cli) readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pw), nil
}

func (c *cli) readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := c.in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *cli) register(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: register <username>")
	}

	password, err := c.readPassword("password: ")
	if err != nil {
		return err
	}

	email, err := c.readLine("email (optional): ")
	if err != nil {
		return err
	}
	var emailPtr *string
	if email != "" {
		emailPtr = &email
	}

	if err := c.session.Register(ctx, args[0], password, emailPtr); err != nil {
		return err
	}

	fmt.Printf("registered %s, calendar #%d created\n", args[0], c.session.Calendar().ID)
	return nil
}

func (c *cli) login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: login <username>")
	}

	password, err := c.readPassword("password: ")
	if err != nil {
		return err
	}

	if err := c.session.Login(ctx, args[0], password); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return fmt.Errorf("no such user %q", args[0])
		}
		if errors.Is(err, session.ErrInvalidCredentials) {
			return fmt.Errorf("wrong password")
		}
		return err
	}

	fmt.Printf("logged in as %s, %d events\n", args[0], len(c.session.Events()))
	return nil
}

func (c *cli) list(args []string) error {
	if c.session.User() == nil {
		return session.ErrNotAuthenticated
	}

	events := c.session.Events()
	if len(args) == 1 {
		month, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("usage: list [month]")
		}
		events = c.session.MonthEvents(month)
	}

	if len(events) == 0 {
		fmt.Println("no events")
		return nil
	}
	for _, e := range events {
		printEvent(e)
	}
	return nil
}

func printEvent(e *models.Event) {
	date := fmt.Sprintf("%02d/%02d", e.Month, e.Day)
	if e.Year != nil {
		date = fmt.Sprintf("%s/%d", date, *e.Year)
	}
	flags := ""
	if e.Private {
		flags = " [private]"
	}
	fmt.Printf("  #%d %s %s%s\n", e.ID, date, e.Title, flags)
	if e.Notes != nil {
		fmt.Printf("      %s\n", *e.Notes)
	}
}

func (c *cli) add(ctx context.Context) error {
	title, err := c.readLine("title: ")
	if err != nil {
		return err
	}

	month, err := c.readInt("month (1-12): ")
	if err != nil {
		return err
	}
	day, err := c.readInt("day (1-31): ")
	if err != nil {
		return err
	}

	year, err := c.readOptionalInt("year (optional): ")
	if err != nil {
		return err
	}

	notes, err := c.readLine("notes (optional): ")
	if err != nil {
		return err
	}
	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}

	private, err := c.readLine("private? (y/N): ")
	if err != nil {
		return err
	}

	event, err := c.session.NewEvent(ctx, title, month, day, year, notesPtr, strings.EqualFold(private, "y"))
	if err != nil {
		return err
	}

	fmt.Printf("created event #%d\n", event.ID)
	return nil
}

func (c *cli) edit(ctx context.Context, args []string) error {
	event, err := c.cachedEvent(args, "edit")
	if err != nil {
		return err
	}

	title, err := c.readLine(fmt.Sprintf("title [%s]: ", event.Title))
	if err != nil {
		return err
	}
	if title != "" {
		event.SetTitle(title)
	}

	notes, err := c.readLine("notes (blank keeps, '-' clears): ")
	if err != nil {
		return err
	}
	switch notes {
	case "":
	case "-":
		event.SetNotes(nil)
	default:
		event.SetNotes(&notes)
	}

	return c.session.SyncEventChanges(ctx, event)
}

func (c *cli) remove(ctx context.Context, args []string) error {
	event, err := c.cachedEvent(args, "rm")
	if err != nil {
		return err
	}
	return c.session.RemoveEvent(ctx, event)
}

// cachedEvent resolves an event id argument against the session cache.
func (c *cli) cachedEvent(args []string, cmd string) (*models.Event, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("usage: %s <event-id>", cmd)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid event id %q", args[0])
	}

	for _, e := range c.session.Events() {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, fmt.Errorf("no event #%d in your calendar", id)
}

func (c *cli) share(ctx context.Context) error {
	token, err := c.session.NewShareURL(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("share token: %s\n", token)
	return nil
}

func (c *cli) viewShared(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: view-shared <token>")
	}

	share, err := session.OpenShare(ctx, c.repo, args[0])
	if err != nil {
		if errors.Is(err, storage.ErrCalendarNotFound) {
			return fmt.Errorf("unknown share token")
		}
		return err
	}

	events := share.Events()
	if len(events) == 0 {
		fmt.Println("no events")
		return nil
	}
	for _, e := range events {
		printEvent(e)
	}
	return nil
}

func (c *cli) changePassword(ctx context.Context) error {
	current, err := c.readPassword("current password: ")
	if err != nil {
		return err
	}
	updated, err := c.readPassword("new password: ")
	if err != nil {
		return err
	}

	if err := c.session.ChangePassword(ctx, current, updated); err != nil {
		return err
	}
	fmt.Println("password changed")
	return nil
}

func (c *cli) deleteAccount(ctx context.Context) error {
	answer, err := c.readLine("this deletes your account and all events; type 'yes' to confirm: ")
	if err != nil {
		return err
	}

	return c.session.DeleteAccount(ctx, answer == "yes")
}

func (c *cli) readInt(prompt string) (int, error) {
	line, err := c.readLine(prompt)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("expected a number, got %q", line)
	}
	return n, nil
}

func (c *cli) readOptionalInt(prompt string) (*int, error) {
	line, err := c.readLine(prompt)
	if err != nil {
		return nil, err
	}
	if line == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return nil, fmt.Errorf("expected a number, got %q", line)
	}
	return &n, nil
}
