// portalctl is a small command-line front end for the portal client, mainly
// useful for poking at a backend and inspecting the stored session.
//
//	portalctl login -u 5421
//	portalctl whoami
//	portalctl news
//	portalctl news-publish -titulo "..." -resumen "..."
//	portalctl logout
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/colegioing/go-portal-client/internal/config"
	"github.com/colegioing/go-portal-client/internal/utils"
	"github.com/colegioing/go-portal-client/portal"
	"github.com/colegioing/go-portal-client/session"
)

func main() {
	_ = godotenv.Load()

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "portalctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: portalctl <login|whoami|news|news-publish|logout> [flags]")
	}

	c := config.New()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	timeout, err := time.ParseDuration(c.GetTimeout())
	if err != nil {
		return fmt.Errorf("invalid %s: %w", "PORTAL_TIMEOUT", err)
	}

	store := session.NewFileStore(c.GetSessionFile())
	client, err := portal.New(c.GetBaseURL(), store,
		portal.WithLogger(logger),
		portal.WithTimeout(timeout),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout+5*time.Second)
	defer cancel()

	switch args[0] {
	case "login":
		return loginCmd(ctx, client, c, args[1:])
	case "whoami":
		return whoamiCmd(ctx, client)
	case "news":
		return newsCmd(ctx, client)
	case "news-publish":
		return newsPublishCmd(ctx, client, args[1:])
	case "logout":
		return client.Logout(ctx)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func loginCmd(ctx context.Context, client *portal.Client, c config.Config, args []string) error {
	flags := flag.NewFlagSet("login", flag.ContinueOnError)
	username := flags.String("u", "", "username (RNIC)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return fmt.Errorf("login: -u is required")
	}

	displayAppname(c.GetAppName())

	fmt.Fprint(os.Stderr, "Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	identity, err := client.Login(ctx, *username, string(password))
	if err != nil {
		return err
	}

	fmt.Printf("logged in as %s (subject %d, role %s)\n", identity.DisplayName, identity.SubjectID, identity.Role)
	return nil
}

func whoamiCmd(ctx context.Context, client *portal.Client) error {
	identity, ok := client.CurrentIdentity(ctx)
	if !ok {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("subject:      %d\n", identity.SubjectID)
	fmt.Printf("role:         %s\n", identity.Role)
	fmt.Printf("display name: %s\n", identity.DisplayName)
	return nil
}

func newsCmd(ctx context.Context, client *portal.Client) error {
	news, err := client.News().List(ctx)
	if err != nil {
		return err
	}
	for _, n := range news {
		fmt.Printf("%5d  %s  %s\n", n.ID, n.FechaPublicacion.Format("2006-01-02"), n.Titulo)
	}
	return nil
}

func newsPublishCmd(ctx context.Context, client *portal.Client, args []string) error {
	flags := flag.NewFlagSet("news-publish", flag.ContinueOnError)
	titulo := flags.String("titulo", "", "headline")
	resumen := flags.String("resumen", "", "summary shown in the feed")
	descripcion := flags.String("descripcion", "", "body text")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *titulo == "" {
		return fmt.Errorf("news-publish: -titulo is required")
	}

	created, err := client.News().Create(ctx, portal.NewsInput{
		Titulo:      titulo,
		Resumen:     resumen,
		Descripcion: descripcion,
		Estado:      utils.Ptr("publicado"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("published news %d\n", created.ID)
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
