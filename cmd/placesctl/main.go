// placesctl is the terminal client for the Places API: authenticate, browse
// the shared feed, publish places, and keep a local view synchronized in
// watch mode.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"

	"github.com/hidayetmm/places-client/internal/core/domain"
	"github.com/hidayetmm/places-client/internal/core/ports"
	"github.com/hidayetmm/places-client/internal/core/service"
	"github.com/hidayetmm/places-client/internal/infrastructure/api"
	"github.com/hidayetmm/places-client/internal/infrastructure/config"
	debughttp "github.com/hidayetmm/places-client/internal/infrastructure/http"
	"github.com/hidayetmm/places-client/internal/infrastructure/notify"
	"github.com/hidayetmm/places-client/internal/infrastructure/vault"
	"github.com/hidayetmm/places-client/pkg/logger"
)

const usage = `usage: placesctl <command> [flags]

commands:
  login    -email <email> -password <password>
  signup   -username <name> -email <email> -password <password> [-image <file>]
  logout
  whoami
  places   [-user <username>]
  add      -title <t> -description <d> -address <a> [-image <file>]
  watch    [-user <username>]
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	sessionVault, err := buildVault(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("session vault unavailable")
	}

	gateway := api.NewClient(cfg.ServerLink, cfg.HTTPTimeout, log)
	notifier := notify.NewLogNotifier(log)
	state := service.NewAppState(ctx, gateway, sessionVault, notifier, log)

	var runErr error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "login":
		runErr = runLogin(ctx, state, args)
	case "signup":
		runErr = runSignup(ctx, state, args)
	case "logout":
		runErr = state.Auth.Logout(ctx)
	case "whoami":
		runErr = runWhoami(state)
	case "places":
		runErr = runPlaces(ctx, state, args)
	case "add":
		runErr = runAdd(ctx, state, args)
	case "watch":
		runErr = runWatch(ctx, state, gateway, sessionVault, cfg, log, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if runErr != nil {
		os.Exit(1)
	}
}

func buildVault(ctx context.Context, cfg *config.Config) (ports.SessionVault, error) {
	if cfg.Redis.Addr != "" {
		client, err := vault.Connect(ctx, vault.RedisConfig{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		return vault.NewRedisVault(client), nil
	}
	return vault.NewFileVault(cfg.SessionFile)
}

func runLogin(ctx context.Context, state *service.AppState, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)

	return state.Auth.Login(ctx, ports.Credentials{Email: *email, Password: *password})
}

func runSignup(ctx context.Context, state *service.AppState, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	username := fs.String("username", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	imagePath := fs.String("image", "", "optional profile image file")
	_ = fs.Parse(args)

	input := ports.SignupInput{Username: *username, Email: *email, Password: *password}
	if *imagePath != "" {
		f, err := os.Open(*imagePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return err
		}
		defer f.Close()
		input.Image = f
		input.ImageName = filepath.Base(*imagePath)
	}

	return state.Auth.Signup(ctx, input)
}

func runWhoami(state *service.AppState) error {
	sess := state.Sessions.Current()
	if !sess.IsLoggedIn {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("@%s <%s>\n", sess.Username, sess.Email)
	return nil
}

func runPlaces(ctx context.Context, state *service.AppState, args []string) error {
	fs := flag.NewFlagSet("places", flag.ExitOnError)
	user := fs.String("user", "", "show only places by this creator")
	_ = fs.Parse(args)

	feed := service.FeedGlobal
	fetcher := state.FeedFetcher()
	if *user != "" {
		feed = service.UserFeed(*user)
		fetcher = state.UserFeedFetcher(*user)
	}

	fetcher.FetchOnce(ctx)
	printPlaces(state.Collections.Get(feed))
	return nil
}

func runAdd(ctx context.Context, state *service.AppState, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title := fs.String("title", "", "place title")
	description := fs.String("description", "", "place description")
	address := fs.String("address", "", "place address")
	imagePath := fs.String("image", "", "optional place image file")
	_ = fs.Parse(args)

	input := ports.NewPlaceInput{Title: *title, Description: *description, Address: *address}
	if *imagePath != "" {
		f, err := os.Open(*imagePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return err
		}
		defer f.Close()
		input.Image = f
		input.ImageName = filepath.Base(*imagePath)
	}

	return state.Places.Add(ctx, input)
}

// runWatch keeps the feed synchronized until interrupted: fetchers re-fetch
// on every refresh bump, a ticker bumps periodically, and the debug listener
// serves health and metrics.
func runWatch(ctx context.Context, state *service.AppState, gateway *api.Client, sessionVault ports.SessionVault, cfg *config.Config, log zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	user := fs.String("user", "", "also keep this creator's feed synchronized")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go state.FeedFetcher().Run(ctx)
	if *user != "" {
		go state.UserFeedFetcher(*user).Run(ctx)
	}

	go func() {
		ticker := time.NewTicker(cfg.WatchInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				state.Signal.Bump()
			}
		}
	}()

	e := debughttp.NewRouter(gateway, sessionVault)
	go func() {
		if err := e.Start(cfg.DebugAddr); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("debug listener failed")
		}
	}()
	log.Info().Str("addr", cfg.DebugAddr).Msg("watching; debug listener up")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("debug listener shutdown")
	}
	log.Info().Msg("stopped")
	return nil
}

func printPlaces(places []domain.Place) {
	if len(places) == 0 {
		fmt.Println("no places")
		return
	}
	for _, p := range places {
		fmt.Printf("%s - %s (by @%s)\n", p.Title, p.Address, p.Creator.Name)
	}
}
