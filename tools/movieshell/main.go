// movieshell drives the movie core from a terminal: it attaches one console screen for the
// query given on the command line and prints whatever the controller pushes to it.
//
//	movieshell [flags] trending|popular|now-playing|upcoming|library|watchlist|recommended
//	movieshell [flags] search-movies <query> | search-people <query>
//	movieshell [flags] movie|movie-cast|movie-crew <id>
//	movieshell [flags] login | logout
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/natefinch/lumberjack.v2"

	"cinetrack/config"
	"cinetrack/handlers"
	"cinetrack/internal/app"
	"cinetrack/internal/controller"
	"cinetrack/models"
	"cinetrack/services/trakt"
	"cinetrack/utils"
)

func main() {
	settingsPath := flag.String("settings", "cinetrack.json", "settings file")
	wait := flag.Duration("wait", 30*time.Second, "how long to wait for the fetches to settle")
	serve := flag.Bool("serve", false, "keep running and serve the debug endpoints until interrupted")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("[movieshell] no .env file, using the process environment")
	}

	manager := config.NewManager(afero.NewOsFs(), *settingsPath)
	settings, err := manager.Load()
	if err != nil {
		log.Fatalf("[movieshell] %v", err)
	}
	settings.ApplyEnv()
	closeLog := setupLogging(settings.Logging)
	defer closeLog()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	switch args[0] {
	case "login":
		if err := login(manager, settings); err != nil {
			log.Fatalf("[movieshell] login: %v", err)
		}
		return
	case "logout":
		if err := logout(manager, settings); err != nil {
			log.Fatalf("[movieshell] logout: %v", err)
		}
		return
	}

	query, ok := controller.ParseQueryType(args[0])
	if !ok {
		log.Fatalf("[movieshell] unknown query %q", args[0])
	}
	settings, err = refreshTokenIfExpired(context.Background(), manager, settings, newTraktClient(settings.Trakt), time.Now())
	if err != nil {
		log.Printf("[movieshell] token refresh: %v", err)
	}
	param := strings.Join(args[1:], " ")
	if err := run(manager, settings, query, param, *wait, *serve); err != nil {
		log.Fatalf("[movieshell] %v", err)
	}
}

// setupLogging sends log output to stdout and, when configured, to a rotating file.
func setupLogging(cfg config.LoggingSettings) func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if cfg.File == "" {
		return func() {}
	}
	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	return func() {
		log.SetOutput(os.Stdout)
		_ = rotator.Close()
	}
}

func run(manager *config.Manager, settings config.Settings, query controller.QueryType, param string, wait time.Duration, serve bool) error {
	core, err := app.New(settings, config.NewConfigAdapter(manager).GetConfigGetter())
	if err != nil {
		return err
	}
	defer func() {
		if err := core.Close(); err != nil {
			log.Printf("[movieshell] shutdown: %v", err)
		}
	}()
	core.Start()

	var srv *http.Server
	if addr := settings.Server.DebugAddr; addr != "" {
		debug := handlers.NewDebugHandler(core.Do, core.Store, core.Controller, nil)
		srv = &http.Server{
			Addr:              addr,
			Handler:           utils.NewRouter(settings.Logging.Debug, debug),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Printf("[movieshell] debug endpoints on http://%s", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("[movieshell] debug server: %v", err)
			}
		}()
	}

	ui := newConsoleUi(query, param, os.Stdout)
	ui.images = core.Store.Configuration
	// Search screens start empty; the query is what the user typed.
	searchQuery := ""
	if query == controller.QuerySearchMovies || query == controller.QuerySearchPeople || query == controller.QuerySearch {
		searchQuery, ui.param = param, ""
	}
	core.Do(func() {
		actions := core.Controller.Attach(ui)
		if actions != nil && searchQuery != "" {
			actions.Search(searchQuery)
		}
	})

	if !core.WaitIdle(wait) {
		log.Printf("[movieshell] still busy after %s", wait)
	}

	if serve {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
	}

	core.Do(func() { core.Controller.Detach(ui) })
	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return nil
}

// login runs the Trakt device flow and stores the token in the settings file.
func login(manager *config.Manager, settings config.Settings) error {
	client := newTraktClient(settings.Trakt)
	if !client.HasCredentials() {
		return errors.New("trakt client id and secret are not configured")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	code, err := client.GetDeviceCode(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Open %s and enter the code %s\n", code.VerificationURL, code.UserCode)

	interval := time.Duration(code.Interval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}
	deadline := time.Now().Add(time.Duration(code.ExpiresIn) * time.Second)

	var token *trakt.TokenResponse
	for token == nil {
		if time.Now().After(deadline) {
			return errors.New("device code expired before it was authorized")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
		token, err = client.PollForToken(ctx, code.DeviceCode)
		if err != nil {
			return err
		}
	}

	profile, err := client.GetUserProfile(ctx, token.AccessToken)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}
	account := models.Account{Username: profile.Username, AccessToken: token.AccessToken}
	if _, err := manager.Update(func(s *config.Settings) {
		s.Trakt.Username = account.Username
		storeToken(s, token)
	}); err != nil {
		return err
	}
	fmt.Printf("Logged in as %s\n", account.Username)
	return nil
}

// logout forgets the token and drops the lists cached for the user.
func logout(manager *config.Manager, settings config.Settings) error {
	if settings.Trakt.AccessToken == "" {
		fmt.Println("Not logged in")
		return nil
	}
	core, err := app.New(settings, config.NewConfigAdapter(manager).GetConfigGetter())
	if err != nil {
		return err
	}
	core.Start()
	core.Logout()
	core.WaitIdle(5 * time.Second)
	if err := core.Close(); err != nil {
		log.Printf("[movieshell] shutdown: %v", err)
	}

	_, err = manager.Update(func(s *config.Settings) {
		s.Trakt.Username = ""
		storeToken(s, &trakt.TokenResponse{})
	})
	return err
}
