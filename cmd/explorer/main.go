package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/country-explorer/internal/config"
	"github.com/country-explorer/internal/domain"
	"github.com/country-explorer/internal/domain/repository"
	"github.com/country-explorer/internal/explorer/api"
	"github.com/country-explorer/internal/explorer/detail"
	"github.com/country-explorer/internal/explorer/favorites"
	"github.com/country-explorer/internal/explorer/session"
	"github.com/country-explorer/internal/explorer/view"
	"github.com/country-explorer/internal/infrastructure/restcountries"
	apperrors "github.com/country-explorer/internal/pkg/errors"
)

// explorer - interactive terminal frontend. It holds the current view query
// and re-derives the visible list after every command, the same way the
// browser client re-renders on each state change.
type explorer struct {
	sessions  *session.Store
	directory repository.DirectoryRepository
	favorites *favorites.Synchronizer
	details   *detail.Loader
	logger    *zap.Logger
	out       *bufio.Writer

	collection []domain.Country
	loaded     bool
	query      view.Query
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// File logging keeps the interactive output clean.
	log := zap.NewNop()
	if lvl := strings.ToLower(cfg.Log.Level); lvl == "debug" {
		log, err = zap.NewDevelopment()
		if err != nil {
			panic(fmt.Sprintf("Failed to initialize logger: %v", err))
		}
	}
	defer log.Sync()

	storage, err := session.NewStorage(cfg.Explorer.StateDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to open state dir:", err)
		os.Exit(1)
	}

	backend := api.NewClient(cfg.Explorer.APIBaseURL, cfg.Directory.RequestTimeout, log)
	sessions := session.NewStore(backend, storage, log)
	directory := restcountries.NewClient(&cfg.Directory, log)
	sync := favorites.NewSynchronizer(backend, sessions, log)
	loader := detail.NewLoader(directory, log)

	e := &explorer{
		sessions:  sessions,
		directory: directory,
		favorites: sync,
		details:   loader,
		logger:    log,
		out:       bufio.NewWriter(os.Stdout),
		query:     view.Query{Mode: view.ModeGrid, Region: view.AllRegions, Language: view.AllLanguages},
	}

	e.run(context.Background())
}

func (e *explorer) run(ctx context.Context) {
	defer e.out.Flush()

	if sess := e.sessions.Current(); sess != nil {
		fmt.Fprintf(e.out, "Signed in as %s\n", sess.User.Username)
		if err := e.favorites.Refresh(ctx); err != nil {
			fmt.Fprintln(e.out, "Could not load favorites:", err)
		}
	}

	e.loadCollection(ctx)
	e.render()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(e.out, "> ")
		e.out.Flush()
		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "quit", "exit":
			return
		case "help":
			e.printHelp()
		case "search":
			e.query.Search = arg
			e.render()
		case "region":
			e.query.Region = arg
			if arg == "" {
				e.query.Region = view.AllRegions
			}
			e.render()
		case "language":
			e.query.Language = arg
			if arg == "" {
				e.query.Language = view.AllLanguages
			}
			e.render()
		case "languages":
			for _, name := range view.Languages(e.collection) {
				fmt.Fprintln(e.out, name)
			}
		case "mode":
			e.setMode(ctx, arg)
		case "detail":
			e.showDetail(ctx, strings.ToUpper(arg))
		case "fav":
			e.toggleFavorite(ctx, strings.ToUpper(arg))
		case "register":
			e.register(ctx, arg)
		case "login":
			e.login(ctx, arg)
		case "logout":
			e.sessions.Logout()
			fmt.Fprintln(e.out, "Signed out")
		case "dark":
			enabled := !e.sessions.DarkMode()
			e.sessions.SetDarkMode(enabled)
			fmt.Fprintln(e.out, "Dark mode:", enabled)
		default:
			fmt.Fprintln(e.out, "Unknown command, try 'help'")
		}
		e.out.Flush()
	}
}

func (e *explorer) loadCollection(ctx context.Context) {
	countries, err := e.directory.LoadAll(ctx)
	if err != nil {
		fmt.Fprintln(e.out, "Could not load countries:", err)
		return
	}
	e.collection = countries
	e.loaded = true
}

// render derives the visible list from the current inputs and prints it.
func (e *explorer) render() {
	snap := e.favorites.Snapshot()
	res := view.Derive(view.Inputs{
		Collection:       e.collection,
		CollectionLoaded: e.loaded,
		Query:            e.query,
		SessionActive:    snap.Active,
		FavoritesLoaded:  snap.Loaded,
		Favorites:        snap.Codes,
	})

	switch res.State {
	case view.StateLoading:
		fmt.Fprintln(e.out, "Loading...")
	case view.StateSignIn:
		fmt.Fprintln(e.out, "Sign in to see your favorites (login <email> <password>)")
	case view.StateEmpty:
		fmt.Fprintln(e.out, "No countries match")
	case view.StateReady:
		w := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
		for _, c := range res.Countries {
			marker := " "
			if e.favorites.IsFavorite(c.Code) {
				marker = "*"
			}
			fmt.Fprintf(w, "%s %s\t%s\t%s\t%d\n",
				marker, c.Code, c.Name.Common, c.Region, c.Population)
		}
		w.Flush()
		fmt.Fprintf(e.out, "%d countries\n", len(res.Countries))
	}
}

func (e *explorer) setMode(ctx context.Context, arg string) {
	switch view.Mode(arg) {
	case view.ModeGrid, view.ModeMap, view.ModeFavorites:
		e.query.Mode = view.Mode(arg)
	default:
		fmt.Fprintln(e.out, "Modes: grid, map, favorites")
		return
	}

	// Leaving the detail context; a late detail response must not print over
	// the list.
	e.details.Cancel()

	if e.query.Mode == view.ModeFavorites && e.sessions.Current() != nil && !e.favorites.Loaded() {
		if err := e.favorites.Refresh(ctx); err != nil {
			fmt.Fprintln(e.out, "Could not load favorites:", err)
		}
	}
	e.render()
}

func (e *explorer) showDetail(ctx context.Context, code string) {
	if code == "" {
		fmt.Fprintln(e.out, "Usage: detail <code>")
		return
	}

	e.details.Load(ctx, code, func(res detail.Result, err error) {
		if err != nil {
			if errors.Is(err, apperrors.ErrCountryNotFound) {
				fmt.Fprintln(e.out, "No country with code", code)
			} else {
				fmt.Fprintln(e.out, "Could not load detail:", err)
			}
			return
		}

		d := res.Detail
		fmt.Fprintf(e.out, "%s (%s)\n", d.Name.Common, d.Name.Official)
		fmt.Fprintf(e.out, "  Region:     %s / %s\n", d.Region, d.Subregion)
		if len(d.Capital) > 0 {
			fmt.Fprintf(e.out, "  Capital:    %s\n", strings.Join(d.Capital, ", "))
		}
		fmt.Fprintf(e.out, "  Population: %d\n", d.Population)
		if len(d.Languages) > 0 {
			fmt.Fprintf(e.out, "  Languages:  %s\n", strings.Join(d.LanguageNames(), ", "))
		}
		if len(d.BorderDetails) > 0 {
			names := make([]string, 0, len(d.BorderDetails))
			for _, b := range d.BorderDetails {
				names = append(names, b.Name.Common)
			}
			fmt.Fprintf(e.out, "  Borders:    %s\n", strings.Join(names, ", "))
		}
		if res.Boundary != nil {
			fmt.Fprintln(e.out, "  Boundary polygon available")
		}
	})
}

func (e *explorer) toggleFavorite(ctx context.Context, code string) {
	if e.sessions.Current() == nil {
		fmt.Fprintln(e.out, "Sign in to manage favorites")
		return
	}
	if code == "" {
		fmt.Fprintln(e.out, "Usage: fav <code>")
		return
	}

	if err := e.favorites.Toggle(ctx, code); err != nil {
		fmt.Fprintln(e.out, "Favorite not saved:", err)
		return
	}
	if e.favorites.IsFavorite(code) {
		fmt.Fprintln(e.out, "Added", code, "to favorites")
	} else {
		fmt.Fprintln(e.out, "Removed", code, "from favorites")
	}
}

func (e *explorer) register(ctx context.Context, arg string) {
	parts := strings.Fields(arg)
	if len(parts) != 3 {
		fmt.Fprintln(e.out, "Usage: register <username> <email> <password>")
		return
	}

	sess, err := e.sessions.Register(ctx, parts[0], parts[1], parts[2])
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateAccount) {
			fmt.Fprintln(e.out, "An account with that email already exists")
		} else {
			fmt.Fprintln(e.out, "Registration failed:", err)
		}
		return
	}

	fmt.Fprintf(e.out, "Welcome, %s\n", sess.User.Username)
	if err := e.favorites.Refresh(ctx); err != nil {
		fmt.Fprintln(e.out, "Could not load favorites:", err)
	}
}

func (e *explorer) login(ctx context.Context, arg string) {
	parts := strings.Fields(arg)
	if len(parts) != 2 {
		fmt.Fprintln(e.out, "Usage: login <email> <password>")
		return
	}

	sess, err := e.sessions.Login(ctx, parts[0], parts[1])
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			fmt.Fprintln(e.out, "Invalid credentials")
		} else {
			fmt.Fprintln(e.out, "Login failed:", err)
		}
		return
	}

	fmt.Fprintf(e.out, "Welcome back, %s\n", sess.User.Username)
	if err := e.favorites.Refresh(ctx); err != nil {
		fmt.Fprintln(e.out, "Could not load favorites:", err)
	}
}

func (e *explorer) printHelp() {
	fmt.Fprint(e.out, `Commands:
  search <text>        filter by name or alternative spelling
  region <name>        filter by region (empty resets)
  language <name>      filter by language (empty resets)
  languages            list language filter options
  mode grid|map|favorites
  detail <code>        show one country
  fav <code>           toggle a favorite
  register <username> <email> <password>
  login <email> <password>
  logout
  dark                 toggle dark mode preference
  quit
`)
}
