package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"foundernet/pkg/client"
	"foundernet/pkg/config"
	"foundernet/pkg/listing"
	"foundernet/pkg/logger"
	"foundernet/pkg/session"
	"foundernet/pkg/users"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	home, _ := os.UserHomeDir()
	apiURL := flag.String("api", envOr("FN_API_URL", "http://localhost:8080"), "API base URL")
	identityPath := flag.String("identity", filepath.Join(home, ".foundernet", "identity.yaml"), "identity file")
	timeout := flag.Duration("timeout", client.DefaultTimeout, "request timeout")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fatalf("config: %v", err)
	}
	lg := logger.New(cfg.Env)

	api, err := client.New(*apiURL, client.WithTimeout(*timeout), client.WithToken(os.Getenv("FN_TOKEN")))
	if err != nil {
		fatalf("%v", err)
	}
	store := session.NewStore(session.NewFileIdentityStore(*identityPath), lg)
	ctx := context.Background()

	switch args[0] {
	case "login":
		if len(args) < 3 {
			fatalf("login: email and password required")
		}
		res, err := api.Login(ctx, args[1], args[2])
		if err != nil {
			fatalf("login failed: %v", err)
		}
		if err := store.Login(res); err != nil {
			fatalf("save identity: %v", err)
		}
		fmt.Printf("logged in as %s (%s)\nexport FN_TOKEN=%s\n", res.User.Name, res.User.Role.Name, res.Token)

	case "logout":
		if err := api.Logout(ctx); err != nil && !client.IsStatus(err, 401) {
			lg.Warn("logout call failed", "error", err)
		}
		if err := store.Logout(); err != nil {
			fatalf("clear identity: %v", err)
		}
		fmt.Println("logged out")

	case "whoami":
		if err := store.Bootstrap(ctx, api); err != nil {
			if errors.Is(err, session.ErrNotAuthenticated) || client.IsStatus(err, 401) {
				fmt.Println("not logged in")
				return
			}
			fatalf("whoami: %v", err)
		}
		st := store.State()
		fmt.Printf("%s <%s> %s\n", st.User.Name, st.User.Email, st.User.ID)

	case "users":
		fs := flag.NewFlagSet("users", flag.ExitOnError)
		tab := fs.String("tab", string(users.TabAll), "all, founders or investors")
		search := fs.String("search", "", "name or email filter")
		pages := fs.String("pages", "1", "comma separated page numbers")
		size := fs.Int("size", 10, "page size")
		_ = fs.Parse(args[1:])

		lister := listing.NewLister(api, listing.NewTTLCache(cfg.ListingCacheTTL), *size)
		for _, raw := range strings.Split(*pages, ",") {
			page, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				fatalf("users: invalid page %q", raw)
			}
			res, err := lister.Page(ctx, users.Tab(*tab), *search, page)
			if err != nil {
				fatalf("users: %v", err)
			}
			printUsers(res)
		}

	default:
		usage()
		os.Exit(1)
	}
}

func printUsers(res listing.Result) {
	source := "server"
	if res.FromCache {
		source = "cache"
	}
	fmt.Printf("page %d of %d (%d users, from %s) pages: %v\n",
		res.Page, res.TotalPages, res.TotalCount, source, listing.PageWindow(res.Page, res.TotalPages, 5))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, u := range res.Users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.UUID, u.Name, u.Role.Name, u.CreatedAt.Format(time.DateOnly))
	}
	_ = w.Flush()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: fnctl [-api URL] [-identity FILE] <command> [args]

Commands:
  login <email> <password>   Sign in and save the identity file
  logout                     Sign out and clear the identity file
  whoami                     Show the signed-in user
  users [-tab T] [-search S] [-pages 1,2] [-size N]
                             Browse the directory

Environment:
  FN_API_URL   API base URL (default http://localhost:8080)
  FN_TOKEN     Bearer token printed by login`)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
