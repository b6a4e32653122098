package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/accessguard/console/admin"
	"github.com/accessguard/console/config"
	"github.com/accessguard/console/credentials"
	"github.com/accessguard/console/metrics"
	"github.com/accessguard/console/models"
	"github.com/accessguard/console/poller"
	"github.com/accessguard/console/session"
	"github.com/accessguard/console/transport"
)

// refreshPeriod keeps the access token ahead of its 30 minute lifetime.
const refreshPeriod = 10 * time.Minute

func main() {
	username := flag.String("user", "", "operator username (prompted when empty)")
	password := flag.String("password", "", "operator password (prompted when empty)")
	logout := flag.Bool("logout", false, "clear the stored session and exit")
	createUser := flag.String("create-user", "", "create a backend account with this username and exit")
	createEmail := flag.String("create-email", "", "email for -create-user")
	createPassword := flag.String("create-password", "", "password for -create-user")
	createRole := flag.String("create-role", "user", "role for -create-user (user or admin)")
	flag.Parse()

	// Load environment variables from .env file, when present
	_ = godotenv.Load()
	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	store, err := credentials.NewSQLiteStore(cfg.SessionDB)
	if err != nil {
		logger.Error("failed to open session store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	m := metrics.New()
	client := transport.NewClient(cfg.APIBase, store, m)
	manager := session.NewManager(store, client, session.DefaultStrategies())

	if *logout {
		if err := manager.Logout(); err != nil {
			logger.Error("logout failed", "error", err)
			os.Exit(1)
		}
		fmt.Println("Session cleared.")
		return
	}

	ctx := context.Background()

	// A durable session survives console restarts; only log in when needed
	user := manager.CurrentUser()
	if user == nil {
		name, pass := promptCredentials(*username, *password)
		user, err = manager.Login(ctx, name, pass)
		if err != nil {
			logger.Error("login failed", "error", err)
			os.Exit(1)
		}
		if user == nil {
			// Token accepted but its payload is not decodable
			user = &models.UserClaims{Username: name}
		}
	}

	fmt.Printf("🔐 AccessGuard console: signed in as %s (%s)\n", user.Username, user.Role)
	fmt.Printf("📡 Backend: %s\n", cfg.APIBase)

	if *createUser != "" {
		created, err := admin.NewService(client).CreateUser(ctx, models.CreateUserForm{
			Username: *createUser,
			Email:    *createEmail,
			Password: *createPassword,
			Role:     models.Role(*createRole),
		})
		if err != nil {
			logger.Error("create user failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Created user %s (id %d)\n", created.Username, created.ID)
		return
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, logger)
	}

	p := poller.New(client, cfg.PollInterval, m)
	p.Start(renderSnapshot)

	refreshTicker := time.NewTicker(refreshPeriod)
	defer refreshTicker.Stop()
	go func() {
		for range refreshTicker.C {
			if _, err := manager.Refresh(ctx); err != nil {
				logger.Warn("token refresh failed", "error", err)
			}
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	// The poller must be fully cancelled before the console exits
	p.Stop()
	fmt.Println("\nConsole stopped; session kept for next start (use -logout to clear).")
}

// promptCredentials fills in whichever of the two values was not passed as a
// flag.
func promptCredentials(username, password string) (string, string) {
	reader := bufio.NewReader(os.Stdin)

	for username == "" {
		fmt.Print("Username: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			os.Exit(1)
		}
		username = strings.TrimSpace(line)
	}

	for password == "" {
		fmt.Print("Password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			os.Exit(1)
		}
		password = strings.TrimSpace(line)
	}

	return username, password
}

// renderSnapshot prints one dashboard line per poll tick, plus any alerts.
func renderSnapshot(s models.PollSnapshot) {
	stamp := time.Now().Format("15:04:05")

	if !s.OK() {
		fmt.Printf("[%s] ⚠️  poll failed: %s\n", stamp, s.Error)
		return
	}

	fmt.Printf("[%s] risk=%-3d events=%d alerts=%d\n", stamp, s.MaxRiskScore, len(s.Events), len(s.Alerts))
	for _, alert := range s.Alerts {
		fmt.Printf("         🚨 %s %s risk=%d decision=%s\n",
			alert.Username, alert.Endpoint, alert.RiskScore, alert.Decision)
	}
}

func serveMetrics(addr string, logger *slog.Logger) {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())

	logger.Info("metrics listener started", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Error("metrics listener stopped", "error", err)
	}
}
