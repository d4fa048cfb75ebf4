package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"medai/internal/adapters/api"
	"medai/internal/adapters/file"
	redisadapter "medai/internal/adapters/redis"
	"medai/internal/config"
	"medai/internal/core/session"
	"medai/internal/domain"
	"medai/internal/event"
	"medai/internal/logger"
)

// terminalNavigator is the routing collaborator for a terminal: a redirect is
// just a line of output.
type terminalNavigator struct{}

func (terminalNavigator) Navigate(destination string) {
	fmt.Printf("-> redirect: %s\n", destination)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.New(cfg)

	store, cleanup, err := newSessionStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to init session store", "backend", cfg.SessionBackend, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	bus := event.New(log)
	bus.Subscribe(func(state domain.AuthState) {
		if state.LastError != nil {
			fmt.Printf("[%s] %s\n", state.Phase, domain.UserMessage(state.LastError))
			return
		}
		fmt.Printf("[%s]\n", state.Phase)
	})

	client := api.NewClient(cfg, log)
	ctrl := session.NewController(client, store, terminalNavigator{}, bus, log)
	defer ctrl.Close()

	if err := ctrl.Restore(ctx); err != nil {
		log.Error("session restore failed", "error", err)
	}

	// Stdin reads happen on their own goroutine so a shutdown signal is not
	// stuck behind a blocked Scan. The reader goroutine dies with the process.
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer ctrl.Close()
		return repl(gCtx, ctrl, lines)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Error("client exited with error", "error", err)
	}
}

func newSessionStore(ctx context.Context, cfg *config.Config, log logger.Logger) (session.Store, func(), error) {
	if cfg.SessionBackend == "redis" {
		client, err := redisadapter.Init(ctx, &redisadapter.ClientOptions{
			Address:  cfg.RedisAddress,
			Username: cfg.RedisUsername,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return redisadapter.NewSessionStore(client, log), func() { client.Close() }, nil
	}

	return file.NewSessionStore(cfg.SessionFile, log), func() {}, nil
}

func repl(ctx context.Context, ctrl session.Controller, lines <-chan string) error {
	fmt.Println("commands: login <email> <password> | signup | logout | status | quit")

	readLine := func() (string, bool) {
		select {
		case <-ctx.Done():
			return "", false
		case line, ok := <-lines:
			return line, ok
		}
	}

	for {
		line, ok := readLine()
		if !ok {
			return ctx.Err()
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "login":
			if len(fields) != 3 {
				fmt.Println("usage: login <email> <password>")
				continue
			}
			if err := ctrl.Login(ctx, fields[1], fields[2]); err != nil {
				fmt.Println(domain.UserMessage(err))
			}

		case "signup":
			req, confirm, agree := promptSignup(readLine)
			if err := ctrl.Signup(ctx, req, confirm, agree); err != nil {
				fmt.Println(domain.UserMessage(err))
			}

		case "logout":
			if err := ctrl.Logout(ctx); err != nil {
				fmt.Println(domain.UserMessage(err))
			}

		case "status":
			state := ctrl.State()
			fmt.Printf("phase=%s loading=%v", state.Phase, state.Loading())
			if state.Session != nil {
				fmt.Printf(" user_id=%s", state.Session.User.ID())
			}
			fmt.Println()

		case "quit":
			return nil

		default:
			fmt.Println("unknown command:", fields[0])
		}
	}
}

func promptSignup(readLine func() (string, bool)) (domain.SignupRequest, string, bool) {
	read := func(label string) string {
		fmt.Printf("%s: ", label)
		line, _ := readLine()
		return strings.TrimSpace(line)
	}

	req := domain.SignupRequest{
		FullName: read("full name"),
		Email:    read("email"),
		Password: read("password"),
	}
	confirm := read("confirm password")
	req.Age = read("age")
	req.Gender = read("gender")
	req.Phone = read("phone")
	req.HealthID = read("health id (optional)")
	req.EmergencyContact = domain.EmergencyContact{
		Name:         read("emergency contact name"),
		Phone:        read("emergency contact phone"),
		Relationship: read("emergency contact relationship"),
	}
	agree := read("agree to terms? (yes/no)") == "yes"

	return req, confirm, agree
}
