package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lox/blindbid/cmd/blindbid/shared"
	"github.com/lox/blindbid/internal/client"
	"github.com/lox/blindbid/internal/server"
)

// ClientCmd connects to a server and plays from the terminal
type ClientCmd struct {
	Config   string `short:"c" default:"client.hcl" help:"Path to HCL configuration file"`
	Server   string `short:"s" help:"Server URL to connect to (overrides config)"`
	Player   string `short:"p" help:"Player name (overrides config)"`
	Session  string `help:"Session to play in (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
}

func (c *ClientCmd) Run() error {
	cfg, err := client.LoadClientConfig(c.Config)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if c.Server != "" {
		cfg.Server.URL = c.Server
	}
	if c.Player != "" {
		cfg.Player.Name = c.Player
	}
	if c.Session != "" {
		cfg.Player.Session = c.Session
	}
	if c.LogLevel != "" {
		cfg.UI.LogLevel = c.LogLevel
	}

	in := bufio.NewScanner(os.Stdin)
	if cfg.Player.Name == "" {
		fmt.Print("Enter your player name: ")
		if in.Scan() {
			cfg.Player.Name = strings.TrimSpace(in.Text())
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := shared.SetupLogger(cfg.UI.LogLevel)
	if err != nil {
		return err
	}

	wsClient := client.NewClient(cfg.Server.URL, logger)
	if err := wsClient.Connect(); err != nil {
		return err
	}
	defer func() { _ = wsClient.Disconnect() }()

	wsClient.AddEventHandler(server.MessageTypeNotice, printNotice(false))
	wsClient.AddEventHandler(server.MessageTypeNoticeEdit, printNotice(true))
	wsClient.AddEventHandler(server.MessageTypeError, func(msg *server.Message) {
		var data server.ErrorData
		if err := json.Unmarshal(msg.Data, &data); err == nil {
			fmt.Println(client.FormatError(data))
		}
	})

	auth, err := wsClient.Authenticate(cfg.Player.Name, time.Duration(cfg.Server.ConnectTimeout)*time.Second)
	if err != nil {
		return err
	}

	wsClient.SetSessionID(cfg.Player.Session)
	fmt.Printf("Connected as %s in session %s. Type 'help' for commands.\n", auth.PlayerID, cfg.Player.Session)

	lines := make(chan string)
	go func() {
		defer close(lines)
		for in.Scan() {
			lines <- in.Text()
		}
	}()

	for {
		select {
		case <-wsClient.Done():
			return errors.New("disconnected from server")
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			switch strings.TrimSpace(line) {
			case "help", "?":
				fmt.Println(client.Usage)
				continue
			case "quit", "exit":
				return nil
			}
			if err := wsClient.Run(line); err != nil && !errors.Is(err, client.ErrEmptyLine) {
				fmt.Println(err)
			}
		}
	}
}

func printNotice(edit bool) client.EventHandler {
	return func(msg *server.Message) {
		var n server.NoticeData
		if err := json.Unmarshal(msg.Data, &n); err != nil {
			return
		}
		fmt.Println(client.FormatNotice(n, edit))
	}
}
