// Command modelmux is a small CLI for exercising the provider chain: it
// loads the config file, builds a client, and runs a one-shot or streaming
// chat against the configured providers.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/modelmux/modelmux/client"
	"github.com/modelmux/modelmux/config"
	"github.com/modelmux/modelmux/llm"
	"github.com/modelmux/modelmux/logger"
)

var (
	flagConfig      string
	flagModel       string
	flagSystem      string
	flagTemperature float64
	flagTimeout     int
	flagStream      bool
	flagDebug       bool
)

func main() {
	root := &cobra.Command{
		Use:           "modelmux",
		Short:         "Multi-provider LLM chat client with failover",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path (default: ~/.modelmux/config.yaml)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	chatCmd := &cobra.Command{
		Use:   "chat [prompt]",
		Short: "Send a chat request through the provider chain",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runChat,
	}
	chatCmd.Flags().StringVar(&flagModel, "model", "", "model override")
	chatCmd.Flags().StringVar(&flagSystem, "system", "", "system prompt")
	chatCmd.Flags().Float64Var(&flagTemperature, "temperature", -1, "sampling temperature [0,2]")
	chatCmd.Flags().IntVar(&flagTimeout, "timeout", 0, "per-attempt timeout in seconds")
	chatCmd.Flags().BoolVar(&flagStream, "stream", false, "stream the response")
	root.AddCommand(chatCmd)

	providersCmd := &cobra.Command{
		Use:   "providers",
		Short: "List the configured provider chain",
		RunE:  runProviders,
	}
	root.AddCommand(providersCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildClient() (*client.Client, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDebug {
		cfg.Debug = true
	}
	if flagTimeout > 0 {
		cfg.Timeout = flagTimeout
	}

	clientCfg, err := cfg.ClientConfig()
	if err != nil {
		return nil, err
	}
	log := logger.Init()
	clientCfg.Logger = &log

	return client.New(clientCfg)
}

func runChat(cmd *cobra.Command, args []string) error {
	c, err := buildClient()
	if err != nil {
		return err
	}

	req := &llm.ChatRequest{Model: flagModel}
	if flagSystem != "" {
		req.Messages = append(req.Messages, llm.SystemMessage(flagSystem))
	}
	req.Messages = append(req.Messages, llm.UserMessage(strings.Join(args, " ")))
	if flagTemperature >= 0 {
		req.Temperature = &flagTemperature
	}

	ctx := context.Background()
	if flagStream {
		return streamChat(ctx, c, req)
	}

	resp, err := c.Chat(ctx, req)
	if err != nil {
		return err
	}
	fmt.Println(resp.Message.Content)
	fmt.Fprintf(os.Stderr, "[%s / %s, finish=%s]\n", resp.Provider, resp.Model, resp.FinishReason)
	return nil
}

func streamChat(ctx context.Context, c *client.Client, req *llm.ChatRequest) error {
	start := time.Now()
	stream, err := c.ChatStream(ctx, req)
	if err != nil {
		return err
	}
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Chunk()
		fmt.Print(chunk.Content)
		if chunk.FinishReason != "" {
			fmt.Printf("\n")
			fmt.Fprintf(os.Stderr, "[finish=%s, %.1fs]\n", chunk.FinishReason, time.Since(start).Seconds())
		}
	}
	return stream.Err()
}

func runProviders(cmd *cobra.Command, args []string) error {
	c, err := buildClient()
	if err != nil {
		return err
	}
	for _, name := range c.Providers() {
		marker := " "
		if name == c.Provider() {
			marker = "*"
		}
		configured := "not configured"
		if c.IsConfigured(name) {
			configured = "configured"
		}
		fmt.Printf("%s %-10s %s\n", marker, name, configured)
	}
	return nil
}
