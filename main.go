package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"social_post_generator/client"
	"social_post_generator/config"
	"social_post_generator/generator"
	"social_post_generator/logger"
	"social_post_generator/render"
	"social_post_generator/server"
)

var (
	configPath string
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:           "social_post_generator",
		Short:         "Generate social media post drafts with an LLM",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to config.json")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")
	root.AddCommand(newServeCmd(), newGenerateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			initLogger(cfg)

			llm, err := buildLLM(cfg)
			if err != nil {
				return err
			}
			agent, err := generator.NewAgent(llm, generator.AgentConfig{
				Prompt: generator.PromptOptions{
					System:          cfg.Prompt.System,
					MinWordsPerPost: cfg.Prompt.MinWordsPerPost,
					VaryTone:        cfg.Prompt.VaryTone,
				},
				Timeout:      cfg.LLM.Timeout,
				DefaultCount: cfg.Prompt.DefaultCount,
			})
			if err != nil {
				return err
			}
			srv, err := server.New(agent)
			if err != nil {
				return err
			}

			listen := cfg.ServerAddr
			if addr != "" {
				listen = addr
			}
			return serve(cmd.Context(), listen, srv.Routes())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "http listen address (overrides config server_addr)")
	return cmd
}

func serve(ctx context.Context, addr string, h http.Handler) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "starting web server", "addr", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newGenerateCmd() *cobra.Command {
	var (
		endpoint string
		tone     string
		count    int
		htmlOut  string
	)
	cmd := &cobra.Command{
		Use:   "generate [topic]",
		Short: "Request posts from a running server and print them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Init(logLevel("info"), "text")

			form := client.NewForm(client.New(endpoint, nil))
			form.SetTopic(strings.Join(args, " "))
			form.SetTone(tone)
			form.SetCount(count)
			if !form.CanSubmit() {
				return client.ErrTopicRequired
			}

			logger.Info(cmd.Context(), "generating", "endpoint", endpoint)
			if err := form.Submit(cmd.Context()); err != nil {
				return err
			}
			st := form.State()

			if htmlOut != "" {
				page, err := render.HTML(st.Topic, st.Posts)
				if err != nil {
					return err
				}
				if err := os.WriteFile(htmlOut, []byte(page), 0o644); err != nil {
					return err
				}
				logger.Info(cmd.Context(), "wrote html", "path", htmlOut, "posts", len(st.Posts))
			}
			return render.Text(cmd.OutOrStdout(), st.Posts)
		},
	}
	cmd.Flags().StringVar(&endpoint, "endpoint", "http://localhost:8080", "base URL of a running server")
	cmd.Flags().StringVar(&tone, "tone", "", "tone for the posts (e.g. Friendly)")
	cmd.Flags().IntVar(&count, "count", generator.DefaultCount, "number of posts (1-10)")
	cmd.Flags().StringVar(&htmlOut, "html", "", "also write the posts as an HTML page to this path")
	return cmd
}

func initLogger(cfg config.Config) {
	logger.Init(logLevel(cfg.Log.Level), cfg.Log.Format)
}

func logLevel(level string) string {
	if verbose {
		return "debug"
	}
	return level
}

func buildLLM(cfg config.Config) (generator.LLMClient, error) {
	switch cfg.LLM.Provider {
	case "mock":
		return generator.MockLLM{}, nil
	case "openai", "deepseek":
		// DeepSeek speaks the OpenAI protocol; config validation already required its base_url.
		return generator.NewOpenAILLMFromConfig(&generator.LLMSettings{
			Provider:    cfg.LLM.Provider,
			Model:       cfg.LLM.Model,
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		})
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}
