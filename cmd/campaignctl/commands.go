package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"

	"campaigngen/internal/campaign"
	"campaigngen/internal/domain"
	"campaigngen/internal/infra"
	"campaigngen/internal/providers/genai"
)

var errGenerationFailed = errors.New("generation failed")

type cli struct {
	connect func(ctx context.Context, opts genai.Options) (campaign.TextBackend, error)

	cfg    *infra.Config
	logger zerolog.Logger

	provider string
	model    string
	verbose  bool
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "campaignctl",
		Short:         "Campaign message generator tools",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load()
		},
	}
	root.PersistentFlags().StringVar(&c.provider, "provider", "", "prompt provider (gemini or openai); defaults to PROMPT_PROVIDER")
	root.PersistentFlags().StringVar(&c.model, "model", "", "model name override")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log backend activity to stderr")

	root.AddCommand(c.checkKeyCmd(), c.generateCmd(), c.analyzeCmd())
	return root
}

func (c *cli) load() error {
	if c.cfg == nil {
		cfg, err := infra.LoadConfig()
		if err != nil {
			return err
		}
		c.cfg = cfg
		c.logger = infra.NewCLILogger(c.verbose)
	}
	if p := strings.TrimSpace(c.provider); p != "" {
		c.cfg.PromptProvider = strings.ToLower(p)
	}
	if m := strings.TrimSpace(c.model); m != "" {
		if c.cfg.PromptProvider == genai.ProviderOpenAI {
			c.cfg.OpenAIModel = m
		} else {
			c.cfg.GeminiModel = m
		}
	}
	return nil
}

func (c *cli) options() genai.Options {
	logger := c.logger.With().Str("component", "genai").Logger()
	return c.cfg.BackendOptions(&logger)
}

func (c *cli) generator(ctx context.Context, concurrency int) *campaign.Generator {
	opts := c.options()
	return campaign.NewGenerator(ctx,
		func(ctx context.Context) (campaign.TextBackend, error) { return c.connect(ctx, opts) },
		campaign.WithLogger(c.logger),
		campaign.WithVariationConcurrency(concurrency),
		campaign.WithMaxVariations(c.cfg.MaxVariations),
		campaign.WithCallTimeout(c.cfg.GenerationTimeout),
	)
}

func (c *cli) checkKeyCmd() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "check-key",
		Short: "Verify that the configured API key can reach the provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			opts := c.options()
			if k := strings.TrimSpace(key); k != "" {
				opts.APIKey = k
			}
			if opts.APIKey == "" {
				fmt.Fprintf(out, "No API key found for provider %s\n", opts.Provider)
				return fmt.Errorf("%w: missing API key", genai.ErrConfiguration)
			}

			fmt.Fprintf(out, "Found API key: %s\n", genai.MaskKey(opts.APIKey))
			fmt.Fprintf(out, "Testing %s model %s...\n", opts.Provider, opts.Model)
			if _, err := c.connect(cmd.Context(), opts); err != nil {
				fmt.Fprintf(out, "API key test failed: %v\n", err)
				printHint(out, err)
				return err
			}
			fmt.Fprintln(out, "API key is working")
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "API key to test instead of the environment value")
	return cmd
}

func printHint(out io.Writer, err error) {
	var genErr *genai.GenerationError
	if !errors.As(err, &genErr) {
		return
	}
	if hint := genErr.Hint(); hint != "" {
		fmt.Fprintf(out, "Troubleshooting (%s): %s\n", genErr.Reason, hint)
	}
}

func (c *cli) generateCmd() *cobra.Command {
	var (
		industry, audience, tone string
		count, concurrency       int
	)
	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate campaign messages for a prompt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := domain.NewGenerationRequest(strings.Join(args, " "), industry, audience, tone)
			if err != nil {
				return err
			}
			if concurrency < 1 {
				concurrency = c.cfg.VariationConcurrency
			}
			gen := c.generator(cmd.Context(), concurrency)
			out := cmd.OutOrStdout()

			var results []domain.GeneratedMessage
			if cmd.Flags().Changed("count") {
				vreq, err := domain.NewVariationRequestWithLimit(req, count, c.cfg.MaxVariations)
				if err != nil {
					return err
				}
				results = gen.GenerateMultipleVariations(cmd.Context(), vreq)
			} else {
				results = []domain.GeneratedMessage{gen.GenerateMessage(cmd.Context(), req)}
			}

			failed := false
			for i, m := range results {
				if len(results) > 1 {
					fmt.Fprintf(out, "--- Variation %d ---\n", i+1)
				}
				fmt.Fprintln(out, m.Text)
				failed = failed || m.Failed()
			}
			if failed {
				return errGenerationFailed
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&industry, "industry", "", "industry of the campaign")
	f.StringVar(&audience, "audience", "", "target audience")
	f.StringVar(&tone, "tone", "", "tone of voice")
	f.IntVarP(&count, "count", "n", domain.DefaultVariationCount, "number of variations; omit for a single message")
	f.IntVar(&concurrency, "concurrency", 0, "parallel variation calls; defaults to VARIATION_CONCURRENCY")
	return cmd
}

func (c *cli) analyzeCmd() *cobra.Command {
	var asHTML bool
	cmd := &cobra.Command{
		Use:   "analyze <message>",
		Short: "Score a campaign message against the effectiveness rubric",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")
			if strings.TrimSpace(message) == "" {
				return fmt.Errorf("%w: message is required", domain.ErrInvalidMessage)
			}
			res := c.generator(cmd.Context(), 1).AnalyzeMessage(cmd.Context(), message)
			out := cmd.OutOrStdout()

			analysis := res.Analysis
			if asHTML && !res.Failed() {
				html, err := renderHTML(analysis)
				if err != nil {
					return err
				}
				analysis = html
			}
			fmt.Fprintln(out, analysis)
			if res.Failed() {
				return errGenerationFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "render the analysis Markdown as HTML")
	return cmd
}

func renderHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render analysis: %w", err)
	}
	return buf.String(), nil
}
