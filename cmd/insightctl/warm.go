package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"

	"insightbff/internal/adapters/llm"
	"insightbff/internal/core/langtag"
	"insightbff/internal/modkit"
	"insightbff/internal/platform/config"
	"insightbff/internal/platform/logger"
	"insightbff/internal/platform/store"
	"insightbff/internal/services/api"
	feedrepo "insightbff/internal/services/api/feed/repo"
	rdom "insightbff/internal/services/resolver/domain"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	warmLangs       []string
	warmLimit       int
	warmConcurrency int
)

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Translate the newest clusters ahead of traffic",
	Long: `Resolve the newest clusters in each language through the same resolver
the API uses, persisting translations so the first reader gets them warm.`,
	Args: cobra.NoArgs,
	RunE: runWarm,
}

func init() {
	warmCmd.Flags().StringSliceVar(&warmLangs, "lang", nil, "Languages to warm, e.g. de,fr (required)")
	warmCmd.Flags().IntVar(&warmLimit, "limit", 50, "Newest clusters per language")
	warmCmd.Flags().IntVar(&warmConcurrency, "concurrency", 4, "Parallel resolutions")
	_ = warmCmd.MarkFlagRequired("lang")
}

func runWarm(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	root := config.New()
	l := logger.Get()
	cfg := store.LoadConfig(root, "insightctl")
	cfg.PG.URL = pgURL()
	cfg.CH.Enabled = false

	st, err := store.Open(ctx, cfg, store.WithLogger(*l))
	if err != nil {
		return err
	}
	defer func() { _ = st.Close(context.Background()) }()

	provider, err := llm.New(llm.FromConfig(root))
	if err != nil {
		return err
	}
	deps := modkit.FromStore(st, root, *l)
	core := api.NewCore(deps, provider)

	lister := feedrepo.NewPG().Bind(deps.PG)
	return warm(ctx, cmd.OutOrStdout(), lister, core.Resolver.Ensure, warmLangs, warmLimit, warmConcurrency)
}

// warm resolves the newest limit clusters in every language and prints a line per language
func warm(ctx context.Context, out io.Writer, lister feedrepo.Repo, ensure rdom.EnsurePort, langs []string, limit, concurrency int) error {
	cands, err := lister.Candidates(ctx, limit, "")
	if err != nil {
		return err
	}
	for _, raw := range langs {
		lang, err := langtag.Normalize(raw)
		if err != nil {
			return err
		}
		var ok, failed atomic.Int64
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(max(concurrency, 1))
		for _, c := range cands {
			g.Go(func() error {
				res, err := ensure.EnsureDedup(gctx, c.ID, lang)
				if err != nil || res == nil {
					failed.Add(1)
					return nil
				}
				ok.Add(1)
				return nil
			})
		}
		_ = g.Wait()
		fmt.Fprintf(out, "%s: %d warmed, %d failed\n", lang, ok.Load(), failed.Load())
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}
