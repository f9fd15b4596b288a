// @title         Insight BFF API
// @version       1.0
// @description   Multilingual news clusters with on-demand translation

package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"insightbff/internal/adapters/llm"
	"insightbff/internal/modkit"
	"insightbff/internal/platform/config"
	"insightbff/internal/platform/logger"
	phttp "insightbff/internal/platform/net/http"
	"insightbff/internal/platform/store"
	"insightbff/internal/platform/store/migrate"
	"insightbff/internal/services/api"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stCfg := store.LoadConfig(root, "insight-api")
	if apiCfg.MayBool("MIGRATE", true) {
		res, err := migrate.Up(stCfg.PG.URL, *l)
		if err != nil {
			l.Panic().Err(err).Msg("schema migration failed")
		}
		l.Info().Uint("from", res.From).Uint("to", res.To).Msg("schema ready")
	}

	stmtTimeout := apiCfg.MayDuration("PG_STATEMENT_TIMEOUT", 10*time.Second)
	st, err := store.Open(ctx, stCfg,
		store.WithLogger(*l),
		store.WithPoolConfig(func(pc *pgxpool.Config) {
			pc.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(stmtTimeout.Milliseconds(), 10)
		}),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// a degraded backend is reported by /meta/ready; start serving anyway
	if err := st.Guard(ctx); err != nil {
		l.Warn().Err(err).Msg("store not fully ready")
	}

	provider, err := llm.New(llm.FromConfig(root))
	if err != nil {
		l.Panic().Err(err).Msg("llm provider")
	}
	l.Info().Str("provider", provider.Name()).Msg("translation provider ready")

	deps := modkit.FromStore(st, root, *l)
	core := api.NewCore(deps, provider)

	srv := phttp.NewServer(apiCfg)
	api.Mount(srv.Router(), api.OptionsFromConfig(root, deps, core))

	// the queue outlives the signal so Shutdown can drain it
	qctx, qcancel := context.WithCancel(context.WithoutCancel(ctx))
	defer qcancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return core.Queue.Worker.Run(qctx) })
	if ev := core.Text.Events; ev != nil {
		g.Go(func() error { return ev.Run(gctx) })
	}
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), apiCfg.MayDuration("SHUTDOWN_TIMEOUT", 15*time.Second))
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			l.Warn().Err(err).Msg("http shutdown")
		}
		if err := core.Queue.Worker.Shutdown(sctx); err != nil {
			l.Warn().Err(err).Msg("background queue abandoned")
			qcancel()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		l.Error().Err(err).Msg("insight-api stopped")
		return
	}
	l.Info().Msg("insight-api stopped")
}
