package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/lumistore/catalog-engine/config"
	"github.com/lumistore/catalog-engine/internal/engine"
	"github.com/lumistore/catalog-engine/internal/taxonomy"
	"github.com/lumistore/catalog-engine/internal/upstream"
	"github.com/lumistore/catalog-engine/internal/urlstate"
)

const pageSize = 40

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	config.LoadEnvFile()
	if lvl, err := zerolog.ParseLevel(config.LogLevel()); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := taxonomy.Default()
	client := upstream.NewClient(upstream.ClientOpts{BaseURL: config.BaseURL()})
	log.Info().Str("baseURL", config.BaseURL()).Int("brands", len(cfg.Brands)).Msg("catalog engine starting")

	// Probe every configured brand concurrently so a broken upstream shows
	// up before the first navigation.
	g, gctx := errgroup.WithContext(ctx)
	for _, b := range cfg.Brands {
		b := b
		g.Go(func() error {
			pr, err := client.FetchPage(gctx, b.Name, 1, 1, upstream.Params{})
			if err != nil {
				log.Warn().Err(err).Str("brand", b.Name).Msg("brand probe failed")
				return nil
			}
			log.Info().Str("brand", b.Name).Int("totalProducts", pr.TotalProducts).Msg("brand reachable")
			return nil
		})
	}
	_ = g.Wait()

	raw := "/catalog/kinklight/chandeliers/pendant-chandeliers"
	if len(os.Args) > 1 {
		raw = os.Args[1]
	}
	target, err := url.Parse(raw)
	if err != nil {
		log.Fatal().Err(err).Str("url", raw).Msg("invalid catalog url")
	}

	states := make(chan engine.ViewState, 1)
	session := engine.NewSession(engine.NewAggregator(client), pageSize)
	bar := urlstate.NewMemoryBar(target)
	sync := urlstate.NewSynchronizer(bar, cfg, session, func(v engine.ViewState) { states <- v })

	sync.NavigateURL(ctx, target)

	select {
	case <-ctx.Done():
		log.Info().Msg("interrupted")
	case state := <-states:
		printState(state, bar.Current())
	}
}

func printState(state engine.ViewState, address *url.URL) {
	if state.Err != nil {
		fmt.Fprintf(os.Stderr, "failed to load products: %v\n", state.Err)
	}
	fmt.Printf("%s\n", address)
	fmt.Printf("%d products, page %d of %d\n\n", state.TotalProducts, state.Query.Page, state.TotalPages)
	for i, p := range state.Products {
		fmt.Printf("%d. %s (%s) - %.0f rub", i+1, p.Name, p.ArticleCode, p.Price)
		if p.Stock <= 0 {
			fmt.Printf(" [out of stock]")
		}
		fmt.Println()
	}
	if state.MayBeIncomplete {
		fmt.Println("\nresults may be incomplete")
	}
	if len(state.Facets.Colors) > 0 {
		fmt.Printf("\ncolors:")
		for _, c := range state.Facets.Colors {
			fmt.Printf(" %s", c.Label)
		}
		fmt.Println()
	}
}
