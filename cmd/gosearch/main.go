package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/balzaczyy/gosearch/core/config"
	"github.com/balzaczyy/gosearch/core/index"
	"github.com/balzaczyy/gosearch/core/search"
	"github.com/balzaczyy/gosearch/core/search/spans"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func queryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:     "corpus",
			Aliases:  []string{"c"},
			Usage:    "YAML corpus file to index; may be repeated",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "query",
			Aliases: []string{"q"},
			Usage:   "YAML query tree file",
		},
		&cli.StringFlag{
			Name:    "term",
			Aliases: []string{"t"},
			Usage:   "Single term query of the form field:text",
		},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "gosearch",
		Usage: "Run queries against YAML document corpora",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to YAML config file",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Override the configured log level (DEBUG, INFO, WARNING, ERROR)",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics on this address while the command runs",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "search",
				Usage:  "Print the top hits of a query",
				Action: searchCommand,
				Flags: append(queryFlags(),
					&cli.IntFlag{
						Name:  "first",
						Usage: "Index of the first hit to print",
					},
					&cli.IntFlag{
						Name:  "count",
						Usage: "Number of hits to print (defaults to search.defaultNumDocs)",
					},
					&cli.StringSliceFlag{
						Name:  "sort",
						Usage: "Sort key of the form field:type[!]; may be repeated",
					},
				),
			},
			{
				Name:   "explain",
				Usage:  "Explain the score of one document",
				Action: explainCommand,
				Flags: append(queryFlags(),
					&cli.IntFlag{
						Name:     "doc",
						Aliases:  []string{"d"},
						Usage:    "Document number to explain",
						Required: true,
					},
				),
			},
		},
	}
}

// loadConfig reads --config, applies the global flag overrides and
// installs the result as the logging backend and search defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if addr := c.String("metrics-addr"); addr != "" {
		cfg.Metrics.Addr = addr
	}
	if err := setupLogging(c.App.ErrWriter, cfg.Logging); err != nil {
		return nil, err
	}
	if err := search.ApplyConfig(cfg); err != nil {
		return nil, err
	}
	spans.DefaultSpanPrefixMaxTerms = cfg.Search.PrefixMaxTerms
	return cfg, nil
}

// loadSearcher indexes every corpus in parallel, one MemoryIndex each,
// and federates them in argument order.
func loadSearcher(ctx context.Context, paths []string) (*search.MultiSearcher, error) {
	searchers := make([]search.Searcher, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			mi := index.NewMemoryIndex()
			n, err := index.LoadCorpus(mi, path)
			if err != nil {
				return fmt.Errorf("loading corpus %s: %w", path, err)
			}
			log.Infof("Indexed %v documents from %v", n, path)
			searchers[i] = search.NewIndexSearcher(mi)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, s := range searchers {
			if s != nil {
				s.Close()
			}
		}
		return nil, err
	}
	return search.NewMultiSearcher(true, searchers...), nil
}

func readQuery(c *cli.Context) (search.Query, error) {
	switch {
	case c.String("query") != "" && c.String("term") != "":
		return nil, errors.New("--query and --term are mutually exclusive")
	case c.String("query") != "":
		return loadQueryTree(c.String("query"))
	case c.String("term") != "":
		return parseTermFlag(c.String("term"))
	}
	return nil, errors.New("one of --query or --term is required")
}

/*
serveMetrics exposes reg on addr until the returned stop function is
called. An empty addr serves nothing.
*/
func serveMetrics(addr string, reg *prometheus.Registry) (stop func()) {
	if addr == "" {
		return func() {}
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("metrics server on %v: %v", addr, err)
		}
	}()
	log.Infof("Serving metrics on %v", addr)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

// withSearcher sets up config, metrics and the searcher around fn.
func withSearcher(c *cli.Context, fn func(s *search.MultiSearcher, q search.Query) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	q, err := readQuery(c)
	if err != nil {
		return err
	}
	s, err := loadSearcher(c.Context, c.StringSlice("corpus"))
	if err != nil {
		return err
	}
	defer s.Close()

	reg := prometheus.NewRegistry()
	s.SetMetrics(search.NewMetrics(reg))
	stop := serveMetrics(cfg.Metrics.Addr, reg)
	defer stop()

	return fn(s, q)
}

func searchCommand(c *cli.Context) error {
	return withSearcher(c, func(s *search.MultiSearcher, q search.Query) error {
		opts := search.NewSearchOptions()
		opts.FirstDoc = c.Int("first")
		if c.IsSet("count") {
			opts.NumDocs = c.Int("count")
		}
		if keys := c.StringSlice("sort"); len(keys) > 0 {
			sort := search.NewSort()
			for _, key := range keys {
				sf, err := search.ParseSortField(key)
				if err != nil {
					return err
				}
				sort.Add(sf)
			}
			opts.Sort = sort
		}
		log.Debugf("Searching %v with %v", q, opts)
		td, err := s.Search(q, opts)
		if err != nil {
			return err
		}
		return printTopDocs(c, s, td, opts.FirstDoc)
	})
}

func printTopDocs(c *cli.Context, s search.Searcher, td *search.TopDocs, first int) error {
	w := c.App.Writer
	fmt.Fprintf(w, "%v hits, max score %.4f\n", td.TotalHits, td.MaxScore)
	for i, hit := range td.ScoreDocs {
		doc, err := s.Document(hit.Doc)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%4d. doc %d score %.4f %v\n", first+i+1, hit.Doc, hit.Score, doc)
	}
	return nil
}

func explainCommand(c *cli.Context) error {
	return withSearcher(c, func(s *search.MultiSearcher, q search.Query) error {
		doc := c.Int("doc")
		if doc < 0 || doc >= s.MaxDoc() {
			return fmt.Errorf("document %v is out of range [0, %v)", doc, s.MaxDoc())
		}
		expl, err := s.Explain(q, doc)
		if err != nil {
			return err
		}
		fmt.Fprint(c.App.Writer, expl)
		return nil
	})
}
