// Package scraper implements the HTML pipeline: fetch one page, parse it
// into an element tree, and run the tag-table extraction over it. One GET
// per run, no crawling, no caching.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/raysh454/skim/internal/interfaces"
	"github.com/raysh454/skim/internal/model"
	"github.com/raysh454/skim/internal/tabular"
	"github.com/raysh454/skim/internal/webclient"
)

// Result is the outcome of one scrape run.
type Result struct {
	URL       string              `json:"url"`
	Title     string              `json:"title"`
	Table     *tabular.Table      `json:"table"`
	Keyed     *tabular.KeyedTable `json:"-"`
	FetchedAt time.Time           `json:"fetched_at"`
}

type Scraper struct {
	cfg    Config
	wc     interfaces.WebClient
	logger interfaces.Logger
}

func New(cfg Config, wc interfaces.WebClient, logger interfaces.Logger) *Scraper {
	def := DefaultConfig()
	if cfg.PageURL == "" {
		cfg.PageURL = def.PageURL
	}
	if cfg.ContainerTag == "" {
		cfg.ContainerTag = def.ContainerTag
		cfg.ContainerAttr = def.ContainerAttr
		cfg.ContainerVal = def.ContainerVal
	}
	if cfg.RowTag == "" {
		cfg.RowTag = def.RowTag
	}
	if cfg.HeaderCellTag == "" {
		cfg.HeaderCellTag = def.HeaderCellTag
	}
	if cfg.DataCellTag == "" {
		cfg.DataCellTag = def.DataCellTag
	}
	if cfg.Arity <= 0 {
		cfg.Arity = def.Arity
	}
	return &Scraper{
		cfg:    cfg,
		wc:     wc,
		logger: logger.With(interfaces.Field{Key: "component", Value: "scraper"}),
	}
}

// Scrape fetches the configured page and extracts its table. The stages run
// strictly in order: fetch, status check, parse, extract, optional reindex.
func (s *Scraper) Scrape(ctx context.Context) (*Result, error) {
	resp, err := s.wc.Do(ctx, &model.Request{
		Method: http.MethodGet,
		URL:    s.cfg.PageURL,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.cfg.PageURL, err)
	}
	if err := webclient.CheckStatus(resp); err != nil {
		return nil, err
	}

	s.logger.Debug("parsing page",
		interfaces.Field{Key: "url", Value: s.cfg.PageURL},
		interfaces.Field{Key: "content_type", Value: resp.ContentType()})

	root, err := html.Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.cfg.PageURL, err)
	}

	table, err := tabular.Extract(root, s.cfg.extractOptions())
	if err != nil {
		return nil, err
	}

	result := &Result{
		URL:       s.cfg.PageURL,
		Title:     pageTitle(resp.Body),
		Table:     table,
		FetchedAt: resp.FetchedAt,
	}

	if s.cfg.KeyColumn != "" {
		keyed, err := tabular.ReindexByColumn(table, s.cfg.KeyColumn)
		var dup *tabular.DuplicateKeyError
		switch {
		case errors.As(err, &dup):
			// Tied ranks are expected in the source data.
			s.logger.Warn("duplicate keys while reindexing",
				interfaces.Field{Key: "column", Value: dup.Column},
				interfaces.Field{Key: "keys", Value: dup.Keys})
		case err != nil:
			return nil, err
		}
		result.Keyed = keyed
	}

	s.logger.Info("scraped table",
		interfaces.Field{Key: "url", Value: s.cfg.PageURL},
		interfaces.Field{Key: "title", Value: result.Title},
		interfaces.Field{Key: "rows", Value: len(table.Rows)})

	return result, nil
}

// pageTitle pulls the document title for run metadata. Best effort only, an
// unparseable head yields an empty title.
func pageTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
