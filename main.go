package main

import (
	"context"
	"fmt"
	"net/http/httptest"

	"github.com/raysh454/skim/internal/demoserver"
	"github.com/raysh454/skim/internal/interfaces"
	"github.com/raysh454/skim/internal/passes"
	"github.com/raysh454/skim/internal/scraper"
	"github.com/raysh454/skim/internal/webclient"
)

// Offline demo: runs both pipelines against canned fixture endpoints.
// The real CLI lives in cmd/skim.
func main() {
	fixtures := httptest.NewServer(demoserver.NewDemoServer(demoserver.DefaultConfig()).Handler())
	defer fixtures.Close()

	logger := interfaces.NewTestLogger(false)
	wc, err := webclient.NewNetHTTPClient(webclient.DefaultConfig(), logger, nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer wc.Close()

	ctx := context.Background()

	pcfg := passes.DefaultConfig()
	pcfg.PassURL = fixtures.URL + "/iss-pass.json"
	pcfg.AstrosURL = fixtures.URL + "/astros.json"
	client := passes.NewClient(pcfg, wc, logger)

	ps, err := client.UpcomingPasses(ctx, 40.71, -74.0)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	for _, p := range ps {
		fmt.Println(p.Describe())
	}

	number, people, err := client.PeopleInSpace(ctx)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	for _, line := range passes.DescribePeople(number, people) {
		fmt.Println(line)
	}

	scfg := scraper.DefaultConfig()
	scfg.PageURL = fixtures.URL + "/rankings"
	res, err := scraper.New(scfg, wc, logger).Scrape(ctx)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("%s: %v\n", res.Title, res.Table.Columns)
	for _, row := range res.Table.Rows {
		fmt.Printf("  %v\n", row)
	}
}
