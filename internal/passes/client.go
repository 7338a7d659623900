// Package passes implements the JSON pipeline: fetch an open-notify
// endpoint, decode the body, and pull fixed-path fields out of the decoded
// document. Each call is a fresh, stateless, single pass.
package passes

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/raysh454/skim/internal/interfaces"
	"github.com/raysh454/skim/internal/jsonpath"
	"github.com/raysh454/skim/internal/model"
	"github.com/raysh454/skim/internal/webclient"
)

// Pass is one predicted overhead pass of the station.
type Pass struct {
	Risetime int64  `json:"risetime"`
	Duration int64  `json:"duration"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

// Person is one crew member currently in space.
type Person struct {
	Name  string `json:"name"`
	Craft string `json:"craft"`
}

// Client runs the two JSON extractions against their endpoints.
type Client struct {
	cfg    Config
	wc     interfaces.WebClient
	logger interfaces.Logger
	loc    *time.Location
}

// NewClient builds a Client. Pass times are rendered in the local timezone
// unless overridden with InLocation.
func NewClient(cfg Config, wc interfaces.WebClient, logger interfaces.Logger) *Client {
	if cfg.PassURL == "" {
		cfg.PassURL = DefaultPassURL
	}
	if cfg.AstrosURL == "" {
		cfg.AstrosURL = DefaultAstrosURL
	}
	return &Client{
		cfg:    cfg,
		wc:     wc,
		logger: logger.With(interfaces.Field{Key: "component", Value: "passes"}),
		loc:    time.Local,
	}
}

// InLocation overrides the timezone used to render pass times.
func (c *Client) InLocation(loc *time.Location) *Client {
	c.loc = loc
	return c
}

// fetchJSON is the fetch→decode half of the pipeline. The status check runs
// before any decode; the body of a failed fetch is never parsed.
func (c *Client) fetchJSON(ctx context.Context, target string, query url.Values) (any, error) {
	resp, err := c.wc.Do(ctx, &model.Request{
		Method: http.MethodGet,
		URL:    target,
		Query:  query,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	if err := webclient.CheckStatus(resp); err != nil {
		return nil, err
	}

	c.logger.Debug("decoding response",
		interfaces.Field{Key: "url", Value: target},
		interfaces.Field{Key: "content_type", Value: resp.ContentType()})

	doc, err := jsonpath.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", target, err)
	}
	return doc, nil
}

// UpcomingPasses queries the timed-pass endpoint for a location and returns
// the predicted passes in response order, with rise times formatted.
func (c *Client) UpcomingPasses(ctx context.Context, lat, lon float64) ([]Pass, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	doc, err := c.fetchJSON(ctx, c.cfg.PassURL, query)
	if err != nil {
		return nil, err
	}

	entries, err := jsonpath.GetArray(doc, jsonpath.Path{jsonpath.Key("response")})
	if err != nil {
		return nil, err
	}

	passes := make([]Pass, 0, len(entries))
	for i := range entries {
		risetime, err := jsonpath.GetInt(doc, jsonpath.Path{
			jsonpath.Key("response"), jsonpath.Index(i), jsonpath.Key("risetime"),
		})
		if err != nil {
			return nil, err
		}
		duration, err := jsonpath.GetInt(doc, jsonpath.Path{
			jsonpath.Key("response"), jsonpath.Index(i), jsonpath.Key("duration"),
		})
		if err != nil {
			return nil, err
		}

		date, clock, err := FormatTimestampIn(risetime, c.loc)
		if err != nil {
			return nil, fmt.Errorf("pass %d: %w", i, err)
		}

		passes = append(passes, Pass{
			Risetime: risetime,
			Duration: duration,
			Date:     date,
			Time:     clock,
		})
	}

	c.logger.Info("fetched upcoming passes",
		interfaces.Field{Key: "count", Value: len(passes)},
		interfaces.Field{Key: "lat", Value: lat},
		interfaces.Field{Key: "lon", Value: lon})

	return passes, nil
}

// PeopleInSpace queries the fixed-path endpoint and returns the headcount
// and the crew list.
func (c *Client) PeopleInSpace(ctx context.Context) (int64, []Person, error) {
	doc, err := c.fetchJSON(ctx, c.cfg.AstrosURL, nil)
	if err != nil {
		return 0, nil, err
	}

	number, err := jsonpath.GetInt(doc, jsonpath.Path{jsonpath.Key("number")})
	if err != nil {
		return 0, nil, err
	}

	entries, err := jsonpath.GetArray(doc, jsonpath.Path{jsonpath.Key("people")})
	if err != nil {
		return 0, nil, err
	}

	people := make([]Person, 0, len(entries))
	for i := range entries {
		name, err := jsonpath.GetString(doc, jsonpath.Path{
			jsonpath.Key("people"), jsonpath.Index(i), jsonpath.Key("name"),
		})
		if err != nil {
			return 0, nil, err
		}
		craft, err := jsonpath.GetString(doc, jsonpath.Path{
			jsonpath.Key("people"), jsonpath.Index(i), jsonpath.Key("craft"),
		})
		if err != nil {
			return 0, nil, err
		}
		people = append(people, Person{Name: name, Craft: craft})
	}

	c.logger.Info("fetched people in space",
		interfaces.Field{Key: "number", Value: number})

	return number, people, nil
}
