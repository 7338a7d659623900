package webclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/raysh454/skim/internal/interfaces"
	"github.com/raysh454/skim/internal/model"
)

// ChromeDPClient renders pages in a headless browser before returning them.
// Used for scrape targets that only produce their table client-side; the
// plain nethttp backend stays the default.
type ChromeDPClient struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	idleAfter   time.Duration
	logger      interfaces.Logger
}

// NewChromeDPClient creates the browser-backed webclient. The browser process
// is allocated lazily by chromedp on the first navigation.
func NewChromeDPClient(cfg Config, logger interfaces.Logger) (*ChromeDPClient, error) {
	idleAfter := cfg.IdleAfter
	if idleAfter <= 0 {
		idleAfter = DefaultConfig().IdleAfter
	}

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if cfg.Headful {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromeDPClient{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		idleAfter:   idleAfter,
		logger:      logger.With(interfaces.Field{Key: "component", Value: "webclient/chromedp"}),
	}, nil
}

// waitNetworkIdle signals once no network request has been in flight for
// idleAfter. Rendered pages keep firing XHRs after load; waiting for quiet
// avoids snapshotting a half-populated document.
func waitNetworkIdle(ctx context.Context, idleAfter time.Duration) chan struct{} {
	idleChan := make(chan struct{})
	var activeReqs int32
	var timer *time.Timer
	var timerMutex sync.Mutex
	var once sync.Once

	startTimer := func() {
		timerMutex.Lock()
		defer timerMutex.Unlock()

		if timer != nil {
			timer.Stop()
		}

		timer = time.AfterFunc(idleAfter, func() {
			if atomic.LoadInt32(&activeReqs) == 0 {
				once.Do(func() {
					close(idleChan)
				})
			}
		})
	}

	chromedp.ListenTarget(ctx,
		func(ev any) {
			switch ev.(type) {
			case *network.EventRequestWillBeSent:
				atomic.AddInt32(&activeReqs, 1)
			case *network.EventLoadingFinished, *network.EventLoadingFailed:
				if atomic.AddInt32(&activeReqs, -1) == 0 {
					startTimer()
				}
			}
		})

	startTimer()
	return idleChan
}

// Do navigates to the request URL, waits for network idle and returns the
// rendered document. Only GET is supported on this backend.
func (cdc *ChromeDPClient) Do(ctx context.Context, req *model.Request) (*model.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Method != "" && !strings.EqualFold(req.Method, http.MethodGet) {
		return nil, fmt.Errorf("chromedp backend supports GET only, got %s", req.Method)
	}

	target := req.URL
	if len(req.Query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target = target + sep + req.Query.Encode()
	}

	tabCtx, cancel := chromedp.NewContext(cdc.allocCtx)
	defer cancel()

	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		tabCtx, cancelDeadline = context.WithDeadline(tabCtx, deadline)
		defer cancelDeadline()
	}

	// Capture the status and headers of the main document response.
	var statusCode atomic.Int64
	var headerMu sync.Mutex
	headers := http.Header{}
	chromedp.ListenTarget(tabCtx, func(ev any) {
		if e, ok := ev.(*network.EventResponseReceived); ok && e.Type == network.ResourceTypeDocument {
			statusCode.Store(e.Response.Status)
			headerMu.Lock()
			for k, v := range e.Response.Headers {
				if s, ok := v.(string); ok {
					headers.Set(k, s)
				}
			}
			headerMu.Unlock()
		}
	})

	idleChan := waitNetworkIdle(tabCtx, cdc.idleAfter)

	cdc.logger.Debug("navigating", interfaces.Field{Key: "url", Value: target})

	if err := chromedp.Run(tabCtx, chromedp.Navigate(target)); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", target, err)
	}

	select {
	case <-idleChan:
	case <-tabCtx.Done():
		return nil, fmt.Errorf("waiting for network idle: %w", tabCtx.Err())
	}

	var rendered string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &rendered)); err != nil {
		return nil, fmt.Errorf("snapshot rendered document: %w", err)
	}

	status := int(statusCode.Load())
	if status == 0 {
		status = http.StatusOK
	}

	headerMu.Lock()
	defer headerMu.Unlock()
	return &model.Response{
		Request:    req,
		Body:       []byte(rendered),
		Headers:    headers,
		StatusCode: status,
		FetchedAt:  time.Now(),
	}, nil
}

// Get is a convenience method for simple GET requests
func (cdc *ChromeDPClient) Get(ctx context.Context, url string) (*model.Response, error) {
	return cdc.Do(ctx, &model.Request{Method: http.MethodGet, URL: url})
}

func (cdc *ChromeDPClient) Close() error {
	cdc.logger.Debug("closing chromedp webclient")
	cdc.allocCancel()
	return nil
}
