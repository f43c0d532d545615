package scrape

import (
	"context"
	"fmt"
	"time"

	"uocatalog-backend/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var probeClient = resty.New().
	SetTimeout(time.Second * 30).
	SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")

func init() {
	restyutil.InstrumentClient(probeClient, otel.Tracer("services/scrape/probe"))
}

// Probe checks that the target host answers at all before a batch pays
// for a browser session and a hundred per-subject timeouts.
func Probe(ctx context.Context, url string) error {
	res, err := probeClient.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return fmt.Errorf("probe %s: %w", url, err)
	}
	if res.StatusCode() >= 500 {
		return fmt.Errorf("probe %s: status %d", url, res.StatusCode())
	}
	return nil
}
