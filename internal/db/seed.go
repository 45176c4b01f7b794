package db

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed inserts demo campaigns and tracking events. Development only.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	platforms := []string{"facebook", "google", "tiktok"}
	platformCodes := map[string]string{"facebook": "FB", "google": "GG", "tiktok": "TT"}
	year := time.Now().UTC().Year()

	codes := make([]string, 0, len(platforms))
	for i, platform := range platforms {
		code := fmt.Sprintf("ADL-%s-%d-%03d", platformCodes[platform], year, i+1)
		codes = append(codes, code)
		_, err := pool.Exec(ctx, `INSERT INTO campaigns
			(id, tracking_code, name, source, medium, category, budget, status, owner_id,
			 impressions, clicks, conversions, revenue, ctr, roi, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,'active','demo',0,0,0,0,0,0,now(),now())
			ON CONFLICT DO NOTHING`,
			uuid.NewString(), code, fmt.Sprintf("Demo %s campaign", platform),
			platform, "cpc", platform, 1000.0)
		if err != nil {
			return err
		}
	}

	agents := []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64)",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148",
		"Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X)",
	}
	referrers := []string{"https://www.google.com/search", "https://facebook.com/", "https://news.ycombinator.com/"}
	pages := []string{"/landing", "/pricing", "/signup"}

	for i := 0; i < 500; i++ {
		code := codes[r.Intn(len(codes))]
		kind := "page_view"
		value := 0.0
		switch n := r.Intn(10); {
		case n < 3:
			kind = "click"
		case n == 9:
			kind = "conversion"
			value = float64(10 + r.Intn(90))
		}
		metadata, _ := json.Marshal(map[string]string{
			"userAgent": agents[r.Intn(len(agents))],
			"referrer":  referrers[r.Intn(len(referrers))],
			"url":       pages[r.Intn(len(pages))],
		})
		occurred := time.Now().UTC().Add(-time.Duration(r.Intn(30*24)) * time.Hour)
		_, err := pool.Exec(ctx, `INSERT INTO tracking_events
			(tracking_code, type, value, session_id, metadata, occurred_at)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			code, kind, value, uuid.NewString(), metadata, occurred)
		if err != nil {
			return err
		}
		inc := ""
		switch kind {
		case "page_view":
			inc = "impressions = impressions + 1"
		case "click":
			inc = "clicks = clicks + 1"
		case "conversion":
			inc = fmt.Sprintf("conversions = conversions + 1, revenue = revenue + %f", value)
		}
		_, err = pool.Exec(ctx,
			`UPDATE campaigns SET `+inc+`, updated_at = now() WHERE tracking_code = $1`, code)
		if err != nil {
			return err
		}
	}
	return nil
}
