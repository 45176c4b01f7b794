package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"adl-tracker/internal/core/domain"
	"adl-tracker/internal/core/port"
)

const uniqueViolation = "23505"

// CampaignRepository implements port.CampaignRepository using pgxpool for
// PostgreSQL. Counter and sequence mutations run as single SQL
// statements, so concurrent writers never lose updates.
type CampaignRepository struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository returns a new repository instance.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

// storeErr wraps driver failures as ErrUnavailable so callers can
// distinguish an unreachable store from an empty result.
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", port.ErrUnavailable, err)
}

const campaignColumns = `id, tracking_code, name, source, medium, category, budget, status, owner_id,
	impressions, clicks, conversions, revenue, ctr, roi, created_at, updated_at, deleted_at`

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var c domain.Campaign
	err := row.Scan(
		&c.ID, &c.TrackingCode, &c.Name, &c.Source, &c.Medium, &c.Category, &c.Budget, &c.Status, &c.OwnerID,
		&c.Impressions, &c.Clicks, &c.Conversions, &c.Revenue, &c.CTR, &c.ROI,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) CreateCampaign(ctx context.Context, c *domain.Campaign) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO campaigns
		(id, tracking_code, name, source, medium, category, budget, status, owner_id,
		 impressions, clicks, conversions, revenue, ctr, roi, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		c.ID, c.TrackingCode, c.Name, c.Source, c.Medium, c.Category, c.Budget, c.Status, c.OwnerID,
		c.Impressions, c.Clicks, c.Conversions, c.Revenue, c.CTR, c.ROI, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", port.ErrDuplicateCode, c.TrackingCode)
		}
		return storeErr(err)
	}
	return nil
}

func (r *CampaignRepository) GetCampaignByCode(ctx context.Context, code string) (*domain.Campaign, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE tracking_code = $1`, code)
	c, err := scanCampaign(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return c, nil
}

func (r *CampaignRepository) GetCampaignsByCodes(ctx context.Context, codes []string) ([]domain.Campaign, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE tracking_code = ANY($1)`, codes)
	if err != nil {
		return nil, storeErr(err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Campaign, error) {
		c, err := scanCampaign(row)
		if err != nil {
			return domain.Campaign{}, err
		}
		return *c, nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

func (r *CampaignRepository) ListCampaigns(ctx context.Context, ownerID string) ([]domain.Campaign, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+campaignColumns+` FROM campaigns
		 WHERE status <> 'deleted' AND ($1 = '' OR owner_id = $1)
		 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, storeErr(err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Campaign, error) {
		c, err := scanCampaign(row)
		if err != nil {
			return domain.Campaign{}, err
		}
		return *c, nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

func (r *CampaignRepository) UpdateCampaign(ctx context.Context, code string, patch port.CampaignPatch) error {
	sets := []string{"updated_at = now()"}
	args := []any{code}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Source != nil {
		add("source", *patch.Source)
	}
	if patch.Medium != nil {
		add("medium", *patch.Medium)
	}
	if patch.Budget != nil {
		add("budget", *patch.Budget)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE campaigns SET `+strings.Join(sets, ", ")+` WHERE tracking_code = $1`, args...)
	if err != nil {
		return storeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", port.ErrNotFound, code)
	}
	return nil
}

func (r *CampaignRepository) SoftDeleteCampaign(ctx context.Context, code string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE campaigns SET status = 'deleted', deleted_at = now(), updated_at = now()
		 WHERE tracking_code = $1`, code)
	if err != nil {
		return storeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", port.ErrNotFound, code)
	}
	return nil
}

func (r *CampaignRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM campaigns WHERE tracking_code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, storeErr(err)
	}
	return exists, nil
}

// NextSequence allocates the next per-(category, year) sequence value
// with a single upsert, which Postgres executes atomically.
func (r *CampaignRepository) NextSequence(ctx context.Context, category string, year int) (int64, error) {
	var value int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO code_sequences (category, year, value) VALUES ($1, $2, 1)
		 ON CONFLICT (category, year) DO UPDATE SET value = code_sequences.value + 1
		 RETURNING value`, category, year).Scan(&value)
	if err != nil {
		return 0, storeErr(err)
	}
	return value, nil
}

func (r *CampaignRepository) AppendEvent(ctx context.Context, ev *domain.TrackingEvent) error {
	var metadata []byte
	if len(ev.Metadata) > 0 {
		var err error
		metadata, err = json.Marshal(ev.Metadata)
		if err != nil {
			return fmt.Errorf("%w: metadata: %v", port.ErrValidation, err)
		}
	}
	err := r.pool.QueryRow(ctx, `INSERT INTO tracking_events
		(tracking_code, type, value, session_id, metadata, occurred_at)
		VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		ev.TrackingCode, ev.Type, ev.Value, ev.SessionID, metadata, ev.OccurredAt).Scan(&ev.ID)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// ApplyCounters bumps the running totals and recomputes the stored
// CTR/ROI in one UPDATE. Every SET expression sees the pre-update row, so
// the derived fields are computed from old value + delta without any
// application-level read-modify-write.
func (r *CampaignRepository) ApplyCounters(ctx context.Context, code string, d port.CounterDelta) error {
	tag, err := r.pool.Exec(ctx, `UPDATE campaigns SET
		impressions = impressions + $2,
		clicks      = clicks + $3,
		conversions = conversions + $4,
		revenue     = revenue + $5,
		ctr = CASE WHEN impressions + $2 > 0
			THEN (clicks + $3)::double precision / (impressions + $2)
			ELSE 0 END,
		roi = CASE WHEN budget > 0
			THEN (revenue + $5 - budget) / budget * 100
			ELSE 0 END,
		updated_at = now()
		WHERE tracking_code = $1`,
		code, d.Impressions, d.Clicks, d.Conversions, d.Revenue)
	if err != nil {
		return storeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", port.ErrNotFound, code)
	}
	return nil
}

// AggregateEvents runs one GROUP BY (code, type) query for the whole code
// set; bulk dashboard reads never fan out into per-campaign queries.
func (r *CampaignRepository) AggregateEvents(ctx context.Context, codes []string, since time.Time) (map[string]domain.EventTotals, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT tracking_code, type, count(*), COALESCE(sum(value), 0)
		 FROM tracking_events
		 WHERE tracking_code = ANY($1) AND occurred_at >= $2
		 GROUP BY tracking_code, type`, codes, since)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	out := make(map[string]domain.EventTotals)
	for rows.Next() {
		var (
			code, kind string
			count      int64
			value      float64
		)
		if err = rows.Scan(&code, &kind, &count, &value); err != nil {
			return nil, storeErr(err)
		}
		t := out[code]
		switch domain.EventType(kind) {
		case domain.EventPageView:
			t.Impressions = count
		case domain.EventClick:
			t.Clicks = count
		case domain.EventConversion:
			t.Conversions = count
			t.Revenue = value
		}
		out[code] = t
	}
	if err = rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

func (r *CampaignRepository) TopPages(ctx context.Context, code string, since time.Time, limit int) ([]domain.PageCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT metadata->>'url' AS url, count(*) AS n
		 FROM tracking_events
		 WHERE tracking_code = $1 AND type = 'page_view' AND occurred_at >= $2
		   AND COALESCE(metadata->>'url', '') <> ''
		 GROUP BY url
		 ORDER BY n DESC, url
		 LIMIT $3`, code, since, limit)
	if err != nil {
		return nil, storeErr(err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PageCount, error) {
		var p domain.PageCount
		err := row.Scan(&p.URL, &p.Count)
		return p, err
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

func (r *CampaignRepository) ReferrerCounts(ctx context.Context, code string, since time.Time) (map[string]int64, error) {
	return r.metadataCounts(ctx, code, since, domain.MetaReferrer)
}

func (r *CampaignRepository) UserAgentCounts(ctx context.Context, code string, since time.Time) (map[string]int64, error) {
	return r.metadataCounts(ctx, code, since, domain.MetaUserAgent)
}

func (r *CampaignRepository) metadataCounts(ctx context.Context, code string, since time.Time, key string) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT metadata->>$3, count(*)
		 FROM tracking_events
		 WHERE tracking_code = $1 AND occurred_at >= $2
		   AND COALESCE(metadata->>$3, '') <> ''
		 GROUP BY 1`, code, since, key)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var (
			value string
			count int64
		)
		if err = rows.Scan(&value, &count); err != nil {
			return nil, storeErr(err)
		}
		out[value] = count
	}
	if err = rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

func (r *CampaignRepository) HourlyHistogram(ctx context.Context, code string, since time.Time) ([24]int64, error) {
	var buckets [24]int64
	rows, err := r.pool.Query(ctx,
		`SELECT EXTRACT(HOUR FROM occurred_at AT TIME ZONE 'UTC')::int, count(*)
		 FROM tracking_events
		 WHERE tracking_code = $1 AND occurred_at >= $2
		 GROUP BY 1`, code, since)
	if err != nil {
		return buckets, storeErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			hour  int
			count int64
		)
		if err = rows.Scan(&hour, &count); err != nil {
			return buckets, storeErr(err)
		}
		if hour >= 0 && hour < 24 {
			buckets[hour] = count
		}
	}
	if err = rows.Err(); err != nil {
		return buckets, storeErr(err)
	}
	return buckets, nil
}

// Compile-time check.
var _ port.CampaignRepository = (*CampaignRepository)(nil)
