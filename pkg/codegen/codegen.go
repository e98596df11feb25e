// Package codegen provides sequence-backed document code generation.
package codegen

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
)

// Strategy defines the code generation strategy.
type Strategy int

const (
	// StrategyStrict uses UPSERT ... RETURNING for every code.
	// Guarantees sequential codes without gaps.
	StrategyStrict Strategy = iota

	// StrategyCached allocates ranges of numbers in memory.
	// Much faster, but may produce gaps if the application restarts.
	StrategyCached
)

// Options configure code generation.
type Options struct {
	Strategy Strategy
	// RangeSize is the number of values to allocate at once in Cached strategy.
	// Default is 50.
	RangeSize int64
}

// DefaultOptions returns the standard options (Strict).
func DefaultOptions() *Options {
	return &Options{Strategy: StrategyStrict}
}

// Querier is the minimal database surface the generator needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Config holds code formatting configuration.
type Config struct {
	// Prefix added to all codes (e.g. "ALQ", "MOV").
	Prefix string

	// IncludeYear adds the period year to the code.
	IncludeYear bool

	// PadWidth is the minimum number width (default 5).
	PadWidth int

	// ResetPeriod: "year", "month", "never".
	ResetPeriod string
}

// DefaultConfig returns yearly-reset defaults.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
		ResetPeriod: "year",
	}
}

type cachedRange struct {
	current int64
	max     int64
}

// Generator issues document codes like ALQ-2026-00001 backed by the
// sys_sequences table.
type Generator struct {
	querier Querier

	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

// New creates a generator over the given querier (usually the pgx pool).
func New(querier Querier) *Generator {
	return &Generator{
		querier: querier,
		ranges:  make(map[string]*cachedRange),
	}
}

// Next generates the next code using the default config for prefix.
func (g *Generator) Next(ctx context.Context, prefix string) (string, error) {
	return g.NextFor(ctx, DefaultConfig(prefix), nil, time.Now())
}

// NextFor generates the next code for the given config, options and period.
// Pattern: PREFIX-YEAR-XXXXX (e.g. ALQ-2026-00001).
func (g *Generator) NextFor(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error) {
	if g == nil {
		return "", fmt.Errorf("codegen: generator is not initialized")
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	key := buildKey(cfg, period)

	var (
		num int64
		err error
	)
	switch opts.Strategy {
	case StrategyCached:
		num, err = g.nextCached(ctx, key, opts)
	default:
		num, err = g.nextStrict(ctx, key)
	}
	if err != nil {
		return "", err
	}

	return formatCode(cfg, period, num), nil
}

// SetNext sets the sequence value directly (for migrations and seeding).
func (g *Generator) SetNext(ctx context.Context, cfg Config, period time.Time, value int64) error {
	key := buildKey(cfg, period)

	var result int64
	err := g.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = $2
		RETURNING current_val
	`, key, value).Scan(&result)

	g.cacheMu.Lock()
	delete(g.ranges, key)
	g.cacheMu.Unlock()

	return err
}

func (g *Generator) nextStrict(ctx context.Context, key string) (int64, error) {
	var num int64
	err := g.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, key).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("codegen: next value for %s: %w", key, err)
	}
	return num, nil
}

func (g *Generator) nextCached(ctx context.Context, key string, opts *Options) (int64, error) {
	g.cacheMu.Lock()
	defer g.cacheMu.Unlock()

	rng, ok := g.ranges[key]
	if !ok {
		rng = &cachedRange{}
		g.ranges[key] = rng
	}

	if rng.current >= rng.max {
		size := opts.RangeSize
		if size <= 0 {
			size = 50
		}

		var newMax int64
		err := g.querier.QueryRow(ctx, `
			INSERT INTO sys_sequences (key, current_val)
			VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + $2
			RETURNING current_val
		`, key, size).Scan(&newMax)
		if err != nil {
			return 0, fmt.Errorf("codegen: reserve range for %s: %w", key, err)
		}

		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

func buildKey(cfg Config, period time.Time) string {
	switch cfg.ResetPeriod {
	case "month":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006_01"))
	case "year":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006"))
	default:
		return cfg.Prefix
	}
}

func formatCode(cfg Config, period time.Time, num int64) string {
	pad := cfg.PadWidth
	if pad == 0 {
		pad = 5
	}
	if cfg.IncludeYear {
		return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, period.Format("2006"), pad, num)
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, pad, num)
}

// ParseNumber extracts the numeric part after the last dash of a
// formatted code. Returns -1 if the code has no parsable number.
func ParseNumber(code string) int64 {
	idx := strings.LastIndexByte(code, '-')
	if idx < 0 || idx == len(code)-1 {
		return -1
	}
	num, err := strconv.ParseInt(code[idx+1:], 10, 64)
	if err != nil {
		return -1
	}
	return num
}
