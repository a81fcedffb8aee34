// Package migrate copies item photos from HomeBox into matching Hearth items.
package migrate

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/Another0Noob/hearth-import/internal/homeboxapi"
	"github.com/Another0Noob/hearth-import/internal/imagecompress"
	"github.com/Another0Noob/hearth-import/internal/logging"
	"github.com/Another0Noob/hearth-import/internal/match"
)

// ErrEmptyCatalog means the target holds no items to match against.
var ErrEmptyCatalog = errors.New("target catalog is empty")

// Source lists items and serves their image attachments.
type Source interface {
	Items(ctx context.Context) ([]homeboxapi.Item, error)
	Attachment(ctx context.Context, itemID, attachmentID string) ([]byte, error)
}

// Target is the catalog that receives images.
type Target interface {
	Entries(ctx context.Context) ([]match.Entry[string], error)
	SetImage(ctx context.Context, ref, dataURL string) error
}

type Compressor interface {
	Compress(raw []byte) (*imagecompress.Result, error)
}

type Migrator struct {
	src    Source
	dst    Target
	comp   Compressor
	dryRun bool
	limit  int
	log    zerolog.Logger
	logSet bool
}

type Option func(*Migrator)

// WithDryRun matches and compresses but never writes to the target.
func WithDryRun(dry bool) Option {
	return func(m *Migrator) { m.dryRun = dry }
}

// WithLimit stops after n items with images; 0 means no limit.
func WithLimit(n int) Option {
	return func(m *Migrator) { m.limit = n }
}

// WithLogger sets the run logger. Without it Run logs to the context logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Migrator) {
		m.log = l
		m.logSet = true
	}
}

func New(src Source, dst Target, comp Compressor, opts ...Option) *Migrator {
	m := &Migrator{src: src, dst: dst, comp: comp, log: logging.Nop}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run migrates every source item that has an image. Failures on a single
// item are recorded in Stats and do not stop the run; the returned error is
// reserved for problems that prevent the run from starting or continuing.
func (m *Migrator) Run(ctx context.Context) (Stats, error) {
	var stats Stats
	log := m.log
	if !m.logSet {
		log = logging.FromContext(ctx)
	}

	entries, err := m.dst.Entries(ctx)
	if err != nil {
		return stats, fmt.Errorf("load catalog: %w", err)
	}
	if len(entries) == 0 {
		return stats, ErrEmptyCatalog
	}
	idx := match.BuildIndex(entries)
	log.Info().Int("entries", idx.Len()).Msg("catalog loaded")

	items, err := m.src.Items(ctx)
	if err != nil {
		return stats, fmt.Errorf("list source items: %w", err)
	}
	stats.Items = len(items)

	withImages := make([]homeboxapi.Item, 0, len(items))
	for _, it := range items {
		if it.HasImage() {
			withImages = append(withImages, it)
		}
	}
	stats.WithImages = len(withImages)
	if m.limit > 0 && len(withImages) > m.limit {
		withImages = withImages[:m.limit]
	}
	log.Info().
		Int("items", stats.Items).
		Int("with_images", stats.WithImages).
		Int("processing", len(withImages)).
		Msg("source items loaded")

	for i, it := range withImages {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		log.Debug().Int("n", i+1).Int("of", len(withImages)).Str("item", it.Name).Msg("processing")
		m.migrateItem(ctx, log, idx, it, &stats)
	}

	return stats, nil
}

func (m *Migrator) migrateItem(ctx context.Context, log zerolog.Logger, idx *match.Index[string], it homeboxapi.Item, stats *Stats) {
	stats.Processed++
	log = log.With().Str("item", it.Name).Logger()

	res := idx.Resolve(it.Name)
	stats.Record(res.Method)
	if !res.Matched() {
		ev := log.Warn()
		if c, ok := idx.Closest(it.Name); ok {
			ev = ev.Str("closest", c.Name).Float64("closest_score", c.Score)
		}
		ev.Msg("no matching hearth item")
		return
	}
	log = log.With().Str("target", res.Name).Str("match", res.Method.String()).Logger()
	if res.Method == match.MethodFuzzy {
		log.Info().Float64("score", res.Score).Msg("fuzzy match")
	}

	raw, err := m.src.Attachment(ctx, it.ID, it.ImageID)
	if err != nil {
		stats.fail(it.Name, fmt.Errorf("download image: %w", err))
		log.Error().Err(err).Msg("download failed")
		return
	}

	out, err := m.comp.Compress(raw)
	if err != nil {
		stats.CompressFailed++
		stats.fail(it.Name, fmt.Errorf("compress image: %w", err))
		log.Error().Err(err).Str("original", humanize.Bytes(uint64(len(raw)))).Msg("compression failed")
		return
	}
	stats.Compressed++
	log.Info().
		Str("format", string(out.Format)).
		Int("quality", out.Quality).
		Int("width", out.Width).
		Int("height", out.Height).
		Str("original", humanize.Bytes(uint64(len(raw)))).
		Str("size", humanize.Bytes(uint64(len(out.Data)))).
		Msg("compressed")

	if m.dryRun {
		return
	}
	if err := m.dst.SetImage(ctx, res.Reference, out.DataURL()); err != nil {
		stats.fail(it.Name, fmt.Errorf("write image: %w", err))
		log.Error().Err(err).Msg("update failed")
		return
	}
	stats.Imported++
	log.Info().Msg("image imported")
}
