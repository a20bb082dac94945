package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"poligrama.dev/backend/internal/app/appconfig"
	"poligrama.dev/backend/internal/constant"
	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/archiver"
	"poligrama.dev/backend/internal/pkg/observability"
)

// Archive is a built export.
type Archive struct {
	Name    string `json:"name"`
	Content []byte `json:"-"`
	Count   int    `json:"count"`
	// Key is the object key of the uploaded copy, if any.
	Key string `json:"key,omitempty"`
	// Path is the local copy written to the export directory, if any.
	Path string `json:"path,omitempty"`
}

type Export struct {
	Archiver *archiver.Archiver
	Dir      string
}

func NewExport(conf *appconfig.Config, s3Client *s3.Client) *Export {
	return &Export{
		Archiver: &archiver.Archiver{
			S3Client: s3Client,
			S3Bucket: conf.S3Bucket,
			S3Prefix: conf.S3Prefix,
			Attempts: 3,
		},
		Dir: conf.ExportDir,
	}
}

// Entries names every chart of charts after its position and title. Charts
// sharing a title also carry their chart type in the name.
func Entries(charts []model.SavedChart) []archiver.Entry {
	titles := make(map[string]int, len(charts))
	for _, c := range charts {
		titles[c.Title]++
	}

	entries := make([]archiver.Entry, len(charts))
	for i, c := range charts {
		name := archiver.Filename(i, c.Title)
		if titles[c.Title] > 1 {
			name = archiver.FilenameWithType(i, c.Title, string(c.ChartType))
		}
		entries[i] = archiver.Entry{Name: name, Content: []byte(c.SVG)}
	}
	return entries
}

// Build zips charts. The archive is also uploaded when a bucket is
// configured and copied to the export directory when one is set.
func (s *Export) Build(ctx context.Context, charts []model.SavedChart) (*Archive, error) {
	start := time.Now()

	var buf bytes.Buffer
	if err := archiver.Zip(&buf, Entries(charts)); err != nil {
		return nil, err
	}
	a := &Archive{
		Name:    constant.ExportArchiveName,
		Content: buf.Bytes(),
		Count:   len(charts),
	}
	sink := "download"

	if s.Archiver.Enabled() {
		key, err := s.Archiver.Upload(ctx, archiveObjectName(start), a.Content)
		if err != nil {
			return nil, errors.Wrap(err, "failed to upload export archive")
		}
		a.Key = key
		sink = "s3"
	}

	if s.Dir != "" {
		path := filepath.Join(s.Dir, strings.TrimSuffix(a.Name, ".zip")+"-"+start.UTC().Format("20060102T150405")+".zip")
		if err := writeFile(path, a.Content); err != nil {
			return nil, err
		}
		a.Path = path
	}

	observability.ExportDuration.WithLabelValues(sink).Observe(time.Since(start).Seconds())
	log.Info().
		Str("evt.name", "service.export.built").
		Int("count", a.Count).
		Int("bytes", len(a.Content)).
		Str("key", a.Key).
		Str("path", a.Path).
		Msg("export archive built")

	return a, nil
}

// ExportToDir writes every chart as its own SVG file under dir, plus the
// zip of all of them, and returns the written paths.
func (s *Export) ExportToDir(ctx context.Context, charts []model.SavedChart, dir string) ([]string, error) {
	if len(charts) == 0 {
		return nil, archiver.ErrNoEntries
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create export directory %s", dir)
	}

	entries := Entries(charts)
	paths := make([]string, 0, len(entries)+1)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		path := filepath.Join(dir, e.Name)
		if err := writeFile(path, e.Content); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	var buf bytes.Buffer
	if err := archiver.Zip(&buf, entries); err != nil {
		return paths, err
	}
	zipPath := filepath.Join(dir, constant.ExportArchiveName)
	if err := writeFile(zipPath, buf.Bytes()); err != nil {
		return paths, err
	}
	return append(paths, zipPath), nil
}

func archiveObjectName(t time.Time) string {
	return t.UTC().Format("2006/01/02") + "/" + ulid.Make().String() + ".zip"
}

func writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory of %s", path)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
