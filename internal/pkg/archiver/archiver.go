// Package archiver packs rendered charts into zip archives and ships them to
// S3.
package archiver

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const titleLimit = 60

var (
	ErrFileAlreadyExists = errors.New("file already exists")
	ErrNoEntries         = errors.New("no entries to archive")

	unsafeTitle     = regexp.MustCompile(`[^\wáéíóúÁÉÍÓÚñÑ]+`)
	unsafeTypeTitle = regexp.MustCompile(`[^\w\-]+`)
)

// Entry is one file of an archive.
type Entry struct {
	Name    string
	Content []byte
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}

// Filename names the index-th chart (0-based) of an export after its title:
// the first 60 characters with every run of characters outside word
// characters and Spanish accented letters turned into "_".
func Filename(index int, title string) string {
	return fmt.Sprintf("%02d_%s.svg", index+1, unsafeTitle.ReplaceAllString(truncate(title, titleLimit), "_"))
}

// FilenameWithType is the lower-cased variant that also carries the chart
// type, used when several charts share a title.
func FilenameWithType(index int, title, chartType string) string {
	safe := truncate(unsafeTypeTitle.ReplaceAllString(strings.ToLower(title), "_"), titleLimit)
	return fmt.Sprintf("%02d_%s_%s.svg", index+1, safe, chartType)
}

// Zip writes entries, in order, as a zip archive to w.
func Zip(w io.Writer, entries []Entry) error {
	if len(entries) == 0 {
		return ErrNoEntries
	}

	zw := zip.NewWriter(w)
	for _, e := range entries {
		f, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Name,
			Method:   zip.Deflate,
			Modified: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			return errors.Wrapf(err, "failed to create zip entry %q", e.Name)
		}
		if _, err := f.Write(e.Content); err != nil {
			return errors.Wrapf(err, "failed to write zip entry %q", e.Name)
		}
	}
	return errors.Wrap(zw.Close(), "failed to finish zip archive")
}

// Archiver uploads finished archives to S3.
type Archiver struct {
	S3Client *s3.Client
	S3Bucket string

	// S3Prefix is for the files in the bucket with no leading slash but optionally (typically) with trailing slash
	// e.g. "exports/" or simply "" (empty string)
	S3Prefix string

	// Attempts bounds the PutObject retries. Zero means 3.
	Attempts uint
}

// Enabled reports whether a bucket is configured.
func (a *Archiver) Enabled() bool {
	return a != nil && a.S3Client != nil && a.S3Bucket != ""
}

// Key is the object key name is stored under.
func (a *Archiver) Key(name string) string {
	return a.S3Prefix + name
}

// Upload stores body under the prefixed name. An existing object is never
// overwritten: ErrFileAlreadyExists is returned instead.
func (a *Archiver) Upload(ctx context.Context, name string, body []byte) (string, error) {
	key := a.Key(name)
	logger := log.With().
		Str("evt.name", "archiver.upload").
		Str("bucket", a.S3Bucket).
		Str("key", key).
		Logger()

	if err := a.assertS3FileNonExistence(ctx, key); err != nil {
		return "", err
	}
	logger.Trace().Msg("asserted S3 file non-existence")

	attempts := a.Attempts
	if attempts == 0 {
		attempts = 3
	}

	err := retry.Do(
		func() error {
			_, err := a.S3Client.PutObject(ctx, &s3.PutObjectInput{
				Bucket:      aws.String(a.S3Bucket),
				Key:         aws.String(key),
				Body:        bytes.NewReader(body),
				ContentType: aws.String("application/zip"),
			})
			return err
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn().Err(err).Uint("attempt", n+1).Msg("PutObject failed, retrying")
		}),
	)
	if err != nil {
		return "", errors.Wrap(err, "failed to invoke PutObject")
	}

	logger.Info().Int("size", len(body)).Msg("uploaded archive")
	return key, nil
}

func (a *Archiver) assertS3FileNonExistence(ctx context.Context, key string) error {
	object, err := a.S3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) && ae.ErrorCode() == "NotFound" {
			return nil
		}
		return errors.Wrap(err, "failed to invoke HeadObject")
	}
	return errors.Wrap(ErrFileAlreadyExists, fmt.Sprintf("file %q already exists in s3 with LastModified %q", key, aws.ToTime(object.LastModified)))
}
