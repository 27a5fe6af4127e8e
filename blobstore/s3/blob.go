package s3

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DownloadConfig configures parallel whole-object downloads.
type DownloadConfig struct {
	// PartSize is the size of each ranged GET. Default: 16MB.
	PartSize int64
	// Concurrency is the number of parts fetched in parallel. Default: 8.
	Concurrency int
}

// DefaultDownloadConfig returns the settings used when none are given.
func DefaultDownloadConfig() DownloadConfig {
	return DownloadConfig{
		PartSize:    16 * 1024 * 1024,
		Concurrency: 8,
	}
}

// s3Blob implements blobstore.Blob and blobstore.Downloader.
type s3Blob struct {
	client   Client
	bucket   string
	key      string
	size     int64
	download DownloadConfig
}

func (b *s3Blob) Close() error {
	return nil
}

func (b *s3Blob) Size() int64 {
	return b.size
}

func (b *s3Blob) get(ctx context.Context, off, end int64) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", off, end)),
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// ReadAt reads len(p) bytes starting at offset off with one ranged GET.
func (b *s3Blob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("s3: negative offset %d", off)
	}
	if off >= b.size {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	end := min(off+int64(len(p))-1, b.size-1)
	body, err := b.get(ctx, off, end)
	if err != nil {
		return 0, err
	}
	defer func() { _ = body.Close() }()

	want := int(end - off + 1)
	n, err := io.ReadFull(body, p[:want])
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return n, io.ErrUnexpectedEOF
		}
		return n, err
	}
	if want < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// ReadRange returns a reader for a range of bytes.
func (b *s3Blob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	if off < 0 || off >= b.size {
		return nil, io.EOF
	}
	end := min(off+length-1, b.size-1)
	return b.get(ctx, off, end)
}

// Download fetches the whole object into w with parallel ranged GETs.
func (b *s3Blob) Download(ctx context.Context, w io.WriterAt) (int64, error) {
	d := manager.NewDownloader(b.client, func(d *manager.Downloader) {
		if b.download.PartSize > 0 {
			d.PartSize = b.download.PartSize
		}
		if b.download.Concurrency > 0 {
			d.Concurrency = b.download.Concurrency
		}
	})
	return d.Download(ctx, w, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key),
	})
}
