package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	log "github.com/sirupsen/logrus"

	"github.com/astrbotdevs/astrctl/version"
)

const (
	userAgent = "astrctl/%s"

	schemeS3 = "s3"
)

// ObjectGetter is the part of the S3 API used to fetch archives from a bucket
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Downloader fetches remote files over http(s) or from S3 compatible storage
type Downloader struct {
	httpClient *http.Client

	s3Once   sync.Once
	s3Client ObjectGetter
	s3Err    error
}

var defaultDownloader = New()

// New returns a Downloader using http.DefaultClient and the default AWS credential chain
func New() *Downloader {
	return &Downloader{httpClient: http.DefaultClient}
}

// WithHTTPClient replaces the client used for http(s) downloads
func (d *Downloader) WithHTTPClient(client *http.Client) *Downloader {
	d.httpClient = client
	return d
}

// WithS3Client replaces the client used for s3:// downloads
func (d *Downloader) WithS3Client(client ObjectGetter) *Downloader {
	d.s3Once.Do(func() {})
	d.s3Client = client
	return d
}

// DownloadToFile downloads url into dstFile with the default Downloader
func DownloadToFile(ctx context.Context, url, dstFile string) error {
	return defaultDownloader.DownloadToFile(ctx, url, dstFile)
}

// DownloadToFile downloads fileURL into dstFile. The file is created or truncated;
// on failure the partially written file is removed. There is no retry.
func (d *Downloader) DownloadToFile(ctx context.Context, fileURL, dstFile string) error {
	log.Debugf("starting download from %s", fileURL)

	u, err := url.Parse(fileURL)
	if err != nil {
		return fmt.Errorf("invalid download URL %q: %w", fileURL, err)
	}

	out, err := os.Create(dstFile)
	if err != nil {
		return fmt.Errorf("failed to create destination file %q: %w", dstFile, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		err = d.downloadHTTP(ctx, fileURL, out)
	case schemeS3:
		err = d.downloadS3(ctx, u, out)
	default:
		err = fmt.Errorf("unsupported download URL scheme %q", u.Scheme)
	}

	if cerr := out.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("failed to close file %q: %w", dstFile, cerr)
	}

	if err != nil {
		if rerr := os.Remove(dstFile); rerr != nil && !os.IsNotExist(rerr) {
			log.Warnf("failed to remove partial download %q: %v", dstFile, rerr)
		}
		return err
	}

	log.Infof("successfully downloaded file to %s", dstFile)
	return nil
}

func (d *Downloader) downloadHTTP(ctx context.Context, fileURL string, out io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("User-Agent", fmt.Sprintf(userAgent, version.AstrBotVersion()))

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform HTTP request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Warnf("error closing response body: %v", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected HTTP status: %d", resp.StatusCode)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write response body to file: %w", err)
	}

	return nil
}

func (d *Downloader) downloadS3(ctx context.Context, u *url.URL, out io.Writer) error {
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return fmt.Errorf("invalid S3 URL %q: expected s3://bucket/key", u.String())
	}

	client, err := d.s3()
	if err != nil {
		return err
	}

	obj, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to get object %s from bucket %s: %w", key, bucket, err)
	}
	defer func() {
		if cerr := obj.Body.Close(); cerr != nil {
			log.Warnf("error closing object body: %v", cerr)
		}
	}()

	if _, err := io.Copy(out, obj.Body); err != nil {
		return fmt.Errorf("failed to write object body to file: %w", err)
	}

	return nil
}

func (d *Downloader) s3() (ObjectGetter, error) {
	d.s3Once.Do(func() {
		cfg, err := config.LoadDefaultConfig(context.Background())
		if err != nil {
			d.s3Err = fmt.Errorf("failed to load AWS config: %w", err)
			return
		}

		// custom endpoints (minio, localstack) only serve path style requests
		d.s3Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.UsePathStyle = cfg.BaseEndpoint != nil
		})
	})
	return d.s3Client, d.s3Err
}
