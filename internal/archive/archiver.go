package archive

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"mathmemo-backend/internal/config"
	"mathmemo-backend/utilities"
)

// Record is the durability copy written next to the relational rows: the
// raw request as received plus the derived verdict metadata.
type Record struct {
	SessionID    string          `json:"session_id"`
	ProblemID    uint            `json:"problem_id"`
	ProblemName  string          `json:"problem_name"`
	CategoryName string          `json:"category_name"`
	Difficulty   int             `json:"difficulty"`
	Answer       string          `json:"answer"`
	IsCorrect    bool            `json:"is_correct"`
	Label        *int            `json:"label"`
	UploadedAt   time.Time       `json:"uploaded_at"`
	Payload      json.RawMessage `json:"payload"`
}

// Archiver uploads the compressed session record to object storage.
// Archival is best-effort: failures return an empty URL, never an error.
type Archiver interface {
	ArchiveSession(ctx context.Context, rec *Record) string
}

// objectPutter is the slice of *oss.Bucket the archiver needs; tests
// substitute a fake.
type objectPutter interface {
	PutObject(objectKey string, reader io.Reader, options ...oss.Option) error
}

type ossArchiver struct {
	putter   objectPutter
	endpoint string
	bucket   string
	prefix   string
}

// NewOSSArchiver validates the credentials and opens the bucket handle.
func NewOSSArchiver(cfg config.OSSConfig) (Archiver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := oss.New(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", cfg.Bucket, err)
	}

	return &ossArchiver{
		putter:   bucket,
		endpoint: cfg.Endpoint,
		bucket:   cfg.Bucket,
		prefix:   strings.Trim(cfg.Prefix, "/"),
	}, nil
}

func (a *ossArchiver) ArchiveSession(ctx context.Context, rec *Record) string {
	key := a.objectKey(rec)

	body, err := encodeRecord(rec)
	if err != nil {
		utilities.Error("archive %s: encode failed: %v", key, err)
		return ""
	}

	err = a.putter.PutObject(key, bytes.NewReader(body),
		oss.ContentType("application/json"),
		oss.ContentEncoding("gzip"),
		oss.WithContext(ctx),
	)
	if err != nil {
		utilities.Error("archive %s: upload failed: %v", key, err)
		return ""
	}

	return a.objectURL(key)
}

// objectKey derives the deterministic archive path from the problem and
// session identifiers.
func (a *ossArchiver) objectKey(rec *Record) string {
	key := fmt.Sprintf("problem_%d/%s.json.gz", rec.ProblemID, rec.SessionID)
	if a.prefix != "" {
		key = a.prefix + "/" + key
	}
	return key
}

func (a *ossArchiver) objectURL(key string) string {
	host := strings.TrimPrefix(strings.TrimPrefix(a.endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", a.bucket, host, key)
}

func encodeRecord(rec *Record) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if err := json.NewEncoder(gz).Encode(rec); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type disabledArchiver struct{}

// Disabled returns an archiver that skips uploads; used when the bucket
// is not configured.
func Disabled() Archiver {
	return disabledArchiver{}
}

func (disabledArchiver) ArchiveSession(ctx context.Context, rec *Record) string {
	return ""
}
