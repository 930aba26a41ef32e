package compare

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/sdejongh/copyjob/pkg/models"
	"github.com/sdejongh/copyjob/pkg/storage"
)

// digestBufferSize is the fixed read size used while hashing
const digestBufferSize = 4096

// Digester computes content digests of files with a streaming hash
type Digester struct {
	algorithm  models.DigestAlgorithm
	newHash    func() hash.Hash
	bufferPool *sync.Pool
}

// NewDigester creates a digester for the given algorithm. Unknown
// algorithms fall back to SHA-256.
func NewDigester(algorithm models.DigestAlgorithm) *Digester {
	d := &Digester{
		algorithm: algorithm,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, digestBufferSize)
				return &buf
			},
		},
	}

	switch algorithm {
	case models.DigestBLAKE3:
		d.newHash = func() hash.Hash { return blake3.New() }
	case models.DigestMD5:
		d.newHash = md5.New
	default:
		d.algorithm = models.DigestSHA256
		d.newHash = sha256.New
	}

	return d
}

// Sum returns the lowercase hex digest of the file at path
func (d *Digester) Sum(ctx context.Context, backend storage.Backend, path string) (string, error) {
	reader, err := backend.Open(ctx, path)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	hasher := d.newHash()

	// Get buffer from pool
	bufPtr := d.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer d.bufferPool.Put(bufPtr)

	for {
		n, err := reader.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Name returns the digest algorithm name
func (d *Digester) Name() string {
	return string(d.algorithm)
}
