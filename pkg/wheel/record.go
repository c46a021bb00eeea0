// SPDX-License-Identifier: MPL-2.0

package wheel

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// HashAlgorithm is the digest name written in front of every RECORD hash.
const HashAlgorithm = "sha256"

// RecordEntry is one line of RECORD: an archive path, the unpadded
// base64url SHA-256 digest of its bytes, and its size. The RECORD file
// lists itself with an empty Digest.
type RecordEntry struct {
	Path   string
	Digest string
	Size   int64
}

// Digest returns the unpadded base64url SHA-256 digest of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// Hash returns the RECORD hash column ("sha256=<digest>"), or "" when the
// entry is unhashed.
func (e RecordEntry) Hash() string {
	if e.Digest == "" {
		return ""
	}
	return HashAlgorithm + "=" + e.Digest
}

// FormatRecord serializes entries followed by the unhashed line for the
// RECORD file itself at recordPath.
func FormatRecord(entries []RecordEntry, recordPath string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, e := range entries {
		if err := w.Write([]string{e.Path, e.Hash(), strconv.FormatInt(e.Size, 10)}); err != nil {
			return nil, err
		}
	}
	if err := w.Write([]string{recordPath, "", ""}); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadRecord parses RECORD content. Lines with an empty hash column (the
// RECORD file itself, signatures) are returned with an empty Digest and a
// zero Size.
func ReadRecord(r io.Reader) ([]RecordEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3

	var entries []RecordEntry
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
		}

		entry := RecordEntry{Path: fields[0]}
		if fields[1] != "" {
			algo, digest, ok := strings.Cut(fields[1], "=")
			if !ok || algo != HashAlgorithm || digest == "" {
				return nil, fmt.Errorf("%w: unsupported hash %q for %s", ErrMalformedRecord, fields[1], fields[0])
			}
			entry.Digest = digest
		}
		if fields[2] != "" {
			size, err := strconv.ParseInt(fields[2], 10, 64)
			if err != nil || size < 0 {
				return nil, fmt.Errorf("%w: invalid size %q for %s", ErrMalformedRecord, fields[2], fields[0])
			}
			entry.Size = size
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
