/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Document compression
 */

package client

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

// Compression values of the "compression" operation attribute
const (
	CompressionNone = "none"
	CompressionGzip = "gzip"
)

// gzipReader returns io.ReadCloser that reads gzip-compressed content
// of r. Compression runs in a separate goroutine; closing the returned
// reader terminates it
func gzipReader(r io.Reader) io.ReadCloser {
	pr, pw := io.Pipe()

	go func() {
		w := gzip.NewWriter(pw)
		_, err := io.Copy(w, r)
		err2 := w.Close()
		if err == nil {
			err = err2
		}
		pw.CloseWithError(err)
	}()

	return pr
}

// Decompress returns reader of decompressed document data, according
// to the value of the "compression" attribute. Unknown compression
// leaves data as is
func Decompress(r io.Reader, compression string) (io.ReadCloser, error) {
	if compression == CompressionGzip {
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return gr, nil
	}
	return io.NopCloser(r), nil
}
