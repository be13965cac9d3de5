package snapshot

import (
	"bytes"
	"fmt"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

// Compression codecs, matching config.Compression*.
const (
	CodecNone   = "none"
	CodecSnappy = "snappy"
	CodecZSTD   = "zstd"
)

var (
	snappyMagic = []byte("\xff\x06\x00\x00sNaPpY")
	zstdMagic   = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Compress wraps data with the given codec. An empty codec means none.
func Compress(data []byte, codec string) ([]byte, error) {
	switch codec {
	case CodecNone, "":
		return data, nil
	case CodecSnappy:
		var buf bytes.Buffer
		w := snappy.NewBufferedWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("snappy compression failed: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("snappy compression failed: %w", err)
		}
		return buf.Bytes(), nil
	case CodecZSTD:
		enc, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		defer enc.Close()
		return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
	default:
		return nil, fmt.Errorf("unknown compression codec %q", codec)
	}
}

// DetectCodec reports the codec of a snapshot file from its leading bytes.
func DetectCodec(data []byte) string {
	switch {
	case bytes.HasPrefix(data, snappyMagic):
		return CodecSnappy
	case bytes.HasPrefix(data, zstdMagic):
		return CodecZSTD
	default:
		return CodecNone
	}
}

// Decompress unwraps data compressed by Compress, detecting the codec.
func Decompress(data []byte) ([]byte, string, error) {
	codec := DetectCodec(data)
	switch codec {
	case CodecSnappy:
		out, err := io.ReadAll(snappy.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, codec, fmt.Errorf("snappy decompression failed: %w", err)
		}
		return out, codec, nil
	case CodecZSTD:
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, codec, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, codec, fmt.Errorf("zstd decompression failed: %w", err)
		}
		return out, codec, nil
	default:
		return data, codec, nil
	}
}
