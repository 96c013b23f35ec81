package datasets

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Binary cache format, little endian throughout:
//
//	bytes 0-3   magic "GLE1"
//	byte  4     dtype tag (1 = float64, 2 = int32)
//	bytes 5-8   uint32 channel count
//	bytes 9-12  uint32 sample count
//	bytes 13-   row-major payload, one zstd frame
//
// The round trip is lossless: decoded arrays are bit-identical to what was
// encoded.

const cacheMagic = "GLE1"

const cacheHeaderSize = 13

const (
	dtypeFloat64 byte = 1
	dtypeInt32   byte = 2
)

// Shared zstd coders; EncodeAll/DecodeAll on these are safe for concurrent
// use. SpeedFastest keeps cache writes cheap relative to CSV parsing.
var (
	cacheEncoder *zstd.Encoder
	cacheDecoder *zstd.Decoder
)

func init() {
	var err error
	cacheEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		panic(fmt.Sprintf("create zstd encoder: %v", err))
	}
	cacheDecoder, err = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		panic(fmt.Sprintf("create zstd decoder: %v", err))
	}
}

func cacheHeader(dtype byte, channels, samples int) []byte {
	hdr := make([]byte, cacheHeaderSize)
	copy(hdr, cacheMagic)
	hdr[4] = dtype
	binary.LittleEndian.PutUint32(hdr[5:9], uint32(channels))
	binary.LittleEndian.PutUint32(hdr[9:13], uint32(samples))
	return hdr
}

func decodeCacheHeader(b []byte, wantDtype byte) (channels, samples int, err error) {
	if len(b) < cacheHeaderSize {
		return 0, 0, fmt.Errorf("cache too short (%d bytes): %w", len(b), ErrBadCache)
	}
	if string(b[:4]) != cacheMagic {
		return 0, 0, fmt.Errorf("bad cache magic %q: %w", b[:4], ErrBadCache)
	}
	if b[4] != wantDtype {
		return 0, 0, fmt.Errorf("cache dtype tag %d, want %d: %w", b[4], wantDtype, ErrBadCache)
	}
	channels = int(binary.LittleEndian.Uint32(b[5:9]))
	samples = int(binary.LittleEndian.Uint32(b[9:13]))
	return channels, samples, nil
}

// EncodeFloats serializes a float64 array to the binary cache form.
func EncodeFloats(a *FloatArray) []byte {
	payload := make([]byte, 8*len(a.Data))
	for i, v := range a.Data {
		binary.LittleEndian.PutUint64(payload[8*i:], math.Float64bits(v))
	}
	return cacheEncoder.EncodeAll(payload, cacheHeader(dtypeFloat64, a.Channels, a.Samples))
}

// DecodeFloats deserializes a float64 array from the binary cache form.
func DecodeFloats(b []byte) (*FloatArray, error) {
	channels, samples, err := decodeCacheHeader(b, dtypeFloat64)
	if err != nil {
		return nil, err
	}
	payload, err := cacheDecoder.DecodeAll(b[cacheHeaderSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("decompress cache payload: %w", ErrBadCache)
	}
	if len(payload) != 8*channels*samples {
		return nil, fmt.Errorf("cache payload is %d bytes, want %d: %w", len(payload), 8*channels*samples, ErrBadCache)
	}
	a := NewFloatArray(channels, samples)
	for i := range a.Data {
		a.Data[i] = math.Float64frombits(binary.LittleEndian.Uint64(payload[8*i:]))
	}
	return a, nil
}

// EncodeInts serializes an int32 array to the binary cache form.
func EncodeInts(a *IntArray) []byte {
	payload := make([]byte, 4*len(a.Data))
	for i, v := range a.Data {
		binary.LittleEndian.PutUint32(payload[4*i:], uint32(v))
	}
	return cacheEncoder.EncodeAll(payload, cacheHeader(dtypeInt32, a.Channels, a.Samples))
}

// DecodeInts deserializes an int32 array from the binary cache form.
func DecodeInts(b []byte) (*IntArray, error) {
	channels, samples, err := decodeCacheHeader(b, dtypeInt32)
	if err != nil {
		return nil, err
	}
	payload, err := cacheDecoder.DecodeAll(b[cacheHeaderSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("decompress cache payload: %w", ErrBadCache)
	}
	if len(payload) != 4*channels*samples {
		return nil, fmt.Errorf("cache payload is %d bytes, want %d: %w", len(payload), 4*channels*samples, ErrBadCache)
	}
	a := NewIntArray(channels, samples)
	for i := range a.Data {
		a.Data[i] = int32(binary.LittleEndian.Uint32(payload[4*i:]))
	}
	return a, nil
}

// WriteFloatCache encodes the array and writes it to path via a temp file
// rename, so a crash never leaves a truncated cache behind.
func WriteFloatCache(path string, a *FloatArray) error {
	return writeCacheFile(path, EncodeFloats(a))
}

// ReadFloatCache reads and decodes a float64 array cache file.
func ReadFloatCache(path string) (*FloatArray, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cache %s: %w", path, err)
	}
	a, err := DecodeFloats(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// WriteIntCache encodes the array and writes it to path via a temp file
// rename.
func WriteIntCache(path string, a *IntArray) error {
	return writeCacheFile(path, EncodeInts(a))
}

// ReadIntCache reads and decodes an int32 array cache file.
func ReadIntCache(path string) (*IntArray, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cache %s: %w", path, err)
	}
	a, err := DecodeInts(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

func writeCacheFile(path string, b []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write cache %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename cache %s: %w", path, err)
	}
	return nil
}
