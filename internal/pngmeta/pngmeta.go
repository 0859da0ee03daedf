// Package pngmeta writes and reads PNG textual metadata chunks.
package pngmeta

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"io"
)

var (
	ErrNotPNG         = errors.New("not a png stream")
	ErrInvalidKeyword = errors.New("invalid png text keyword")
)

var signature = []byte("\x89PNG\r\n\x1a\n")

const (
	chunkIHDR = "IHDR"
	chunkTEXT = "tEXt"
	chunkZTXT = "zTXt"
	chunkITXT = "iTXt"

	maxChunkLength = 1<<31 - 1
)

// Encode writes img as a PNG with a single text chunk placed right after IHDR.
// Values that fit Latin-1 go to tEXt, anything else to an uncompressed iTXt.
func Encode(w io.Writer, img image.Image, key, value string) error {
	if err := checkKeyword(key); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	data, err := Insert(buf.Bytes(), key, value)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Insert returns a copy of the PNG stream data with a text chunk after IHDR.
func Insert(data []byte, key, value string) ([]byte, error) {
	if err := checkKeyword(key); err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, signature) {
		return nil, ErrNotPNG
	}

	// IHDR is always the first chunk: length(4) type(4) data(13) crc(4)
	end := len(signature) + 8 + 13 + 4
	if len(data) < end || string(data[len(signature)+4:len(signature)+8]) != chunkIHDR {
		return nil, fmt.Errorf("%w: missing IHDR", ErrNotPNG)
	}

	typ, body := textChunk(key, value)
	out := make([]byte, 0, len(data)+len(body)+12)
	out = append(out, data[:end]...)
	out = appendChunk(out, typ, body)
	out = append(out, data[end:]...)
	return out, nil
}

// ReadText returns every tEXt, zTXt and iTXt entry in the stream.
func ReadText(r io.Reader) (map[string]string, error) {
	sig := make([]byte, len(signature))
	if _, err := io.ReadFull(r, sig); err != nil || !bytes.Equal(sig, signature) {
		return nil, ErrNotPNG
	}

	entries := map[string]string{}
	header := make([]byte, 8)
	for {
		if _, err := io.ReadFull(r, header); err != nil {
			if errors.Is(err, io.EOF) {
				return entries, nil
			}
			return nil, fmt.Errorf("read chunk header: %w", err)
		}
		length := binary.BigEndian.Uint32(header[:4])
		typ := string(header[4:8])
		if length > maxChunkLength {
			return nil, fmt.Errorf("%w: %s chunk length %d", ErrNotPNG, typ, length)
		}

		body := make([]byte, int(length)+4)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, fmt.Errorf("read %s chunk: %w", typ, err)
		}
		body = body[:length]

		switch typ {
		case chunkTEXT:
			if k, v, ok := bytes.Cut(body, []byte{0}); ok {
				entries[fromLatin1(k)] = fromLatin1(v)
			}
		case chunkZTXT:
			k, v, err := parseZTXT(body)
			if err != nil {
				return nil, err
			}
			entries[k] = v
		case chunkITXT:
			k, v, err := parseITXT(body)
			if err != nil {
				return nil, err
			}
			entries[k] = v
		case "IEND":
			return entries, nil
		}
	}
}

func checkKeyword(key string) error {
	if len(key) == 0 || len(key) > 79 {
		return fmt.Errorf("%w: %q", ErrInvalidKeyword, key)
	}
	for _, r := range key {
		if r == 0 || r > 0xff {
			return fmt.Errorf("%w: %q", ErrInvalidKeyword, key)
		}
	}
	return nil
}

func textChunk(key, value string) (string, []byte) {
	k, _ := toLatin1(key)
	if v, ok := toLatin1(value); ok {
		body := append(k, 0)
		return chunkTEXT, append(body, v...)
	}

	// keyword NUL, compression flag, method, language NUL, translated keyword NUL
	body := append(k, 0, 0, 0, 0, 0)
	return chunkITXT, append(body, value...)
}

func appendChunk(out []byte, typ string, body []byte) []byte {
	out = binary.BigEndian.AppendUint32(out, uint32(len(body)))
	start := len(out)
	out = append(out, typ...)
	out = append(out, body...)
	return binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(out[start:]))
}

func parseZTXT(body []byte) (string, string, error) {
	k, rest, ok := bytes.Cut(body, []byte{0})
	if !ok || len(rest) < 1 {
		return "", "", fmt.Errorf("malformed %s chunk", chunkZTXT)
	}
	text, err := inflate(rest[1:])
	if err != nil {
		return "", "", fmt.Errorf("inflate %s chunk: %w", chunkZTXT, err)
	}
	return fromLatin1(k), fromLatin1(text), nil
}

func parseITXT(body []byte) (string, string, error) {
	k, rest, ok := bytes.Cut(body, []byte{0})
	if !ok || len(rest) < 2 {
		return "", "", fmt.Errorf("malformed %s chunk", chunkITXT)
	}
	compressed := rest[0] == 1
	rest = rest[2:]
	_, rest, ok = bytes.Cut(rest, []byte{0}) // language tag
	if !ok {
		return "", "", fmt.Errorf("malformed %s chunk", chunkITXT)
	}
	_, text, ok := bytes.Cut(rest, []byte{0}) // translated keyword
	if !ok {
		return "", "", fmt.Errorf("malformed %s chunk", chunkITXT)
	}
	if compressed {
		var err error
		if text, err = inflate(text); err != nil {
			return "", "", fmt.Errorf("inflate %s chunk: %w", chunkITXT, err)
		}
	}
	return fromLatin1(k), string(text), nil
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func toLatin1(s string) ([]byte, bool) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			return nil, false
		}
		out = append(out, byte(r))
	}
	return out, true
}

func fromLatin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
