package model

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/turtacn/textselect/pkg/errors"
)

// Binary layout of a packed model image (all integers little-endian):
//
//	magic   [4]byte  "TSMI"
//	version uint16   currently 1
//	count   uint16   number of sections
//	per section:
//	  tagLen    uint16, tag bytes (UTF-8)
//	  optLen    uint32, options JSON
//	  paramsLen uint32, network parameter blob
//
// Unknown tags are skipped so images can carry forward-compatible extras.
var imageMagic = [4]byte{'T', 'S', 'M', 'I'}

// ImageVersion is the container format version this parser understands.
const ImageVersion uint16 = 1

// maxSectionSize guards against truncation bugs masquerading as huge
// allocations when a corrupt length field is read.
const maxSectionSize = 1 << 30

// Section is one tagged sub-model inside an image.
type Section struct {
	Tag     string
	Options *SubModelOptions
	Params  *NetworkParams
}

// Image is a parsed model image.  Sections preserve file order; lookup by
// tag goes through the Section method.
type Image struct {
	Version  uint16
	Sections []Section
}

// Section returns the section with the given tag, or nil.
func (img *Image) Section(tag string) *Section {
	for i := range img.Sections {
		if img.Sections[i].Tag == tag {
			return &img.Sections[i]
		}
	}
	return nil
}

// ParseImage parses a packed model image from memory.  Every structural
// failure is reported as a *errors.AppError with a model-loading code;
// ParseImage never panics on malformed input.
func ParseImage(data []byte) (*Image, error) {
	r := &imageReader{data: data}

	var magic [4]byte
	if err := r.read(magic[:]); err != nil {
		return nil, err
	}
	if magic != imageMagic {
		return nil, errors.New(errors.CodeModelImageMalformed, "bad magic").
			WithDetail(fmt.Sprintf("got %q", magic[:]))
	}

	version, err := r.uint16()
	if err != nil {
		return nil, err
	}
	if version != ImageVersion {
		return nil, errors.New(errors.CodeModelImageMalformed, "unsupported image version").
			WithDetail(fmt.Sprintf("got %d, want %d", version, ImageVersion))
	}

	count, err := r.uint16()
	if err != nil {
		return nil, err
	}

	img := &Image{Version: version}
	for i := 0; i < int(count); i++ {
		tag, err := r.lenPrefixedString()
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeModelImageMalformed,
				fmt.Sprintf("section %d: bad tag", i))
		}
		optBytes, err := r.lenPrefixedBytes()
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeModelImageMalformed,
				fmt.Sprintf("section %q: bad options block", tag))
		}
		paramBytes, err := r.lenPrefixedBytes()
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeModelImageMalformed,
				fmt.Sprintf("section %q: bad params block", tag))
		}

		if tag != TagSelection && tag != TagSharing {
			continue
		}

		opts, err := parseOptions(tag, optBytes)
		if err != nil {
			return nil, err
		}
		params, err := ParseNetworkParams(paramBytes)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeNetworkParams,
				fmt.Sprintf("section %q: bad network params", tag))
		}
		img.Sections = append(img.Sections, Section{Tag: tag, Options: opts, Params: params})
	}

	if r.remaining() != 0 {
		return nil, errors.New(errors.CodeModelImageMalformed, "trailing bytes after last section").
			WithDetail(fmt.Sprintf("%d bytes", r.remaining()))
	}
	return img, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// WriteImage — the inverse of ParseImage
// ─────────────────────────────────────────────────────────────────────────────

// ImageSectionSource is the input to WriteImage for one section.
type ImageSectionSource struct {
	Tag     string
	Options []byte // options JSON
	Params  []byte // serialized network parameters
}

// WriteImage serializes sections into the packed image layout.  It backs the
// test fixtures and the model packaging tooling; the byte layout is the
// single source of truth shared with ParseImage.
func WriteImage(sections []ImageSectionSource) []byte {
	var buf bytes.Buffer
	buf.Write(imageMagic[:])
	writeUint16(&buf, ImageVersion)
	writeUint16(&buf, uint16(len(sections)))
	for _, s := range sections {
		writeUint16(&buf, uint16(len(s.Tag)))
		buf.WriteString(s.Tag)
		writeUint32(&buf, uint32(len(s.Options)))
		buf.Write(s.Options)
		writeUint32(&buf, uint32(len(s.Params)))
		buf.Write(s.Params)
	}
	return buf.Bytes()
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

// ─────────────────────────────────────────────────────────────────────────────
// imageReader — bounds-checked cursor over the raw bytes
// ─────────────────────────────────────────────────────────────────────────────

type imageReader struct {
	data []byte
	pos  int
}

func (r *imageReader) remaining() int { return len(r.data) - r.pos }

func (r *imageReader) read(dst []byte) error {
	if r.remaining() < len(dst) {
		return errors.New(errors.CodeModelImageMalformed, "unexpected end of image").
			WithDetail(fmt.Sprintf("need %d bytes at offset %d, have %d", len(dst), r.pos, r.remaining()))
	}
	copy(dst, r.data[r.pos:r.pos+len(dst)])
	r.pos += len(dst)
	return nil
}

func (r *imageReader) uint16() (uint16, error) {
	var b [2]byte
	if err := r.read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func (r *imageReader) uint32() (uint32, error) {
	var b [4]byte
	if err := r.read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func (r *imageReader) lenPrefixedString() (string, error) {
	n, err := r.uint16()
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if err := r.read(b); err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *imageReader) lenPrefixedBytes() ([]byte, error) {
	n, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if n > maxSectionSize {
		return nil, errors.New(errors.CodeModelImageMalformed, "section length exceeds sanity bound").
			WithDetail(fmt.Sprintf("%d bytes", n))
	}
	b := make([]byte, n)
	if err := r.read(b); err != nil {
		return nil, err
	}
	return b, nil
}
