package constructs

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"io"

	"github.com/cespare/xxhash"
	humanize "github.com/dustin/go-humanize"
)

// Field types usable in control objects, serialized as text.

// ErrInvalidPassword is returned when extracting an encrypted password fails.
var ErrInvalidPassword = errors.New("invalid password")

// ErrNoPasswordBlock is returned when PasswordBlock is not set.
var ErrNoPasswordBlock = errors.New("password cipher block not set")

// PasswordBlock is the cipher block used by the Password type to encrypt/decrypt
// a password.
//
// It must be set for the Password type to be serialized.
var PasswordBlock cipher.Block

const hashSize = 8

// Password is a string encrypted when serialized:
//
//	base64(<xxhash of iv+ciphertext><iv><ciphertext>)
type Password string

var (
	_ encoding.TextMarshaler   = Password("")
	_ encoding.TextUnmarshaler = (*Password)(nil)
)

// MarshalText makes Password implement encoding.TextMarshaler.
func (p Password) MarshalText() ([]byte, error) {
	if PasswordBlock == nil {
		return nil, ErrNoPasswordBlock
	}
	bs := PasswordBlock.BlockSize()

	buf := make([]byte, hashSize+bs+len(p))
	iv := buf[hashSize : hashSize+bs]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, err
	}
	stream := cipher.NewCTR(PasswordBlock, iv)
	stream.XORKeyStream(buf[hashSize+bs:], []byte(p))
	binary.LittleEndian.PutUint64(buf, xxhash.Sum64(buf[hashSize:]))

	encoded := make([]byte, base64.RawStdEncoding.EncodedLen(len(buf)))
	base64.RawStdEncoding.Encode(encoded, buf)
	return encoded, nil
}

// UnmarshalText makes Password implement encoding.TextUnmarshaler.
func (p *Password) UnmarshalText(text []byte) error {
	if PasswordBlock == nil {
		return ErrNoPasswordBlock
	}
	buf := make([]byte, base64.RawStdEncoding.DecodedLen(len(text)))
	if _, err := base64.RawStdEncoding.Decode(buf, text); err != nil {
		return ErrInvalidPassword
	}

	bs := PasswordBlock.BlockSize()
	if len(buf) < hashSize+bs {
		return ErrInvalidPassword
	}
	if xxhash.Sum64(buf[hashSize:]) != binary.LittleEndian.Uint64(buf[:hashSize]) {
		return ErrInvalidPassword
	}

	iv := buf[hashSize : hashSize+bs]
	ciphertext := buf[hashSize+bs:]
	stream := cipher.NewCTR(PasswordBlock, iv)
	stream.XORKeyStream(ciphertext, ciphertext)
	*p = Password(ciphertext)
	return nil
}

// BytesSize is a size in bytes written in human readable form, e.g. "10 MB".
type BytesSize uint64

var (
	_ encoding.TextMarshaler   = BytesSize(0)
	_ encoding.TextUnmarshaler = (*BytesSize)(nil)
)

func (sz BytesSize) String() string {
	return humanize.Bytes(uint64(sz))
}

// MarshalText makes BytesSize implement encoding.TextMarshaler.
func (sz BytesSize) MarshalText() ([]byte, error) {
	return []byte(sz.String()), nil
}

// UnmarshalText makes BytesSize implement encoding.TextUnmarshaler.
func (sz *BytesSize) UnmarshalText(text []byte) error {
	u, err := humanize.ParseBytes(string(text))
	if err != nil {
		return err
	}
	*sz = BytesSize(u)
	return nil
}
