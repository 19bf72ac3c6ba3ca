package codec

import (
	"bytes"
	"encoding/gob"

	"github.com/pkg/errors"
)

// gobVersion is the format version the gob codec announces at handshake.
const gobVersion = 1

// Gob is a general-purpose codec backed by encoding/gob. It handles most
// Go object graphs, including interface values whose concrete types have
// been registered with gob.Register. Each payload carries its own type
// description, so payloads remain decodable across independent pipes.
type Gob struct{}

// NewGob returns a general-purpose gob codec.
func NewGob() Gob { return Gob{} }

// Encode implements part of the Codec interface.
func (Gob) Encode(obj any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(obj); err != nil {
		return nil, errors.Wrap(err, "gob encode")
	}
	return buf.Bytes(), nil
}

// Decode implements part of the Codec interface.
func (Gob) Decode(data []byte, obj any) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(obj); err != nil {
		return errors.Wrap(err, "gob decode")
	}
	return nil
}

// Version implements part of the Codec interface.
func (Gob) Version() int { return gobVersion }
