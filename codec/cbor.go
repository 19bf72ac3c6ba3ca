package codec

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

// cborVersion is the format version the CBOR codec announces at handshake.
const cborVersion = 2

// CBOR is a compact binary codec backed by github.com/fxamacker/cbor/v2
// using the deterministic core encoding. It is faster and smaller on the
// wire than Gob, but handles only concrete, data-shaped values; it cannot
// carry interface values or self-referential graphs.
type CBOR struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// NewCBOR returns a CBOR codec with deterministic encoding options.
func NewCBOR() CBOR {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err) // static options, cannot fail
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(err)
	}
	return CBOR{enc: enc, dec: dec}
}

// Encode implements part of the Codec interface.
func (c CBOR) Encode(obj any) ([]byte, error) {
	data, err := c.enc.Marshal(obj)
	if err != nil {
		return nil, errors.Wrap(err, "cbor encode")
	}
	return data, nil
}

// Decode implements part of the Codec interface.
func (c CBOR) Decode(data []byte, obj any) error {
	if err := c.dec.Unmarshal(data, obj); err != nil {
		return errors.Wrap(err, "cbor decode")
	}
	return nil
}

// Version implements part of the Codec interface.
func (c CBOR) Version() int { return cborVersion }
