// Package codec defines the object codecs used by objpipe to convert Go
// values to and from framed byte payloads.
package codec

// A Codec represents the ability to serialize and deserialize objects.
// A codec does not handle framing; every Encode produces a self-contained
// payload that a fresh Decode can consume. The methods of a Codec must be
// safe for use on independent payloads in any order.
type Codec interface {
	// Encode serializes obj into a payload.
	Encode(obj any) ([]byte, error)

	// Decode deserializes a payload into obj, which must be a pointer to
	// a value of a compatible type.
	Decode(data []byte, obj any) error

	// Version reports the codec format version announced during the pipe
	// handshake. The value must be in the range 0..255.
	Version() int
}
