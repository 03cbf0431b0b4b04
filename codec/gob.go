package codec

import (
	"bytes"
	"encoding/gob"
	"log"
)

type gobCodec struct {
	buf bytes.Buffer
}

var Gob SerializeType = RegisterCodec("Gob", newGobCodec())

func newGobCodec() *gobCodec {
	return &gobCodec{}
}

// Encode gob-encodes i.
func (c gobCodec) Encode(i interface{}) ([]byte, error) {
	var network bytes.Buffer        // Stand-in for a network connection
	enc := gob.NewEncoder(&network) // Will write to network.
	err := enc.Encode(i)
	if err != nil {
		log.Fatal("encode error:", err)
	}

	return network.Bytes(), nil
}

// Decode gob-decodes data into i.
func (c gobCodec) Decode(data []byte, i interface{}) error {
	dec := gob.NewDecoder(bytes.NewReader(data))
	err := dec.Decode(i)
	if err != nil {
		return err
	}
	return nil
}

func (c gobCodec) String() string {
	return "Gob"
}
