package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

func bytesReader(data []byte) io.Reader {
	return bytes.NewReader(data)
}

// expectDelim consumes the next JSON token and verifies it is the given
// delimiter, used by the order-preserving map decoders in node.go.
func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
