package paging

import (
	"bytes"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// maxTokenLength bounds the work done on untrusted input.
const maxTokenLength = 4096

var tokenEncoding = base64.RawURLEncoding

// Cursor is a decoded position in the (sort value, identity) order.
type Cursor struct {
	// Field is the sort field the cursor was issued for; empty for
	// identity-only cursors.
	Field string
	Value any
	ID    any
}

type envelope struct {
	ID    TypedValue  `json:"i"`
	Field string      `json:"f,omitempty"`
	Value *TypedValue `json:"v,omitempty"`
}

// Codec turns cursors into opaque ASCII tokens and back.
// A Codec with a secret signs tokens with a keyed BLAKE2b-256 MAC.
type Codec struct {
	idField string
	key     []byte
}

// NewCodec returns a codec reading identities from idField. An empty secret
// disables signing.
func NewCodec(idField, secret string) *Codec {
	c := &Codec{idField: idField}
	if secret != "" {
		key := []byte(secret)
		if len(key) > blake2b.Size {
			sum := blake2b.Sum512(key)
			key = sum[:]
		}
		c.key = key
	}
	return c
}

// IDField returns the identity field name.
func (c *Codec) IDField() string { return c.idField }

// Signed reports whether tokens carry a MAC.
func (c *Codec) Signed() bool { return len(c.key) > 0 }

// Encode builds the token for doc's position under sortField. An empty
// sortField yields an identity-only cursor. A missing sort field value is
// encoded as null.
func (c *Codec) Encode(doc Document, sortField string) (string, error) {
	id, ok := doc.Get(c.idField)
	if !ok || id == nil {
		return "", fmt.Errorf("encode cursor: record has no %q", c.idField)
	}
	cur := Cursor{Field: sortField, ID: id}
	if sortField != "" {
		cur.Value, _ = doc.Get(sortField)
	}
	return c.EncodeCursor(cur)
}

// EncodeCursor encodes an explicit cursor.
func (c *Codec) EncodeCursor(cur Cursor) (string, error) {
	if cur.ID == nil {
		return "", fmt.Errorf("encode cursor: missing identity")
	}
	id, err := EncodeValue(cur.ID)
	if err != nil {
		return "", fmt.Errorf("encode cursor identity: %w", err)
	}
	env := envelope{ID: id, Field: cur.Field}
	if cur.Field != "" {
		v, err := EncodeValue(cur.Value)
		if err != nil {
			return "", fmt.Errorf("encode cursor value: %w", err)
		}
		env.Value = &v
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("encode cursor: %w", err)
	}

	token := tokenEncoding.EncodeToString(payload)
	if c.Signed() {
		token += "." + tokenEncoding.EncodeToString(c.sign(payload))
	}
	return token, nil
}

// Decode parses token. Every failure matches ErrInvalidCursor. Decoding
// checks structure only; a cursor pointing at a deleted record is valid.
func (c *Codec) Decode(token string) (*Cursor, error) {
	if token == "" {
		return nil, cursorError("empty token")
	}
	if len(token) > maxTokenLength {
		return nil, cursorError("token too long")
	}

	body, mac, signed := strings.Cut(token, ".")
	payload, err := tokenEncoding.DecodeString(body)
	if err != nil {
		return nil, cursorError("not base64")
	}
	switch {
	case c.Signed() && !signed:
		return nil, cursorError("missing signature")
	case !c.Signed() && signed:
		return nil, cursorError("unexpected signature")
	case c.Signed():
		got, err := tokenEncoding.DecodeString(mac)
		if err != nil || subtle.ConstantTimeCompare(got, c.sign(payload)) != 1 {
			return nil, cursorError("bad signature")
		}
	}

	var env envelope
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&env); err != nil {
		return nil, cursorError("not a cursor payload")
	}
	if dec.More() {
		return nil, cursorError("trailing data")
	}
	if env.ID.T == "" {
		return nil, cursorError("missing identity")
	}
	id, err := DecodeValue(env.ID)
	if err != nil {
		return nil, cursorError("identity: " + err.Error())
	}
	if id == nil {
		return nil, cursorError("null identity")
	}

	cur := &Cursor{Field: env.Field, ID: id}
	switch {
	case env.Field == "" && env.Value != nil:
		return nil, cursorError("value without field")
	case env.Field != "" && env.Value == nil:
		return nil, cursorError("missing value")
	case env.Field != "":
		if cur.Value, err = DecodeValue(*env.Value); err != nil {
			return nil, cursorError("value: " + err.Error())
		}
	}
	return cur, nil
}

func (c *Codec) sign(payload []byte) []byte {
	h, err := blake2b.New256(c.key)
	if err != nil {
		// key length is bounded in NewCodec
		panic(err)
	}
	h.Write(payload)
	return h.Sum(nil)
}
