package livesync

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/atacadolink/atacadolink-backend/pkg/enums"
	pkgerrors "github.com/atacadolink/atacadolink-backend/pkg/errors"
	"github.com/google/uuid"
)

// Envelope is the wire shape of one full-collection snapshot. Feeds always
// carry the whole collection; there are no incremental patches.
type Envelope struct {
	Kind      enums.CollectionKind `json:"kind"`
	EmittedAt time.Time            `json:"emitted_at"`
	Records   json.RawMessage      `json:"records"`
}

// Snapshot is a decoded collection state keyed by record id.
type Snapshot[T any] struct {
	EmittedAt time.Time
	Records   map[uuid.UUID]T
}

// DecodeEnvelope parses and validates the outer snapshot envelope. Unknown
// fields, a missing kind, or a zero timestamp reject the whole message.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDecode, "snapshot payload is empty")
	}

	var envelope Envelope
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&envelope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDecode, err, "decoding snapshot envelope")
	}

	if !envelope.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeDecode, fmt.Sprintf("unknown collection kind %q", envelope.Kind))
	}
	if envelope.EmittedAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeDecode, "snapshot envelope missing emitted_at")
	}
	if len(envelope.Records) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDecode, "snapshot envelope missing records")
	}

	return &envelope, nil
}

// DecodeSnapshot validates the envelope against the expected kind and decodes
// its records into the typed collection state. One malformed record rejects
// the whole snapshot rather than applying it partially.
func DecodeSnapshot[T any](data []byte, want enums.CollectionKind) (*Snapshot[T], error) {
	envelope, err := DecodeEnvelope(data)
	if err != nil {
		return nil, err
	}
	if envelope.Kind != want {
		return nil, pkgerrors.New(pkgerrors.CodeDecode,
			fmt.Sprintf("snapshot kind %q arrived on the %q feed", envelope.Kind, want))
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(envelope.Records, &raw); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDecode, err, "decoding snapshot records")
	}

	records := make(map[uuid.UUID]T, len(raw))
	for key, value := range raw {
		id, err := uuid.Parse(key)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDecode, err, fmt.Sprintf("record key %q is not a uuid", key))
		}
		var record T
		decoder := json.NewDecoder(bytes.NewReader(value))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&record); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDecode, err, fmt.Sprintf("decoding record %s", id))
		}
		records[id] = record
	}

	return &Snapshot[T]{EmittedAt: envelope.EmittedAt, Records: records}, nil
}

// EncodeSnapshot builds the wire envelope for a full collection state.
func EncodeSnapshot[T any](kind enums.CollectionKind, emittedAt time.Time, records map[uuid.UUID]T) ([]byte, error) {
	keyed := make(map[string]T, len(records))
	for id, record := range records {
		keyed[id.String()] = record
	}
	rawRecords, err := json.Marshal(keyed)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot records: %w", err)
	}
	return json.Marshal(Envelope{
		Kind:      kind,
		EmittedAt: emittedAt.UTC(),
		Records:   rawRecords,
	})
}
