package jsonrpc

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/wagiedev/mcp-client-go/internal/errors"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	errMissingVersion = stderrors.New("missing or unsupported protocol version marker")
	errMissingID      = stderrors.New("missing id")
	errMissingMethod  = stderrors.New("missing method")
)

// Encode serializes a message to a single line of JSON without the trailing newline.
//
// Returns EncodeError when the message holds a value that JSON cannot
// represent, such as a channel or a function.
func Encode(msg Message) ([]byte, error) {
	data, err := jsonAPI.Marshal(msg)
	if err != nil {
		return nil, &errors.EncodeError{Method: methodOf(msg), Err: err}
	}

	// Compact output escapes control characters inside strings, so a raw
	// newline can only come from a json.Marshaler that emits indented JSON.
	if bytes.IndexByte(data, '\n') >= 0 {
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return nil, &errors.EncodeError{Method: methodOf(msg), Err: err}
		}

		data = buf.Bytes()
	}

	return data, nil
}

// wireEnvelope captures every member a decoder needs to classify a line.
type wireEnvelope struct {
	Version       string          `json:"protocolVersion"`
	LegacyVersion string          `json:"jsonrpc"`
	ID            json.RawMessage `json:"id"`
	Method        string          `json:"method"`
	Params        json.RawMessage `json:"params"`
	Result        json.RawMessage `json:"result"`
	Error         json.RawMessage `json:"error"`
}

func parseEnvelope(line []byte) (*wireEnvelope, error) {
	var env wireEnvelope
	if err := jsonAPI.Unmarshal(line, &env); err != nil {
		return nil, &errors.DecodeError{RawData: string(line), Err: err}
	}

	if env.Version != Version && env.LegacyVersion != Version {
		return nil, &errors.DecodeError{RawData: string(line), Err: errMissingVersion}
	}

	return &env, nil
}

// parseID interprets the id member. A JSON null yields a nil id.
func parseID(line []byte, raw json.RawMessage) (*int64, error) {
	if !isPresent(raw) {
		return nil, nil
	}

	var id int64
	if err := jsonAPI.Unmarshal(raw, &id); err != nil {
		return nil, &errors.DecodeError{
			RawData: string(line),
			Err:     fmt.Errorf("id is not an integer: %w", err),
		}
	}

	return &id, nil
}

// Decode parses one line received from the server into a Response.
//
// The id member must be present; it may be null, as servers send for
// replies to unparseable requests. Returns DecodeError when the line is not
// valid JSON or lacks the protocol marker or id.
func Decode(line []byte) (*Response, error) {
	env, err := parseEnvelope(line)
	if err != nil {
		return nil, err
	}

	if len(env.ID) == 0 {
		return nil, &errors.DecodeError{RawData: string(line), Err: errMissingID}
	}

	id, err := parseID(line, env.ID)
	if err != nil {
		return nil, err
	}

	return &Response{
		Version: Version,
		ID:      id,
		Result:  env.Result,
		Error:   env.Error,
	}, nil
}

// DecodeCall parses one line received by a server into a Call.
// A line without an id is a notification.
func DecodeCall(line []byte) (*Call, error) {
	env, err := parseEnvelope(line)
	if err != nil {
		return nil, err
	}

	if env.Method == "" {
		return nil, &errors.DecodeError{RawData: string(line), Err: errMissingMethod}
	}

	id, err := parseID(line, env.ID)
	if err != nil {
		return nil, err
	}

	return &Call{ID: id, Method: env.Method, Params: env.Params}, nil
}

func methodOf(msg Message) string {
	switch m := msg.(type) {
	case *Request:
		return m.Method
	case *Notification:
		return m.Method
	default:
		return "response"
	}
}
