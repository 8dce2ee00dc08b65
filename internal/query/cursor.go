package query

import (
	"encoding/base64"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// attrValue is the cursor's wire shape for one DynamoDB attribute value: a
// single "S" or "N" key, matching the JSON a LastEvaluatedKey round-trips
// through in the HTTP API.
type attrValue struct {
	S *string `json:"S,omitempty"`
	N *string `json:"N,omitempty"`
}

// encodeCursor serializes a DynamoDB LastEvaluatedKey into the opaque,
// URL-safe base64 string handed back to the client. A nil or empty key
// (query exhausted) encodes to "".
func encodeCursor(key map[string]types.AttributeValue) string {
	if len(key) == 0 {
		return ""
	}
	wire := make(map[string]attrValue, len(key))
	for name, av := range key {
		switch v := av.(type) {
		case *types.AttributeValueMemberS:
			s := v.Value
			wire[name] = attrValue{S: &s}
		case *types.AttributeValueMemberN:
			n := v.Value
			wire[name] = attrValue{N: &n}
		}
	}
	body, err := json.Marshal(wire)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(body)
}

// decodeCursor reverses encodeCursor. Any malformed cursor is treated as
// absent, per the read API's contract: decodeCursor never returns an error,
// only a possibly-nil map.
func decodeCursor(cursor string) map[string]types.AttributeValue {
	if cursor == "" {
		return nil
	}
	body, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return nil
	}
	var wire map[string]attrValue
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil
	}
	key := make(map[string]types.AttributeValue, len(wire))
	for name, av := range wire {
		switch {
		case av.S != nil:
			key[name] = &types.AttributeValueMemberS{Value: *av.S}
		case av.N != nil:
			key[name] = &types.AttributeValueMemberN{Value: *av.N}
		}
	}
	if len(key) == 0 {
		return nil
	}
	return key
}
