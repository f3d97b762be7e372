package payment

import (
	"encoding/json"

	"shopcore-payments/internal/adyen"
)

// ActionRecord is one entry of a payment's pending-action history: the
// gateway's opaque payment data token and the parameter keys the shopper must
// return with.
type ActionRecord struct {
	PaymentData string   `json:"payment_data"`
	Parameters  []string `json:"parameters"`
}

// NewActionRecord builds a record from a gateway action and its declared
// detail parameters. Duplicate keys collapse into one.
func NewActionRecord(action adyen.Action, details []adyen.ActionDetail) ActionRecord {
	return ActionRecord{
		PaymentData: action.PaymentData(),
		Parameters:  parameterKeys(details),
	}
}

func parameterKeys(details []adyen.ActionDetail) []string {
	seen := make(map[string]struct{}, len(details))
	keys := make([]string, 0, len(details))
	for _, d := range details {
		if _, ok := seen[d.Key]; ok {
			continue
		}
		seen[d.Key] = struct{}{}
		keys = append(keys, d.Key)
	}
	return keys
}

// ActionHistory reads a payment's stored extra data as its canonical array
// form. Entries stay opaque JSON so historic shapes pass through verbatim.
func ActionHistory(raw string) []json.RawMessage {
	return normalizeExtraData(raw)
}

// normalizeExtraData reads a stored extra-data string into the canonical
// array form. Entries are never re-typed; whatever shape a prior record has,
// it is carried as opaque JSON. Historic rows stored a single object instead
// of an array; those are wrapped. Empty and unreadable values normalize to no
// records.
func normalizeExtraData(raw string) []json.RawMessage {
	if raw == "" {
		return nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &records); err == nil {
		return records
	}

	var single map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		return []json.RawMessage{json.RawMessage(raw)}
	}

	return nil
}

// appendActionRecord appends one record to a stored extra-data string and
// returns the new serialized array. Prior entries are preserved byte for
// byte; only the appended record is typed. A record without parameters
// serializes them as an empty array, not null.
func appendActionRecord(raw string, record ActionRecord) (string, error) {
	if record.Parameters == nil {
		record.Parameters = []string{}
	}
	entry, err := json.Marshal(record)
	if err != nil {
		return "", err
	}

	records := append(normalizeExtraData(raw), entry)
	out, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
