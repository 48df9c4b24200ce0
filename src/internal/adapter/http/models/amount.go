package models

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Amount keeps the literal text of a JSON number or string so that no float ever
// touches a monetary value. Parsing happens in the service layer.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*a = ""
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return errors.Wrap(err, "decode amount")
		}
		*a = Amount(text)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return errors.New("amount must be a number or a numeric string")
	}
	*a = Amount(number.String())
	return nil
}

func (a Amount) String() string {
	return string(a)
}
