package custom

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Datetime represents a datetime. It marshals to RFC3339 in UTC for both
// JSON and BSON so the persisted documents stay human-editable.
type Datetime time.Time

// MarshalJSON implements the json.Marshaler interface.
func (d Datetime) MarshalJSON() ([]byte, error) {
	if time.Time(d).IsZero() {
		return []byte(`""`), nil
	}
	return []byte(fmt.Sprintf(`%q`, time.Time(d).UTC().Format(time.RFC3339))), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (d *Datetime) UnmarshalJSON(text []byte) error {
	got := strings.Trim(string(text), `"`)
	if got == "" || got == "null" {
		*d = Datetime(time.Time{})
		return nil
	}

	t, err := time.Parse(time.RFC3339, got)
	if err != nil {
		return fmt.Errorf("invalid datetime %q: %w", got, err)
	}
	*d = Datetime(t)
	return nil
}

// MarshalBSONValue implements the bson.ValueMarshaler interface.
func (d Datetime) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if time.Time(d).IsZero() {
		return bson.TypeNull, nil, nil
	}
	return bson.MarshalValue(time.Time(d).UTC().Format(time.RFC3339))
}

// UnmarshalBSONValue implements the bson.ValueUnmarshaler interface.
func (d *Datetime) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t == bson.TypeNull {
		*d = Datetime(time.Time{})
		return nil
	}

	raw := bson.RawValue{Type: t, Value: data}
	got, ok := raw.StringValueOK()
	if !ok {
		return fmt.Errorf("invalid datetime, type %s not supported", t)
	}

	parsed, err := time.Parse(time.RFC3339, got)
	if err != nil {
		return fmt.Errorf("invalid datetime %q: %w", got, err)
	}
	*d = Datetime(parsed)
	return nil
}

// String implements the fmt.Stringer interface.
func (d Datetime) String() string {
	return time.Time(d).Format(time.RFC3339)
}
