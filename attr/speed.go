package attr

import (
	"encoding/json"
	"strings"
)

//*******************************************
// raw speed values
//*******************************************

type SpeedKind byte

const (
	SPEED_MISSING SpeedKind = 0
	SPEED_NUMBER  SpeedKind = 1
	SPEED_TEXT    SpeedKind = 2
	SPEED_LIST    SpeedKind = 3
)

// SpeedRaw holds a speed limit as found in the source data.
//
// OSM maxspeed values come as plain numbers (km/h), strings with a unit
// ("25 mph"), lists of candidates for merged ways, or not at all.
// Normalizing happens in graph.ResolveSpeed, SpeedRaw only keeps the value.
type SpeedRaw struct {
	Kind   SpeedKind
	Number float64
	Text   string
	List   []SpeedRaw
}

func MissingSpeed() SpeedRaw {
	return SpeedRaw{Kind: SPEED_MISSING}
}
func NumberSpeed(value float64) SpeedRaw {
	return SpeedRaw{Kind: SPEED_NUMBER, Number: value}
}
func TextSpeed(value string) SpeedRaw {
	return SpeedRaw{Kind: SPEED_TEXT, Text: value}
}
func ListSpeed(values ...SpeedRaw) SpeedRaw {
	return SpeedRaw{Kind: SPEED_LIST, List: values}
}

// SpeedFromTag converts an OSM maxspeed tag, "35;45 mph" style values become lists.
func SpeedFromTag(tag string) SpeedRaw {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return MissingSpeed()
	}
	if !strings.Contains(tag, ";") {
		return TextSpeed(tag)
	}
	parts := strings.Split(tag, ";")
	values := make([]SpeedRaw, 0, len(parts))
	for _, part := range parts {
		values = append(values, TextSpeed(strings.TrimSpace(part)))
	}
	return ListSpeed(values...)
}

func (self SpeedRaw) MarshalJSON() ([]byte, error) {
	switch self.Kind {
	case SPEED_NUMBER:
		return json.Marshal(self.Number)
	case SPEED_TEXT:
		return json.Marshal(self.Text)
	case SPEED_LIST:
		values := self.List
		if values == nil {
			values = []SpeedRaw{}
		}
		return json.Marshal(values)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON never fails on valid JSON, unsupported shapes become SPEED_MISSING.
func (self *SpeedRaw) UnmarshalJSON(data []byte) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*self = _SpeedFromAny(value)
	return nil
}

func _SpeedFromAny(value any) SpeedRaw {
	switch v := value.(type) {
	case float64:
		return NumberSpeed(v)
	case string:
		return TextSpeed(v)
	case []any:
		values := make([]SpeedRaw, 0, len(v))
		for _, item := range v {
			values = append(values, _SpeedFromAny(item))
		}
		return ListSpeed(values...)
	default:
		return MissingSpeed()
	}
}
