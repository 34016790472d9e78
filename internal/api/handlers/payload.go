package handlers

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/anstrom/meterexporter/internal/ingest"
)

// Text is a payload field carrying an identifier. Clients send names and
// timestamps as strings or as bare JSON scalars; both are kept as text.
type Text string

// UnmarshalJSON accepts a JSON string or any other scalar literal.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(data)
	return nil
}

// Number is a numeric payload field. Only its presence is validated: numeric
// strings are parsed, and a value that cannot be read as a number is kept as
// NaN rather than rejected.
type Number float64

// UnmarshalJSON accepts a JSON number, a numeric string or a boolean.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0:
		*n = Number(math.NaN())
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = parseNumber(s)
	case string(data) == "true":
		*n = 1
	case string(data) == "false":
		*n = 0
	default:
		*n = parseNumber(string(data))
	}
	return nil
}

func parseNumber(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number(math.NaN())
	}
	return Number(f)
}

// MeterDeltaPayload is the body of POST /ht_meter.
type MeterDeltaPayload struct {
	MeterName       *Text   `json:"meterName" validate:"required,min=1"`
	PreviousReading *Number `json:"previousReading" validate:"required"`
	PresentReading  *Number `json:"presentReading" validate:"required"`
	Factor          *Number `json:"factor" validate:"required"`
	Timestamp       *Text   `json:"timestamp" validate:"required,min=1"`
}

// ToReading converts a validated payload.
func (p *MeterDeltaPayload) ToReading() ingest.MeterDelta {
	return ingest.MeterDelta{
		MeterName:       string(*p.MeterName),
		PreviousReading: float64(*p.PreviousReading),
		PresentReading:  float64(*p.PresentReading),
		Factor:          float64(*p.Factor),
		Timestamp:       string(*p.Timestamp),
	}
}

// BuildingReadingPayload is the body of POST /building_readings.
type BuildingReadingPayload struct {
	MeterName *Text   `json:"meterName" validate:"required,min=1"`
	Reading   *Number `json:"reading" validate:"required"`
	Building  *Text   `json:"building" validate:"required,min=1"`
	Timestamp *Text   `json:"timestamp" validate:"required,min=1"`
}

// ToReading converts a validated payload.
func (p *BuildingReadingPayload) ToReading() ingest.BuildingReading {
	return ingest.BuildingReading{
		MeterName: string(*p.MeterName),
		Building:  string(*p.Building),
		Reading:   float64(*p.Reading),
		Timestamp: string(*p.Timestamp),
	}
}

// TankLevelPayload is the body of POST /tank_level.
type TankLevelPayload struct {
	TankName *Text   `json:"tankName" validate:"required,min=1"`
	Level    *Number `json:"level" validate:"required"`
	Date     *Text   `json:"date" validate:"required,min=1"`
}

// ToReading converts a validated payload.
func (p *TankLevelPayload) ToReading() ingest.TankLevel {
	return ingest.TankLevel{
		TankName: string(*p.TankName),
		Level:    float64(*p.Level),
		Date:     string(*p.Date),
	}
}

// TankVolumePayload is the body of POST /tank_volume.
type TankVolumePayload struct {
	TankName *Text   `json:"tankName" validate:"required,min=1"`
	Diameter *Number `json:"diameter" validate:"required"`
	Level    *Number `json:"level" validate:"required"`
	Date     *Text   `json:"date" validate:"required,min=1"`
}

// ToReading converts a validated payload.
func (p *TankVolumePayload) ToReading() ingest.TankVolume {
	return ingest.TankVolume{
		TankName: string(*p.TankName),
		Diameter: float64(*p.Diameter),
		Level:    float64(*p.Level),
		Date:     string(*p.Date),
	}
}
