package models

import "encoding/json"

// The closed enum types travel as their string names on the wire. Marshalling
// goes through String(); unmarshalling through the Parse helpers so malformed
// values surface as decode errors instead of zero values.

func marshalString(s string) ([]byte, error) {
	return json.Marshal(s)
}

func (f FloorLevel) MarshalJSON() ([]byte, error) { return marshalString(f.String()) }

func (f *FloorLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseFloorLevel(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (a AgeBracket) MarshalJSON() ([]byte, error) { return marshalString(a.String()) }

func (a *AgeBracket) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseAgeBracket(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (p PropertyType) MarshalJSON() ([]byte, error) { return marshalString(p.String()) }

func (p *PropertyType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParsePropertyType(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (d DemandLevel) MarshalJSON() ([]byte, error) { return marshalString(d.String()) }

func (d *DemandLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseDemandLevel(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (t Trend) MarshalJSON() ([]byte, error) { return marshalString(t.String()) }

func (t *Trend) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseTrend(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (s MarketSource) MarshalJSON() ([]byte, error) { return marshalString(s.String()) }

func (s *MarketSource) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseMarketSource(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (o Orientation) MarshalJSON() ([]byte, error) { return marshalString(o.String()) }

func (o *Orientation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseOrientation(s)
	if err != nil {
		return err
	}
	*o = v
	return nil
}

func (c Condition) MarshalJSON() ([]byte, error) { return marshalString(c.String()) }

func (c *Condition) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseCondition(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (f FinishQuality) MarshalJSON() ([]byte, error) { return marshalString(f.String()) }

func (f *FinishQuality) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseFinishQuality(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}
