package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// RawRecord is one input row as supplied by a data source: an ISO-8601
// timestamp and a price that may be either a number or a numeric string.
type RawRecord struct {
	Timestamp string   `json:"timestamp" yaml:"timestamp"`
	Price     RawPrice `json:"price" yaml:"price"`
}

// RawPrice keeps the literal text of a price so coercion happens in one place.
type RawPrice struct {
	Text   string
	Quoted bool // true when the source carried the price as a string
}

// NumberPrice builds a RawPrice from a numeric literal.
func NumberPrice(v float64) RawPrice {
	return RawPrice{Text: strconv.FormatFloat(v, 'f', -1, 64)}
}

// StringPrice builds a RawPrice from a quoted string.
func StringPrice(s string) RawPrice {
	return RawPrice{Text: s, Quoted: true}
}

func (p *RawPrice) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*p = RawPrice{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = StringPrice(s)
		return nil
	}
	*p = RawPrice{Text: string(b)}
	return nil
}

func (p RawPrice) MarshalJSON() ([]byte, error) {
	if p.Quoted {
		return json.Marshal(p.Text)
	}
	if p.Text == "" {
		return []byte("null"), nil
	}
	if !json.Valid([]byte(p.Text)) {
		return json.Marshal(p.Text)
	}
	return []byte(p.Text), nil
}

func (p *RawPrice) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("price: expected scalar, got yaml kind %d", node.Kind)
	}
	quoted := node.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 || node.Tag == "!!str"
	*p = RawPrice{Text: node.Value, Quoted: quoted}
	return nil
}

func (p RawPrice) String() string { return p.Text }

// Sample is a validated, typed point of the price series.
type Sample struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

// Prices extracts the price column of a sample slice.
func Prices(samples []Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Price
	}
	return out
}
