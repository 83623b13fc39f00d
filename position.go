package goadjacent

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/samber/lo"
)

var _encoder = base64.RawURLEncoding

// Getters is a map of accessors for the record type. It must contain every
// column of the effective ordering, tiebreaker included.
// Example:
//
//	goadjacent.Getters[models.Message]{
//		"id":      func(m models.Message) any { return m.ID },
//		"created": func(m models.Message) any { return m.Created },
//	}
type Getters[T any] map[string]func(T) any

// Key is a column of a Position with the reference value for it.
type Key struct {
	Column string `json:"c"`
	Value  any    `json:"v"`
}

func (k Key) toConditionWithEquality() Condition {
	return Condition{
		Column:   k.Column,
		Operator: OperatorEQ,
		Value:    k.Value,
	}
}

// Position is the place of a reference record within an ordering: the
// effective ordering columns whose reference value is present, in ordering
// order.
//
// IMPORTANT:
// A position built from a record ALWAYS ends with the tiebreaker column unless
// the tiebreaker value is absent.
type Position struct {
	keys []Key
}

func NewPosition(keys ...Key) *Position {
	return &Position{
		keys: keys,
	}
}

// positionOf resolves the reference values of ref for every ordering column.
// Columns with an absent value are skipped.
func positionOf[T any](ref T, orderings Orderings, getters Getters[T]) (*Position, error) {
	keys := make([]Key, 0, len(orderings))

	for _, orderBy := range orderings {
		getter, ok := getters[orderBy.Column]
		if !ok {
			return nil, fmt.Errorf("cannot find getter for column '%s' met in ordering", orderBy.Column)
		}

		value, present, err := normalizeValue(getter(ref))
		if err != nil {
			return nil, fmt.Errorf("column '%s': %w", orderBy.Column, err)
		}
		if !present {
			continue
		}

		keys = append(keys, Key{Column: orderBy.Column, Value: value})
	}

	return &Position{keys: keys}, nil
}

// DecodePosition attempts to parse an encoded (base64) string into *Position.
// String values that parse as timestamps are decoded as time.Time.
func DecodePosition(b64String string) (*Position, error) {
	if len(b64String) == 0 {
		return nil, nil
	}

	jsonData, err := _encoder.DecodeString(b64String)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 encoded position: %w", err)
	}

	var keys []Key
	if err = json.Unmarshal(jsonData, &keys); err != nil {
		return nil, fmt.Errorf("failed to unmarshal json encoded position: %w", err)
	}

	for i := range keys {
		keys[i].Value = parseAnyValue(keys[i].Value)
	}

	return &Position{
		keys: keys,
	}, nil
}

func parseAnyValue(v any) any {
	// Try parsing a value as time.Time. If it succeeds, return time.Time.
	// Otherwise return the original value.
	fnParseBytesToTimeOrValue := func(vBytes []byte) any {
		dst := time.Time{}
		err := dst.UnmarshalText(vBytes)
		if err == nil {
			return dst
		}

		return v
	}

	switch vt := v.(type) {
	case string:
		return fnParseBytesToTimeOrValue([]byte(vt))
	case []byte:
		return fnParseBytesToTimeOrValue(vt)
	default:
		return v
	}
}

// String - implements fmt.Stringer.
func (p *Position) String() string {
	if p == nil || len(p.keys) == 0 {
		return ""
	}

	jTok, err := json.Marshal(p.keys)
	if err != nil {
		panic(fmt.Errorf("cannot marshal position value: %w", err))
	}

	var buf bytes.Buffer
	if err = json.Compact(&buf, jTok); err != nil {
		panic(fmt.Errorf("cannot compact position value: %w", err))
	}

	return _encoder.EncodeToString(buf.Bytes())
}

// IsEmpty reports whether the position has no keys, in which case there is
// nothing to seek from.
func (p *Position) IsEmpty() bool {
	return p == nil || len(p.keys) == 0
}

// GetKeys returns the keys of the position.
func (p *Position) GetKeys() []Key {
	if p == nil {
		return nil
	}

	return p.keys
}

// validate checks that the keys follow the ordering: every key column must
// be an ordering column, in the same relative order. Columns may be missing
// since absent values are skipped.
func (p *Position) validate(orderings Orderings) error {
	if p.IsEmpty() {
		return nil
	}

	cursor := 0
	for _, key := range p.keys {
		idx := -1
		for i := cursor; i < len(orderings); i++ {
			if orderings[i].Column == key.Column {
				idx = i
				break
			}
		}

		if idx == -1 {
			if _, ok := orderings.find(key.Column); ok {
				return fmt.Errorf("position column '%s' is out of ordering order", key.Column)
			}
			return fmt.Errorf("unexpected position column '%s'", key.Column)
		}

		cursor = idx + 1
	}

	return nil
}

// predicate builds the adjacency predicate for the position.
//
// For the keys [(C1, V1), (C2, V2) ... (Cn, Vn)] and strict operators Oi
// chosen from the ordering direction of Ci and the seek direction:
//
//	(C1 O1 V1) or (C1 = V1 and C2 O2 V2) or ... or (C1 = V1 and ... and Cn On Vn)
//
// The predicate holds exactly for records whose key tuple sorts strictly after
// (or before) the position. The position must be validated against orderings.
func (p *Position) predicate(orderings Orderings, seek SeekDirection) Predicate {
	if p.IsEmpty() {
		return nil
	}

	dnf := make(Predicate, 0, len(p.keys))
	for i, key := range p.keys {
		orderBy, _ := orderings.find(key.Column)

		previousKeysWithEqualityCondition := lo.Map(p.keys[:i], func(item Key, _ int) Condition {
			return item.toConditionWithEquality()
		})

		conjunction := make(Conjunction, 0, len(previousKeysWithEqualityCondition)+1)
		conjunction = append(conjunction, previousKeysWithEqualityCondition...)
		conjunction = append(conjunction, Condition{
			Column:   key.Column,
			Operator: seek.operatorFor(orderBy.Direction),
			Value:    key.Value,
		})

		dnf = append(dnf, conjunction)
	}

	return dnf
}

var _ fmt.Stringer = (*Position)(nil)
