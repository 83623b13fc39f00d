package goadjacent

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type tScore int

func Test_normalizeValue(t *testing.T) {
	ten := 10
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name        string
		in          any
		want        any
		wantPresent bool
		wantErr     error
	}{
		{"untyped nil", nil, nil, false, nil},
		{"typed nil pointer", (*int)(nil), nil, false, nil},
		{"pointer is dereferenced", &ten, 10, true, nil},
		{"plain value", "abc", "abc", true, nil},
		{"invalid null time", sql.NullTime{}, nil, false, nil},
		{"valid null time", sql.NullTime{Time: now, Valid: true}, now, true, nil},
		{"valid null int", sql.NullInt64{Int64: 3, Valid: true}, int64(3), true, nil},
		{"nil valuer pointer", (*sql.NullString)(nil), nil, false, nil},
		{"pointer to valuer", &sql.NullString{String: "x", Valid: true}, "x", true, nil},
		{"failing valuer", tBrokenValuer{}, nil, false, errBrokenValuer},
		{"pointer to failing valuer", &tBrokenValuer{}, nil, false, errBrokenValuer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, present, err := normalizeValue(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantPresent, present)
			require.Equal(t, tt.want, got)
		})
	}
}

func Test_compareValues(t *testing.T) {
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	tests := []struct {
		name    string
		a, b    any
		want    int
		wantErr bool
	}{
		{"ints", 1, 2, -1, false},
		{"mixed int kinds", int32(5), int64(5), 0, false},
		{"named int kind", tScore(7), 3, 1, false},
		{"uint vs int", uint(3), 4, -1, false},
		{"negative int vs uint", -1, uint(0), -1, false},
		{"int vs float", 2, 2.5, -1, false},
		{"float vs float", 1.5, 1.5, 0, false},
		{"strings", "b", "a", 1, false},
		{"bools", false, true, -1, false},
		{"times", late, early, 1, false},
		{"bytes", []byte("a"), []byte("b"), -1, false},
		{"string vs int", "1", 1, 0, true},
		{"time vs string", early, "2024", 0, true},
		{"structs", struct{}{}, struct{}{}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := compareValues(tt.a, tt.b)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrIncomparable)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
