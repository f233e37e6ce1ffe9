/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits every amount and balance carries.
const MoneyScale = 4

var (
	ErrMoneyPrecision = errors.New("amount has more than 4 fractional digits")
	ErrMoneyOverflow  = errors.New("amount is out of range")

	maxMoney = decimal.NewFromInt(int64(MaxMoney))
	minMoney = decimal.NewFromInt(int64(MinMoney))
)

// MaxMoney and MinMoney bound every amount and balance to what a NUMERIC(18,4) column holds,
// 99999999999999.9999 either side of zero.
const (
	MaxMoney Money = 999_999_999_999_999_999
	MinMoney Money = -MaxMoney
)

// Money is a fixed-point amount stored as minor units at MoneyScale.
// 1050.0000 is held as 10500000.
type Money int64

// ParseMoney parses decimal text such as "50", "50.5" or "-12.0001".
// Inputs with more than MoneyScale fractional digits are rejected, never rounded.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return NewMoneyFromDecimal(d)
}

// MustParseMoney is ParseMoney for literals known to be valid.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// NewMoneyFromDecimal converts d to minor units.
func NewMoneyFromDecimal(d decimal.Decimal) (Money, error) {
	shifted := d.Shift(MoneyScale)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, ErrMoneyPrecision
	}
	if shifted.GreaterThan(maxMoney) || shifted.LessThan(minMoney) {
		return 0, ErrMoneyOverflow
	}
	return Money(shifted.IntPart()), nil
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -MoneyScale)
}

// String renders the amount with exactly MoneyScale fractional digits.
func (m Money) String() string {
	return m.Decimal().StringFixed(MoneyScale)
}

func (m Money) inRange() bool {
	return m >= MinMoney && m <= MaxMoney
}

// Add returns m + o, failing when either operand or the result leaves [MinMoney, MaxMoney].
func (m Money) Add(o Money) (Money, error) {
	if !m.inRange() || !o.inRange() {
		return 0, ErrMoneyOverflow
	}
	sum := m + o
	if !sum.inRange() {
		return 0, ErrMoneyOverflow
	}
	return sum, nil
}

// Sub returns m - o, failing when either operand or the result leaves [MinMoney, MaxMoney].
func (m Money) Sub(o Money) (Money, error) {
	if !m.inRange() || !o.inRange() {
		return 0, ErrMoneyOverflow
	}
	diff := m - o
	if !diff.inRange() {
		return 0, ErrMoneyOverflow
	}
	return diff, nil
}

func (m Money) IsPositive() bool {
	return m > 0
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts both quoted decimal text and bare JSON numbers.
// Bare numbers are read from their literal text, so no float conversion takes place.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	parsed, err := ParseMoney(strings.Trim(s, `"`))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Scan reads NUMERIC columns, which the postgres driver hands over as text.
func (m *Money) Scan(value interface{}) error {
	var (
		parsed Money
		err    error
	)
	switch v := value.(type) {
	case nil:
		parsed = 0
	case []byte:
		parsed, err = ParseMoney(string(v))
	case string:
		parsed, err = ParseMoney(v)
	case int64:
		parsed, err = NewMoneyFromDecimal(decimal.NewFromInt(v))
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value writes the amount as decimal text so NUMERIC(18,4) receives it exactly.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}
