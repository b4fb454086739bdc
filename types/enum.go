/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by query types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// SortDirection is the order of a sort key, numbered the way the document
// engine spells it: 1 ascending, -1 descending.
type SortDirection int

const (
	Ascending  SortDirection = 1
	Descending SortDirection = -1
)

var _ BaseEnum = Ascending

func (d SortDirection) IsValid() bool { return d == Ascending || d == Descending }

func (d SortDirection) Number() int {
	if !d.IsValid() {
		return IllegalValue
	}
	return int(d)
}

// String returns the SQL keyword for the direction.
func (d SortDirection) String() string {
	switch d {
	case Ascending:
		return "ASC"
	case Descending:
		return "DESC"
	default:
		return IllegalName
	}
}

func (d SortDirection) Name() string {
	switch d {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	default:
		return IllegalName
	}
}

func (d SortDirection) Desc() string {
	switch d {
	case Ascending:
		return "lowest value first"
	case Descending:
		return "highest value first"
	default:
		return IllegalDesc
	}
}

// Operator is a comparison used by a filter condition.
type Operator string

const (
	OpEq  Operator = "$eq"
	OpNe  Operator = "$ne"
	OpGt  Operator = "$gt"
	OpGte Operator = "$gte"
	OpLt  Operator = "$lt"
	OpLte Operator = "$lte"
)

var _ BaseEnum = OpEq

var operatorSQL = map[Operator]string{
	OpEq:  "=",
	OpNe:  "<>",
	OpGt:  ">",
	OpGte: ">=",
	OpLt:  "<",
	OpLte: "<=",
}

var operatorOrder = []Operator{OpEq, OpNe, OpGt, OpGte, OpLt, OpLte}

func (o Operator) IsValid() bool {
	_, ok := operatorSQL[o]
	return ok
}

func (o Operator) Number() int {
	for i, op := range operatorOrder {
		if op == o {
			return i
		}
	}
	return IllegalValue
}

// String returns the document engine spelling, e.g. "$gt".
func (o Operator) String() string {
	if !o.IsValid() {
		return IllegalName
	}
	return string(o)
}

func (o Operator) Name() string { return o.String() }

// Desc returns the SQL comparison for the operator.
func (o Operator) Desc() string {
	if s, ok := operatorSQL[o]; ok {
		return s
	}
	return IllegalDesc
}
