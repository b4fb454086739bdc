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

package database

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrUnsupportedBackend = errors.New("unsupported database backend")
	ErrNotConnected       = errors.New("database not connected")
	ErrEmptyConfig        = errors.New("database configuration cannot be empty")
)

// EngineError classifies an error returned by the database engine.
type EngineError int

const (
	UnknownErr EngineError = iota
	NoIndexErr
	NoColumnErr
	ExistIndexErr
	ExistColumnErr
	NoTableErr
	ExistTableErr
	DuplicateKeyErr
	NotNullViolationErr
	DataTruncatedErr
	InvalidTypeCastErr
)

func (e EngineError) String() string {
	switch e {
	case NoIndexErr:
		return "no_index"
	case NoColumnErr:
		return "no_column"
	case ExistIndexErr:
		return "exist_index"
	case ExistColumnErr:
		return "exist_column"
	case NoTableErr:
		return "no_table"
	case ExistTableErr:
		return "exist_table"
	case DuplicateKeyErr:
		return "duplicate_key"
	case NotNullViolationErr:
		return "not_null_violation"
	case DataTruncatedErr:
		return "data_truncated"
	case InvalidTypeCastErr:
		return "invalid_type_cast"
	default:
		return "unknown"
	}
}

var mysqlErrorNumbers = map[uint16]EngineError{
	1091: NoIndexErr,
	1054: NoColumnErr,
	1061: ExistIndexErr,
	1060: ExistColumnErr,
	1146: NoTableErr,
	1050: ExistTableErr,
	1062: DuplicateKeyErr,
	1048: NotNullViolationErr,
	1265: DataTruncatedErr,
}

// messageRules match PostgreSQL and SQLite error texts, lower-cased. Order
// matters: index rules come before the broader table rules.
var messageRules = []struct {
	kind    EngineError
	needles [][]string
}{
	{NoColumnErr, [][]string{{"sqlstate 42703"}, {"undefined column"}, {"no such column"}}},
	{NoIndexErr, [][]string{{"sqlstate 42704"}, {"no such index"}, {"does not exist", "index"}}},
	{NoTableErr, [][]string{{"sqlstate 42p01"}, {"undefined table"}, {"no such table"}, {"relation", "does not exist"}}},
	{ExistIndexErr, [][]string{{"already exists", "index"}}},
	{ExistTableErr, [][]string{{"already exists", "table"}, {"relation", "already exists"}}},
	{DuplicateKeyErr, [][]string{{"duplicate key value"}, {"unique constraint failed"}, {"sqlstate 23505"}}},
	{NotNullViolationErr, [][]string{{"not-null constraint"}, {"sqlstate 23502"}, {"not null constraint failed"}}},
	{DataTruncatedErr, [][]string{{"string data right truncation"}, {"sqlstate 22001"}, {"data truncated"}}},
	{InvalidTypeCastErr, [][]string{{"datatype mismatch"}, {"sqlstate 42804"}}},
}

// IsSqlError classifies err as returned by MySQL, PostgreSQL or SQLite.
func IsSqlError(err error) (is bool, kind EngineError) {
	if err == nil {
		return false, UnknownErr
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		if k, ok := mysqlErrorNumbers[mysqlErr.Number]; ok {
			return true, k
		}
		return true, UnknownErr
	}
	s := strings.ToLower(err.Error())
	for _, rule := range messageRules {
		for _, needles := range rule.needles {
			if containsAll(s, needles) {
				return true, rule.kind
			}
		}
	}
	return false, UnknownErr
}

// MongoDB server error codes used for classification.
const (
	mongoNamespaceNotFound    = 26
	mongoIndexOptionsConflict = 85
	mongoIndexKeySpecConflict = 86
	mongoIndexNotFound        = 27
)

// IsMongoError classifies err as returned by the MongoDB driver.
func IsMongoError(err error) (is bool, kind EngineError) {
	if err == nil {
		return false, UnknownErr
	}
	if mongo.IsDuplicateKeyError(err) {
		return true, DuplicateKeyErr
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch cmdErr.Code {
		case mongoNamespaceNotFound:
			return true, NoTableErr
		case mongoIndexOptionsConflict, mongoIndexKeySpecConflict:
			return true, ExistIndexErr
		case mongoIndexNotFound:
			return true, NoIndexErr
		default:
			return true, UnknownErr
		}
	}
	if strings.Contains(strings.ToLower(err.Error()), "ns not found") {
		return true, NoTableErr
	}
	return false, UnknownErr
}

// IsKind reports whether err classifies as kind on any supported engine.
func IsKind(err error, kind EngineError) bool {
	if ok, k := IsMongoError(err); ok && k == kind {
		return true
	}
	if ok, k := IsSqlError(err); ok && k == kind {
		return true
	}
	return false
}

func containsAll(s string, needles []string) bool {
	for _, n := range needles {
		if !strings.Contains(s, n) {
			return false
		}
	}
	return true
}
