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

import (
	"encoding/json"
	"sort"
	"strings"
)

// Document is a loosely typed record: a projected book or a query plan.
type Document map[string]interface{}

// Documents is an ordered list of Document values.
type Documents []Document

// Keys returns the document field names sorted alphabetically.
func (d Document) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Only returns a copy holding just the named fields that are present.
func (d Document) Only(fields ...string) Document {
	out := make(Document, len(fields))
	for _, f := range fields {
		if v, ok := d[f]; ok {
			out[f] = normalizeValue(v)
		}
	}
	return out
}

// String renders the document as compact JSON with sorted keys.
func (d Document) String() string {
	b, err := json.Marshal(map[string]interface{}(d))
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Indent renders the document as indented JSON.
func (d Document) Indent() string {
	b, err := json.MarshalIndent(map[string]interface{}(d), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

func (ds Documents) String() string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = d.String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// normalizeValue turns driver byte slices into strings so text columns read
// back from SQL drivers compare equal to their document counterparts.
func normalizeValue(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
