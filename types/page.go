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
	"fmt"
	"strings"
)

// Condition compares one field against a value.
type Condition struct {
	Field string
	Op    Operator
	Value interface{}
}

func (c Condition) String() string {
	return fmt.Sprintf("%s %s %v", c.Field, c.Op.Desc(), c.Value)
}

// QueryFilter is a conjunction of conditions: a document matches when every
// condition holds. An empty filter matches everything.
type QueryFilter struct {
	Conditions []Condition
}

// NewQueryFilter creates a filter from the given conditions.
func NewQueryFilter(conds ...Condition) *QueryFilter {
	return &QueryFilter{Conditions: conds}
}

// Eq returns an equality condition.
func Eq(field string, v interface{}) Condition { return Condition{field, OpEq, v} }

// Ne returns an inequality condition.
func Ne(field string, v interface{}) Condition { return Condition{field, OpNe, v} }

// Gt returns a strictly-greater condition.
func Gt(field string, v interface{}) Condition { return Condition{field, OpGt, v} }

// Gte returns a greater-or-equal condition.
func Gte(field string, v interface{}) Condition { return Condition{field, OpGte, v} }

// Lt returns a strictly-less condition.
func Lt(field string, v interface{}) Condition { return Condition{field, OpLt, v} }

// Lte returns a less-or-equal condition.
func Lte(field string, v interface{}) Condition { return Condition{field, OpLte, v} }

// And appends conditions and returns the filter.
func (f *QueryFilter) And(conds ...Condition) *QueryFilter {
	f.Conditions = append(f.Conditions, conds...)
	return f
}

// IsEmpty reports whether the filter has no conditions.
func (f *QueryFilter) IsEmpty() bool {
	return f == nil || len(f.Conditions) == 0
}

func (f *QueryFilter) String() string {
	if f.IsEmpty() {
		return "{}"
	}
	parts := make([]string, len(f.Conditions))
	for i, c := range f.Conditions {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}

// SortField is one key of a sort specification.
type SortField struct {
	Field     string
	Direction SortDirection
}

// Asc sorts field lowest first.
func Asc(field string) SortField { return SortField{field, Ascending} }

// Desc sorts field highest first.
func Desc(field string) SortField { return SortField{field, Descending} }

// FindOptions describes a single find request.
type FindOptions struct {
	Filter *QueryFilter
	Sort   []SortField
	Skip   int
	Limit  int // 0 means no limit
}

// PageRequest describes pagination, optional filter, and ordering.
type PageRequest struct {
	page     int
	pageSize int
	filter   *QueryFilter
	orders   []SortField
}

func (p *PageRequest) GetPageSize() int {
	if p.pageSize < 1 {
		p.pageSize = 10
	}
	return p.pageSize
}

func (p *PageRequest) GetPage() int {
	if p.page < 1 {
		p.page = 1
	}
	return p.page
}

func (p *PageRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

func (p *PageRequest) GetFilter() *QueryFilter {
	return p.filter
}

func (p *PageRequest) GetOrders() []SortField {
	return p.orders
}

// FindOptions converts the page into skip/limit find options.
func (p *PageRequest) FindOptions() FindOptions {
	return FindOptions{
		Filter: p.filter,
		Sort:   p.orders,
		Skip:   p.GetOffset(),
		Limit:  p.GetPageSize(),
	}
}

// NewPageRequest constructs a PageRequest with filter and order settings.
func NewPageRequest(page int, pageSize int, filter *QueryFilter, orders []SortField) *PageRequest {
	return &PageRequest{page, pageSize, filter, orders}
}

// NewPageRequestWithOrders constructs a PageRequest with ordering only.
func NewPageRequestWithOrders(page int, pageSize int, orders ...SortField) *PageRequest {
	return NewPageRequest(page, pageSize, nil, orders)
}

// NewDefaultPageRequest constructs a PageRequest with no filter or ordering.
func NewDefaultPageRequest(page int, pageSize int) *PageRequest {
	return NewPageRequest(page, pageSize, nil, nil)
}

// Pagination holds paged result items along with pagination metadata.
type Pagination[T any] struct {
	Page     int
	PageSize int
	Total    int
	Items    []*T
}

// NewDefaultPagination constructs an empty pagination container.
func NewDefaultPagination[T any](page int, pageSize int) *Pagination[T] {
	return &Pagination[T]{page, pageSize, 0, make([]*T, 0)}
}

// Pages returns the number of pages needed to hold Total items.
func (p *Pagination[T]) Pages() int {
	if p.PageSize < 1 || p.Total == 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// IndexKey is one key of an index definition.
type IndexKey struct {
	Field     string
	Direction SortDirection
}

// IndexSpec describes a secondary index on one or more fields. Name is
// derived from the keys when empty.
type IndexSpec struct {
	Name string
	Keys []IndexKey
}

// NewIndexSpec builds an index over the given keys.
func NewIndexSpec(keys ...IndexKey) IndexSpec {
	return IndexSpec{Keys: keys}
}

// IndexName returns Name, or the engine-style default "field_1_other_-1".
func (s IndexSpec) IndexName() string {
	if s.Name != "" {
		return s.Name
	}
	parts := make([]string, 0, len(s.Keys)*2)
	for _, k := range s.Keys {
		parts = append(parts, k.Field, fmt.Sprintf("%d", k.Direction.Number()))
	}
	return strings.Join(parts, "_")
}
