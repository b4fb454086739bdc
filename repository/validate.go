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

package repository

import (
	"errors"
	"fmt"

	"github.com/tomoncle/bookseed/model"
	"github.com/tomoncle/bookseed/types"
)

var (
	ErrUnknownField     = errors.New("unknown book field")
	ErrInvalidOperator  = errors.New("invalid filter operator")
	ErrInvalidDirection = errors.New("invalid sort direction")
	ErrEmptyIndex       = errors.New("index needs at least one key")
	ErrEmptyProjection  = errors.New("projection needs at least one field")
)

// Field names reach SQL as identifiers, so everything is checked against the
// Book fields before a query is built.
func validateFields(fields ...string) error {
	for _, f := range fields {
		if !model.IsField(f) {
			return fmt.Errorf("%w: %q", ErrUnknownField, f)
		}
	}
	return nil
}

func validateFilter(f *types.QueryFilter) error {
	if f.IsEmpty() {
		return nil
	}
	for _, c := range f.Conditions {
		if err := validateFields(c.Field); err != nil {
			return err
		}
		if !c.Op.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidOperator, string(c.Op))
		}
	}
	return nil
}

func validateSort(sort []types.SortField) error {
	for _, s := range sort {
		if err := validateFields(s.Field); err != nil {
			return err
		}
		if !s.Direction.IsValid() {
			return fmt.Errorf("%w: %d on %q", ErrInvalidDirection, int(s.Direction), s.Field)
		}
	}
	return nil
}

func validateFindOptions(opts types.FindOptions) error {
	if err := validateFilter(opts.Filter); err != nil {
		return err
	}
	if err := validateSort(opts.Sort); err != nil {
		return err
	}
	if opts.Skip < 0 || opts.Limit < 0 {
		return fmt.Errorf("skip and limit must not be negative: skip=%d limit=%d", opts.Skip, opts.Limit)
	}
	return nil
}

func validateIndex(spec types.IndexSpec) error {
	if len(spec.Keys) == 0 {
		return ErrEmptyIndex
	}
	for _, k := range spec.Keys {
		if err := validateFields(k.Field); err != nil {
			return err
		}
		if !k.Direction.IsValid() {
			return fmt.Errorf("%w: %d on %q", ErrInvalidDirection, int(k.Direction), k.Field)
		}
	}
	return nil
}
