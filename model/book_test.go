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

package model

import "testing"

func TestBookString(t *testing.T) {
	b := &Book{Title: "The Hobbit", Author: "J.R.R. Tolkien", PublishedYear: 1937}
	if got := b.String(); got != `"The Hobbit" by J.R.R. Tolkien (1937)` {
		t.Fatalf("String() = %s", got)
	}
}

func TestIsField(t *testing.T) {
	for _, f := range Fields() {
		if !IsField(f) {
			t.Errorf("IsField(%q) = false", f)
		}
	}
	for _, f := range []string{"id", "_id", "isbn", "Title"} {
		if IsField(f) {
			t.Errorf("IsField(%q) = true", f)
		}
	}
	if len(Fields()) != 8 {
		t.Fatalf("fields = %v", Fields())
	}
}
