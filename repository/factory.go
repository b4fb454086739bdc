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
	"fmt"

	"github.com/tomoncle/bookseed/database"
)

// ForManager returns the repository matching the manager's backend. The
// manager must be connected.
func ForManager(manager database.AbstractDatabaseManager, collection string) (BookRepository, error) {
	switch m := manager.(type) {
	case database.MongoDatabaseManager:
		db := m.GetDatabase()
		if db == nil {
			return nil, database.ErrNotConnected
		}
		return NewMongoRepository(db.Collection(collection)), nil
	case database.SQLDatabaseManager:
		db := m.GetDB()
		if db == nil {
			return nil, database.ErrNotConnected
		}
		return NewSQLRepository(db, collection), nil
	default:
		return nil, fmt.Errorf("%w: %T", database.ErrUnsupportedBackend, manager)
	}
}
