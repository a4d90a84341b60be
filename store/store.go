/* Copyright 2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package store persists rule set sources by name.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Comcast/patmatch/rules"
)

// Entry is a rule set source as stored in a Store.
type Entry struct {
	// Name is the key for the entry.
	Name string `json:"name,omitempty"`

	// Source is the YAML or JSON representation of a
	// rules.RuleSet.
	Source string `json:"source"`

	Updated time.Time `json:"updated"`
}

// NotFound is returned when a Store has no entry with the given name.
type NotFound struct {
	Name string
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("rule set %q not found", e.Name)
}

// IsNotFound reports whether err is a *NotFound.
func IsNotFound(err error) bool {
	_, is := err.(*NotFound)
	return is
}

// Store is a persistence interface for rule set sources.
type Store interface {
	Put(ctx context.Context, e *Entry) error

	Get(ctx context.Context, name string) (*Entry, error)

	// List returns the names of the stored entries in order.
	List(ctx context.Context) ([]string, error)

	Remove(ctx context.Context, name string) error
}

// Save checks that src parses as a rule set and then stores it under
// the given name.
func Save(ctx context.Context, s Store, name string, src []byte) error {
	if _, err := rules.Parse(src); err != nil {
		return err
	}
	return s.Put(ctx, &Entry{
		Name:    name,
		Source:  string(src),
		Updated: time.Now().UTC(),
	})
}

// Load gets the named entry and compiles its rule set.
func Load(ctx context.Context, s Store, name string, interpreters map[string]rules.Interpreter) (*rules.RuleSet, error) {
	e, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	rs, err := rules.Parse([]byte(e.Source))
	if err != nil {
		return nil, err
	}
	if rs.Name == "" {
		rs.Name = name
	}
	if err = rs.Compile(ctx, interpreters); err != nil {
		return nil, err
	}
	return rs, nil
}

// MemStore is a Store that lives only in memory.
type MemStore struct {
	sync.RWMutex
	entries map[string]*Entry
}

func NewMemStore() *MemStore {
	return &MemStore{
		entries: make(map[string]*Entry),
	}
}

func (s *MemStore) Put(ctx context.Context, e *Entry) error {
	s.Lock()
	acc := *e
	s.entries[e.Name] = &acc
	s.Unlock()
	return nil
}

func (s *MemStore) Get(ctx context.Context, name string) (*Entry, error) {
	s.RLock()
	defer s.RUnlock()
	e, have := s.entries[name]
	if !have {
		return nil, &NotFound{name}
	}
	acc := *e
	return &acc, nil
}

func (s *MemStore) List(ctx context.Context) ([]string, error) {
	s.RLock()
	acc := make([]string, 0, len(s.entries))
	for name := range s.entries {
		acc = append(acc, name)
	}
	s.RUnlock()
	sort.Strings(acc)
	return acc, nil
}

func (s *MemStore) Remove(ctx context.Context, name string) error {
	s.Lock()
	defer s.Unlock()
	if _, have := s.entries[name]; !have {
		return &NotFound{name}
	}
	delete(s.entries, name)
	return nil
}
