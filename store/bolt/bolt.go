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

// Package bolt is a store.Store backed by a BoltDB file.
package bolt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Comcast/patmatch/store"
	"github.com/Comcast/patmatch/util"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// Bucket holds the rule set entries.
var Bucket = []byte("rulesets")

func JS(x interface{}) string {
	js, err := json.Marshal(&x)
	if err != nil {
		panic(err)
	}
	return string(js)
}

type Store struct {
	Debug    bool
	filename string
	db       *bolt.DB
}

func NewStore(filename string) *Store {
	return &Store{
		filename: filename,
	}
}

// Open opens (or creates) the database file.
func (s *Store) Open() error {
	opts := &bolt.Options{
		Timeout: time.Second,
	}

	db, err := bolt.Open(s.filename, 0644, opts)
	if err != nil {
		return errors.Wrapf(err, "opening %s", s.filename)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(Bucket)
		return err
	})
	if err != nil {
		db.Close()
		return err
	}
	s.db = db
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) logf(format string, args ...interface{}) {
	if s.Debug {
		util.GetLogger().Debug().Msgf("BoltDB Store."+format, args...)
	}
}

func (s *Store) Put(ctx context.Context, e *store.Entry) error {
	s.logf("Put %s", e.Name)

	// To save some space, remove the name.
	js, err := json.Marshal(&store.Entry{
		Source:  e.Source,
		Updated: e.Updated,
	})
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(Bucket).Put([]byte(e.Name), js)
	})
}

func (s *Store) Get(ctx context.Context, name string) (*store.Entry, error) {
	s.logf("Get %s", name)
	var e *store.Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		js := tx.Bucket(Bucket).Get([]byte(name))
		if js == nil {
			return &store.NotFound{Name: name}
		}
		e = &store.Entry{}
		if err := json.Unmarshal(js, e); err != nil {
			return errors.Wrapf(err, "entry %s", name)
		}
		e.Name = name
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logf("Get %s found %s", name, JS(e))
	return e, nil
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	acc := make([]string, 0, 32)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(Bucket).Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			acc = append(acc, string(k))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logf("List found %d entries", len(acc))
	return acc, nil
}

func (s *Store) Remove(ctx context.Context, name string) error {
	s.logf("Remove %s", name)
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(Bucket)
		if b.Get([]byte(name)) == nil {
			return &store.NotFound{Name: name}
		}
		return b.Delete([]byte(name))
	})
}
