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

package pattern

// Person is a record used by the tests.
type Person struct {
	FirstName string
	LastName  string
	Age       int
	Address   *Address
}

func (p Person) Member(name string) (any, bool) {
	switch name {
	case "firstName":
		return p.FirstName, true
	case "lastName":
		return p.LastName, true
	case "age":
		return p.Age, true
	case "address":
		if p.Address == nil {
			return nil, true
		}
		return p.Address, true
	}
	return nil, false
}

func (p Person) Component(n int) (any, bool) {
	switch n {
	case 1:
		return p.FirstName, true
	case 2:
		return p.LastName, true
	case 3:
		return p.Age, true
	}
	return nil, false
}

type Address struct {
	City string
}

func (a *Address) Member(name string) (any, bool) {
	if name == "city" {
		return a.City, true
	}
	return nil, false
}

// personPattern is what a generated record pattern for Person looks
// like.
func personPattern(first, last, age Pattern[any]) Pattern[any] {
	return Fields(
		Field{"firstName", first},
		Field{"lastName", last},
		Field{"age", age},
	)
}

// spy is a pattern that counts how many times it has been tested.
type spy struct {
	result bool
	calls  int
}

func (s *spy) Test(int) bool {
	s.calls++
	return s.result
}
