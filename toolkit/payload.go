// Copyright 2019 Bull S.A.S. Atos Technologies - Bull, Rue Jean Jaures, B.P.68, 78340, Les Clayes-sous-Bois, France.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package toolkit

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// pyFloat is a float64 always encoded with a fractional part, so that the driver decodes it as a Python float
type pyFloat float64

// MarshalJSON implements json.Marshaler
func (f pyFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, errors.Errorf("unsupported float value %v", v)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return []byte(s), nil
}

// MarshalJSON implements json.Marshaler
//
// Floating point arguments keep their type on the Python side even when they hold an integral value.
func (c Call) MarshalJSON() ([]byte, error) {
	type payload Call
	p := payload(c)
	if c.Args != nil {
		p.Args = make([]interface{}, len(c.Args))
		for i, a := range c.Args {
			p.Args[i] = pythonValue(a)
		}
	}
	if c.Kwargs != nil {
		p.Kwargs = make(map[string]interface{}, len(c.Kwargs))
		for k, v := range c.Kwargs {
			p.Kwargs[k] = pythonValue(v)
		}
	}
	return json.Marshal(p)
}

func pythonValue(v interface{}) interface{} {
	switch x := v.(type) {
	case float64:
		return pyFloat(x)
	case float32:
		return pyFloat(x)
	case []float64:
		res := make([]pyFloat, len(x))
		for i := range x {
			res[i] = pyFloat(x[i])
		}
		return res
	}
	return v
}
