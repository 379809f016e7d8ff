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

package sizeutil

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// ParseGB converts a size into GB rounded to two decimals.
//
// The size is either a plain number of GB as "5" or "2.5" or a human readable size as "5GB", "5 GiB" or "1500MB".
func ParseGB(size string) (float64, error) {
	size = strings.TrimSpace(size)
	gSize, err := strconv.ParseFloat(size, 64)
	if err != nil {
		// Not a number, so maybe a human readable size: we try to retrieve bytes
		var bsize uint64
		bsize, err = humanize.ParseBytes(size)
		if err != nil {
			return 0, errors.Errorf("Can't convert size %q to bytes value: %v", size, err)
		}
		gSize = float64(bsize) / humanize.GByte
	}
	if gSize < 0 {
		return 0, errors.Errorf("size %q is negative", size)
	}
	return math.Round(gSize*100) / 100, nil
}

// FormatGB returns a GB value as it is expected by the toolkit, e.g. "5" or "2.5"
func FormatGB(gb float64) string {
	return strconv.FormatFloat(gb, 'f', -1, 64)
}
