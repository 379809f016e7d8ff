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

package stringutil

import (
	"fmt"

	"github.com/kballard/go-shellquote"
	"github.com/satori/go.uuid"
)

// UniqueName generates a name for files staged on a shared file system.
//
// Names stay unique across hosts running dsrctl at the same time.
func UniqueName(prefix string, suffix string) string {
	return prefix + fmt.Sprint(uuid.NewV4()) + suffix
}

// ShellQuote quotes a string so that a POSIX shell reads it as a single word
func ShellQuote(s string) string {
	return shellquote.Join(s)
}

// ShellJoin quotes each argument and joins them with spaces
func ShellJoin(args ...string) string {
	return shellquote.Join(args...)
}
